package content

import (
	"context"
	"strings"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
)

const searchLimit = 20

// ApprovedCourses lists every course learners may see.
func (s *Service) ApprovedCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		var err error
		courses, err = st.ApprovedCourses(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// CourseTree returns the tree of any course, approved or not.
func (s *Service) CourseTree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error) {
	var tree *models.CourseTree
	err := s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		var err error
		tree, err = loadTree(ctx, st, courseID)
		return err
	})
	return tree, err
}

// PublishedTree returns the tree of an approved course. Unapproved courses
// are reported as not found.
func (s *Service) PublishedTree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error) {
	if s.cache != nil {
		tree, err := s.cache.Tree(ctx, courseID)
		if err != nil {
			s.log.ErrorErr("failed to read course tree cache", err, "course_id", courseID)
		} else if tree != nil {
			return tree, nil
		}
	}

	tree, err := s.CourseTree(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !tree.Course.IsApproved {
		return nil, app_errors.NotFound("course", courseID)
	}

	if s.cache != nil {
		if err := s.cache.SetTree(ctx, tree); err != nil {
			s.log.ErrorErr("failed to cache course tree", err, "course_id", courseID)
		}
	}
	return tree, nil
}

// Search finds approved courses matching query. Without a search index it
// falls back to a case-insensitive match on title, description and tags.
func (s *Service) Search(ctx context.Context, query string) ([]models.Course, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ApprovedCourses(ctx)
	}

	if s.search == nil {
		all, err := s.ApprovedCourses(ctx)
		if err != nil {
			return nil, err
		}
		return filterCourses(all, query), nil
	}

	ids, err := s.search.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	var found []models.Course
	err = s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		found, err = st.CoursesByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	// the index can lag behind an unapproval
	out := make([]models.Course, 0, len(found))
	for _, c := range found {
		if c.IsApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func filterCourses(courses []models.Course, query string) []models.Course {
	q := strings.ToLower(query)
	out := make([]models.Course, 0)
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
			continue
		}
		for _, tag := range c.Tags {
			if strings.EqualFold(tag, query) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
