package inmem

import (
	"context"
	"slices"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"

	"github.com/google/uuid"
)

func (s *tx) ChildByID(_ context.Context, id uuid.UUID) (*models.Child, error) {
	c, ok := s.t.children[id]
	if !ok {
		return nil, app_errors.NotFound("child", id)
	}
	return &c, nil
}

func (s *tx) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	for _, existing := range s.t.enrollments {
		if existing.ChildID == e.ChildID && existing.CourseID == e.CourseID {
			return app_errors.ErrAlreadyEnrolled
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.t.enrollments[e.ID] = copyEnrollment(*e)
	return nil
}

func (s *tx) EnrollmentByChildAndCourse(_ context.Context, childID, courseID uuid.UUID) (*models.Enrollment, error) {
	for _, e := range s.t.enrollments {
		if e.ChildID == childID && e.CourseID == courseID {
			e = copyEnrollment(e)
			return &e, nil
		}
	}
	return nil, app_errors.ErrEnrollmentNotFound
}

func (s *tx) EnrollmentsByChild(_ context.Context, childID uuid.UUID) ([]models.Enrollment, error) {
	return s.enrollmentsWhere(func(e models.Enrollment) bool { return e.ChildID == childID }), nil
}

func (s *tx) EnrollmentsByCourse(_ context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	return s.enrollmentsWhere(func(e models.Enrollment) bool { return e.CourseID == courseID }), nil
}

func (s *tx) enrollmentsWhere(keep func(models.Enrollment) bool) []models.Enrollment {
	var out []models.Enrollment
	for _, e := range s.t.enrollments {
		if keep(e) {
			out = append(out, copyEnrollment(e))
		}
	}
	slices.SortFunc(out, func(a, b models.Enrollment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (s *tx) UpdateEnrollmentProgress(_ context.Context, e *models.Enrollment) error {
	existing, ok := s.t.enrollments[e.ID]
	if !ok {
		return app_errors.NotFound("enrollment", e.ID)
	}
	existing.ProgressPercentage = e.ProgressPercentage
	existing.IsCompleted = e.IsCompleted
	existing.CompletedAt = copyTime(e.CompletedAt)
	existing.UpdatedAt = e.UpdatedAt
	s.t.enrollments[e.ID] = existing
	return nil
}

func (s *tx) ProgressByLesson(_ context.Context, enrollmentID, lessonID uuid.UUID) (*models.ChildProgress, error) {
	for _, p := range s.t.progress {
		if p.EnrollmentID == enrollmentID && p.LessonID != nil && *p.LessonID == lessonID {
			p = copyProgress(p)
			return &p, nil
		}
	}
	return nil, app_errors.NotFound("progress", lessonID)
}

func (s *tx) CreateProgress(_ context.Context, p *models.ChildProgress) error {
	if p.LessonID != nil {
		for _, existing := range s.t.progress {
			if existing.EnrollmentID == p.EnrollmentID && existing.ChildID == p.ChildID &&
				existing.LessonID != nil && *existing.LessonID == *p.LessonID {
				return app_errors.ErrProgressExists
			}
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.t.progress[p.ID] = copyProgress(*p)
	return nil
}

func (s *tx) UpdateProgress(_ context.Context, p *models.ChildProgress) error {
	if _, ok := s.t.progress[p.ID]; !ok {
		return app_errors.NotFound("progress", p.ID)
	}
	s.t.progress[p.ID] = copyProgress(*p)
	return nil
}

func (s *tx) CountCompletedLessons(_ context.Context, enrollmentID, courseID uuid.UUID) (int, error) {
	n := 0
	for _, p := range s.t.progress {
		if p.EnrollmentID != enrollmentID || !p.IsCompleted || p.LessonID == nil {
			continue
		}
		if l, ok := s.t.lessons[*p.LessonID]; ok && l.CourseID == courseID {
			n++
		}
	}
	return n, nil
}
