package content

import (
	"context"
	"fmt"
	"time"

	"KidLearn/internal/metrics"
	"KidLearn/internal/models"
	"KidLearn/internal/service/progress"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
)

// Sync makes the persisted tree of a course match in. A nil courseID creates a
// new course. All writes happen in one transaction; cache, search and media
// updates run after commit and only log their failures.
func (s *Service) Sync(ctx context.Context, courseID *uuid.UUID, in models.CourseTreeInput) (*models.SyncResult, error) {
	if err := ValidateTree(in, courseID == nil); err != nil {
		metrics.CourseSynced("invalid")
		return nil, err
	}

	var (
		result  *models.SyncResult
		dropped []string
	)
	err := s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		now := s.now()

		course, oldThumbnail, err := s.upsertCourse(ctx, st, courseID, in, now)
		if err != nil {
			return err
		}
		if oldThumbnail != "" && oldThumbnail != course.ThumbnailURL {
			dropped = append(dropped, oldThumbnail)
		}

		var current *models.CourseTree
		if courseID != nil {
			if current, err = loadTree(ctx, st, course.ID); err != nil {
				return err
			}
		}

		d := diffTree(current, in)
		stats, lessonMedia, err := applyDiff(ctx, st, course.ID, d, now)
		if err != nil {
			return err
		}
		dropped = append(dropped, lessonMedia...)

		if stats.LessonsCreated > 0 || stats.LessonsDeleted > 0 {
			if _, err := progress.RecomputeCourse(ctx, st, course.ID, now); err != nil {
				return fmt.Errorf("recompute enrollments: %w", err)
			}
		}

		tree, err := loadTree(ctx, st, course.ID)
		if err != nil {
			return err
		}
		skipped := d.skipped
		if skipped == nil {
			skipped = []models.SkippedNode{}
		}
		result = &models.SyncResult{Tree: tree, Stats: stats, Skipped: skipped}
		return nil
	})
	if err != nil {
		metrics.CourseSynced("error")
		return nil, err
	}

	metrics.CourseSynced("ok")
	metrics.SyncNodes("module", "created", result.Stats.ModulesCreated)
	metrics.SyncNodes("module", "updated", result.Stats.ModulesUpdated)
	metrics.SyncNodes("module", "deleted", result.Stats.ModulesDeleted)
	metrics.SyncNodes("lesson", "created", result.Stats.LessonsCreated)
	metrics.SyncNodes("lesson", "updated", result.Stats.LessonsUpdated)
	metrics.SyncNodes("lesson", "deleted", result.Stats.LessonsDeleted)
	metrics.SyncNodes("node", "skipped", len(result.Skipped))

	for _, n := range result.Skipped {
		s.log.Warn("course sync skipped node",
			"course_id", result.Tree.Course.ID,
			"kind", n.Kind,
			"id", n.ID,
			"path", n.Path,
			"reason", n.Reason,
		)
	}

	s.afterCommit(ctx, result.Tree, dropped)
	return result, nil
}

// upsertCourse loads or creates the course and applies the scalar fields that
// are present in the input. It returns the thumbnail URL the course had before.
func (s *Service) upsertCourse(ctx context.Context, st storage.Store, courseID *uuid.UUID, in models.CourseTreeInput, now time.Time) (*models.Course, string, error) {
	if courseID == nil {
		course := &models.Course{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
		applyCourseInput(course, in)
		if err := st.CreateCourse(ctx, course); err != nil {
			return nil, "", err
		}
		return course, "", nil
	}

	course, err := st.CourseByID(ctx, *courseID)
	if err != nil {
		return nil, "", err
	}
	oldThumbnail := course.ThumbnailURL
	applyCourseInput(course, in)
	course.UpdatedAt = now
	if err := st.UpdateCourse(ctx, course); err != nil {
		return nil, "", err
	}
	return course, oldThumbnail, nil
}

func applyCourseInput(c *models.Course, in models.CourseTreeInput) {
	c.Title = in.Title.Or(c.Title)
	c.Description = in.Description.Or(c.Description)
	c.AgeGroup = in.AgeGroup.Or(c.AgeGroup)
	if tags, ok := in.Tags.Get(); ok {
		c.Tags = models.NormalizeTags(tags)
	}
	if objectives, ok := in.LearningObjectives.Get(); ok {
		c.LearningObjectives = append([]string{}, objectives...)
	}
	c.ThumbnailURL = in.ThumbnailURL.Or(c.ThumbnailURL)
	c.IsApproved = in.IsApproved.Or(c.IsApproved)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.LearningObjectives == nil {
		c.LearningObjectives = []string{}
	}
}

// applyDiff writes creates and updates in submission order, then the
// deletions. It returns the media URLs the removed or rewritten lessons used.
func applyDiff(ctx context.Context, st storage.Store, courseID uuid.UUID, d treeDiff, now time.Time) (models.SyncStats, []string, error) {
	var (
		stats   models.SyncStats
		dropped []string
	)

	for _, mc := range d.modules {
		var module models.Module
		if mc.existing == nil {
			module = models.Module{
				CourseID:    courseID,
				Title:       mc.input.Title.Value,
				Description: mc.input.Description.Value,
				Order:       mc.input.Order.Or(mc.index),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := st.CreateModule(ctx, &module); err != nil {
				return stats, nil, err
			}
			stats.ModulesCreated++
		} else {
			module = *mc.existing
			module.Title = mc.input.Title.Or(module.Title)
			module.Description = mc.input.Description.Or(module.Description)
			module.Order = mc.input.Order.Or(module.Order)
			module.UpdatedAt = now
			if err := st.UpdateModule(ctx, &module); err != nil {
				return stats, nil, err
			}
			stats.ModulesUpdated++
		}

		for _, lc := range mc.lessons {
			if lc.existing == nil {
				lesson := newLesson(lc, module, now)
				if err := st.CreateLesson(ctx, &lesson); err != nil {
					return stats, nil, err
				}
				stats.LessonsCreated++
				continue
			}

			lesson := *lc.existing
			before := videoURL(lesson.Content)
			mergeLesson(&lesson, lc.input, module.ID, now)
			if before != "" && before != videoURL(lesson.Content) {
				dropped = append(dropped, before)
			}
			if err := st.UpdateLesson(ctx, &lesson); err != nil {
				return stats, nil, err
			}
			stats.LessonsUpdated++
		}
	}

	if len(d.deleteLessons) > 0 {
		ids := make([]uuid.UUID, 0, len(d.deleteLessons))
		for _, l := range d.deleteLessons {
			ids = append(ids, l.ID)
			if u := videoURL(l.Content); u != "" {
				dropped = append(dropped, u)
			}
		}
		if err := st.DeleteLessons(ctx, ids); err != nil {
			return stats, nil, err
		}
		stats.LessonsDeleted = len(ids)
	}
	if len(d.deleteModules) > 0 {
		if err := st.DeleteModules(ctx, d.deleteModules); err != nil {
			return stats, nil, err
		}
		stats.ModulesDeleted = len(d.deleteModules)
	}
	return stats, dropped, nil
}

func newLesson(lc lessonChange, module models.Module, now time.Time) models.Lesson {
	in := lc.input
	return models.Lesson{
		ModuleID:        module.ID,
		CourseID:        module.CourseID,
		Title:           in.Title.Value,
		Description:     in.Description.Value,
		Order:           in.Order.Or(lc.index),
		Type:            in.Type,
		DurationMinutes: in.DurationMinutes.Value,
		PointsReward:    in.PointsReward.Value,
		Content:         in.Content(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// mergeLesson applies present fields. The payload for the declared type
// replaces the old one; without a payload the old one survives only while the
// type is unchanged.
func mergeLesson(l *models.Lesson, in models.LessonInput, moduleID uuid.UUID, now time.Time) {
	l.ModuleID = moduleID
	l.Title = in.Title.Or(l.Title)
	l.Description = in.Description.Or(l.Description)
	l.Order = in.Order.Or(l.Order)
	l.DurationMinutes = in.DurationMinutes.Or(l.DurationMinutes)
	l.PointsReward = in.PointsReward.Or(l.PointsReward)

	if c := in.Content(); c != nil {
		l.Content = c
	} else if in.Type != l.Type {
		l.Content = nil
	}
	l.Type = in.Type
	l.UpdatedAt = now
}

func videoURL(c models.LessonContent) string {
	if v, ok := c.(*models.VideoContent); ok {
		return v.URL
	}
	return ""
}

func (s *Service) afterCommit(ctx context.Context, tree *models.CourseTree, dropped []string) {
	courseID := tree.Course.ID

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, courseID); err != nil {
			s.log.ErrorErr("failed to invalidate course tree cache", err, "course_id", courseID)
		}
	}

	if s.search != nil {
		var err error
		if tree.Course.IsApproved {
			err = s.search.Index(ctx, tree.Course)
		} else {
			err = s.search.Delete(ctx, courseID)
		}
		if err != nil {
			s.log.ErrorErr("failed to update course search index", err, "course_id", courseID)
		}
	}

	if s.media != nil && len(dropped) > 0 {
		s.removeMedia(ctx, tree, dropped)
	}
}

// removeMedia deletes dropped objects that nothing in the tree still points at.
func (s *Service) removeMedia(ctx context.Context, tree *models.CourseTree, dropped []string) {
	inUse := map[string]struct{}{tree.Course.ThumbnailURL: {}}
	for _, m := range tree.Modules {
		for _, l := range m.Lessons {
			if u := videoURL(l.Content); u != "" {
				inUse[u] = struct{}{}
			}
		}
	}

	seen := make(map[string]struct{}, len(dropped))
	for _, u := range dropped {
		if _, ok := inUse[u]; ok {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		if err := s.media.RemoveByURL(ctx, u); err != nil {
			s.log.ErrorErr("failed to remove media object", err, "url", u)
		}
	}
}
