package inmem

import (
	"cmp"
	"context"
	"slices"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"

	"github.com/google/uuid"
)

func (s *tx) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := s.t.courses[id]
	if !ok {
		return nil, app_errors.NotFound("course", id)
	}
	c = copyCourse(c)
	return &c, nil
}

func (s *tx) CreateCourse(_ context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	s.t.courses[course.ID] = copyCourse(*course)
	return nil
}

func (s *tx) UpdateCourse(_ context.Context, course *models.Course) error {
	if _, ok := s.t.courses[course.ID]; !ok {
		return app_errors.NotFound("course", course.ID)
	}
	s.t.courses[course.ID] = copyCourse(*course)
	return nil
}

func (s *tx) ApprovedCourses(_ context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range s.t.courses {
		if c.IsApproved {
			out = append(out, copyCourse(c))
		}
	}
	slices.SortFunc(out, func(a, b models.Course) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *tx) CoursesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	out := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.t.courses[id]; ok {
			out = append(out, copyCourse(c))
		}
	}
	return out, nil
}

func (s *tx) ModulesByCourse(_ context.Context, courseID uuid.UUID) ([]models.Module, error) {
	var out []models.Module
	for _, m := range s.t.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b models.Module) int {
		return cmp.Or(
			cmp.Compare(a.Order, b.Order),
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

func (s *tx) CreateModule(_ context.Context, module *models.Module) error {
	if _, ok := s.t.courses[module.CourseID]; !ok {
		return app_errors.NotFound("course", module.CourseID)
	}
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	s.t.modules[module.ID] = *module
	return nil
}

func (s *tx) UpdateModule(_ context.Context, module *models.Module) error {
	if _, ok := s.t.modules[module.ID]; !ok {
		return app_errors.NotFound("module", module.ID)
	}
	s.t.modules[module.ID] = *module
	return nil
}

func (s *tx) DeleteModules(ctx context.Context, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.t.modules, id)
	}
	var lessons []uuid.UUID
	for id, l := range s.t.lessons {
		if _, ok := drop[l.ModuleID]; ok {
			lessons = append(lessons, id)
		}
	}
	return s.DeleteLessons(ctx, lessons)
}

func (s *tx) LessonsByCourse(_ context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range s.t.lessons {
		if l.CourseID == courseID {
			out = append(out, copyLesson(l))
		}
	}
	slices.SortFunc(out, func(a, b models.Lesson) int {
		return cmp.Or(
			cmp.Compare(a.ModuleID.String(), b.ModuleID.String()),
			cmp.Compare(a.Order, b.Order),
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

func (s *tx) LessonByID(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	l, ok := s.t.lessons[id]
	if !ok {
		return nil, app_errors.NotFound("lesson", id)
	}
	l = copyLesson(l)
	return &l, nil
}

func (s *tx) CreateLesson(_ context.Context, lesson *models.Lesson) error {
	if _, ok := s.t.modules[lesson.ModuleID]; !ok {
		return app_errors.NotFound("module", lesson.ModuleID)
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	s.t.lessons[lesson.ID] = copyLesson(*lesson)
	return nil
}

func (s *tx) UpdateLesson(_ context.Context, lesson *models.Lesson) error {
	if _, ok := s.t.lessons[lesson.ID]; !ok {
		return app_errors.NotFound("lesson", lesson.ID)
	}
	s.t.lessons[lesson.ID] = copyLesson(*lesson)
	return nil
}

func (s *tx) DeleteLessons(_ context.Context, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.t.lessons, id)
	}
	for id, p := range s.t.progress {
		if p.LessonID == nil {
			continue
		}
		if _, ok := drop[*p.LessonID]; ok {
			p.LessonID = nil
			s.t.progress[id] = p
		}
	}
	return nil
}

func (s *tx) CountLessons(_ context.Context, courseID uuid.UUID) (int, error) {
	n := 0
	for _, l := range s.t.lessons {
		if l.CourseID == courseID {
			n++
		}
	}
	return n, nil
}
