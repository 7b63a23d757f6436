package content

import (
	"context"

	"KidLearn/internal/models"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
)

// loadTree reads a course with its modules and lessons, each level sorted by order.
func loadTree(ctx context.Context, s storage.Store, courseID uuid.UUID) (*models.CourseTree, error) {
	course, err := s.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	modules, err := s.ModulesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.LessonsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return assembleTree(*course, modules, lessons), nil
}

// assembleTree expects lessons already sorted by order within each module.
func assembleTree(course models.Course, modules []models.Module, lessons []models.Lesson) *models.CourseTree {
	byModule := make(map[uuid.UUID][]models.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}

	tree := &models.CourseTree{Course: course, Modules: make([]models.ModuleTree, 0, len(modules))}
	for _, m := range modules {
		ls := byModule[m.ID]
		if ls == nil {
			ls = []models.Lesson{}
		}
		tree.Modules = append(tree.Modules, models.ModuleTree{Module: m, Lessons: ls})
	}
	return tree
}
