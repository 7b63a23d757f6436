package storage

import (
	"context"

	"KidLearn/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence handle handed to a transaction body. Lookups of a
// single row return an *app_errors.NotFoundError when nothing matches.
type Store interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	ApprovedCourses(ctx context.Context) ([]models.Course, error)
	CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)

	ModulesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Module, error)
	CreateModule(ctx context.Context, module *models.Module) error
	UpdateModule(ctx context.Context, module *models.Module) error
	// DeleteModules removes the modules and every lesson they own.
	DeleteModules(ctx context.Context, ids []uuid.UUID) error

	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	// DeleteLessons removes the lessons and detaches any progress rows that
	// pointed at them.
	DeleteLessons(ctx context.Context, ids []uuid.UUID) error
	CountLessons(ctx context.Context, courseID uuid.UUID) (int, error)

	ChildByID(ctx context.Context, id uuid.UUID) (*models.Child, error)

	// CreateEnrollment returns app_errors.ErrAlreadyEnrolled when the child is
	// already enrolled in the course.
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	EnrollmentByChildAndCourse(ctx context.Context, childID, courseID uuid.UUID) (*models.Enrollment, error)
	EnrollmentsByChild(ctx context.Context, childID uuid.UUID) ([]models.Enrollment, error)
	EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error)
	UpdateEnrollmentProgress(ctx context.Context, e *models.Enrollment) error

	ProgressByLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*models.ChildProgress, error)
	CreateProgress(ctx context.Context, p *models.ChildProgress) error
	UpdateProgress(ctx context.Context, p *models.ChildProgress) error
	// CountCompletedLessons counts completed progress rows of the enrollment
	// whose lesson still belongs to the course.
	CountCompletedLessons(ctx context.Context, enrollmentID, courseID uuid.UUID) (int, error)
}

// TxRunner runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
