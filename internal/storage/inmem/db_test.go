package inmem

import (
	"context"
	"errors"
	"testing"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCourse(t *testing.T, db *DB) (course models.Course, module models.Module, lesson models.Lesson) {
	t.Helper()
	err := db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		course = models.Course{Title: "Animals", AgeGroup: models.AgeGroupPrimary}
		if err := s.CreateCourse(ctx, &course); err != nil {
			return err
		}
		module = models.Module{CourseID: course.ID, Title: "Farm"}
		if err := s.CreateModule(ctx, &module); err != nil {
			return err
		}
		lesson = models.Lesson{
			CourseID: course.ID,
			ModuleID: module.ID,
			Type:     models.LessonReading,
			Content:  &models.ReadingContent{Text: "Cows say moo"},
		}
		return s.CreateLesson(ctx, &lesson)
	})
	require.NoError(t, err)
	return course, module, lesson
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := New()
	course, _, _ := seedCourse(t, db)
	boom := errors.New("boom")

	err := db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		c, err := s.CourseByID(ctx, course.ID)
		require.NoError(t, err)
		c.Title = "Renamed"
		require.NoError(t, s.UpdateCourse(ctx, c))
		require.NoError(t, s.CreateModule(ctx, &models.Module{CourseID: course.ID, Title: "Zoo"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		c, err := s.CourseByID(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, "Animals", c.Title)
		modules, err := s.ModulesByCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Len(t, modules, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestInTxHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().InTx(ctx, func(context.Context, storage.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDeleteModulesDetachesProgress(t *testing.T) {
	db := New()
	course, module, lesson := seedCourse(t, db)
	childID := uuid.New()
	db.AddChild(models.Child{ID: childID})
	ctx := context.Background()

	var enrollment models.Enrollment
	err := db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		enrollment = models.Enrollment{ChildID: childID, CourseID: course.ID}
		if err := s.CreateEnrollment(ctx, &enrollment); err != nil {
			return err
		}
		lessonID := lesson.ID
		return s.CreateProgress(ctx, &models.ChildProgress{
			ChildID:      childID,
			EnrollmentID: enrollment.ID,
			LessonID:     &lessonID,
			IsCompleted:  true,
		})
	})
	require.NoError(t, err)

	err = db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		n, err := s.CountCompletedLessons(ctx, enrollment.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return s.DeleteModules(ctx, []uuid.UUID{module.ID})
	})
	require.NoError(t, err)

	err = db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		_, err := s.LessonByID(ctx, lesson.ID)
		assert.True(t, errors.Is(err, app_errors.ErrLessonNotFound))

		_, err = s.ProgressByLesson(ctx, enrollment.ID, lesson.ID)
		assert.True(t, errors.Is(err, app_errors.ErrProgressNotFound))

		n, err := s.CountCompletedLessons(ctx, enrollment.ID, course.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		lessons, err := s.CountLessons(ctx, course.ID)
		require.NoError(t, err)
		assert.Zero(t, lessons)
		return nil
	})
	require.NoError(t, err)

	// the row itself survives with no lesson attached
	db.mutex.Lock()
	defer db.mutex.Unlock()
	require.Len(t, db.t.progress, 1)
	for _, p := range db.t.progress {
		assert.Nil(t, p.LessonID)
	}
}

func TestCreateEnrollmentUnique(t *testing.T) {
	db := New()
	course, _, _ := seedCourse(t, db)
	childID := uuid.New()

	err := db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{ChildID: childID, CourseID: course.ID}))
		err := s.CreateEnrollment(ctx, &models.Enrollment{ChildID: childID, CourseID: course.ID})
		assert.True(t, errors.Is(err, app_errors.ErrAlreadyEnrolled))

		list, err := s.EnrollmentsByCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestReadsReturnCopies(t *testing.T) {
	db := New()
	_, _, lesson := seedCourse(t, db)

	err := db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		l, err := s.LessonByID(ctx, lesson.ID)
		require.NoError(t, err)
		l.Content.(*models.ReadingContent).Text = "changed"

		again, err := s.LessonByID(ctx, lesson.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cows say moo", again.Content.(*models.ReadingContent).Text)
		return nil
	})
	require.NoError(t, err)
}
