package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"
	"KidLearn/internal/storage"
	"KidLearn/internal/storage/inmem"
	"KidLearn/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *inmem.DB
	tracker  *Tracker
	clock    time.Time
	childID  uuid.UUID
	courseID uuid.UUID
	reading  uuid.UUID
	quiz     uuid.UUID
}

// fiveQuestionQuiz passes at 60 percent; option "a" is always correct.
func fiveQuestionQuiz(maxAttempts int) *models.QuizContent {
	q := &models.QuizContent{PassingScore: 60, MaxAttempts: maxAttempts}
	for i := 1; i <= 5; i++ {
		q.Questions = append(q.Questions, models.QuizQuestion{
			ID: fmt.Sprintf("q%d", i),
			Options: []models.QuizOption{
				{ID: "a", IsCorrect: true},
				{ID: "b"},
			},
		})
	}
	return q
}

// newFixture builds an approved course with a reading lesson and a quiz
// lesson, and enrolls one child in it.
func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	f := &fixture{
		db:       inmem.New(),
		clock:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		childID:  uuid.New(),
		courseID: uuid.New(),
		reading:  uuid.New(),
		quiz:     uuid.New(),
	}
	f.tracker = NewTracker(logger.Discard(), f.db)
	f.tracker.now = func() time.Time { return f.clock }
	f.db.AddChild(models.Child{ID: f.childID, ParentID: uuid.New()})

	err := f.db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		if err := s.CreateCourse(ctx, &models.Course{ID: f.courseID, Title: "Numbers", AgeGroup: models.AgeGroupPrimary, IsApproved: true}); err != nil {
			return err
		}
		module := &models.Module{CourseID: f.courseID, Title: "Counting"}
		if err := s.CreateModule(ctx, module); err != nil {
			return err
		}
		lessons := []models.Lesson{
			{ID: f.reading, Type: models.LessonReading, Content: &models.ReadingContent{Text: "1, 2, 3"}},
			{ID: f.quiz, Type: models.LessonQuiz, Order: 1, PointsReward: 10, Content: fiveQuestionQuiz(maxAttempts)},
		}
		for i := range lessons {
			lessons[i].ModuleID = module.ID
			lessons[i].CourseID = f.courseID
			if err := s.CreateLesson(ctx, &lessons[i]); err != nil {
				return err
			}
		}
		return s.CreateEnrollment(ctx, &models.Enrollment{ChildID: f.childID, CourseID: f.courseID})
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) enrollment(t *testing.T) models.Enrollment {
	t.Helper()
	var e *models.Enrollment
	err := f.db.InTx(context.Background(), func(ctx context.Context, s storage.Store) error {
		var err error
		e, err = s.EnrollmentByChildAndCourse(ctx, f.childID, f.courseID)
		return err
	})
	require.NoError(t, err)
	return *e
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{3, 8, 38},
		{3, 3, 100},
		{4, 3, 100},
		{1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.completed, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.completed, tt.total))
		})
	}
}

func TestTwoLessonScenario(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	res, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		IsCompleted:      models.Some(true),
		TimeSpentMinutes: models.Some(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, res.ProgressPercentage)
	assert.False(t, res.IsCourseCompleted)
	require.NotNil(t, res.Progress.CompletedAt)
	assert.Equal(t, f.clock, *res.Progress.CompletedAt)
	assert.Equal(t, 7, res.Progress.TimeSpentMinutes)

	f.clock = f.clock.Add(time.Hour)
	outcome, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{
		Answers: map[string]string{"q1": "a", "q2": "a", "q3": "a", "q4": "a", "q5": "b"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, outcome.Score, 1e-9)
	assert.True(t, outcome.Passed)
	assert.Equal(t, 10, outcome.PointsEarned)
	assert.Equal(t, 100, outcome.Progress.ProgressPercentage)
	assert.True(t, outcome.Progress.IsCourseCompleted)

	e := f.enrollment(t)
	assert.Equal(t, 100, e.ProgressPercentage)
	assert.True(t, e.IsCompleted)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, f.clock, *e.CompletedAt)
}

func TestRecordLessonProgressPartialUpdates(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	first, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		IsCompleted: models.Some(true),
		ActivityResults: models.Some(&models.ActivityResults{
			Type:         "reading",
			PointsEarned: 3,
		}),
	})
	require.NoError(t, err)
	stamped := *first.Progress.CompletedAt

	f.clock = f.clock.Add(time.Hour)
	second, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		TimeSpentMinutes: models.Some(12),
	})
	require.NoError(t, err)

	assert.Equal(t, first.Progress.ID, second.Progress.ID)
	assert.True(t, second.Progress.IsCompleted)
	assert.Equal(t, stamped, *second.Progress.CompletedAt)
	assert.Equal(t, 12, second.Progress.TimeSpentMinutes)
	require.NotNil(t, second.Progress.ActivityResults)
	assert.Equal(t, 3, second.Progress.ActivityResults.PointsEarned)

	// completing again keeps the first completion time
	third, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		IsCompleted: models.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, stamped, *third.Progress.CompletedAt)
	assert.Equal(t, 50, third.ProgressPercentage)
}

func TestRecordLessonProgressRejections(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	done := models.LessonProgressUpdate{IsCompleted: models.Some(true)}

	t.Run("not enrolled", func(t *testing.T) {
		_, err := f.tracker.RecordLessonProgress(ctx, uuid.New(), f.courseID, f.reading, done)
		assert.True(t, errors.Is(err, app_errors.ErrNotEnrolled))
	})

	t.Run("lesson from another course", func(t *testing.T) {
		other := uuid.New()
		err := f.db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
			course := &models.Course{Title: "Other", AgeGroup: models.AgeGroupJunior}
			if err := s.CreateCourse(ctx, course); err != nil {
				return err
			}
			module := &models.Module{CourseID: course.ID}
			if err := s.CreateModule(ctx, module); err != nil {
				return err
			}
			return s.CreateLesson(ctx, &models.Lesson{ID: other, CourseID: course.ID, ModuleID: module.ID, Type: models.LessonSimulation})
		})
		require.NoError(t, err)

		_, err = f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, other, done)
		var se *app_errors.StateError
		require.True(t, errors.As(err, &se))
		assert.True(t, errors.Is(err, app_errors.ErrLessonNotInCourse))
	})

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, uuid.New(), done)
		assert.True(t, errors.Is(err, app_errors.ErrLessonNotInCourse))
	})

	assert.Equal(t, 0, f.enrollment(t).ProgressPercentage)
}

func TestSubmitQuizFailureEarnsConsolation(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	outcome, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{
		Answers: map[string]string{"q1": "a", "q2": "a"},
	})
	require.NoError(t, err)

	assert.InDelta(t, 40.0, outcome.Score, 1e-9)
	assert.False(t, outcome.Passed)
	assert.Equal(t, 5, outcome.PointsEarned)
	assert.False(t, outcome.Progress.Progress.IsCompleted)
	assert.Equal(t, 0, outcome.Progress.ProgressPercentage)
	require.NotNil(t, outcome.Progress.Progress.QuizResults)
	assert.Equal(t, 1, outcome.Progress.Progress.QuizResults.Attempts)
	assert.Equal(t, 2, outcome.Progress.Progress.QuizResults.CorrectCount)
}

func TestSubmitQuizAttemptLimit(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	sub := QuizSubmission{Answers: map[string]string{"q1": "b"}}

	for i := 1; i <= 2; i++ {
		outcome, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, sub)
		require.NoError(t, err)
		assert.Equal(t, i, outcome.Attempts)
	}

	_, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, sub)
	assert.True(t, errors.Is(err, app_errors.ErrAttemptsExhausted))
}

func TestRecordLessonProgressCannotResetQuizAttempts(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	sub := QuizSubmission{Answers: map[string]string{"q1": "b"}}

	_, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, sub)
	require.NoError(t, err)
	_, err = f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, sub)
	require.True(t, errors.Is(err, app_errors.ErrAttemptsExhausted))

	for name, results := range map[string]*models.QuizResults{
		"cleared":      nil,
		"zero counter": {Score: 100, TotalQuestions: 5, CorrectCount: 5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.quiz, models.LessonProgressUpdate{
				QuizResults: models.Some(results),
			})
			var verr *app_errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, "quiz_results", verr.Field)
		})
	}

	_, err = f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, sub)
	assert.True(t, errors.Is(err, app_errors.ErrAttemptsExhausted))

	// other fields of a quiz lesson can still be written
	res, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.quiz, models.LessonProgressUpdate{
		TimeSpentMinutes: models.Some(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Progress.TimeSpentMinutes)
	require.NotNil(t, res.Progress.QuizResults)
	assert.Equal(t, 1, res.Progress.QuizResults.Attempts)
}

func TestSubmitQuizRetakeKeepsBestPoints(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	all := map[string]string{"q1": "a", "q2": "a", "q3": "a", "q4": "a", "q5": "a"}

	passed, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{Answers: all})
	require.NoError(t, err)
	require.True(t, passed.Passed)
	assert.Equal(t, 10, passed.Progress.Progress.ActivityResults.PointsEarned)

	retake, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{Answers: map[string]string{"q1": "a"}})
	require.NoError(t, err)

	assert.False(t, retake.Passed)
	assert.Equal(t, 5, retake.PointsEarned)
	assert.Equal(t, 2, retake.Attempts)
	require.NotNil(t, retake.Progress.Progress.ActivityResults)
	assert.Equal(t, 10, retake.Progress.Progress.ActivityResults.PointsEarned)
	assert.True(t, retake.Progress.Progress.IsCompleted)
}

func TestSubmitQuizOnNonQuizLesson(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.tracker.SubmitQuiz(context.Background(), f.childID, f.courseID, f.reading, QuizSubmission{})

	var verr *app_errors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "lesson_id", verr.Field)
}

func TestRecomputeIgnoresEmptyCourse(t *testing.T) {
	db := inmem.New()
	ctx := context.Background()
	childID := uuid.New()
	db.AddChild(models.Child{ID: childID})

	err := db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		course := &models.Course{Title: "Empty", AgeGroup: models.AgeGroupPreschool}
		require.NoError(t, s.CreateCourse(ctx, course))
		e := &models.Enrollment{ChildID: childID, CourseID: course.ID, ProgressPercentage: 40}
		require.NoError(t, s.CreateEnrollment(ctx, e))

		done, err := Recompute(ctx, s, e, time.Now())
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, 40, e.ProgressPercentage)
		return nil
	})
	require.NoError(t, err)
}

func TestRecomputeSkipsDetachedProgress(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{IsCompleted: models.Some(true)})
	require.NoError(t, err)

	err = f.db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		if err := s.DeleteLessons(ctx, []uuid.UUID{f.reading}); err != nil {
			return err
		}
		e, err := s.EnrollmentByChildAndCourse(ctx, f.childID, f.courseID)
		if err != nil {
			return err
		}
		_, err = Recompute(ctx, s, e, f.clock)
		require.NoError(t, err)
		// one lesson left and the child has not done it
		assert.Equal(t, 0, e.ProgressPercentage)
		return nil
	})
	require.NoError(t, err)
}

// staleReads hides existing progress rows from the first lookups, the way a
// transaction sees the table before a concurrent writer commits its insert.
type staleReads struct {
	storage.Store
	misses int
}

func (s *staleReads) ProgressByLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*models.ChildProgress, error) {
	if s.misses > 0 {
		s.misses--
		return nil, app_errors.NotFound("progress", lessonID)
	}
	return s.Store.ProgressByLesson(ctx, enrollmentID, lessonID)
}

type staleRunner struct {
	db     *inmem.DB
	misses int
}

func (r staleRunner) InTx(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) error {
	return r.db.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		return fn(ctx, &staleReads{Store: s, misses: r.misses})
	})
}

func TestConcurrentCreateKeepsStoredFields(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	first, err := f.tracker.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		IsCompleted: models.Some(true),
	})
	require.NoError(t, err)

	late := NewTracker(logger.Discard(), staleRunner{db: f.db, misses: 1})
	late.now = f.tracker.now
	res, err := late.RecordLessonProgress(ctx, f.childID, f.courseID, f.reading, models.LessonProgressUpdate{
		TimeSpentMinutes: models.Some(5),
	})
	require.NoError(t, err)

	assert.Equal(t, first.Progress.ID, res.Progress.ID)
	assert.True(t, res.Progress.IsCompleted)
	assert.Equal(t, *first.Progress.CompletedAt, *res.Progress.CompletedAt)
	assert.Equal(t, 5, res.Progress.TimeSpentMinutes)
	assert.Equal(t, 50, res.ProgressPercentage)

	t.Run("quiz attempts are counted on the stored row", func(t *testing.T) {
		_, err := f.tracker.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{})
		require.NoError(t, err)

		// the stale read sees no attempts; the stored row has used the only one
		late := NewTracker(logger.Discard(), staleRunner{db: f.db, misses: 1})
		_, err = late.SubmitQuiz(ctx, f.childID, f.courseID, f.quiz, QuizSubmission{})
		assert.True(t, errors.Is(err, app_errors.ErrAttemptsExhausted))
	})
}
