package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/metrics"
	"KidLearn/internal/models"
	"KidLearn/internal/service/quiz"
	"KidLearn/internal/storage"
	"KidLearn/pkg/logger"

	"github.com/google/uuid"
)

type Tracker struct {
	log logger.Log
	tx  storage.TxRunner
	now func() time.Time
}

func NewTracker(log logger.Log, tx storage.TxRunner) *Tracker {
	return &Tracker{
		log: log,
		tx:  tx,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RecordLessonProgress applies a partial progress write for one lesson and
// refreshes the enrollment aggregate in the same transaction.
func (t *Tracker) RecordLessonProgress(ctx context.Context, childID, courseID, lessonID uuid.UUID, upd models.LessonProgressUpdate) (*models.ProgressResult, error) {
	var (
		res          *models.ProgressResult
		completedNow bool
	)
	err := t.tx.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		enrollment, lesson, err := resolve(ctx, s, childID, courseID, lessonID)
		if err != nil {
			return err
		}
		if lesson.Type == models.LessonQuiz && upd.QuizResults.Set {
			return app_errors.NewValidationError("quiz_results", "quiz results are recorded by submitting the quiz")
		}
		res, completedNow, err = t.write(ctx, s, enrollment, lessonID, func(row *models.ChildProgress, now time.Time) error {
			applyUpdate(row, upd, now)
			return nil
		})
		return err
	})
	if err != nil {
		metrics.ProgressWritten("error")
		return nil, err
	}

	metrics.ProgressWritten("ok")
	if completedNow {
		metrics.CourseCompleted()
		t.log.Info("course completed", "child_id", childID, "course_id", courseID)
	}
	return res, nil
}

// resolve loads the child's enrollment in the course and checks that the
// lesson belongs to that course.
func resolve(ctx context.Context, s storage.Store, childID, courseID, lessonID uuid.UUID) (*models.Enrollment, *models.Lesson, error) {
	enrollment, err := s.EnrollmentByChildAndCourse(ctx, childID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrEnrollmentNotFound) {
			return nil, nil, app_errors.ErrNotEnrolled
		}
		return nil, nil, err
	}
	lesson, err := s.LessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, app_errors.ErrLessonNotFound) {
			return nil, nil, app_errors.ErrLessonNotInCourse
		}
		return nil, nil, err
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, nil, app_errors.ErrLessonNotInCourse
	}
	return enrollment, lesson, nil
}

// write loads or starts the progress row for the lesson, lets apply change
// it and saves it. When a concurrent writer creates the row first, the row is
// read again and apply runs on the stored values.
func (t *Tracker) write(ctx context.Context, s storage.Store, e *models.Enrollment, lessonID uuid.UUID, apply func(row *models.ChildProgress, now time.Time) error) (*models.ProgressResult, bool, error) {
	now := t.now()

	row, err := s.ProgressByLesson(ctx, e.ID, lessonID)
	switch {
	case errors.Is(err, app_errors.ErrProgressNotFound):
		id := lessonID
		row = &models.ChildProgress{
			ChildID:      e.ChildID,
			EnrollmentID: e.ID,
			LessonID:     &id,
			CreatedAt:    now,
		}
		if err = apply(row, now); err != nil {
			return nil, false, err
		}
		err = s.CreateProgress(ctx, row)
		if !errors.Is(err, app_errors.ErrProgressExists) {
			break
		}
		if row, err = s.ProgressByLesson(ctx, e.ID, lessonID); err != nil {
			return nil, false, err
		}
		fallthrough
	case err == nil:
		if err = apply(row, now); err != nil {
			return nil, false, err
		}
		err = s.UpdateProgress(ctx, row)
	default:
		return nil, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("save progress: %w", err)
	}

	completedNow, err := Recompute(ctx, s, e, now)
	if err != nil {
		return nil, false, fmt.Errorf("recompute enrollment: %w", err)
	}

	return &models.ProgressResult{
		Progress:           *row,
		ProgressPercentage: e.ProgressPercentage,
		IsCourseCompleted:  e.IsCompleted,
	}, completedNow, nil
}

// applyUpdate copies the fields present in upd onto row. completedAt is
// stamped only on the transition to completed.
func applyUpdate(row *models.ChildProgress, upd models.LessonProgressUpdate, now time.Time) {
	if done, ok := upd.IsCompleted.Get(); ok {
		if done && !row.IsCompleted {
			at := now
			row.CompletedAt = &at
		}
		row.IsCompleted = done
	}
	if qr, ok := upd.QuizResults.Get(); ok {
		row.QuizResults = qr
	}
	if ar, ok := upd.ActivityResults.Get(); ok {
		row.ActivityResults = ar
	}
	if minutes, ok := upd.TimeSpentMinutes.Get(); ok {
		row.TimeSpentMinutes = minutes
	}
	row.UpdatedAt = now
}

type QuizSubmission struct {
	// Answers maps question id to the chosen option id.
	Answers          map[string]string    `json:"answers"`
	TimeSpentMinutes models.Optional[int] `json:"time_spent_minutes"`
}

type QuizOutcome struct {
	Score          float64               `json:"score"`
	CorrectCount   int                   `json:"correct_count"`
	TotalQuestions int                   `json:"total_questions"`
	PointsEarned   int                   `json:"points_earned"`
	Passed         bool                  `json:"passed"`
	Attempts       int                   `json:"attempts"`
	Answers        []models.QuizAnswer   `json:"answers"`
	Progress       models.ProgressResult `json:"progress"`
}

// SubmitQuiz grades a quiz attempt and records it as lesson progress. The
// lesson is marked completed only when the attempt passes; a failed attempt
// still earns consolation points. The stored points never drop below the best
// attempt so far.
func (t *Tracker) SubmitQuiz(ctx context.Context, childID, courseID, lessonID uuid.UUID, sub QuizSubmission) (*QuizOutcome, error) {
	var (
		out          *QuizOutcome
		completedNow bool
	)
	err := t.tx.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		enrollment, lesson, err := resolve(ctx, s, childID, courseID, lessonID)
		if err != nil {
			return err
		}
		content, ok := lesson.Quiz()
		if !ok {
			return app_errors.NewValidationError("lesson_id", "lesson %s is not a quiz", lessonID)
		}

		var (
			graded   quiz.Result
			attempts int
		)
		res, done, err := t.write(ctx, s, enrollment, lessonID, func(row *models.ChildProgress, now time.Time) error {
			attempts = 0
			if row.QuizResults != nil {
				attempts = row.QuizResults.Attempts
			}
			if content.MaxAttempts > 0 && attempts >= content.MaxAttempts {
				return app_errors.ErrAttemptsExhausted
			}
			attempts++

			graded = quiz.Score(*content, lesson.PointsReward, sub.Answers)
			points := graded.PointsEarned
			if row.ActivityResults != nil && row.ActivityResults.PointsEarned > points {
				points = row.ActivityResults.PointsEarned
			}
			upd := models.LessonProgressUpdate{
				QuizResults: models.Some(&models.QuizResults{
					Score:          graded.ScorePercent,
					TotalQuestions: graded.TotalQuestions,
					CorrectCount:   graded.CorrectCount,
					Attempts:       attempts,
					Answers:        graded.Answers,
				}),
				ActivityResults: models.Some(&models.ActivityResults{
					Type:         string(models.LessonQuiz),
					PointsEarned: points,
				}),
				TimeSpentMinutes: sub.TimeSpentMinutes,
			}
			if graded.Passed {
				upd.IsCompleted = models.Some(true)
			}
			applyUpdate(row, upd, now)
			return nil
		})
		if err != nil {
			return err
		}
		completedNow = done
		out = &QuizOutcome{
			Score:          graded.ScorePercent,
			CorrectCount:   graded.CorrectCount,
			TotalQuestions: graded.TotalQuestions,
			PointsEarned:   graded.PointsEarned,
			Passed:         graded.Passed,
			Attempts:       attempts,
			Answers:        graded.Answers,
			Progress:       *res,
		}
		return nil
	})
	if err != nil {
		metrics.ProgressWritten("error")
		return nil, err
	}

	metrics.ProgressWritten("ok")
	metrics.QuizSubmitted(out.Passed)
	if completedNow {
		metrics.CourseCompleted()
		t.log.Info("course completed", "child_id", childID, "course_id", courseID)
	}
	return out, nil
}
