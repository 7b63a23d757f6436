package postgres

import (
	"context"
	"errors"
	"fmt"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProgressPostgres struct {
	db DBTX
}

func NewProgressPostgres(db DBTX) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

const progressColumns = `
    id, child_id, enrollment_id, lesson_id, is_completed, completed_at,
    quiz_results, activity_results, time_spent_minutes, created_at, updated_at`

// ProgressByLesson locks the row until the surrounding transaction ends.
func (r *ProgressPostgres) ProgressByLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*models.ChildProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM child_progress WHERE enrollment_id = $1 AND lesson_id = $2 FOR UPDATE`
	p := &models.ChildProgress{}
	err := r.db.QueryRow(ctx, query, enrollmentID, lessonID).Scan(
		&p.ID, &p.ChildID, &p.EnrollmentID, &p.LessonID, &p.IsCompleted, &p.CompletedAt,
		&p.QuizResults, &p.ActivityResults, &p.TimeSpentMinutes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NotFound("progress", lessonID)
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

// CreateProgress inserts a new row. It returns ErrProgressExists when a
// concurrent writer already created the row for the same lesson; the caller
// re-reads it and applies its change as an update.
func (r *ProgressPostgres) CreateProgress(ctx context.Context, p *models.ChildProgress) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
        INSERT INTO child_progress (` + progressColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (child_id, enrollment_id, lesson_id) DO NOTHING
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		p.ID, p.ChildID, p.EnrollmentID, p.LessonID, p.IsCompleted, p.CompletedAt,
		p.QuizResults, p.ActivityResults, p.TimeSpentMinutes, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return app_errors.ErrProgressExists
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

func (r *ProgressPostgres) UpdateProgress(ctx context.Context, p *models.ChildProgress) error {
	query := `
        UPDATE child_progress
           SET is_completed = $2, completed_at = $3, quiz_results = $4,
               activity_results = $5, time_spent_minutes = $6, updated_at = $7
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.IsCompleted, p.CompletedAt, p.QuizResults, p.ActivityResults, p.TimeSpentMinutes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("progress", p.ID)
	}
	return nil
}

func (r *ProgressPostgres) CountCompletedLessons(ctx context.Context, enrollmentID, courseID uuid.UUID) (int, error) {
	query := `
        SELECT COUNT(*)
          FROM child_progress cp
          JOIN lessons l ON l.id = cp.lesson_id
         WHERE cp.enrollment_id = $1 AND cp.is_completed AND l.course_id = $2
    `
	var n int
	if err := r.db.QueryRow(ctx, query, enrollmentID, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return n, nil
}
