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

type EnrollmentPostgres struct {
	db DBTX
}

func NewEnrollmentPostgres(db DBTX) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

func (r *EnrollmentPostgres) ChildByID(ctx context.Context, id uuid.UUID) (*models.Child, error) {
	child := &models.Child{}
	err := r.db.QueryRow(ctx, `SELECT id, parent_id, display_name FROM children WHERE id = $1`, id).
		Scan(&child.ID, &child.ParentID, &child.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NotFound("child", id)
		}
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

const enrollmentColumns = `
    id, child_id, course_id, is_completed, completed_at, progress_percentage,
    difficulty, notification_enabled, daily_goal_minutes, created_at, updated_at`

func scanEnrollment(row pgx.Row, e *models.Enrollment) error {
	return row.Scan(
		&e.ID, &e.ChildID, &e.CourseID, &e.IsCompleted, &e.CompletedAt, &e.ProgressPercentage,
		&e.Preferences.Difficulty, &e.Preferences.NotificationEnabled, &e.Preferences.DailyGoalMinutes,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `
        INSERT INTO enrollments (` + enrollmentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.db.Exec(ctx, query,
		e.ID, e.ChildID, e.CourseID, e.IsCompleted, e.CompletedAt, e.ProgressPercentage,
		e.Preferences.Difficulty, e.Preferences.NotificationEnabled, e.Preferences.DailyGoalMinutes,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return app_errors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgres) EnrollmentByChildAndCourse(ctx context.Context, childID, courseID uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE child_id = $1 AND course_id = $2`
	e := &models.Enrollment{}
	if err := scanEnrollment(r.db.QueryRow(ctx, query, childID, courseID), e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return e, nil
}

func (r *EnrollmentPostgres) EnrollmentsByChild(ctx context.Context, childID uuid.UUID) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE child_id = $1 ORDER BY created_at DESC`
	return r.queryEnrollments(ctx, query, childID)
}

func (r *EnrollmentPostgres) EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE course_id = $1 ORDER BY created_at DESC`
	return r.queryEnrollments(ctx, query, courseID)
}

func (r *EnrollmentPostgres) queryEnrollments(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var out []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EnrollmentPostgres) UpdateEnrollmentProgress(ctx context.Context, e *models.Enrollment) error {
	query := `
        UPDATE enrollments
           SET progress_percentage = $2, is_completed = $3, completed_at = $4, updated_at = $5
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, e.ID, e.ProgressPercentage, e.IsCompleted, e.CompletedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("enrollment", e.ID)
	}
	return nil
}
