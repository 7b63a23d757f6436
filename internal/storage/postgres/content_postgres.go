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

// ContentPostgres stores the modules and lessons of a course.
type ContentPostgres struct {
	db DBTX
}

func NewContentPostgres(db DBTX) *ContentPostgres {
	return &ContentPostgres{db: db}
}

func (r *ContentPostgres) ModulesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Module, error) {
	query := `
        SELECT id, course_id, title, description, module_order, created_at, updated_at
          FROM modules
         WHERE course_id = $1
         ORDER BY module_order, created_at, id
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Order, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *ContentPostgres) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	query := `
        INSERT INTO modules (id, course_id, title, description, module_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		module.ID, module.CourseID, module.Title, module.Description,
		module.Order, module.CreatedAt, module.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert module: %w", err)
	}
	return nil
}

func (r *ContentPostgres) UpdateModule(ctx context.Context, module *models.Module) error {
	query := `
        UPDATE modules
           SET title = $2, description = $3, module_order = $4, updated_at = $5
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, module.ID, module.Title, module.Description, module.Order, module.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("module", module.ID)
	}
	return nil
}

func (r *ContentPostgres) DeleteModules(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	// lessons follow through ON DELETE CASCADE
	if _, err := r.db.Exec(ctx, `DELETE FROM modules WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete modules: %w", err)
	}
	return nil
}

const lessonColumns = `
    id, module_id, course_id, title, description, lesson_order, lesson_type,
    duration_minutes, points_reward, content, created_at, updated_at`

func scanLesson(row pgx.Row, l *models.Lesson) error {
	var raw []byte
	err := row.Scan(
		&l.ID, &l.ModuleID, &l.CourseID, &l.Title, &l.Description, &l.Order, &l.Type,
		&l.DurationMinutes, &l.PointsReward, &raw, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	l.Content, err = models.DecodeContent(l.Type, raw)
	return err
}

func (r *ContentPostgres) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	query := `
        SELECT ` + lessonColumns + `
          FROM lessons
         WHERE course_id = $1
         ORDER BY module_id, lesson_order, created_at, id
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons by course: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *ContentPostgres) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	lesson := &models.Lesson{}
	if err := scanLesson(r.db.QueryRow(ctx, query, id), lesson); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NotFound("lesson", id)
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return lesson, nil
}

func (r *ContentPostgres) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	content, err := models.EncodeContent(lesson.Content)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO lessons (` + lessonColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err = r.db.Exec(ctx, query,
		lesson.ID, lesson.ModuleID, lesson.CourseID, lesson.Title, lesson.Description,
		lesson.Order, lesson.Type, lesson.DurationMinutes, lesson.PointsReward,
		content, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lesson: %w", err)
	}
	return nil
}

func (r *ContentPostgres) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	content, err := models.EncodeContent(lesson.Content)
	if err != nil {
		return err
	}
	query := `
        UPDATE lessons
           SET module_id = $2, title = $3, description = $4, lesson_order = $5, lesson_type = $6,
               duration_minutes = $7, points_reward = $8, content = $9, updated_at = $10
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		lesson.ID, lesson.ModuleID, lesson.Title, lesson.Description, lesson.Order, lesson.Type,
		lesson.DurationMinutes, lesson.PointsReward, content, lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("lesson", lesson.ID)
	}
	return nil
}

func (r *ContentPostgres) DeleteLessons(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	// progress rows keep their history with lesson_id set to NULL
	if _, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete lessons: %w", err)
	}
	return nil
}

func (r *ContentPostgres) CountLessons(ctx context.Context, courseID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return n, nil
}
