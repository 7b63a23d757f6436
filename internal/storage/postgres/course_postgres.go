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

type CoursePostgres struct {
	db DBTX
}

func NewCoursePostgres(db DBTX) *CoursePostgres {
	return &CoursePostgres{db: db}
}

const courseColumns = `
    id, title, description, age_group, tags, learning_objectives,
    thumbnail_url, is_approved, created_at, updated_at`

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.AgeGroup, &c.Tags, &c.LearningObjectives,
		&c.ThumbnailURL, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *CoursePostgres) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	query := `
        INSERT INTO courses (` + courseColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.Description, course.AgeGroup, nonNil(course.Tags),
		nonNil(course.LearningObjectives), course.ThumbnailURL, course.IsApproved,
		course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *CoursePostgres) UpdateCourse(ctx context.Context, course *models.Course) error {
	query := `
        UPDATE courses
           SET title = $2, description = $3, age_group = $4, tags = $5,
               learning_objectives = $6, thumbnail_url = $7, is_approved = $8,
               updated_at = $9
         WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.Description, course.AgeGroup, nonNil(course.Tags),
		nonNil(course.LearningObjectives), course.ThumbnailURL, course.IsApproved, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NotFound("course", course.ID)
	}
	return nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	course := &models.Course{}
	if err := scanCourse(r.db.QueryRow(ctx, query, id), course); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NotFound("course", id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (r *CoursePostgres) ApprovedCourses(ctx context.Context) ([]models.Course, error) {
	query := `
        SELECT ` + courseColumns + `
          FROM courses
         WHERE is_approved
         ORDER BY created_at DESC
    `
	return r.queryCourses(ctx, query)
}

func (r *CoursePostgres) CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`
	courses, err := r.queryCourses(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	// keep the caller's order, which is the search relevance order
	byID := make(map[uuid.UUID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	out := make([]models.Course, 0, len(courses))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CoursePostgres) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
