package progress

import (
	"context"
	"time"

	"KidLearn/internal/models"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
)

// Percentage returns 100*completed/total rounded half up and capped at 100.
// It returns 0 when total is not positive.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := (200*completed + total) / (2 * total)
	return min(p, 100)
}

// Recompute refreshes the enrollment aggregate from its progress rows and
// persists it when it changed. A course without lessons leaves the enrollment
// untouched. Completion is sticky: once an enrollment is complete it stays
// complete and keeps its first completedAt. It reports whether this call
// completed the enrollment.
func Recompute(ctx context.Context, s storage.Store, e *models.Enrollment, now time.Time) (bool, error) {
	total, err := s.CountLessons(ctx, e.CourseID)
	if err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	completed, err := s.CountCompletedLessons(ctx, e.ID, e.CourseID)
	if err != nil {
		return false, err
	}

	pct := Percentage(completed, total)
	changed := pct != e.ProgressPercentage
	e.ProgressPercentage = pct

	completedNow := false
	if pct == 100 && !e.IsCompleted {
		e.IsCompleted = true
		if e.CompletedAt == nil {
			at := now
			e.CompletedAt = &at
		}
		changed = true
		completedNow = true
	}
	if !changed {
		return false, nil
	}

	e.UpdatedAt = now
	if err := s.UpdateEnrollmentProgress(ctx, e); err != nil {
		return false, err
	}
	return completedNow, nil
}

// RecomputeCourse refreshes every enrollment of a course, for use after the
// course's lesson set changed.
func RecomputeCourse(ctx context.Context, s storage.Store, courseID uuid.UUID, now time.Time) (int, error) {
	enrollments, err := s.EnrollmentsByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	completed := 0
	for i := range enrollments {
		done, err := Recompute(ctx, s, &enrollments[i], now)
		if err != nil {
			return completed, err
		}
		if done {
			completed++
		}
	}
	return completed, nil
}
