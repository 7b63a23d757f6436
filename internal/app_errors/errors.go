package app_errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = &NotFoundError{Entity: "course"}
var ErrModuleNotFound = &NotFoundError{Entity: "module"}
var ErrLessonNotFound = &NotFoundError{Entity: "lesson"}
var ErrProgressNotFound = &NotFoundError{Entity: "progress"}
var ErrChildNotFound = &NotFoundError{Entity: "child"}
var ErrEnrollmentNotFound = &NotFoundError{Entity: "enrollment"}
var ErrNotChildGuardian = errors.New("child does not belong to this parent")
var ErrAlreadyEnrolled = &ConflictError{Entity: "enrollment", Message: "child is already enrolled in this course"}
var ErrProgressExists = &ConflictError{Entity: "progress", Message: "progress for this lesson already exists"}
var ErrNotEnrolled = &StateError{Code: "not_enrolled", Message: "child is not enrolled in this course"}
var ErrLessonNotInCourse = &StateError{Code: "lesson_not_in_course", Message: "lesson does not belong to the enrolled course"}
var ErrAttemptsExhausted = &StateError{Code: "attempts_exhausted", Message: "no quiz attempts left"}

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	if e.ID == uuid.Nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is matches any NotFoundError for the same entity, so callers can compare
// against the id-less sentinels.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Entity == e.Entity && (t.ID == uuid.Nil || t.ID == e.ID)
}

func NotFound(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

type ConflictError struct {
	Entity  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	return ok && t.Entity == e.Entity
}

// StateError reports a request that is well formed but not allowed in the
// current state, for example progress on a course the child never joined.
type StateError struct {
	Code    string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	return ok && t.Code == e.Code
}
