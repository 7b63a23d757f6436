package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"KidLearn/internal/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "validation",
			err:        app_errors.NewValidationError("modules[0].title", "is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   envelope{Error: "is required", Field: "modules[0].title"},
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("load: %w", app_errors.ErrCourseNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{Error: "course not found"},
		},
		{
			name:       "conflict",
			err:        app_errors.ErrAlreadyEnrolled,
			wantStatus: http.StatusConflict,
			wantBody:   envelope{Error: app_errors.ErrAlreadyEnrolled.Message},
		},
		{
			name:       "state",
			err:        app_errors.ErrNotEnrolled,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{Error: app_errors.ErrNotEnrolled.Message, Code: "not_enrolled"},
		},
		{
			name:       "guardian",
			err:        app_errors.ErrNotChildGuardian,
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{Error: app_errors.ErrNotChildGuardian.Error()},
		},
		{
			name:       "unknown",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   envelope{Error: "internal error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestClassifyNotFoundWithID(t *testing.T) {
	id := uuid.New()
	status, body := classify(app_errors.NotFound("lesson", id))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "lesson "+id.String()+" not found", body.Error)
}
