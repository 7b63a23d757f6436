package lesson

import (
	"context"
	"net/http"

	"KidLearn/internal/delivery/http/controllers/middleware"
	"KidLearn/internal/delivery/http/controllers/response"
	"KidLearn/internal/models"
	"KidLearn/internal/service/progress"
	"KidLearn/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgressService interface {
	RecordLessonProgress(ctx context.Context, childID, courseID, lessonID uuid.UUID, upd models.LessonProgressUpdate) (*models.ProgressResult, error)
	SubmitQuiz(ctx context.Context, childID, courseID, lessonID uuid.UUID, sub progress.QuizSubmission) (*progress.QuizOutcome, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(log logger.Log, service ProgressService) *ProgressHandler {
	return &ProgressHandler{log, service}
}

// target reads the course and lesson from the path and the child from the
// token.
func target(c *gin.Context) (childID, courseID, lessonID uuid.UUID, ok bool) {
	if courseID, ok = response.UUIDParam(c, "course_id"); !ok {
		return
	}
	if lessonID, ok = response.UUIDParam(c, "lesson_id"); !ok {
		return
	}
	if childID, ok = middleware.ClientID(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	}
	return
}

func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	childID, courseID, lessonID, ok := target(c)
	if !ok {
		return
	}

	var upd models.LessonProgressUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}
	if minutes, set := upd.TimeSpentMinutes.Get(); set && minutes < 0 {
		response.BadRequest(c, "time_spent_minutes", "must not be negative")
		return
	}

	res, err := h.service.RecordLessonProgress(c.Request.Context(), childID, courseID, lessonID, upd)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, res)
}

func (h *ProgressHandler) SubmitQuiz(c *gin.Context) {
	childID, courseID, lessonID, ok := target(c)
	if !ok {
		return
	}

	var sub progress.QuizSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}
	if len(sub.Answers) == 0 {
		response.BadRequest(c, "answers", "at least one answer is required")
		return
	}

	outcome, err := h.service.SubmitQuiz(c.Request.Context(), childID, courseID, lessonID, sub)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, outcome)
}
