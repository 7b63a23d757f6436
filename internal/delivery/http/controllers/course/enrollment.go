package course

import (
	"context"
	"errors"
	"io"
	"net/http"

	"KidLearn/internal/delivery/http/controllers/middleware"
	"KidLearn/internal/delivery/http/controllers/response"
	"KidLearn/internal/models"
	"KidLearn/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, parentID, childID, courseID uuid.UUID, prefs *models.CoursePreferences) (*models.Enrollment, error)
	ChildEnrollments(ctx context.Context, callerID, childID uuid.UUID) ([]models.Enrollment, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(log logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:     log,
		service: s,
	}
}

type enrollRequest struct {
	CourseID    uuid.UUID                 `json:"course_id" binding:"required"`
	Preferences *models.CoursePreferences `json:"course_preferences"`
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	childID, ok := response.UUIDParam(c, "child_id")
	if !ok {
		return
	}
	parentID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(c, "course_id", "request body is required")
			return
		}
		response.BadRequest(c, "", err.Error())
		return
	}

	e, err := h.service.Enroll(c.Request.Context(), parentID, childID, req.CourseID, req.Preferences)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusCreated, e)
}

func (h *EnrollmentHandler) ChildEnrollments(c *gin.Context) {
	childID, ok := response.UUIDParam(c, "child_id")
	if !ok {
		return
	}
	callerID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	list, err := h.service.ChildEnrollments(c.Request.Context(), callerID, childID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, list)
}
