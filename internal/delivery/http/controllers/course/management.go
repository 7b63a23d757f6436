package course

import (
	"context"
	"net/http"

	"KidLearn/internal/delivery/http/controllers/response"
	"KidLearn/internal/models"
	"KidLearn/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementService interface {
	Sync(ctx context.Context, courseID *uuid.UUID, in models.CourseTreeInput) (*models.SyncResult, error)
	CourseTree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(l logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     l,
		service: s,
	}
}

// CreateCourseTree creates a course together with its modules and lessons.
func (h *ManagementHandler) CreateCourseTree(c *gin.Context) {
	var input models.CourseTreeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}

	res, err := h.service.Sync(c.Request.Context(), nil, input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusCreated, res)
}

// SyncCourseTree makes the stored course match the submitted tree.
func (h *ManagementHandler) SyncCourseTree(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input models.CourseTreeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}

	res, err := h.service.Sync(c.Request.Context(), &courseID, input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, res)
}

func (h *ManagementHandler) CourseTree(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}

	tree, err := h.service.CourseTree(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, tree)
}
