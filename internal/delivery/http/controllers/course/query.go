package course

import (
	"context"
	"net/http"
	"strings"

	"KidLearn/internal/delivery/http/controllers/response"
	"KidLearn/internal/models"
	"KidLearn/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryService interface {
	ApprovedCourses(ctx context.Context) ([]models.Course, error)
	Search(ctx context.Context, query string) ([]models.Course, error)
	PublishedTree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(log logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{
		log:     log,
		service: s,
	}
}

func (h *QueryHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.ApprovedCourses(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, courses)
}

func (h *QueryHandler) SearchCourses(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.BadRequest(c, "q", "search query is required")
		return
	}

	courses, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, courses)
}

func (h *QueryHandler) CourseTree(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}

	tree, err := h.service.PublishedTree(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Data(c, http.StatusOK, tree)
}
