package http

import (
	"context"
	"time"

	"KidLearn/internal/delivery/http/controllers"
	"KidLearn/internal/delivery/http/controllers/course"
	"KidLearn/internal/delivery/http/controllers/lesson"
	"KidLearn/internal/delivery/http/controllers/middleware"
	"KidLearn/internal/metrics"
	"KidLearn/internal/models"
	"KidLearn/internal/service"
	"KidLearn/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// CORSOrigins empty allows every origin.
	CORSOrigins []string
	// Ping backs the status endpoint and may be nil.
	Ping func(ctx context.Context) error
}

func InitRoutes(l logger.Log, u service.Collection, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(opts.CORSOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) > 0 {
		config.AllowOrigins = opts.CORSOrigins
	} else {
		config.AllowAllOrigins = true
	}
	r.Use(cors.New(config))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	statusController := controllers.NewStatusHandler(opts.Ping)
	authProvider := middleware.NewAuthMiddlewareProvider(l, u.Auth)
	managementController := course.NewManagementHandler(l, u.Content)
	queryController := course.NewQueryHandler(l, u.Content)
	enrollmentController := course.NewEnrollmentHandler(l, u.Enrollment)
	progressController := lesson.NewProgressHandler(l, u.Progress)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		courses := v1.Group("/courses")
		{
			courses.GET("", queryController.ListCourses)
			courses.GET("/search", queryController.SearchCourses)
			courses.GET("/:course_id/tree", queryController.CourseTree)
		}

		admin := v1.Group("/admin", authProvider.AuthMiddleware, middleware.RequireRoles(models.AdminRole))
		{
			admin.POST("/courses/tree", managementController.CreateCourseTree)
			admin.PUT("/courses/:course_id/tree", managementController.SyncCourseTree)
			admin.GET("/courses/:course_id/tree", managementController.CourseTree)
		}

		children := v1.Group("/children/:child_id", authProvider.AuthMiddleware)
		{
			children.POST("/enrollments", middleware.RequireRoles(models.ParentRole), enrollmentController.Enroll)
			children.GET("/enrollments", middleware.RequireRoles(models.ParentRole, models.ChildRole), enrollmentController.ChildEnrollments)
		}

		learn := v1.Group("/learn/courses/:course_id/lessons/:lesson_id", authProvider.AuthMiddleware, middleware.RequireRoles(models.ChildRole))
		{
			learn.PUT("/progress", progressController.RecordProgress)
			learn.POST("/quiz", progressController.SubmitQuiz)
		}
	}
	return r
}
