package service

import (
	"KidLearn/internal/service/auth"
	"KidLearn/internal/service/content"
	"KidLearn/internal/service/enrollment"
	"KidLearn/internal/service/progress"
)

type Collection struct {
	Auth       *auth.JWTManager
	Content    *content.Service
	Enrollment *enrollment.Service
	Progress   *progress.Tracker
}
