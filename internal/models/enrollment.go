package models

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type CoursePreferences struct {
	Difficulty          Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	NotificationEnabled bool       `json:"notification_enabled"`
	DailyGoalMinutes    int        `json:"daily_goal_minutes" validate:"gte=0"`
}

func DefaultPreferences() CoursePreferences {
	return CoursePreferences{
		Difficulty:          DifficultyMedium,
		NotificationEnabled: true,
		DailyGoalMinutes:    15,
	}
}

type Enrollment struct {
	ID                 uuid.UUID         `json:"id"`
	ChildID            uuid.UUID         `json:"child_id"`
	CourseID           uuid.UUID         `json:"course_id"`
	IsCompleted        bool              `json:"is_completed"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	ProgressPercentage int               `json:"progress_percentage"`
	Preferences        CoursePreferences `json:"course_preferences"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}
