package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LessonType string

const (
	LessonVideo       LessonType = "video"
	LessonInteractive LessonType = "interactive"
	LessonQuiz        LessonType = "quiz"
	LessonReading     LessonType = "reading"
	LessonActivity    LessonType = "activity"
	LessonReflection  LessonType = "reflection"
	LessonSimulation  LessonType = "simulation"
)

func (t LessonType) Valid() bool {
	switch t {
	case LessonVideo, LessonInteractive, LessonQuiz, LessonReading,
		LessonActivity, LessonReflection, LessonSimulation:
		return true
	}
	return false
}

type Lesson struct {
	ID              uuid.UUID
	ModuleID        uuid.UUID
	CourseID        uuid.UUID
	Title           string
	Description     string
	Order           int
	Type            LessonType
	DurationMinutes int
	PointsReward    int
	// Content is nil for interactive and simulation lessons, and for
	// lessons whose payload has not been authored yet.
	Content   LessonContent
	CreatedAt time.Time
	UpdatedAt time.Time
}

type lessonJSON struct {
	ID              uuid.UUID       `json:"id"`
	ModuleID        uuid.UUID       `json:"module_id"`
	CourseID        uuid.UUID       `json:"course_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Order           int             `json:"order"`
	Type            LessonType      `json:"type"`
	DurationMinutes int             `json:"duration_minutes"`
	PointsReward    int             `json:"points_reward"`
	Content         json.RawMessage `json:"content,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	raw, err := EncodeContent(l.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(lessonJSON{
		ID:              l.ID,
		ModuleID:        l.ModuleID,
		CourseID:        l.CourseID,
		Title:           l.Title,
		Description:     l.Description,
		Order:           l.Order,
		Type:            l.Type,
		DurationMinutes: l.DurationMinutes,
		PointsReward:    l.PointsReward,
		Content:         raw,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	})
}

func (l *Lesson) UnmarshalJSON(data []byte) error {
	var w lessonJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content, err := DecodeContent(w.Type, w.Content)
	if err != nil {
		return fmt.Errorf("lesson %s: %w", w.ID, err)
	}
	*l = Lesson{
		ID:              w.ID,
		ModuleID:        w.ModuleID,
		CourseID:        w.CourseID,
		Title:           w.Title,
		Description:     w.Description,
		Order:           w.Order,
		Type:            w.Type,
		DurationMinutes: w.DurationMinutes,
		PointsReward:    w.PointsReward,
		Content:         content,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
	return nil
}

// Quiz returns the quiz payload of a quiz lesson.
func (l *Lesson) Quiz() (*QuizContent, bool) {
	q, ok := l.Content.(*QuizContent)
	return q, ok && l.Type == LessonQuiz
}
