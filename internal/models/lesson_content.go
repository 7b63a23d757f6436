package models

import (
	"encoding/json"
	"fmt"
)

// LessonContent is the type-specific payload of a lesson. Exactly one
// implementation matches each lesson type that carries a payload.
type LessonContent interface {
	LessonType() LessonType
}

type VideoContent struct {
	URL string `json:"video_url"`
}

func (*VideoContent) LessonType() LessonType { return LessonVideo }

type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestion struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        string       `json:"type"`
	Options     []QuizOption `json:"options"`
	Points      int          `json:"points"`
	Explanation string       `json:"explanation,omitempty"`
}

type QuizContent struct {
	Questions        []QuizQuestion `json:"questions"`
	PassingScore     float64        `json:"passing_score"`
	MaxAttempts      int            `json:"max_attempts"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
}

func (*QuizContent) LessonType() LessonType { return LessonQuiz }

type ReadingContent struct {
	Text string `json:"reading_content"`
}

func (*ReadingContent) LessonType() LessonType { return LessonReading }

type ActivityContent struct {
	Type          string          `json:"type"`
	Instructions  string          `json:"instructions"`
	Components    json.RawMessage `json:"components,omitempty"`
	ScoringRubric json.RawMessage `json:"scoring_rubric,omitempty"`
}

func (*ActivityContent) LessonType() LessonType { return LessonActivity }

type ReflectionContent struct {
	Prompts []string `json:"prompts"`
}

func (*ReflectionContent) LessonType() LessonType { return LessonReflection }

// EncodeContent serializes the payload for storage. A nil payload encodes to nil.
func EncodeContent(c LessonContent) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s content: %w", c.LessonType(), err)
	}
	return data, nil
}

// DecodeContent restores the payload stored for a lesson of type t.
// Lesson types without a payload always decode to nil.
func DecodeContent(t LessonType, raw []byte) (LessonContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var c LessonContent
	switch t {
	case LessonVideo:
		c = &VideoContent{}
	case LessonQuiz:
		c = &QuizContent{}
	case LessonReading:
		c = &ReadingContent{}
	case LessonActivity:
		c = &ActivityContent{}
	case LessonReflection:
		c = &ReflectionContent{}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}
	return c, nil
}
