package models

import (
	"time"

	"github.com/google/uuid"
)

type AgeGroup string

const (
	AgeGroupPreschool AgeGroup = "3-5"
	AgeGroupPrimary   AgeGroup = "6-8"
	AgeGroupJunior    AgeGroup = "9-12"
)

func (a AgeGroup) Valid() bool {
	switch a {
	case AgeGroupPreschool, AgeGroupPrimary, AgeGroupJunior:
		return true
	}
	return false
}

type Course struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	AgeGroup           AgeGroup  `json:"age_group"`
	Tags               []string  `json:"tags"`
	LearningObjectives []string  `json:"learning_objectives"`
	ThumbnailURL       string    `json:"thumbnail_url"`
	IsApproved         bool      `json:"is_approved"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NormalizeTags drops empty and repeated tags, keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// CourseTree is a course with its modules and lessons sorted by order.
type CourseTree struct {
	Course  Course       `json:"course"`
	Modules []ModuleTree `json:"modules"`
}

type ModuleTree struct {
	Module  Module   `json:"module"`
	Lessons []Lesson `json:"lessons"`
}

func (t *CourseTree) LessonCount() int {
	n := 0
	for _, m := range t.Modules {
		n += len(m.Lessons)
	}
	return n
}
