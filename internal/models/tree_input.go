package models

import "github.com/google/uuid"

// CourseTreeInput is the full desired state of a course as submitted by an admin.
type CourseTreeInput struct {
	Title              Optional[string]   `json:"title"`
	Description        Optional[string]   `json:"description"`
	AgeGroup           Optional[AgeGroup] `json:"age_group"`
	Tags               Optional[[]string] `json:"tags"`
	LearningObjectives Optional[[]string] `json:"learning_objectives"`
	ThumbnailURL       Optional[string]   `json:"thumbnail_url"`
	IsApproved         Optional[bool]     `json:"is_approved"`
	Modules            []ModuleInput      `json:"modules"`
}

type ModuleInput struct {
	ID          *uuid.UUID       `json:"id"`
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Order       Optional[int]    `json:"order"`
	Lessons     []LessonInput    `json:"lessons"`
}

type LessonInput struct {
	ID              *uuid.UUID       `json:"id"`
	Title           Optional[string] `json:"title"`
	Description     Optional[string] `json:"description"`
	Order           Optional[int]    `json:"order"`
	Type            LessonType       `json:"type"`
	DurationMinutes Optional[int]    `json:"duration_minutes"`
	PointsReward    Optional[int]    `json:"points_reward"`

	VideoURL       *string          `json:"video_url"`
	Quiz           *QuizContent     `json:"quiz"`
	ReadingContent *string          `json:"reading_content"`
	Activity       *ActivityContent `json:"activity"`
	Prompts        []string         `json:"prompts"`
}

// Content builds the payload for the declared type from the flat input
// fields. Fields belonging to other types are ignored. It returns nil when no
// payload for the declared type was sent.
func (in LessonInput) Content() LessonContent {
	switch in.Type {
	case LessonVideo:
		if in.VideoURL != nil {
			return &VideoContent{URL: *in.VideoURL}
		}
	case LessonQuiz:
		if in.Quiz != nil {
			q := *in.Quiz
			return &q
		}
	case LessonReading:
		if in.ReadingContent != nil {
			return &ReadingContent{Text: *in.ReadingContent}
		}
	case LessonActivity:
		if in.Activity != nil {
			a := *in.Activity
			return &a
		}
	case LessonReflection:
		if in.Prompts != nil {
			return &ReflectionContent{Prompts: append([]string(nil), in.Prompts...)}
		}
	}
	return nil
}

type NodeKind string

const (
	NodeModule NodeKind = "module"
	NodeLesson NodeKind = "lesson"
)

type SkipReason string

const (
	SkipNotFound  SkipReason = "not_found"
	SkipDuplicate SkipReason = "duplicate"
	SkipParent    SkipReason = "parent_skipped"
)

// SkippedNode reports an input node that referenced an id the course does not
// own, or repeated one. The rest of the tree is still applied.
type SkippedNode struct {
	Kind   NodeKind   `json:"kind"`
	ID     uuid.UUID  `json:"id"`
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
}

type SyncStats struct {
	ModulesCreated int `json:"modules_created"`
	ModulesUpdated int `json:"modules_updated"`
	ModulesDeleted int `json:"modules_deleted"`
	LessonsCreated int `json:"lessons_created"`
	LessonsUpdated int `json:"lessons_updated"`
	LessonsDeleted int `json:"lessons_deleted"`
}

type SyncResult struct {
	Tree    *CourseTree   `json:"tree"`
	Stats   SyncStats     `json:"stats"`
	Skipped []SkippedNode `json:"skipped"`
}
