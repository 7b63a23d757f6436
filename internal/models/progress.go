package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizResults struct {
	Score          float64      `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	CorrectCount   int          `json:"correct_count"`
	Attempts       int          `json:"attempts"`
	Answers        []QuizAnswer `json:"answers"`
}

type ActivityResults struct {
	Type         string          `json:"type"`
	Data         json.RawMessage `json:"data,omitempty"`
	PointsEarned int             `json:"points_earned"`
}

// ChildProgress is one learner's record for one lesson within an enrollment.
// LessonID is nil once the lesson has been removed from the course.
type ChildProgress struct {
	ID               uuid.UUID        `json:"id"`
	ChildID          uuid.UUID        `json:"child_id"`
	EnrollmentID     uuid.UUID        `json:"enrollment_id"`
	LessonID         *uuid.UUID       `json:"lesson_id"`
	IsCompleted      bool             `json:"is_completed"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	QuizResults      *QuizResults     `json:"quiz_results,omitempty"`
	ActivityResults  *ActivityResults `json:"activity_results,omitempty"`
	TimeSpentMinutes int              `json:"time_spent_minutes"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// LessonProgressUpdate is a partial write; unset fields are left untouched.
type LessonProgressUpdate struct {
	IsCompleted      Optional[bool]             `json:"is_completed"`
	QuizResults      Optional[*QuizResults]     `json:"quiz_results"`
	ActivityResults  Optional[*ActivityResults] `json:"activity_results"`
	TimeSpentMinutes Optional[int]              `json:"time_spent_minutes"`
}

type ProgressResult struct {
	Progress           ChildProgress `json:"progress"`
	ProgressPercentage int           `json:"progress_percentage"`
	IsCourseCompleted  bool          `json:"is_course_completed"`
}
