package content

import (
	"fmt"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"
	"KidLearn/internal/validation"
)

// ValidateTree checks the whole submission before anything is written and
// returns the first problem found as an *app_errors.ValidationError.
// creating is true when the submission creates a new course.
func ValidateTree(in models.CourseTreeInput, creating bool) error {
	if creating {
		if !in.Title.Set {
			return app_errors.NewValidationError("title", "is required")
		}
		if !in.AgeGroup.Set {
			return app_errors.NewValidationError("age_group", "is required")
		}
	}
	if in.Title.Set && in.Title.Value == "" {
		return app_errors.NewValidationError("title", "must not be empty")
	}
	if in.AgeGroup.Set && !in.AgeGroup.Value.Valid() {
		return app_errors.NewValidationError("age_group", "must be one of: %s %s %s",
			models.AgeGroupPreschool, models.AgeGroupPrimary, models.AgeGroupJunior)
	}
	if in.ThumbnailURL.Set && in.ThumbnailURL.Value != "" {
		if err := validation.Var("thumbnail_url", in.ThumbnailURL.Value, "url"); err != nil {
			return err
		}
	}

	for i, m := range in.Modules {
		path := fmt.Sprintf("modules[%d]", i)
		if m.Title.Set && m.Title.Value == "" {
			return app_errors.NewValidationError(path+".title", "must not be empty")
		}
		if err := nonNegative(path+".order", m.Order); err != nil {
			return err
		}
		for j, l := range m.Lessons {
			if err := validateLesson(fmt.Sprintf("%s.lessons[%d]", path, j), l); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLesson(path string, l models.LessonInput) error {
	if !l.Type.Valid() {
		return app_errors.NewValidationError(path+".type", "unknown lesson type %q", l.Type)
	}
	if l.Title.Set && l.Title.Value == "" {
		return app_errors.NewValidationError(path+".title", "must not be empty")
	}
	if err := nonNegative(path+".order", l.Order); err != nil {
		return err
	}
	if err := nonNegative(path+".duration_minutes", l.DurationMinutes); err != nil {
		return err
	}
	if err := nonNegative(path+".points_reward", l.PointsReward); err != nil {
		return err
	}

	switch l.Type {
	case models.LessonVideo:
		url := ""
		if l.VideoURL != nil {
			url = *l.VideoURL
		}
		return validation.Var(path+".video_url", url, "required,url")
	case models.LessonQuiz:
		return validateQuiz(path+".quiz", l.Quiz)
	}
	return nil
}

func validateQuiz(path string, q *models.QuizContent) error {
	if q == nil {
		return app_errors.NewValidationError(path, "is required")
	}
	if len(q.Questions) == 0 {
		return app_errors.NewValidationError(path+".questions", "must have at least 1 question")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return app_errors.NewValidationError(path+".passing_score", "must be between 0 and 100")
	}
	if q.MaxAttempts < 0 {
		return app_errors.NewValidationError(path+".max_attempts", "must be greater than or equal to 0")
	}
	if q.TimeLimitMinutes < 0 {
		return app_errors.NewValidationError(path+".time_limit_minutes", "must be greater than or equal to 0")
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		qpath := fmt.Sprintf("%s.questions[%d]", path, i)
		if question.ID == "" {
			return app_errors.NewValidationError(qpath+".id", "is required")
		}
		if _, dup := seen[question.ID]; dup {
			return app_errors.NewValidationError(qpath+".id", "duplicate question id %q", question.ID)
		}
		seen[question.ID] = struct{}{}
		if len(question.Options) < 2 {
			return app_errors.NewValidationError(qpath+".options", "must have at least 2 options")
		}
		optionIDs := make(map[string]struct{}, len(question.Options))
		hasCorrect := false
		for j, opt := range question.Options {
			opath := fmt.Sprintf("%s.options[%d].id", qpath, j)
			if opt.ID == "" {
				return app_errors.NewValidationError(opath, "is required")
			}
			if _, dup := optionIDs[opt.ID]; dup {
				return app_errors.NewValidationError(opath, "duplicate option id %q", opt.ID)
			}
			optionIDs[opt.ID] = struct{}{}
			hasCorrect = hasCorrect || opt.IsCorrect
		}
		if !hasCorrect {
			return app_errors.NewValidationError(qpath+".options", "must have at least 1 correct option")
		}
	}
	return nil
}

func nonNegative(field string, v models.Optional[int]) error {
	if v.Set && v.Value < 0 {
		return app_errors.NewValidationError(field, "must be greater than or equal to 0")
	}
	return nil
}
