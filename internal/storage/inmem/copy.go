package inmem

import (
	"slices"
	"time"

	"KidLearn/internal/models"
)

func copyCourse(c models.Course) models.Course {
	c.Tags = slices.Clone(c.Tags)
	c.LearningObjectives = slices.Clone(c.LearningObjectives)
	return c
}

func copyLesson(l models.Lesson) models.Lesson {
	switch c := l.Content.(type) {
	case *models.VideoContent:
		v := *c
		l.Content = &v
	case *models.QuizContent:
		q := *c
		q.Questions = make([]models.QuizQuestion, len(c.Questions))
		for i, question := range c.Questions {
			question.Options = slices.Clone(question.Options)
			q.Questions[i] = question
		}
		l.Content = &q
	case *models.ReadingContent:
		r := *c
		l.Content = &r
	case *models.ActivityContent:
		a := *c
		a.Components = slices.Clone(c.Components)
		a.ScoringRubric = slices.Clone(c.ScoringRubric)
		l.Content = &a
	case *models.ReflectionContent:
		r := models.ReflectionContent{Prompts: slices.Clone(c.Prompts)}
		l.Content = &r
	}
	return l
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyEnrollment(e models.Enrollment) models.Enrollment {
	e.CompletedAt = copyTime(e.CompletedAt)
	return e
}

func copyProgress(p models.ChildProgress) models.ChildProgress {
	p.CompletedAt = copyTime(p.CompletedAt)
	if p.LessonID != nil {
		id := *p.LessonID
		p.LessonID = &id
	}
	if p.QuizResults != nil {
		q := *p.QuizResults
		q.Answers = slices.Clone(q.Answers)
		p.QuizResults = &q
	}
	if p.ActivityResults != nil {
		a := *p.ActivityResults
		a.Data = slices.Clone(a.Data)
		p.ActivityResults = &a
	}
	return p
}
