// Package quiz grades quiz submissions.
package quiz

import (
	"math"

	"KidLearn/internal/models"
)

// ConsolationRate is the share of a lesson's points awarded for a failed attempt.
const ConsolationRate = 0.5

type Result struct {
	CorrectCount   int
	TotalQuestions int
	// ScorePercent is 100*correct/total and is not rounded.
	ScorePercent float64
	PointsEarned int
	Passed       bool
	Answers      []models.QuizAnswer
}

// Score grades answers, keyed by question id with the chosen option id as
// value. A question counts as correct when the chosen option is flagged
// correct. Unanswered questions and empty answers count as wrong.
func Score(quiz models.QuizContent, pointsReward int, answers map[string]string) Result {
	res := Result{
		TotalQuestions: len(quiz.Questions),
		Answers:        make([]models.QuizAnswer, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		chosen, answered := answers[q.ID]
		correct := false
		for _, opt := range q.Options {
			if answered && chosen != "" && opt.ID == chosen && opt.IsCorrect {
				correct = true
				break
			}
		}
		if correct {
			res.CorrectCount++
		}
		res.Answers = append(res.Answers, models.QuizAnswer{
			QuestionID: q.ID,
			AnswerID:   chosen,
			IsCorrect:  correct,
		})
	}

	if res.TotalQuestions > 0 {
		res.ScorePercent = 100 * float64(res.CorrectCount) / float64(res.TotalQuestions)
	}

	res.Passed = res.ScorePercent >= quiz.PassingScore
	if res.Passed {
		res.PointsEarned = pointsReward
	} else {
		res.PointsEarned = int(math.Floor(float64(pointsReward) * ConsolationRate))
	}
	return res
}
