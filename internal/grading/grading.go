// Package grading holds the pure scoring core. It performs no I/O and owns
// the single scoring formula used at grading time and again when a result is
// derived before persistence, so the two call sites cannot drift.
package grading

import (
	"math"

	"techquiz-service/internal/domain"
)

// Score computes round(correct/total*100). A quiz with no questions scores 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// PerformanceFor maps a score to its qualitative tier.
func PerformanceFor(score int) domain.Performance {
	switch {
	case score >= 85:
		return domain.PerformanceExcellent
	case score >= 65:
		return domain.PerformanceGood
	case score >= 45:
		return domain.PerformanceAverage
	default:
		return domain.PerformanceNeedsWork
	}
}

// Grade evaluates a submitted answer set against the quiz questions.
// Output follows the stored question order regardless of answer order.
// Unmatched or missing answers degrade to incorrect; Grade never fails.
func Grade(questions []domain.Question, answers []domain.SubmittedAnswer) domain.Submission {
	// first answer per question wins; later duplicates are ignored
	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, ok := byQuestion[a.QuestionID]; !ok {
			byQuestion[a.QuestionID] = a.SelectedAnswer
		}
	}

	var correct, wrong int
	detailed := make([]domain.QuestionResult, 0, len(questions))
	for _, q := range questions {
		userAnswer, answered := byQuestion[q.ID]
		isCorrect := answered && userAnswer == q.CorrectAnswer
		if isCorrect {
			correct++
		} else {
			wrong++
		}
		if !answered {
			userAnswer = domain.NotAnswered
		}
		detailed = append(detailed, domain.QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	return domain.Submission{
		TotalQuestions:  len(questions),
		Correct:         correct,
		Wrong:           wrong,
		Score:           Score(correct, len(questions)),
		DetailedResults: detailed,
	}
}
