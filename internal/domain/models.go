package domain

import (
	"strings"
	"time"
)

// Level classifies quiz difficulty.
type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ValidLevel reports whether the string is a known difficulty level.
func ValidLevel(s string) bool {
	switch Level(strings.ToLower(s)) {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Performance is a qualitative bucket derived from a numeric score.
type Performance string

const (
	PerformanceExcellent Performance = "Excellent"
	PerformanceGood      Performance = "Good"
	PerformanceAverage   Performance = "Average"
	PerformanceNeedsWork Performance = "Needs Work"
)

// NotAnswered is reported as the user answer for questions the submission skipped.
const NotAnswered = "Not answered"

// Question models an MCQ question with an exact-match correct answer.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is a leveled collection of questions tagged with a technology.
// Technology is stored lowercase; normalization happens on the write path.
type Quiz struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Technology    string     `json:"technology"`
	Level         Level      `json:"level"`
	Questions     []Question `json:"questions"`
	CreatedBy     string     `json:"createdBy,omitempty"` // empty for ownerless quizzes
	IsActive      bool       `json:"isActive"`
	TotalAttempts int64      `json:"totalAttempts"`
	Participants  int64      `json:"participants"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// User is a registered account; PasswordHash never leaves the storage layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Result is the persisted outcome of one quiz submission. Quiz title,
// technology and level are denormalized at submission time so later quiz
// edits do not rewrite history. Never mutated after creation.
type Result struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId,omitempty"` // empty for anonymous submissions
	QuizID         string      `json:"quizId,omitempty"`
	Title          string      `json:"title"`
	Technology     string      `json:"technology"`
	Level          Level       `json:"level"`
	TotalQuestions int         `json:"totalQuestions"`
	Correct        int         `json:"correct"`
	Wrong          int         `json:"wrong"`
	Score          int         `json:"score"`
	Percentage     int         `json:"percentage"`
	Performance    Performance `json:"performance"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// SubmittedAnswer is one answer of a submission, keyed by question ID.
type SubmittedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// QuestionResult is the per-question breakdown of a graded submission.
type QuestionResult struct {
	QuestionID    string `json:"questionId"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation,omitempty"`
}

// Submission is the outcome of grading one answer set against a quiz.
type Submission struct {
	QuizTitle       string           `json:"quizTitle"`
	Technology      string           `json:"technology"`
	Level           Level            `json:"level"`
	TotalQuestions  int              `json:"totalQuestions"`
	Correct         int              `json:"correct"`
	Wrong           int              `json:"wrong"`
	Score           int              `json:"score"`
	DetailedResults []QuestionResult `json:"detailedResults"`
}

// LeaderboardEntry is one ranked row of the global or technology leaderboard.
type LeaderboardEntry struct {
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TotalScore   int64   `json:"totalScore"`
	TotalQuizzes int64   `json:"totalQuizzes"`
	AvgScore     float64 `json:"avgScore"`
	BestScore    int     `json:"bestScore,omitempty"`
}

// QuizLeaderboardEntry is one ranked row of a per-quiz leaderboard.
type QuizLeaderboardEntry struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Score      int       `json:"score"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// QuizStats aggregates the result history of a single quiz.
type QuizStats struct {
	TotalAttempts int64   `json:"totalAttempts"`
	AvgScore      float64 `json:"avgScore"`
	HighestScore  int     `json:"highestScore"`
	LowestScore   int     `json:"lowestScore"`
}

// TechnologyStats is the per-technology slice of a user's statistics.
type TechnologyStats struct {
	Count   int `json:"count"`
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// UserStats summarizes a user's whole result history.
type UserStats struct {
	TotalQuizzes   int                        `json:"totalQuizzes"`
	TotalCorrect   int                        `json:"totalCorrect"`
	TotalQuestions int                        `json:"totalQuestions"`
	AverageScore   int                        `json:"averageScore"`
	ByTechnology   map[string]TechnologyStats `json:"byTechnology"`
}

// NormalizeTechnology applies the single normalization policy: technology
// tags are lowercased and trimmed before they are stored or compared.
func NormalizeTechnology(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
