package app

import (
	"context"
	"fmt"
	"log/slog"

	"techquiz-service/internal/domain"
	"techquiz-service/internal/grading"
)

// QuizService contains the quiz authoring and submission use cases.
type QuizService struct {
	quizzes QuizRepository
	results ResultRepository
	hub     *LeaderboardHub
	log     *slog.Logger
}

func NewQuizService(quizzes QuizRepository, results ResultRepository, hub *LeaderboardHub, log *slog.Logger) *QuizService {
	return &QuizService{quizzes: quizzes, results: results, hub: hub, log: log}
}

// Create validates and stores a new quiz. Technology is lowercased before
// storage; this is the single place the tag gets normalized.
func (s *QuizService) Create(ctx context.Context, quiz domain.Quiz, userID string) (domain.Quiz, error) {
	quiz.Technology = domain.NormalizeTechnology(quiz.Technology)
	if err := domain.ValidateQuiz(quiz).OrNil(); err != nil {
		return domain.Quiz{}, err
	}
	quiz.CreatedBy = userID
	quiz.IsActive = true
	created, err := s.quizzes.Create(ctx, quiz)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	s.log.Info("quiz created", "quizId", created.ID, "technology", created.Technology)
	return created, nil
}

// List returns active quizzes with answers stripped, optionally filtered.
func (s *QuizService) List(ctx context.Context, technology, level string) ([]domain.Quiz, error) {
	if technology != "" {
		technology = domain.NormalizeTechnology(technology)
	}
	quizzes, err := s.quizzes.List(ctx, technology, level)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	for i := range quizzes {
		stripAnswers(&quizzes[i])
	}
	return quizzes, nil
}

// Get returns one quiz; answers stay hidden unless includeAnswers is set.
func (s *QuizService) Get(ctx context.Context, quizID string, includeAnswers bool) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !includeAnswers {
		stripAnswers(&quiz)
	}
	return quiz, nil
}

// Update applies authoring changes after an ownership check. Quizzes
// without an owner are editable by anyone, matching create-from-anonymous.
func (s *QuizService) Update(ctx context.Context, quizID string, update domain.Quiz, userID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.CreatedBy != "" && quiz.CreatedBy != userID {
		return domain.Quiz{}, domain.ErrNotOwner
	}
	if len(update.Questions) > 0 {
		if err := domain.ValidateQuestions(update.Questions).OrNil(); err != nil {
			return domain.Quiz{}, err
		}
		quiz.Questions = update.Questions
	}
	if update.Title != "" {
		quiz.Title = update.Title
	}
	if update.Technology != "" {
		quiz.Technology = domain.NormalizeTechnology(update.Technology)
	}
	if update.Level != "" {
		if !domain.ValidLevel(string(update.Level)) {
			return domain.Quiz{}, domain.Violations{{Kind: domain.ViolationInvalidLevel, Message: "level must be one of: basic, intermediate, advanced"}}
		}
		quiz.Level = update.Level
	}
	updated, err := s.quizzes.Update(ctx, quiz)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes a quiz after an ownership check.
func (s *QuizService) Delete(ctx context.Context, quizID, userID string) error {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != "" && quiz.CreatedBy != userID {
		return domain.ErrNotOwner
	}
	if err := s.quizzes.Deactivate(ctx, quizID); err != nil {
		return fmt.Errorf("deactivate quiz: %w", err)
	}
	s.log.Info("quiz deactivated", "quizId", quizID)
	return nil
}

// Meta returns authoring-facing quiz metadata.
type Meta struct {
	TotalAttempts int64        `json:"totalAttempts"`
	Participants  int64        `json:"participants"`
	Technology    string       `json:"technology"`
	Level         domain.Level `json:"level"`
	QuestionCount int          `json:"questionCount"`
}

func (s *QuizService) Meta(ctx context.Context, quizID string) (Meta, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		TotalAttempts: quiz.TotalAttempts,
		Participants:  quiz.Participants,
		Technology:    quiz.Technology,
		Level:         quiz.Level,
		QuestionCount: len(quiz.Questions),
	}, nil
}

// Submit grades an answer set against a quiz. The attempt counter is bumped
// for every submission; a Result is persisted only for authenticated users.
func (s *QuizService) Submit(ctx context.Context, quizID string, answers []domain.SubmittedAnswer, userID string) (domain.Submission, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return domain.Submission{}, err
	}

	if err := s.quizzes.IncrementAttempts(ctx, quizID); err != nil {
		return domain.Submission{}, fmt.Errorf("increment attempts: %w", err)
	}

	sub := grading.Grade(quiz.Questions, answers)
	sub.QuizTitle = quiz.Title
	sub.Technology = quiz.Technology
	sub.Level = quiz.Level

	if userID != "" {
		result := domain.Result{
			UserID:         userID,
			QuizID:         quiz.ID,
			Title:          quiz.Title,
			Technology:     quiz.Technology,
			Level:          quiz.Level,
			TotalQuestions: sub.TotalQuestions,
			Correct:        sub.Correct,
			Wrong:          sub.Wrong,
		}
		if _, err := createDerived(ctx, s.results, result); err != nil {
			return domain.Submission{}, err
		}
	}

	s.broadcastLeaderboard(ctx, quizID)
	s.log.Info("quiz submitted", "quizId", quizID, "score", sub.Score, "anonymous", userID == "")
	return sub, nil
}

func (s *QuizService) broadcastLeaderboard(ctx context.Context, quizID string) {
	if s.hub == nil {
		return
	}
	entries, err := s.results.QuizLeaderboard(ctx, quizID, defaultLeaderboardLimit)
	if err != nil {
		s.log.Warn("leaderboard broadcast skipped", "quizId", quizID, "err", err)
		return
	}
	s.hub.Broadcast(quizID, entries)
}

func stripAnswers(quiz *domain.Quiz) {
	for i := range quiz.Questions {
		quiz.Questions[i].CorrectAnswer = ""
		quiz.Questions[i].Explanation = ""
	}
}
