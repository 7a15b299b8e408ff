package app

import (
	"context"
	"fmt"
	"log/slog"

	"techquiz-service/internal/domain"
	"techquiz-service/internal/grading"
)

// ResultService records quiz outcomes and answers per-user result queries.
// It owns the derivation step that fills score, percentage and performance
// immediately before a result is committed.
type ResultService struct {
	results ResultRepository
	log     *slog.Logger
}

func NewResultService(results ResultRepository, log *slog.Logger) *ResultService {
	return &ResultService{results: results, log: log}
}

// RecordInput is a manually recorded outcome. Wrong is optional: when nil
// it is derived as max(0, totalQuestions-correct); when supplied it is
// stored verbatim, mismatched or not.
type RecordInput struct {
	Title          string
	Technology     string
	Level          string
	TotalQuestions int
	Correct        int
	Wrong          *int
}

// Record validates, derives and persists a result for an authenticated user.
func (s *ResultService) Record(ctx context.Context, in RecordInput, userID string) (domain.Result, error) {
	if userID == "" {
		return domain.Result{}, domain.ErrNotOwner
	}
	if err := domain.ValidateResultPayload(in.Title, in.Technology, in.Level, in.TotalQuestions, in.Correct).OrNil(); err != nil {
		return domain.Result{}, err
	}

	result := domain.Result{
		UserID:         userID,
		Title:          in.Title,
		Technology:     domain.NormalizeTechnology(in.Technology),
		Level:          domain.Level(in.Level),
		TotalQuestions: in.TotalQuestions,
		Correct:        in.Correct,
	}
	if in.Wrong != nil {
		result.Wrong = *in.Wrong
	} else {
		result.Wrong = maxInt(0, in.TotalQuestions-in.Correct)
	}

	created, err := createDerived(ctx, s.results, result)
	if err != nil {
		return domain.Result{}, err
	}
	s.log.Info("result recorded", "resultId", created.ID, "score", created.Score)
	return created, nil
}

// createDerived is the single write path for results: it recomputes score,
// percentage and performance from the reduced counts using the same formula
// grading applies to live answer sets, then commits.
func createDerived(ctx context.Context, repo ResultRepository, result domain.Result) (domain.Result, error) {
	result.Score = grading.Score(result.Correct, result.TotalQuestions)
	result.Percentage = result.Score
	result.Performance = grading.PerformanceFor(result.Score)

	created, err := repo.Create(ctx, result)
	if err != nil {
		return domain.Result{}, fmt.Errorf("create result: %w", err)
	}
	return created, nil
}

// ListByUser returns a user's results, newest first, optionally scoped to
// one technology ("all" and "" mean no filter).
func (s *ResultService) ListByUser(ctx context.Context, userID, technology string) ([]domain.Result, error) {
	if userID == "" {
		return nil, domain.ErrNotOwner
	}
	results, err := s.results.ListByUser(ctx, userID, technology)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Get returns one result after an ownership check.
func (s *ResultService) Get(ctx context.Context, resultID, userID string) (domain.Result, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		return domain.Result{}, err
	}
	if result.UserID != userID {
		return domain.Result{}, domain.ErrNotOwner
	}
	return result, nil
}

// Delete removes one result after an ownership check.
func (s *ResultService) Delete(ctx context.Context, resultID, userID string) error {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		return err
	}
	if result.UserID != userID {
		return domain.ErrNotOwner
	}
	if err := s.results.Delete(ctx, resultID); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

// Statistics reduces the user's whole result history in-process.
func (s *ResultService) Statistics(ctx context.Context, userID string) (domain.UserStats, error) {
	if userID == "" {
		return domain.UserStats{}, domain.ErrNotOwner
	}
	results, err := s.results.FindByUser(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load results: %w", err)
	}

	stats := domain.UserStats{
		TotalQuizzes: len(results),
		ByTechnology: make(map[string]domain.TechnologyStats),
	}
	for _, r := range results {
		stats.TotalCorrect += r.Correct
		stats.TotalQuestions += r.TotalQuestions

		tech := stats.ByTechnology[r.Technology]
		tech.Count++
		tech.Correct += r.Correct
		tech.Total += r.TotalQuestions
		stats.ByTechnology[r.Technology] = tech
	}
	stats.AverageScore = grading.Score(stats.TotalCorrect, stats.TotalQuestions)
	return stats, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
