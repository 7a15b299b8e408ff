package app

import (
	"context"
	"fmt"

	"techquiz-service/internal/domain"
)

const defaultLeaderboardLimit = 10

// LeaderboardService exposes the ranked aggregate views over the result
// history. Every call recomputes from current storage state; nothing is
// cached between calls.
type LeaderboardService struct {
	results ResultRepository
}

func NewLeaderboardService(results ResultRepository) *LeaderboardService {
	return &LeaderboardService{results: results}
}

// Global ranks all users by total score across every quiz.
func (s *LeaderboardService) Global(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.results.GlobalLeaderboard(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("global leaderboard: %w", err)
	}
	return entries, nil
}

// Quiz ranks the results of one quiz by score, earlier submission winning ties.
func (s *LeaderboardService) Quiz(ctx context.Context, quizID string, limit int) ([]domain.QuizLeaderboardEntry, error) {
	entries, err := s.results.QuizLeaderboard(ctx, quizID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("quiz leaderboard: %w", err)
	}
	return entries, nil
}

// Technology ranks users within one technology tag. The input is lowercased
// before filtering; stored technologies are lowercase by construction.
func (s *LeaderboardService) Technology(ctx context.Context, technology string, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.results.TechnologyLeaderboard(ctx, domain.NormalizeTechnology(technology), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("technology leaderboard: %w", err)
	}
	return entries, nil
}

// QuizStats aggregates one quiz's result history; a quiz without results
// yields a zeroed record, not an error.
func (s *LeaderboardService) QuizStats(ctx context.Context, quizID string) (domain.QuizStats, error) {
	stats, err := s.results.QuizStats(ctx, quizID)
	if err != nil {
		return domain.QuizStats{}, fmt.Errorf("quiz stats: %w", err)
	}
	return stats, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	return limit
}
