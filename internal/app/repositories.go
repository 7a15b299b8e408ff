package app

import (
	"context"

	"techquiz-service/internal/domain"
)

// QuizRepository abstracts quiz storage (Postgres in production, in-memory in tests).
type QuizRepository interface {
	Create(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	// List returns active quizzes, newest first, optionally filtered by
	// technology and level.
	List(ctx context.Context, technology string, level string) ([]domain.Quiz, error)
	GetByID(ctx context.Context, id string) (domain.Quiz, error)
	Update(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	// Deactivate soft-deletes a quiz by clearing its active flag.
	Deactivate(ctx context.Context, id string) error
	// IncrementAttempts bumps the attempt counter with a single atomic
	// storage command. Read-modify-write loses updates under concurrency.
	IncrementAttempts(ctx context.Context, id string) error
}

// ResultRepository defines the exact query contract the scoring and
// aggregation core requires of result storage.
type ResultRepository interface {
	Create(ctx context.Context, result domain.Result) (domain.Result, error)
	// ListByUser returns a user's results, newest first. An empty or
	// "all" technology (any casing) means no filter; otherwise exact
	// equality against the stored (already lowercased) technology.
	ListByUser(ctx context.Context, userID, technology string) ([]domain.Result, error)
	GetByID(ctx context.Context, id string) (domain.Result, error)
	Delete(ctx context.Context, id string) error
	// FindByUser returns the unfiltered result history for statistics.
	FindByUser(ctx context.Context, userID string) ([]domain.Result, error)

	// Aggregate projections. Every call recomputes from current storage
	// state; there is no materialized leaderboard.
	GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	QuizLeaderboard(ctx context.Context, quizID string, limit int) ([]domain.QuizLeaderboardEntry, error)
	TechnologyLeaderboard(ctx context.Context, technology string, limit int) ([]domain.LeaderboardEntry, error)
	QuizStats(ctx context.Context, quizID string) (domain.QuizStats, error)
}

// UserRepository stores registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}
