package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"techquiz-service/internal/domain"
)

// ResultRepository stores graded results and computes the ranked aggregate
// views directly in SQL. No view is materialized; every query reflects the
// latest committed writes.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Create(ctx context.Context, result domain.Result) (domain.Result, error) {
	result.ID = uuid.NewString()
	result.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO results (id, user_id, quiz_id, title, technology, level, total_questions, correct, wrong, score, percentage, performance, created_at)
		VALUES ($1,NULLIF($2,''),NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		result.ID, result.UserID, result.QuizID, result.Title, result.Technology, string(result.Level),
		result.TotalQuestions, result.Correct, result.Wrong, result.Score, result.Percentage,
		string(result.Performance), result.CreatedAt)
	if err != nil {
		return domain.Result{}, fmt.Errorf("insert result: %w", err)
	}
	return result, nil
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID, technology string) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(user_id,''), COALESCE(quiz_id,''), title, technology, level, total_questions, correct, wrong, score, percentage, performance, created_at
		FROM results
		WHERE user_id = $1
		  AND ($2 = '' OR LOWER($2) = 'all' OR technology = $2)
		ORDER BY created_at DESC, id`,
		userID, technology)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (domain.Result, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, COALESCE(user_id,''), COALESCE(quiz_id,''), title, technology, level, total_questions, correct, wrong, score, percentage, performance, created_at
		FROM results WHERE id = $1`, id)
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Result{}, domain.ErrResultNotFound
		}
		return domain.Result{}, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResultNotFound
	}
	return nil
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return r.ListByUser(ctx, userID, "")
}

func (r *ResultRepository) GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.user_id, u.name, u.email,
		       SUM(r.score)::bigint   AS total_score,
		       COUNT(*)::bigint       AS total_quizzes,
		       ROUND(AVG(r.score)::numeric, 2)::float8 AS avg_score
		FROM results r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id IS NOT NULL
		GROUP BY r.user_id, u.name, u.email
		ORDER BY total_score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("global leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows, false)
}

func (r *ResultRepository) TechnologyLeaderboard(ctx context.Context, technology string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.user_id, u.name, u.email,
		       SUM(r.score)::bigint   AS total_score,
		       COUNT(*)::bigint       AS total_quizzes,
		       ROUND(AVG(r.score)::numeric, 2)::float8 AS avg_score,
		       MAX(r.score)           AS best_score
		FROM results r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id IS NOT NULL AND r.technology = $1
		GROUP BY r.user_id, u.name, u.email
		ORDER BY total_score DESC
		LIMIT $2`, technology, limit)
	if err != nil {
		return nil, fmt.Errorf("technology leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows, true)
}

func (r *ResultRepository) QuizLeaderboard(ctx context.Context, quizID string, limit int) ([]domain.QuizLeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(r.user_id,''), COALESCE(u.name,''), COALESCE(u.email,''), r.score, r.percentage, r.created_at
		FROM results r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.quiz_id = $1
		ORDER BY r.score DESC, r.created_at ASC
		LIMIT $2`, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("quiz leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.QuizLeaderboardEntry
	for rows.Next() {
		var e domain.QuizLeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Email, &e.Score, &e.Percentage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ResultRepository) QuizStats(ctx context.Context, quizID string) (domain.QuizStats, error) {
	var stats domain.QuizStats
	var avg sql.NullFloat64
	var high, low sql.NullInt64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)::bigint, AVG(score)::float8, MAX(score), MIN(score)
		FROM results WHERE quiz_id = $1`, quizID).
		Scan(&stats.TotalAttempts, &avg, &high, &low)
	if err != nil {
		return domain.QuizStats{}, fmt.Errorf("quiz stats: %w", err)
	}
	// aggregates over an empty set stay at their zero values
	stats.AvgScore = avg.Float64
	stats.HighestScore = int(high.Int64)
	stats.LowestScore = int(low.Int64)
	return stats, nil
}

func scanResult(row pgx.Row) (domain.Result, error) {
	var result domain.Result
	var level, performance string
	if err := row.Scan(&result.ID, &result.UserID, &result.QuizID, &result.Title, &result.Technology, &level,
		&result.TotalQuestions, &result.Correct, &result.Wrong, &result.Score, &result.Percentage,
		&performance, &result.CreatedAt); err != nil {
		return domain.Result{}, err
	}
	result.Level = domain.Level(level)
	result.Performance = domain.Performance(performance)
	return result, nil
}

func scanLeaderboard(rows pgx.Rows, withBest bool) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		dest := []interface{}{&e.UserID, &e.Name, &e.Email, &e.TotalScore, &e.TotalQuizzes, &e.AvgScore}
		if withBest {
			dest = append(dest, &e.BestScore)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
