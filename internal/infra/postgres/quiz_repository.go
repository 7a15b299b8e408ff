package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"techquiz-service/internal/domain"
)

// QuizRepository stores quizzes in Postgres, questions as a JSONB document
// per quiz so the ordered question list round-trips intact.
type QuizRepository struct {
	pool *pgxpool.Pool
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) Create(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	quiz.ID = uuid.NewString()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	now := time.Now().UTC()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("marshal questions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO quizzes (id, title, technology, level, questions, created_by, is_active, total_attempts, participants, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,0,0,$8,$8)`,
		quiz.ID, quiz.Title, quiz.Technology, string(quiz.Level), questions, quiz.CreatedBy, quiz.IsActive, now)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) List(ctx context.Context, technology, level string) ([]domain.Quiz, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, technology, level, questions, COALESCE(created_by,''), is_active, total_attempts, participants, created_at, updated_at
		FROM quizzes
		WHERE is_active
		  AND ($1 = '' OR technology = $1)
		  AND ($2 = '' OR level = $2)
		ORDER BY created_at DESC`,
		technology, level)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (domain.Quiz, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, technology, level, questions, COALESCE(created_by,''), is_active, total_attempts, participants, created_at, updated_at
		FROM quizzes WHERE id = $1`, id)
	quiz, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) Update(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("marshal questions: %w", err)
	}
	quiz.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE quizzes SET title=$2, technology=$3, level=$4, questions=$5, updated_at=$6
		WHERE id=$1`,
		quiz.ID, quiz.Title, quiz.Technology, string(quiz.Level), questions, quiz.UpdatedAt)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return r.GetByID(ctx, quiz.ID)
}

func (r *QuizRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quizzes SET is_active=false, updated_at=$2 WHERE id=$1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// IncrementAttempts is a single atomic UPDATE; concurrent submissions never
// lose a count the way read-modify-write would.
func (r *QuizRepository) IncrementAttempts(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quizzes SET total_attempts = total_attempts + 1 WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var quiz domain.Quiz
	var level string
	var questions []byte
	if err := row.Scan(&quiz.ID, &quiz.Title, &quiz.Technology, &level, &questions, &quiz.CreatedBy,
		&quiz.IsActive, &quiz.TotalAttempts, &quiz.Participants, &quiz.CreatedAt, &quiz.UpdatedAt); err != nil {
		return domain.Quiz{}, err
	}
	quiz.Level = domain.Level(level)
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}
