package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"techquiz-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizRepository.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	now     func() time.Time
}

func NewQuizStore() *QuizStore {
	return NewQuizStoreWithClock(time.Now)
}

// NewQuizStoreWithClock allows deterministic timestamps in tests.
func NewQuizStoreWithClock(now func() time.Time) *QuizStore {
	return &QuizStore{
		quizzes: make(map[string]domain.Quiz),
		now:     now,
	}
}

func (s *QuizStore) Create(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = uuid.NewString()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	quiz.CreatedAt = s.now()
	quiz.UpdatedAt = quiz.CreatedAt
	s.quizzes[quiz.ID] = quiz
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) List(_ context.Context, technology, level string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0)
	for _, q := range s.quizzes {
		if !q.IsActive {
			continue
		}
		if technology != "" && q.Technology != technology {
			continue
		}
		if level != "" && string(q.Level) != level {
			continue
		}
		out = append(out, cloneQuiz(q))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *QuizStore) GetByID(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) Update(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz.CreatedAt = stored.CreatedAt
	quiz.TotalAttempts = stored.TotalAttempts
	quiz.Participants = stored.Participants
	quiz.UpdatedAt = s.now()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	s.quizzes[quiz.ID] = quiz
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.IsActive = false
	quiz.UpdatedAt = s.now()
	s.quizzes[id] = quiz
	return nil
}

// IncrementAttempts is atomic here by virtue of the store mutex; the SQL
// implementation issues a single UPDATE ... + 1 for the same guarantee.
func (s *QuizStore) IncrementAttempts(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.TotalAttempts++
	s.quizzes[id] = quiz
	return nil
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(q.Questions))
	copy(questions, q.Questions)
	for i := range questions {
		opts := make([]string, len(questions[i].Options))
		copy(opts, questions[i].Options)
		questions[i].Options = opts
	}
	q.Questions = questions
	return q
}
