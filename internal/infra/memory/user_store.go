package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"techquiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserStore() *UserStore {
	return NewUserStoreWithClock(time.Now)
}

// NewUserStoreWithClock allows deterministic timestamps in tests.
func NewUserStoreWithClock(now func() time.Time) *UserStore {
	return &UserStore{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
		now:     now,
	}
}

func (s *UserStore) Create(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return domain.User{}, domain.ErrEmailTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}
