package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"techquiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
// The aggregate queries mirror the SQL projections entry for entry, which
// lets the service tests pin the ranking semantics without a database.
type ResultStore struct {
	users *UserStore

	mu      sync.RWMutex
	results map[string]domain.Result
	seq     map[string]int64
	nextSeq int64
	now     func() time.Time
}

func NewResultStore(users *UserStore) *ResultStore {
	return NewResultStoreWithClock(users, time.Now)
}

// NewResultStoreWithClock allows deterministic timestamps in tests.
func NewResultStoreWithClock(users *UserStore, now func() time.Time) *ResultStore {
	return &ResultStore{
		users:   users,
		results: make(map[string]domain.Result),
		seq:     make(map[string]int64),
		now:     now,
	}
}

func (s *ResultStore) Create(_ context.Context, result domain.Result) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result.ID = uuid.NewString()
	result.CreatedAt = s.now()
	s.results[result.ID] = result
	s.nextSeq++
	s.seq[result.ID] = s.nextSeq
	return result, nil
}

func (s *ResultStore) ListByUser(_ context.Context, userID, technology string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filter := technology != "" && !strings.EqualFold(technology, "all")
	out := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.UserID != userID {
			continue
		}
		if filter && r.Technology != technology {
			continue
		}
		out = append(out, r)
	}
	s.sortNewestFirstLocked(out)
	return out, nil
}

func (s *ResultStore) GetByID(_ context.Context, id string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return result, nil
}

func (s *ResultStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return domain.ErrResultNotFound
	}
	delete(s.results, id)
	delete(s.seq, id)
	return nil
}

func (s *ResultStore) FindByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return s.ListByUser(ctx, userID, "")
}

func (s *ResultStore) GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupByUserLocked(ctx, "", limit, false), nil
}

func (s *ResultStore) TechnologyLeaderboard(ctx context.Context, technology string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupByUserLocked(ctx, technology, limit, true), nil
}

func (s *ResultStore) QuizLeaderboard(ctx context.Context, quizID string, limit int) ([]domain.QuizLeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	selected := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.QuizID == quizID {
			selected = append(selected, r)
		}
	}
	// score descending, earlier submission first on ties
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		if !selected[i].CreatedAt.Equal(selected[j].CreatedAt) {
			return selected[i].CreatedAt.Before(selected[j].CreatedAt)
		}
		return s.seq[selected[i].ID] < s.seq[selected[j].ID]
	})
	if len(selected) > limit {
		selected = selected[:limit]
	}

	entries := make([]domain.QuizLeaderboardEntry, 0, len(selected))
	for _, r := range selected {
		entry := domain.QuizLeaderboardEntry{
			UserID:     r.UserID,
			Score:      r.Score,
			Percentage: r.Percentage,
			CreatedAt:  r.CreatedAt,
		}
		if user, err := s.users.GetByID(ctx, r.UserID); err == nil {
			entry.Name = user.Name
			entry.Email = user.Email
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *ResultStore) QuizStats(_ context.Context, quizID string) (domain.QuizStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.QuizStats{}
	sum := 0
	for _, r := range s.results {
		if r.QuizID != quizID {
			continue
		}
		if stats.TotalAttempts == 0 || r.Score > stats.HighestScore {
			stats.HighestScore = r.Score
		}
		if stats.TotalAttempts == 0 || r.Score < stats.LowestScore {
			stats.LowestScore = r.Score
		}
		stats.TotalAttempts++
		sum += r.Score
	}
	if stats.TotalAttempts > 0 {
		stats.AvgScore = float64(sum) / float64(stats.TotalAttempts)
	}
	return stats, nil
}

func (s *ResultStore) groupByUserLocked(ctx context.Context, technology string, limit int, withBest bool) []domain.LeaderboardEntry {
	type bucket struct {
		total int64
		count int64
		best  int
	}
	buckets := make(map[string]*bucket)
	for _, r := range s.results {
		if r.UserID == "" {
			continue
		}
		if technology != "" && r.Technology != technology {
			continue
		}
		b, ok := buckets[r.UserID]
		if !ok {
			b = &bucket{}
			buckets[r.UserID] = b
		}
		b.total += int64(r.Score)
		b.count++
		if r.Score > b.best {
			b.best = r.Score
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(buckets))
	for userID, b := range buckets {
		// inner join semantics: results without a user record are dropped,
		// matching the SQL projection
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			continue
		}
		entry := domain.LeaderboardEntry{
			UserID:       userID,
			Name:         user.Name,
			Email:        user.Email,
			TotalScore:   b.total,
			TotalQuizzes: b.count,
			AvgScore:     round2(float64(b.total) / float64(b.count)),
		}
		if withBest {
			entry.BestScore = b.best
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *ResultStore) sortNewestFirstLocked(results []domain.Result) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return s.seq[results[i].ID] > s.seq[results[j].ID]
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
