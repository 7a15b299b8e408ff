package memory

import (
	"context"
	"testing"
	"time"

	"techquiz-service/internal/domain"
)

func TestListByUserNewestFirstAndFilter(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewResultStoreWithClock(NewUserStore(), clock.Now)

	for _, tech := range []string{"go", "python", "go"} {
		if _, err := store.Create(ctx, domain.Result{UserID: "u1", Technology: tech, Score: 50}); err != nil {
			t.Fatalf("create: %v", err)
		}
		clock.Advance(time.Minute)
	}
	if _, err := store.Create(ctx, domain.Result{UserID: "u2", Technology: "go", Score: 80}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := store.ListByUser(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 results, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("results not newest first: %v before %v", all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}

	golang, err := store.ListByUser(ctx, "u1", "go")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(golang) != 2 {
		t.Fatalf("expected 2 go results, got %d", len(golang))
	}

	// wildcard means no filter, whatever the casing
	for _, w := range []string{"all", "All", "ALL"} {
		wildcard, _ := store.ListByUser(ctx, "u1", w)
		if len(wildcard) != 3 {
			t.Fatalf("expected wildcard %q to return 3, got %d", w, len(wildcard))
		}
	}
}

func TestQuizLeaderboardTieBreaksByEarlierSubmission(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewResultStoreWithClock(NewUserStore(), clock.Now)

	if _, err := store.Create(ctx, domain.Result{UserID: "u1", QuizID: "quiz-1", Score: 90, Percentage: 90}); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := store.Create(ctx, domain.Result{UserID: "u2", QuizID: "quiz-1", Score: 90, Percentage: 90}); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := store.Create(ctx, domain.Result{UserID: "u3", QuizID: "quiz-1", Score: 95, Percentage: 95}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := store.QuizLeaderboard(ctx, "quiz-1", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].UserID != "u3" {
		t.Fatalf("expected u3 first with highest score, got %s", entries[0].UserID)
	}
	if entries[1].UserID != "u1" || entries[2].UserID != "u2" {
		t.Fatalf("expected earlier 90 to outrank later 90, got %s then %s", entries[1].UserID, entries[2].UserID)
	}
}

func TestGlobalLeaderboardRanksByTotalScore(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore()
	store := NewResultStore(users)

	alice, _ := users.Create(ctx, domain.User{Name: "Alice", Email: "alice@example.com"})
	bob, _ := users.Create(ctx, domain.User{Name: "Bob", Email: "bob@example.com"})

	for _, score := range []int{60, 70} {
		if _, err := store.Create(ctx, domain.Result{UserID: alice.ID, Score: score}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := store.Create(ctx, domain.Result{UserID: bob.ID, Score: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := store.GlobalLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Alice" || entries[0].TotalScore != 130 || entries[0].TotalQuizzes != 2 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[0].AvgScore != 65 {
		t.Fatalf("expected avg 65, got %v", entries[0].AvgScore)
	}
	if entries[1].Email != "bob@example.com" {
		t.Fatalf("expected bob second, got %+v", entries[1])
	}
}

func TestGlobalLeaderboardSkipsMissingUsers(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore()
	store := NewResultStore(users)

	alice, _ := users.Create(ctx, domain.User{Name: "Alice", Email: "alice@example.com"})
	if _, err := store.Create(ctx, domain.Result{UserID: alice.ID, Technology: "go", Score: 70}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// result whose user record no longer exists
	if _, err := store.Create(ctx, domain.Result{UserID: "gone", Technology: "go", Score: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := store.GlobalLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Alice" {
		t.Fatalf("expected only alice, got %+v", entries)
	}

	tech, err := store.TechnologyLeaderboard(ctx, "go", 10)
	if err != nil {
		t.Fatalf("technology leaderboard: %v", err)
	}
	if len(tech) != 1 || tech[0].Name != "Alice" {
		t.Fatalf("expected only alice, got %+v", tech)
	}
}

func TestTechnologyLeaderboardAveragesToTwoDecimals(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore()
	store := NewResultStore(users)
	u, _ := users.Create(ctx, domain.User{Name: "Cara", Email: "cara@example.com"})

	for _, score := range []int{50, 60, 70} {
		if _, err := store.Create(ctx, domain.Result{UserID: u.ID, Technology: "go", Score: score}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := store.Create(ctx, domain.Result{UserID: u.ID, Technology: "python", Score: 99}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := store.TechnologyLeaderboard(ctx, "go", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].AvgScore != 60 || entries[0].BestScore != 70 || entries[0].TotalScore != 180 {
		t.Fatalf("unexpected aggregate: %+v", entries[0])
	}
}

func TestQuizStatsZeroWhenEmpty(t *testing.T) {
	store := NewResultStore(NewUserStore())
	stats, err := store.QuizStats(context.Background(), "missing")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 0 || stats.AvgScore != 0 || stats.HighestScore != 0 || stats.LowestScore != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}

func TestQuizStatsAggregates(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(NewUserStore())
	for _, score := range []int{40, 80, 60} {
		if _, err := store.Create(ctx, domain.Result{UserID: "u1", QuizID: "quiz-1", Score: score}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	stats, err := store.QuizStats(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 3 || stats.HighestScore != 80 || stats.LowestScore != 40 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 60 {
		t.Fatalf("expected avg 60, got %v", stats.AvgScore)
	}
}

func TestDeleteRemovesResult(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(NewUserStore())
	created, err := store.Create(ctx, domain.Result{UserID: "u1", Score: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); err != domain.ErrResultNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != domain.ErrResultNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
