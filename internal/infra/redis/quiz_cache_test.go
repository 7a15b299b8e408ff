package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"techquiz-service/internal/domain"
	"techquiz-service/internal/infra/memory"
)

func TestQuizCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	backing := &countingRepo{QuizStore: memory.NewQuizStore()}
	quiz, err := backing.QuizStore.Create(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	cache := NewQuizCache(newClient(mr), backing, time.Minute)

	got, err := cache.GetByID(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != quiz.Title || len(got.Questions) != 1 {
		t.Fatalf("unexpected quiz from cache fill: %+v", got)
	}
	if backing.gets != 1 {
		t.Fatalf("expected backing read once, got %d", backing.gets)
	}

	// Second call should hit redis, backing not incremented.
	if _, err := cache.GetByID(ctx, quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if backing.gets != 1 {
		t.Fatalf("expected cache hit, backing reads=%d", backing.gets)
	}
}

func TestQuizCacheInvalidatesOnUpdate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	backing := &countingRepo{QuizStore: memory.NewQuizStore()}
	quiz, err := backing.QuizStore.Create(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	cache := NewQuizCache(newClient(mr), backing, time.Minute)
	if _, err := cache.GetByID(ctx, quiz.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	quiz.Title = "Go Basics v2"
	if _, err := cache.Update(ctx, quiz); err != nil {
		t.Fatalf("update: %v", err)
	}

	fresh, err := cache.GetByID(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if fresh.Title != "Go Basics v2" {
		t.Fatalf("expected updated title after invalidation, got %q", fresh.Title)
	}
}

func TestQuizCacheMissPropagatesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuizCache(newClient(mr), memory.NewQuizStore(), time.Minute)
	if _, err := cache.GetByID(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingRepo struct {
	*memory.QuizStore
	gets int
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (domain.Quiz, error) {
	r.gets++
	return r.QuizStore.GetByID(ctx, id)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Title:      "Go Basics",
		Technology: "go",
		Level:      domain.LevelBasic,
		IsActive:   true,
		Questions: []domain.Question{
			{Text: "What is 2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}
