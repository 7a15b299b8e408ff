package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"techquiz-service/internal/app"
	"techquiz-service/internal/domain"
)

// QuizCache wraps a quiz repository and caches GetByID lookups with a TTL,
// keeping grading off the database on the hot submission path. Writes pass
// through and invalidate; the attempt counter is allowed to lag in cached
// reads until expiry. Leaderboards are never cached.
type QuizCache struct {
	inner app.QuizRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(inner app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedQuiz),
	}
}

func (c *QuizCache) GetByID(ctx context.Context, id string) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.inner.GetByID(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedQuiz{quiz: quiz, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) Create(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	return c.inner.Create(ctx, quiz)
}

func (c *QuizCache) List(ctx context.Context, technology, level string) ([]domain.Quiz, error) {
	return c.inner.List(ctx, technology, level)
}

func (c *QuizCache) Update(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	updated, err := c.inner.Update(ctx, quiz)
	if err == nil {
		c.invalidate(quiz.ID)
	}
	return updated, err
}

func (c *QuizCache) Deactivate(ctx context.Context, id string) error {
	err := c.inner.Deactivate(ctx, id)
	if err == nil {
		c.invalidate(id)
	}
	return err
}

func (c *QuizCache) IncrementAttempts(ctx context.Context, id string) error {
	return c.inner.IncrementAttempts(ctx, id)
}

func (c *QuizCache) invalidate(id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
