package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"techquiz-service/internal/app"
	"techquiz-service/internal/domain"
)

// QuizCache caches full quiz documents in Redis (JSON value per quiz) and
// falls back to the backing repository on a miss. Grading reads a quiz once
// per submission, so this keeps the hot path off Postgres. Writes pass
// through and drop the cached copy; leaderboards are never cached.
type QuizCache struct {
	client *redis.Client
	inner  app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizCache(client *redis.Client, inner app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetByID(ctx context.Context, id string) (domain.Quiz, error) {
	key := c.key(id)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil {
			return quiz, nil
		}
		// corrupt entry: fall through and refill
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err == nil {
				return quiz, nil
			}
		}

		quiz, err := c.inner.GetByID(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, err := json.Marshal(quiz); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
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
		_ = c.client.Del(ctx, c.key(quiz.ID)).Err()
	}
	return updated, err
}

func (c *QuizCache) Deactivate(ctx context.Context, id string) error {
	err := c.inner.Deactivate(ctx, id)
	if err == nil {
		_ = c.client.Del(ctx, c.key(id)).Err()
	}
	return err
}

// IncrementAttempts hits the backing store directly; the cached document's
// counter may lag until expiry, which only read endpoints observe.
func (c *QuizCache) IncrementAttempts(ctx context.Context, id string) error {
	return c.inner.IncrementAttempts(ctx, id)
}

func (c *QuizCache) key(id string) string {
	return "quiz:" + id
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
