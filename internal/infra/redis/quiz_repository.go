package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"progression-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error)
}

// QuizRepository caches full quiz payloads in Redis and falls back to the
// loader on cache miss. Payloads are stored as:
// SET quiz:{moduleID}:payload {json} EX {ttl}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error) {
	key := r.payloadKey(moduleID)

	if payload, ok := r.fromCache(ctx, key); ok {
		return payload, nil
	}

	result, err, _ := r.sf.Do(moduleID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if payload, ok := r.fromCache(ctx, key); ok {
			return payload, nil
		}

		payload, err := r.loader.LoadQuiz(ctx, moduleID)
		if err != nil {
			return domain.QuizPayload{}, err
		}

		if data, err := json.Marshal(payload); err == nil {
			// best-effort write; a miss just hits the loader again
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return payload, nil
	})
	if err != nil {
		return domain.QuizPayload{}, err
	}
	return result.(domain.QuizPayload), nil
}

func (r *QuizRepository) fromCache(ctx context.Context, key string) (domain.QuizPayload, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuizPayload{}, false
	}
	var payload domain.QuizPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.QuizPayload{}, false
	}
	return payload, true
}

func (r *QuizRepository) payloadKey(moduleID string) string {
	return "quiz:" + moduleID + ":payload"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
