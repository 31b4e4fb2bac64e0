package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"progression-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error)
}

// QuizRepository caches quiz payloads with TTL to avoid repeated store hits.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPayload
}

type cachedPayload struct {
	payload   domain.QuizPayload
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPayload),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[moduleID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.payload, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(moduleID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[moduleID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.payload, nil
		}
		r.mu.RUnlock()

		payload, err := r.loader.LoadQuiz(ctx, moduleID)
		if err != nil {
			return domain.QuizPayload{}, err
		}

		r.mu.Lock()
		r.cache[moduleID] = cachedPayload{
			payload:   payload,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		return domain.QuizPayload{}, err
	}
	return result.(domain.QuizPayload), nil
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.QuizPayload
}

func NewStaticQuizLoader(quizzes map[string]domain.QuizPayload) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, moduleID string) (domain.QuizPayload, error) {
	if payload, ok := l.quizzes[moduleID]; ok {
		return payload, nil
	}
	return domain.QuizPayload{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
