package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"logo-quiz-service/internal/domain"
)

// QuestionLoader fetches the question set from a backing store (sqlite, postgres, ...).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) (domain.QuestionSet, error)
}

const questionsKey = "questions"

// QuestionRepository caches the question set with a TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu         sync.RWMutex
	cached     *cachedSet
	generation uint64
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context) (domain.QuestionSet, error) {
	if set, ok := r.lookup(r.clock()); ok {
		return set, nil
	}
	r.mu.RLock()
	gen := r.generation
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(questionsKey, func() (interface{}, error) {
		return r.fill(ctx)
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	snap := result.(questionSnapshot)
	if snap.generation < gen {
		if snap, err = r.fill(ctx); err != nil {
			return domain.QuestionSet{}, err
		}
	}
	return snap.set, nil
}

type questionSnapshot struct {
	set        domain.QuestionSet
	generation uint64
}

func (r *QuestionRepository) fill(ctx context.Context) (questionSnapshot, error) {
	now := r.clock()
	r.mu.RLock()
	gen := r.generation
	r.mu.RUnlock()
	if set, ok := r.lookup(now); ok {
		return questionSnapshot{set: set, generation: gen}, nil
	}

	set, err := r.loader.LoadQuestions(ctx)
	if err != nil {
		return questionSnapshot{}, err
	}

	r.mu.Lock()
	// an Invalidate that raced with the load wins; the next read reloads
	if gen == r.generation {
		r.cached = &cachedSet{set: set, expiresAt: now.Add(r.ttlWithJitter())}
	}
	r.mu.Unlock()
	return questionSnapshot{set: set, generation: gen}, nil
}

// Invalidate drops the cached set so the next read goes to the loader.
func (r *QuestionRepository) Invalidate(_ context.Context) error {
	r.mu.Lock()
	r.cached = nil
	r.generation++
	r.mu.Unlock()
	return nil
}

func (r *QuestionRepository) lookup(now time.Time) (domain.QuestionSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached != nil && r.cached.expiresAt.After(now) {
		return r.cached.set, true
	}
	return domain.QuestionSet{}, false
}

// StaticQuestionLoader is a simple loader backed by a fixed set (useful for tests/demos).
type StaticQuestionLoader struct {
	set domain.QuestionSet
}

func NewStaticQuestionLoader(set domain.QuestionSet) *StaticQuestionLoader {
	return &StaticQuestionLoader{set: set}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) (domain.QuestionSet, error) {
	return l.set, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
