package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"logo-quiz-service/internal/domain"
)

// QuestionLoader fetches the question set from the backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) (domain.QuestionSet, error)
}

// Keys shared by every instance of the service.
const (
	QuestionsKey   = "quiz:questions"
	LeaderboardKey = "quiz:leaderboard"
)

// QuestionRepository caches the whole question set as one JSON value and falls back to a loader on miss.
// The cached value includes answer keys; it never leaves the server.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx); ok {
		return set, nil
	}

	seen, err := readVersion(ctx, r.client, questionsVersionKey)
	if err != nil {
		return r.loader.LoadQuestions(ctx)
	}
	result, err, _ := r.sf.Do(QuestionsKey, func() (interface{}, error) {
		return r.fill(ctx)
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	snap := result.(questionSnapshot)
	if snap.version < seen {
		if snap, err = r.fill(ctx); err != nil {
			return domain.QuestionSet{}, err
		}
	}
	return snap.set, nil
}

// Invalidate deletes the cached set for every instance sharing this Redis and bumps its
// version so loads already in flight do not write the old set back.
func (r *QuestionRepository) Invalidate(ctx context.Context) error {
	if err := invalidate(ctx, r.client, QuestionsKey, questionsVersionKey); err != nil {
		return fmt.Errorf("invalidate questions: %w", err)
	}
	return nil
}

type questionSnapshot struct {
	set     domain.QuestionSet
	version int64
}

func (r *QuestionRepository) fill(ctx context.Context) (questionSnapshot, error) {
	ver, verErr := readVersion(ctx, r.client, questionsVersionKey)
	// Re-check cache in case another goroutine filled it.
	if verErr == nil {
		if set, ok := r.cached(ctx); ok {
			return questionSnapshot{set: set, version: ver}, nil
		}
	}

	set, err := r.loader.LoadQuestions(ctx)
	if err != nil {
		return questionSnapshot{}, err
	}
	if verErr != nil {
		return questionSnapshot{set: set}, nil
	}

	data, err := json.Marshal(set)
	if err != nil {
		return questionSnapshot{}, fmt.Errorf("marshal questions: %w", err)
	}
	if ttl := r.ttlWithJitter(); ttl > 0 {
		// a stale or failed write only costs another load
		_ = storeIfCurrent(ctx, r.client, QuestionsKey, questionsVersionKey, ver, data, ttl)
	}
	return questionSnapshot{set: set, version: ver}, nil
}

func (r *QuestionRepository) cached(ctx context.Context) (domain.QuestionSet, bool) {
	data, err := r.client.Get(ctx, QuestionsKey).Bytes()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
