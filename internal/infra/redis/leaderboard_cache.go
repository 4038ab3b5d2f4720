package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"logo-quiz-service/internal/domain"
)

// LeaderboardSource reads the ordered top submissions.
type LeaderboardSource interface {
	TopSubmissions(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardCache stores the top-N leaderboard as JSON. Submissions delete the key and bump
// its version; the TTL only bounds staleness for writes from outside the service.
type LeaderboardCache struct {
	client *redis.Client
	source LeaderboardSource
	limit  int
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardCache(client *redis.Client, source LeaderboardSource, limit int, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, source: source, limit: limit, ttl: ttl}
}

func (c *LeaderboardCache) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, LeaderboardKey).Bytes()
	if err == nil {
		var entries []domain.LeaderboardEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return c.load(ctx)
	}

	seen, err := readVersion(ctx, c.client, leaderboardVersionKey)
	if err != nil {
		return c.load(ctx)
	}
	result, err, _ := c.sf.Do(LeaderboardKey, func() (interface{}, error) {
		return c.fill(ctx)
	})
	if err != nil {
		return nil, err
	}
	snap := result.(leaderboardSnapshot)
	if snap.version < seen {
		// joined a load that started before an invalidation this caller already saw
		if snap, err = c.fill(ctx); err != nil {
			return nil, err
		}
	}
	return snap.entries, nil
}

// Invalidate bumps the version so in-flight loads cannot write back, then deletes the key.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := invalidate(ctx, c.client, LeaderboardKey, leaderboardVersionKey); err != nil {
		return fmt.Errorf("invalidate leaderboard: %w", err)
	}
	return nil
}

type leaderboardSnapshot struct {
	entries []domain.LeaderboardEntry
	version int64
}

func (c *LeaderboardCache) fill(ctx context.Context) (leaderboardSnapshot, error) {
	ver, verErr := readVersion(ctx, c.client, leaderboardVersionKey)
	entries, err := c.load(ctx)
	if err != nil {
		return leaderboardSnapshot{}, err
	}
	if verErr != nil {
		return leaderboardSnapshot{entries: entries}, nil
	}
	if data, err := json.Marshal(entries); err == nil {
		// a stale or failed write only costs another load
		_ = storeIfCurrent(ctx, c.client, LeaderboardKey, leaderboardVersionKey, ver, data, c.ttl)
	}
	return leaderboardSnapshot{entries: entries, version: ver}, nil
}

func (c *LeaderboardCache) load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := c.source.TopSubmissions(ctx, c.limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}
