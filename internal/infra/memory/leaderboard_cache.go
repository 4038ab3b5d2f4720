package memory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"logo-quiz-service/internal/domain"
)

// LeaderboardSource reads the ordered top submissions.
type LeaderboardSource interface {
	TopSubmissions(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardCache keeps the last leaderboard read until Invalidate is called.
// Submissions invalidate it, so there is no TTL.
type LeaderboardCache struct {
	source LeaderboardSource
	limit  int
	sf     singleflight.Group

	mu         sync.RWMutex
	entries    []domain.LeaderboardEntry
	valid      bool
	generation uint64
}

func NewLeaderboardCache(source LeaderboardSource, limit int) *LeaderboardCache {
	return &LeaderboardCache{source: source, limit: limit}
}

func (c *LeaderboardCache) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	c.mu.RLock()
	if c.valid {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	gen := c.generation
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("leaderboard", func() (interface{}, error) {
		return c.fill(ctx)
	})
	if err != nil {
		return nil, err
	}
	snap := result.(leaderboardSnapshot)
	if snap.generation < gen {
		// joined a flight that started before an invalidation this caller saw
		if snap, err = c.fill(ctx); err != nil {
			return nil, err
		}
	}
	return snap.entries, nil
}

type leaderboardSnapshot struct {
	entries    []domain.LeaderboardEntry
	generation uint64
}

func (c *LeaderboardCache) fill(ctx context.Context) (leaderboardSnapshot, error) {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	entries, err := c.source.TopSubmissions(ctx, c.limit)
	if err != nil {
		return leaderboardSnapshot{}, err
	}
	c.mu.Lock()
	if gen == c.generation {
		c.entries = entries
		c.valid = true
	}
	c.mu.Unlock()
	return leaderboardSnapshot{entries: entries, generation: gen}, nil
}

func (c *LeaderboardCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.valid = false
	c.entries = nil
	c.generation++
	c.mu.Unlock()
	return nil
}
