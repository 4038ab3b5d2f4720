package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Version counters bumped on every invalidation. A load may only fill its key while the
// counter still holds the value read before the load started.
const (
	questionsVersionKey   = "quiz:questions:version"
	leaderboardVersionKey = "quiz:leaderboard:version"
)

var errStaleLoad = errors.New("cache invalidated during load")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, c stringGetter, versionKey string) (int64, error) {
	v, err := c.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", versionKey, err)
	}
	return v, nil
}

// storeIfCurrent sets key only if versionKey still equals seen. Returns errStaleLoad when an
// invalidation landed after seen was read, including one racing the EXEC.
func storeIfCurrent(ctx context.Context, client *redis.Client, key, versionKey string, seen int64, data []byte, ttl time.Duration) error {
	err := client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readVersion(ctx, tx, versionKey)
		if err != nil {
			return err
		}
		if cur != seen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return errStaleLoad
	}
	return err
}

// invalidate bumps the version and drops the cached value in one transaction.
func invalidate(ctx context.Context, client *redis.Client, key, versionKey string) error {
	_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey)
		p.Del(ctx, key)
		return nil
	})
	return err
}
