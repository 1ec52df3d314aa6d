package redis

import (
	"context"
	"fmt"
	"time"

	repo "github.com/ilindan-dev/alertgate/internal/domain/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Ensure DedupStore implements the interface
var _ repo.DedupStore = (*DedupStore)(nil)

// DedupStore implements the repository.DedupStore interface on Redis,
// sharing the suppression window between processes. SET NX with a TTL
// makes the check-and-record step atomic on the server side, so no two
// callers can both observe "allow" for one fingerprint.
type DedupStore struct {
	redis  *goredis.Client
	window time.Duration
	logger zerolog.Logger
}

// NewDedupStore creates a new instance of the Redis-backed store.
func NewDedupStore(redis *goredis.Client, window time.Duration, logger *zerolog.Logger) *DedupStore {
	return &DedupStore{
		redis:  redis,
		window: window,
		logger: logger.With().Str("layer", "redis_dedup").Logger(),
	}
}

func dedupKey(fingerprint string) string {
	return fmt.Sprintf("alertgate:dedup:%s", fingerprint)
}

// CheckAndRecord implements repository.DedupStore. Redis expires the key
// itself, so no explicit eviction pass is needed.
func (s *DedupStore) CheckAndRecord(ctx context.Context, fingerprint string, now time.Time) (bool, error) {
	key := dedupKey(fingerprint)
	ok, err := s.redis.SetNX(ctx, key, now.Unix(), s.window).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set dedup key in redis")
		return false, fmt.Errorf("redis: SetNX failed: %w", err)
	}
	if !ok {
		s.logger.Info().Str("key", key).Msg("fingerprint already recorded within window")
	}
	return ok, nil
}

// Record implements repository.DedupStore. Overwrites any existing entry
// and restarts its TTL.
func (s *DedupStore) Record(ctx context.Context, fingerprint string, now time.Time) error {
	key := dedupKey(fingerprint)
	if err := s.redis.Set(ctx, key, now.Unix(), s.window).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to record dedup key in redis")
		return fmt.Errorf("redis: Set failed: %w", err)
	}
	return nil
}
