package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishibondhu/server/internal/assistant/model"
	errx "github.com/krishibondhu/server/internal/core/error"
	logx "github.com/krishibondhu/server/pkg/logger"
)

// RedisRunArchive stores completed pipeline runs per user as a Redis list,
// newest last. The archive is advisory history; the pipeline never reads it
// back on the hot path.
type RedisRunArchive struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisRunArchive(rdb redis.Cmdable, ttl time.Duration) *RedisRunArchive {
	return &RedisRunArchive{rdb: rdb, ttl: ttl}
}

func (r *RedisRunArchive) runsKey(userID string) string {
	return fmt.Sprintf("runs:%s", userID)
}

func (r *RedisRunArchive) SaveRun(ctx context.Context, record *model.RunRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		logx.Error().Err(err).Str("user_id", record.UserID).Msg("failed to marshal run record")
		return fmt.Errorf("marshal run record: %w", err)
	}
	key := r.runsKey(record.UserID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push run record to redis")
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on runs key")
		}
	}
	return nil
}

// RecentRuns returns up to limit most recent runs for a user, newest first.
func (r *RedisRunArchive) RecentRuns(ctx context.Context, userID string, limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	key := r.runsKey(userID)

	rows, err := r.rdb.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load run records from redis")
		return nil, errx.WrapRedis(err)
	}

	records := make([]*model.RunRecord, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var rec model.RunRecord
		if err := json.Unmarshal([]byte(rows[i]), &rec); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Int("index", i).Msg("failed to unmarshal run record")
			return nil, fmt.Errorf("unmarshal run record at index %d: %w", i, err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

var _ model.RunArchive = (*RedisRunArchive)(nil)
