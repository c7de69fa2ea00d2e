package search

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisIndexer adds offer ids to a redis set drained by the indexing worker.
// A set deduplicates ids queued by consecutive flushes.
type RedisIndexer struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisIndexer creates an indexer writing to the set key.
func NewRedisIndexer(client *redis.Client, key string, logger *zap.Logger) *RedisIndexer {
	return &RedisIndexer{client: client, key: key, logger: logger}
}

func (r *RedisIndexer) IndexOffers(ctx context.Context, offerIDs []uint, reason Reason, logFields ...zap.Field) {
	if len(offerIDs) == 0 {
		return
	}
	members := make([]any, len(offerIDs))
	for i, id := range offerIDs {
		members[i] = strconv.FormatUint(uint64(id), 10)
	}

	fields := append([]zap.Field{
		zap.String("reason", string(reason)),
		zap.Int("count", len(offerIDs)),
	}, logFields...)

	if err := r.client.SAdd(ctx, r.key, members...).Err(); err != nil {
		r.logger.Error("Failed to queue offers for reindexing", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Debug("Queued offers for reindexing", fields...)
}

// Pending returns the ids waiting in the set.
func (r *RedisIndexer) Pending(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, r.key).Result()
}
