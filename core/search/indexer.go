package search

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Reason tags why offers are queued for reindexing.
type Reason string

const (
	ReasonStockUpdate   Reason = "stock_update"
	ReasonManualRequest Reason = "manual_request"
)

// Indexer queues offers for asynchronous reindexing. Delivery is best effort:
// implementations log failures and never report them to the caller.
type Indexer interface {
	IndexOffers(ctx context.Context, offerIDs []uint, reason Reason, logFields ...zap.Field)
}

// Noop discards every request.
type Noop struct{}

func (Noop) IndexOffers(context.Context, []uint, Reason, ...zap.Field) {}

// Backend names.
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendAMQP  = "amqp"
)

// New builds the indexer selected by cfg.Backend.
func New(cfg Config, logger *zap.Logger) (Indexer, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return Noop{}, nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisIndexer(client, cfg.RedisKey, logger), nil
	case BackendAMQP:
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
		}
		return NewAMQPIndexer(conn, cfg.AMQPQueue, logger)
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Backend)
	}
}
