package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ReindexMessage is the body published for each flush.
type ReindexMessage struct {
	OfferIDs []uint    `json:"offer_ids"`
	Reason   Reason    `json:"reason"`
	SentAt   time.Time `json:"sent_at"`
}

// AMQPIndexer publishes reindex messages to a durable RabbitMQ queue.
type AMQPIndexer struct {
	conn   *amqp.Connection
	queue  string
	logger *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPIndexer declares queue on conn and returns an indexer publishing to it.
func NewAMQPIndexer(conn *amqp.Connection, queue string, logger *zap.Logger) (*AMQPIndexer, error) {
	a := &AMQPIndexer{conn: conn, queue: queue, logger: logger}
	if _, err := a.channel(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AMQPIndexer) channel() (*amqp.Channel, error) {
	if a.ch != nil && !a.ch.IsClosed() {
		return a.ch, nil
	}
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(a.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", a.queue, err)
	}
	a.ch = ch
	return ch, nil
}

func (a *AMQPIndexer) IndexOffers(ctx context.Context, offerIDs []uint, reason Reason, logFields ...zap.Field) {
	if len(offerIDs) == 0 {
		return
	}
	fields := append([]zap.Field{
		zap.String("reason", string(reason)),
		zap.Int("count", len(offerIDs)),
	}, logFields...)

	body, err := json.Marshal(ReindexMessage{OfferIDs: offerIDs, Reason: reason, SentAt: time.Now().UTC()})
	if err != nil {
		a.logger.Error("Failed to encode reindex message", append(fields, zap.Error(err))...)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	ch, err := a.channel()
	if err == nil {
		err = ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	}
	if err != nil {
		a.logger.Error("Failed to publish reindex message", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Debug("Published reindex message", fields...)
}

// Close releases the channel and the connection.
func (a *AMQPIndexer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch != nil {
		_ = a.ch.Close()
	}
	return a.conn.Close()
}
