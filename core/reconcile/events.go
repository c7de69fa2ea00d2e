package reconcile

import (
	"context"
	"time"
	"unicode/utf8"

	"catalog-sync/core/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPayloadLength = 255

// Recorder appends run lifecycle events. Each event is committed on its own,
// outside the transaction holding staged entities, so a rollback keeps the
// error trail. Events raised while that transaction is open are queued with
// Defer and written by Drain once it has ended: on sqlite a second connection
// cannot commit while the run holds its read lock.
type Recorder struct {
	db      *gorm.DB
	logger  *zap.Logger
	now     func() time.Time
	pending []catalog.LocalProviderEvent
}

// NewRecorder creates a Recorder on db.
func NewRecorder(db *gorm.DB, logger *zap.Logger, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{db: db, logger: logger, now: now}
}

// Record appends one event. A failure to write is logged and swallowed. The
// write survives cancellation of ctx so an aborted run still leaves its trail.
func (r *Recorder) Record(ctx context.Context, providerID uint, eventType catalog.EventType, payload string) {
	r.write(ctx, r.event(providerID, eventType, payload))
}

// Defer queues one event until the next Drain. Its date is taken now.
func (r *Recorder) Defer(providerID uint, eventType catalog.EventType, payload string) {
	r.pending = append(r.pending, r.event(providerID, eventType, payload))
}

// Drain writes the queued events in order.
func (r *Recorder) Drain(ctx context.Context) {
	pending := r.pending
	r.pending = nil
	for i := range pending {
		r.write(ctx, pending[i])
	}
}

func (r *Recorder) event(providerID uint, eventType catalog.EventType, payload string) catalog.LocalProviderEvent {
	return catalog.LocalProviderEvent{
		ProviderID: providerID,
		Type:       eventType,
		Payload:    truncate(payload, maxPayloadLength),
		Date:       r.now().UTC(),
	}
}

func (r *Recorder) write(ctx context.Context, event catalog.LocalProviderEvent) {
	db := r.db.WithContext(context.WithoutCancel(ctx)).Session(&gorm.Session{NewDB: true})
	if err := db.Create(&event).Error; err != nil {
		r.logger.Error("Failed to record provider event",
			zap.Uint("provider_id", event.ProviderID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Events returns the most recent events of a provider, newest first.
func Events(ctx context.Context, db *gorm.DB, providerID uint, limit int) ([]catalog.LocalProviderEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []catalog.LocalProviderEvent
	err := db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("date DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
