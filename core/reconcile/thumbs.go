package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/imaging"
	"catalog-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ThumbConfig locates stored thumbnails and bounds their size.
type ThumbConfig struct {
	Bucket  string
	Prefix  string
	Imaging imaging.Options
}

// thumbOutcome tells the engine what happened to the entity.
type thumbOutcome int

const (
	thumbSkipped thumbOutcome = iota
	thumbFailed
	thumbAttached
	thumbDiscarded
)

// ThumbSynchronizer attaches provider images to entities, at most one per
// entity per calendar day.
type ThumbSynchronizer struct {
	client storage.Client
	cfg    ThumbConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewThumbSynchronizer creates a synchronizer storing into client.
func NewThumbSynchronizer(client storage.Client, cfg ThumbConfig, logger *zap.Logger, now func() time.Time) *ThumbSynchronizer {
	if now == nil {
		now = time.Now
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "thumbs"
	}
	return &ThumbSynchronizer{client: client, cfg: cfg, logger: logger, now: now}
}

// due reports whether the holder may receive an image today.
func (t *ThumbSynchronizer) due(h catalog.ImageHolder) bool {
	synced := h.Thumbnail().ThumbSyncedAt
	if synced == nil {
		return true
	}
	y1, m1, d1 := synced.UTC().Date()
	y2, m2, d2 := t.now().UTC().Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

// synchronize fetches the adapter's current image and attaches it to h. After
// a successful attach the entity is validated again; thumbDiscarded means it
// failed and its fields were restored.
func (t *ThumbSynchronizer) synchronize(ctx context.Context, adapter Adapter, h catalog.ImageHolder) (thumbOutcome, error) {
	raw, err := adapter.ImageBytes(ctx)
	if err != nil {
		return thumbFailed, fmt.Errorf("failed to fetch image: %w", err)
	}
	if len(raw) == 0 {
		return thumbSkipped, nil
	}

	opts := t.cfg.Imaging
	opts.KeepRatio = adapter.KeepAspectRatio()
	data, err := imaging.Thumbnail(raw, opts)
	if err != nil {
		fields := []zap.Field{
			zap.String("adapter", adapter.Name()),
			zap.String("id_at_providers", h.Link().IDAtProviders),
			zap.Error(err),
		}
		if lf, ok := adapter.(LogFielder); ok {
			fields = append(fields, lf.LogFields()...)
		}
		t.logger.Warn("Provider image rejected", fields...)
		return thumbFailed, nil
	}

	objectName := path.Join(t.cfg.Prefix, uuid.NewString()+".jpg")
	if _, err := t.client.PutObject(ctx, t.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	}); err != nil {
		return thumbFailed, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	restore := h.Snapshot()
	thumb := h.Thumbnail()
	syncedAt := t.now().UTC()
	thumb.ThumbCount++
	thumb.ThumbPath = objectName
	thumb.ThumbSyncedAt = &syncedAt

	if err := h.Validate(); err != nil {
		restore()
		if rmErr := t.client.RemoveObject(ctx, t.cfg.Bucket, objectName, minio.RemoveObjectOptions{}); rmErr != nil {
			t.logger.Warn("Failed to remove orphan thumbnail", zap.String("object", objectName), zap.Error(rmErr))
		}
		return thumbDiscarded, err
	}
	return thumbAttached, nil
}
