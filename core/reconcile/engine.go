package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/search"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultChunkSize is the number of staged entities that triggers a flush.
const DefaultChunkSize = 1000

// Options tunes a run.
type Options struct {
	// ChunkSize is the flush threshold. Zero means DefaultChunkSize.
	ChunkSize int
	// Limit stops the run once this many infos were checked. Zero means no limit.
	Limit int
	// Now is the clock used for "today" and for the cursor.
	Now func() time.Time
}

// Stats holds the counters of one run.
type Stats struct {
	Checked       int `json:"checked"`
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Errored       int `json:"errored"`
	CreatedThumbs int `json:"created_thumbs"`
	ErroredThumbs int `json:"errored_thumbs"`
	Flushes       int `json:"flushes"`
}

// Engine reconciles provider sequences into the catalog.
type Engine struct {
	db      *gorm.DB
	indexer search.Indexer
	thumbs  *ThumbSynchronizer
	logger  *zap.Logger
	opts    Options
}

// NewEngine creates an Engine. thumbs may be nil to disable images.
func NewEngine(db *gorm.DB, indexer search.Indexer, thumbs *ThumbSynchronizer, logger *zap.Logger, opts Options) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if indexer == nil {
		indexer = search.Noop{}
	}
	return &Engine{db: db, indexer: indexer, thumbs: thumbs, logger: logger, opts: opts}
}

// WithLimit returns a copy of the engine with a different checked-count limit.
func (e *Engine) WithLimit(limit int) *Engine {
	clone := *e
	clone.opts.Limit = limit
	return &clone
}

type run struct {
	*Engine
	adapter  Adapter
	vp       *catalog.VenueProvider
	provider *catalog.Provider
	log      *zap.Logger
	store    *Store
	chunks   *Chunks
	recorder *Recorder
	thumbed  map[ChunkKey]struct{}
	stats    Stats

	// parent is the offer resolved for the latest Offer info of the batch.
	// New stocks that follow it in the batch attach to it.
	parent *catalog.Offer
}

// Run synchronizes one venue provider from adapter. vp must have its Provider
// loaded. An inactive provider or link returns empty stats and no error.
func (e *Engine) Run(ctx context.Context, vp *catalog.VenueProvider, adapter Adapter) (Stats, error) {
	if vp.Provider == nil {
		return Stats{}, fmt.Errorf("venue provider %d: provider not loaded", vp.ID)
	}
	log := e.logger.With(
		zap.String("adapter", adapter.Name()),
		zap.Uint("provider_id", vp.ProviderID),
		zap.Uint("venue_id", vp.VenueID),
	)
	if !vp.IsActive {
		log.Info("Venue provider is inactive, skipping synchronization")
		return Stats{}, nil
	}
	if !vp.Provider.IsActive {
		log.Info("Provider is inactive, skipping synchronization")
		return Stats{}, nil
	}

	r := &run{
		Engine:   e,
		adapter:  adapter,
		vp:       vp,
		provider: vp.Provider,
		log:      log,
		store:    NewStore(e.db),
		chunks:   NewChunks(),
		recorder: NewRecorder(e.db, log, e.opts.Now),
		thumbed:  make(map[ChunkKey]struct{}),
	}
	defer r.store.Abort()

	r.recorder.Record(ctx, r.provider.ID, catalog.EventSyncStart, "Sync started: "+adapter.Name())

	// Walk the provider sequence, then write what the last chunk holds
	err := r.loop(ctx)
	if err == nil {
		err = r.flush(ctx)
	}

	// Release the run transaction before writing queued events
	r.store.Abort()
	r.recorder.Drain(ctx)
	r.summary()

	if err != nil {
		r.recorder.Record(ctx, r.provider.ID, catalog.EventSyncError, "Sync aborted: "+err.Error())
		return r.stats, err
	}
	r.recorder.Record(ctx, r.provider.ID, catalog.EventSyncEnd, "Sync ended: "+adapter.Name())

	// Advance the cursor only after a complete run
	now := e.opts.Now().UTC()
	if err := e.db.WithContext(ctx).Model(&catalog.VenueProvider{ID: vp.ID}).Update("last_sync_date", now).Error; err != nil {
		return r.stats, fmt.Errorf("failed to update last sync date: %w", err)
	}
	vp.LastSyncDate = &now
	return r.stats, nil
}

func (r *run) loop(ctx context.Context) error {
	for {
		if r.opts.Limit > 0 && r.stats.Checked >= r.opts.Limit {
			r.log.Info("Synchronization limit reached", zap.Int("limit", r.opts.Limit))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := r.adapter.Next(ctx)
		if errors.Is(err, ErrExhausted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("adapter %s: %w", r.adapter.Name(), err)
		}
		if len(batch) == 0 {
			r.stats.Checked++
			continue
		}

		r.parent = nil
		for _, info := range batch {
			if err := r.process(ctx, info); err != nil {
				return err
			}
			r.stats.Checked++
			if r.chunks.Len() >= r.opts.ChunkSize {
				if err := r.flush(ctx); err != nil {
					return err
				}
			}
		}
	}
}

func (r *run) process(ctx context.Context, info ProvidableInfo) error {
	key := info.Key()
	if info.Kind() == catalog.KindOffer {
		r.parent = nil
	}

	// The chunk shadows the database for entities staged earlier in the run
	existing, ok := r.chunks.Lookup(key)
	if !ok {
		found, err := r.store.Find(ctx, info.Kind(), info.ID())
		if err != nil {
			return err
		}
		existing = found
	}

	// Unknown to the catalog: create it when the adapter allows it
	if existing == nil {
		if !r.adapter.CanCreate() {
			return nil
		}
		entity, err := r.create(info)
		if err != nil {
			r.reject(info, err)
			return nil
		}
		r.chunks.Stage(key, entity, true)
		r.stats.Created++
		r.syncThumb(ctx, key, info, entity)
		if r.chunks.IsStaged(key) {
			r.adopt(entity)
		}
		return nil
	}
	r.adopt(existing)

	// Known: refill only when the provider reports a newer modification
	last := existing.Link().LastUpdateFor(r.provider.ID)
	if last == nil || last.Before(info.ModifiedAt()) {
		restore := existing.Snapshot()
		if err := r.fill(existing, info); err != nil {
			restore()
			r.reject(info, err)
		} else {
			r.chunks.Stage(key, existing, false)
			r.stats.Updated++
		}
	}
	r.syncThumb(ctx, key, info, existing)
	return nil
}

func (r *run) create(info ProvidableInfo) (catalog.Entity, error) {
	entity, err := catalog.New(info.Kind())
	if err != nil {
		return nil, err
	}
	if err := r.fill(entity, info); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *run) adopt(entity catalog.Entity) {
	if o, ok := entity.(*catalog.Offer); ok {
		r.parent = o
	}
}

func (r *run) fill(entity catalog.Entity, info ProvidableInfo) error {
	if s, ok := entity.(*catalog.Stock); ok && s.Offer == nil && s.OfferID == 0 {
		s.Offer = r.parent
	}
	link := entity.Link()
	link.IDAtProviders = info.NewID()
	link.Stamp(r.provider.ID, info.ModifiedAt())
	if err := entity.FillWith(r.adapter); err != nil {
		return err
	}
	return entity.Validate()
}

func (r *run) reject(info ProvidableInfo, err error) {
	r.stats.Errored++
	r.log.Warn("Provider entity rejected",
		zap.String("kind", string(info.Kind())),
		zap.String("id_at_providers", info.ID()),
		zap.Error(err),
	)
	r.recorder.Defer(r.provider.ID, catalog.EventSyncError,
		fmt.Sprintf("%s %s: %v", info.Kind(), info.ID(), err))
}

func (r *run) syncThumb(ctx context.Context, key ChunkKey, info ProvidableInfo, entity catalog.Entity) {
	if r.thumbs == nil || !r.adapter.SuppliesImages() {
		return
	}
	holder, ok := entity.(catalog.ImageHolder)
	if !ok {
		return
	}
	if _, done := r.thumbed[key]; done || !r.thumbs.due(holder) {
		return
	}
	r.thumbed[key] = struct{}{}

	outcome, err := r.thumbs.synchronize(ctx, r.adapter, holder)
	switch outcome {
	case thumbAttached:
		r.stats.CreatedThumbs++
		if !r.chunks.IsStaged(key) {
			r.chunks.Stage(key, entity, false)
		}
	case thumbFailed:
		r.stats.ErroredThumbs++
		if err != nil {
			r.log.Error("Thumbnail synchronization failed", zap.String("id_at_providers", info.ID()), zap.Error(err))
			r.recorder.Defer(r.provider.ID, catalog.EventSyncError,
				fmt.Sprintf("thumb %s: %v", info.ID(), err))
		}
	case thumbDiscarded:
		r.stats.ErroredThumbs++
		r.discard(key, info, err)
	}
}

// discard drops a staged entity that became invalid after its thumbnail was
// attached. A discarded insert no longer counts as created.
func (r *run) discard(key ChunkKey, info ProvidableInfo, err error) {
	if r.chunks.IsNew(key) {
		r.stats.Created--
	}
	r.chunks.Remove(key)
	r.reject(info, err)
}

func (r *run) flush(ctx context.Context) error {
	if r.chunks.Len() == 0 {
		return nil
	}
	ids, err := r.chunks.Flush(ctx, r.store)
	if err != nil {
		return fmt.Errorf("failed to flush chunk: %w", err)
	}
	r.stats.Flushes++
	r.recorder.Drain(ctx)
	if len(ids) > 0 {
		r.indexer.IndexOffers(ctx, ids, search.ReasonStockUpdate,
			zap.Uint("provider_id", r.provider.ID),
			zap.Uint("venue_id", r.vp.VenueID),
		)
	}
	return nil
}

func (r *run) summary() {
	r.log.Info("Synchronization summary",
		zap.Int("checked", r.stats.Checked),
		zap.Int("created", r.stats.Created),
		zap.Int("updated", r.stats.Updated),
		zap.Int("errored", r.stats.Errored),
		zap.Int("created_thumbs", r.stats.CreatedThumbs),
		zap.Int("errored_thumbs", r.stats.ErroredThumbs),
	)
}
