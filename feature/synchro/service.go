package synchro

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	// ErrVenueProviderNotFound is returned for an unknown venue provider id.
	ErrVenueProviderNotFound = errors.New("venue provider not found")
	// ErrUnknownProvider is returned when no adapter serves the provider's class.
	ErrUnknownProvider = errors.New("no adapter for provider")
)

// AdapterFactory builds a fresh adapter for one run of vp.
type AdapterFactory func(vp *catalog.VenueProvider) (reconcile.Adapter, error)

// RunResult reports the outcome of one venue provider in SyncAll.
type RunResult struct {
	VenueProviderID uint            `json:"venue_provider_id"`
	Stats           reconcile.Stats `json:"stats"`
	Error           string          `json:"error,omitempty"`
}

// Service resolves venue providers to adapters and runs the engine on them.
type Service struct {
	db        *gorm.DB
	engine    *reconcile.Engine
	factories map[string]AdapterFactory
	logger    *zap.Logger

	runs singleflight.Group
}

// NewService creates a Service. factories is keyed by Provider.LocalClass.
func NewService(db *gorm.DB, engine *reconcile.Engine, factories map[string]AdapterFactory, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		engine:    engine,
		factories: factories,
		logger:    logger,
	}
}

// SyncVenueProvider synchronizes one venue provider. Concurrent calls for the
// same id and limit share a single run and its result. A positive limit caps
// the number of checked entries.
//
// The shared run is detached from the callers' cancellation: a caller whose
// ctx ends stops waiting and gets ctx.Err(), the run goes on for the others.
func (s *Service) SyncVenueProvider(ctx context.Context, id uint, limit int) (reconcile.Stats, error) {
	key := strconv.FormatUint(uint64(id), 10) + "/" + strconv.Itoa(max(limit, 0))
	runCtx := context.WithoutCancel(ctx)
	ch := s.runs.DoChan(key, func() (any, error) {
		return s.run(runCtx, id, limit)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined running synchronization", zap.Uint("venue_provider_id", id))
		}
		stats, _ := res.Val.(reconcile.Stats)
		return stats, res.Err
	case <-ctx.Done():
		s.logger.Info("Stopped waiting for synchronization",
			zap.Uint("venue_provider_id", id),
			zap.Error(ctx.Err()),
		)
		return reconcile.Stats{}, ctx.Err()
	}
}

func (s *Service) run(ctx context.Context, id uint, limit int) (reconcile.Stats, error) {
	var vp catalog.VenueProvider
	err := s.db.WithContext(ctx).Preload("Provider").First(&vp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.Stats{}, fmt.Errorf("%w: %d", ErrVenueProviderNotFound, id)
	}
	if err != nil {
		return reconcile.Stats{}, fmt.Errorf("failed to load venue provider %d: %w", id, err)
	}
	if vp.Provider == nil {
		return reconcile.Stats{}, fmt.Errorf("%w: venue provider %d has no provider", ErrUnknownProvider, id)
	}

	factory, ok := s.factories[vp.Provider.LocalClass]
	if !ok {
		return reconcile.Stats{}, fmt.Errorf("%w: %q", ErrUnknownProvider, vp.Provider.LocalClass)
	}
	adapter, err := factory(&vp)
	if err != nil {
		return reconcile.Stats{}, fmt.Errorf("failed to build adapter %s: %w", vp.Provider.LocalClass, err)
	}

	engine := s.engine
	if limit > 0 {
		engine = engine.WithLimit(limit)
	}

	start := time.Now()
	stats, err := engine.Run(ctx, &vp, adapter)
	s.logger.Info("Venue provider synchronized",
		zap.Uint("venue_provider_id", vp.ID),
		zap.String("provider", vp.Provider.Name),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("success", err == nil),
	)
	return stats, err
}

// SyncAll synchronizes every active venue provider one after the other. A
// failing venue provider does not stop the others.
func (s *Service) SyncAll(ctx context.Context) ([]RunResult, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&catalog.VenueProvider{}).
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list venue providers: %w", err)
	}

	results := make([]RunResult, 0, len(ids))
	failed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		stats, err := s.SyncVenueProvider(ctx, id, 0)
		result := RunResult{VenueProviderID: id, Stats: stats}
		if err != nil {
			failed++
			result.Error = err.Error()
			s.logger.Error("Venue provider synchronization failed", zap.Uint("venue_provider_id", id), zap.Error(err))
		}
		results = append(results, result)
	}

	s.logger.Info("All venue providers synchronized",
		zap.Int("total", len(ids)),
		zap.Int("failed", failed),
	)
	return results, nil
}

// Events returns the latest events of a provider, newest first.
func (s *Service) Events(ctx context.Context, providerID uint, limit int) ([]catalog.LocalProviderEvent, error) {
	return reconcile.Events(ctx, s.db, providerID, limit)
}
