package cmd

import (
	"fmt"
	"io"

	"catalog-sync/core/catalog"
	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/search"
	"catalog-sync/core/storage"
	"catalog-sync/feature/cinema"
	"catalog-sync/feature/synchro"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the dependencies shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	indexer search.Indexer
	service *synchro.Service
}

// bootstrap loads the configuration and connects the database. Storage is
// optional: without it thumbnails are not synchronized.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

	rt := &runtime{cfg: cfg, logger: logg, db: db}

	if store, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage unavailable, thumbnails disabled", zap.Error(err))
	} else {
		rt.store = store
	}

	return rt, nil
}

// synchronization wires the engine, the adapters and the run coordinator.
func (rt *runtime) synchronization() (*synchro.Service, error) {
	if rt.service != nil {
		return rt.service, nil
	}

	indexer, err := search.New(rt.cfg.Search, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search indexer: %w", err)
	}
	rt.indexer = indexer

	var thumbs *reconcile.ThumbSynchronizer
	if rt.store != nil {
		thumbs = reconcile.NewThumbSynchronizer(rt.store, rt.cfg.Sync.ThumbConfig(rt.cfg.Storage.Bucket), rt.logger, nil)
	}
	engine := reconcile.NewEngine(rt.db, indexer, thumbs, rt.logger, rt.cfg.Sync.Options())

	cinemaCfg := rt.cfg.Cinema
	listings := cinema.NewClient(cinemaCfg)
	factories := map[string]synchro.AdapterFactory{
		cinema.LocalClass: func(vp *catalog.VenueProvider) (reconcile.Adapter, error) {
			return cinema.NewAdapter(listings, vp, cinemaCfg, nil), nil
		},
	}

	rt.service = synchro.NewService(rt.db, engine, factories, rt.logger)
	return rt.service, nil
}

// close releases the indexer connection and the database pool.
func (rt *runtime) close() {
	if c, ok := rt.indexer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			rt.logger.Warn("Failed to close search indexer", zap.Error(err))
		}
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.logger.Sync()
}
