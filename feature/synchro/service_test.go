package synchro

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/database"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/cinema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(catalog.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedVenueProvider(t *testing.T, db *gorm.DB, localClass, cinemaID string, active bool) *catalog.VenueProvider {
	t.Helper()
	provider := &catalog.Provider{Name: localClass, LocalClass: localClass, IsActive: true}
	require.NoError(t, db.Create(provider).Error)
	vp := &catalog.VenueProvider{VenueID: 42, ProviderID: provider.ID, VenueIDAtOfferProvider: cinemaID, IsActive: true}
	require.NoError(t, db.Create(vp).Error)
	if !active {
		require.NoError(t, db.Model(vp).Update("is_active", false).Error)
	}
	vp.Provider = provider
	return vp
}

func newListingsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cinemas/cine-1/movies", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "m1", "title": "Movie One", "duration": 95, "updated_at": "2024-06-01T00:00:00Z"}]`))
	})
	mux.HandleFunc("/cinemas/cine-1/shows", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "movie_id": "m1", "showtime": "2024-06-10T20:00:00Z", "price": "7.50", "remaining_seats": 80, "updated_at": "2024-06-01T00:00:00Z"},
			{"id": 2, "movie_id": "m1", "showtime": "2024-06-11T20:00:00Z", "price": "7.50", "remaining_seats": 80, "updated_at": "2024-06-01T00:00:00Z"}
		]`))
	})
	mux.HandleFunc("/cinemas/broken/movies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newCinemaService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	server := newListingsServer(t)
	cfg := cinema.Config{BaseURL: server.URL, Images: false}
	client := cinema.NewClient(cfg)
	factories := map[string]AdapterFactory{
		cinema.LocalClass: func(vp *catalog.VenueProvider) (reconcile.Adapter, error) {
			return cinema.NewAdapter(client, vp, cfg, func() time.Time { return testNow }), nil
		},
	}
	engine := reconcile.NewEngine(db, nil, nil, zap.NewNop(), reconcile.Options{Now: func() time.Time { return testNow }})
	return NewService(db, engine, factories, zap.NewNop())
}

func TestService_SyncVenueProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := newCinemaService(t, db)
	vp := seedVenueProvider(t, db, cinema.LocalClass, "cine-1", true)

	stats, err := svc.SyncVenueProvider(context.Background(), vp.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Checked)
	assert.Equal(t, 3, stats.Created)

	var offer catalog.Offer
	require.NoError(t, db.Where("id_at_providers = ?", "m1%42%CINEMA").First(&offer).Error)
	assert.Equal(t, "Movie One", offer.Name)

	var stocks []catalog.Stock
	require.NoError(t, db.Find(&stocks).Error)
	require.Len(t, stocks, 2)
	for _, s := range stocks {
		assert.Equal(t, offer.ID, s.OfferID)
		require.NotNil(t, s.Quantity)
		assert.Equal(t, 80, *s.Quantity)
	}

	// A second run finds nothing newer.
	stats, err = svc.SyncVenueProvider(context.Background(), vp.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, stats.Created)
	assert.Zero(t, stats.Updated)

	events, err := svc.Events(context.Background(), vp.ProviderID, 10)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, catalog.EventSyncEnd, events[0].Type)
}

func TestService_SyncVenueProvider_Limit(t *testing.T) {
	db := setupTestDB(t)
	svc := newCinemaService(t, db)
	vp := seedVenueProvider(t, db, cinema.LocalClass, "cine-1", true)

	stats, err := svc.SyncVenueProvider(context.Background(), vp.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Checked, "the limit is checked between batches")
}

func TestService_SyncVenueProvider_Errors(t *testing.T) {
	db := setupTestDB(t)
	svc := newCinemaService(t, db)

	_, err := svc.SyncVenueProvider(context.Background(), 999, 0)
	assert.ErrorIs(t, err, ErrVenueProviderNotFound)

	unknown := seedVenueProvider(t, db, "TiteLiveStocks", "x", true)
	_, err = svc.SyncVenueProvider(context.Background(), unknown.ID, 0)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	broken := seedVenueProvider(t, db, cinema.LocalClass, "broken", true)
	_, err = svc.SyncVenueProvider(context.Background(), broken.ID, 0)
	assert.ErrorIs(t, err, cinema.ErrUnexpectedStatus)
}

func TestService_SyncAll(t *testing.T) {
	db := setupTestDB(t)
	svc := newCinemaService(t, db)
	ok := seedVenueProvider(t, db, cinema.LocalClass, "cine-1", true)
	broken := seedVenueProvider(t, db, cinema.LocalClass, "broken", true)
	seedVenueProvider(t, db, cinema.LocalClass, "cine-1", false)

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2, "inactive venue providers are not listed")

	assert.Equal(t, ok.ID, results[0].VenueProviderID)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, 3, results[0].Stats.Created)

	assert.Equal(t, broken.ID, results[1].VenueProviderID)
	assert.Contains(t, results[1].Error, "502")
}

// gatedAdapter blocks its first batch until released.
type gatedAdapter struct {
	reconcile.BaseAdapter
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (a *gatedAdapter) Name() string { return "Gated" }

func (a *gatedAdapter) Next(ctx context.Context) ([]reconcile.ProvidableInfo, error) {
	a.once.Do(func() { close(a.started) })
	select {
	case <-a.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return nil, reconcile.ErrExhausted
}

func (a *gatedAdapter) FillOffer(*catalog.Offer) error { return nil }

func (a *gatedAdapter) FillStock(*catalog.Stock) error { return nil }

func TestService_ConcurrentCallsShareRun(t *testing.T) {
	db := setupTestDB(t)
	vp := seedVenueProvider(t, db, "Gated", "g", true)

	var built atomic.Int32
	adapter := &gatedAdapter{started: make(chan struct{}), release: make(chan struct{})}
	factories := map[string]AdapterFactory{
		"Gated": func(*catalog.VenueProvider) (reconcile.Adapter, error) {
			built.Add(1)
			return adapter, nil
		},
	}
	engine := reconcile.NewEngine(db, nil, nil, zap.NewNop(), reconcile.Options{})
	svc := NewService(db, engine, factories, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.SyncVenueProvider(context.Background(), vp.ID, 0)
	}()
	<-adapter.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = svc.SyncVenueProvider(context.Background(), vp.ID, 0)
	}()
	time.Sleep(50 * time.Millisecond)
	close(adapter.release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, int32(1), built.Load())
}

func newGatedService(t *testing.T) (*Service, *catalog.VenueProvider, *gatedAdapter, *atomic.Int32) {
	t.Helper()
	db := setupTestDB(t)
	vp := seedVenueProvider(t, db, "Gated", "g", true)

	built := &atomic.Int32{}
	adapter := &gatedAdapter{started: make(chan struct{}), release: make(chan struct{})}
	factories := map[string]AdapterFactory{
		"Gated": func(*catalog.VenueProvider) (reconcile.Adapter, error) {
			built.Add(1)
			return adapter, nil
		},
	}
	engine := reconcile.NewEngine(db, nil, nil, zap.NewNop(), reconcile.Options{})
	return NewService(db, engine, factories, zap.NewNop()), vp, adapter, built
}

func TestService_CallerCancellationDoesNotAbortSharedRun(t *testing.T) {
	svc, vp, adapter, built := newGatedService(t)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.SyncVenueProvider(firstCtx, vp.ID, 0)
	}()
	<-adapter.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = svc.SyncVenueProvider(context.Background(), vp.ID, 0)
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	close(adapter.release)
	wg.Wait()

	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.NoError(t, errs[1], "the run goes on for the remaining caller")
	assert.Equal(t, int32(1), built.Load())

	events, err := svc.Events(context.Background(), vp.ProviderID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, catalog.EventSyncEnd, events[0].Type)
}

func TestService_DifferentLimitsRunSeparately(t *testing.T) {
	db := setupTestDB(t)
	vp := seedVenueProvider(t, db, "Gated", "g", true)

	gated := &gatedAdapter{started: make(chan struct{}), release: make(chan struct{})}
	var built atomic.Int32
	factories := map[string]AdapterFactory{
		"Gated": func(*catalog.VenueProvider) (reconcile.Adapter, error) {
			if built.Add(1) == 1 {
				return gated, nil
			}
			open := &gatedAdapter{started: make(chan struct{}), release: make(chan struct{})}
			close(open.release)
			return open, nil
		},
	}
	engine := reconcile.NewEngine(db, nil, nil, zap.NewNop(), reconcile.Options{})
	svc := NewService(db, engine, factories, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.SyncVenueProvider(context.Background(), vp.ID, 0)
		done <- err
	}()
	<-gated.started

	// A call with another limit does not join the blocked run
	_, err := svc.SyncVenueProvider(context.Background(), vp.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(2), built.Load())

	close(gated.release)
	assert.NoError(t, <-done)
}
