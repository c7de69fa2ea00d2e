package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/database"
	"catalog-sync/core/search"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

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

func seedVenueProvider(t *testing.T, db *gorm.DB) *catalog.VenueProvider {
	t.Helper()
	provider := &catalog.Provider{Name: "Cinema API", LocalClass: "CinemaStocks", IsActive: true, EnabledForPro: true}
	require.NoError(t, db.Create(provider).Error)

	vp := &catalog.VenueProvider{
		VenueID:                42,
		ProviderID:             provider.ID,
		VenueIDAtOfferProvider: "cinema-9",
		IsActive:               true,
	}
	require.NoError(t, db.Create(vp).Error)
	vp.Provider = provider
	return vp
}

// fakeRecord is one entity an adapter batch describes.
type fakeRecord struct {
	kind       catalog.Kind
	id         string
	modifiedAt time.Time
	name       string
	price      string
	fillErr    error
}

func offerRecord(id, name string, at time.Time) fakeRecord {
	return fakeRecord{kind: catalog.KindOffer, id: id, name: name, modifiedAt: at}
}

func stockRecord(id, price string, at time.Time) fakeRecord {
	return fakeRecord{kind: catalog.KindStock, id: id, price: price, modifiedAt: at}
}

type fakeAdapter struct {
	BaseAdapter
	venueID  uint
	batches  [][]fakeRecord
	pos      int
	current  map[string]fakeRecord
	err      error
	noCreate bool
	image    []byte
	imageErr error
}

func newFakeAdapter(venueID uint, batches ...[]fakeRecord) *fakeAdapter {
	return &fakeAdapter{venueID: venueID, batches: batches}
}

func (a *fakeAdapter) Name() string { return "FakeAdapter" }

func (a *fakeAdapter) CanCreate() bool { return !a.noCreate }

func (a *fakeAdapter) SuppliesImages() bool { return a.image != nil || a.imageErr != nil }

func (a *fakeAdapter) ImageBytes(context.Context) ([]byte, error) { return a.image, a.imageErr }

func (a *fakeAdapter) Next(context.Context) ([]ProvidableInfo, error) {
	if a.pos >= len(a.batches) {
		if a.err != nil {
			return nil, a.err
		}
		return nil, ErrExhausted
	}
	batch := a.batches[a.pos]
	a.pos++

	a.current = make(map[string]fakeRecord, len(batch))
	infos := make([]ProvidableInfo, 0, len(batch))
	for _, rec := range batch {
		info, err := NewProvidableInfo(rec.kind, rec.id, "", rec.modifiedAt)
		if err != nil {
			return nil, err
		}
		a.current[rec.id] = rec
		infos = append(infos, info)
	}
	return infos, nil
}

func (a *fakeAdapter) FillOffer(o *catalog.Offer) error {
	rec := a.current[o.IDAtProviders]
	if rec.fillErr != nil {
		return rec.fillErr
	}
	o.Name = rec.name
	o.VenueID = a.venueID
	o.SubcategoryID = catalog.SubcategoryCinemaSession
	return nil
}

func (a *fakeAdapter) FillStock(s *catalog.Stock) error {
	rec := a.current[s.IDAtProviders]
	if rec.fillErr != nil {
		return rec.fillErr
	}
	price, err := decimal.NewFromString(rec.price)
	if err != nil {
		return err
	}
	s.Price = price
	qty := 50
	s.Quantity = &qty
	return nil
}

// countingIndexer records every reindex request.
type countingIndexer struct {
	mu    sync.Mutex
	calls [][]uint
}

func (c *countingIndexer) IndexOffers(_ context.Context, ids []uint, _ search.Reason, _ ...zap.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, ids)
}

func (c *countingIndexer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func loadEvents(t *testing.T, db *gorm.DB, providerID uint) []catalog.LocalProviderEvent {
	t.Helper()
	var events []catalog.LocalProviderEvent
	require.NoError(t, db.Where("provider_id = ?", providerID).Order("id").Find(&events).Error)
	return events
}

func eventTypes(events []catalog.LocalProviderEvent) []catalog.EventType {
	out := make([]catalog.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
