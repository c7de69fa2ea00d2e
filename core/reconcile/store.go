package reconcile

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAmbiguousLookup is returned when several rows share a provider-scoped id.
var ErrAmbiguousLookup = errors.New("provider-scoped id matches more than one row")

const insertBatchSize = 200

// Store is the gorm-backed storage boundary of a run. Lookups and the next
// flush share one transaction, so row locks taken on stocks hold until the
// chunk they were staged in is committed.
type Store struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) begin(ctx context.Context) (*gorm.DB, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	s.tx = tx
	return tx, nil
}

// Find returns the entity of the given kind whose provider-scoped id is id, or
// nil when none exists. Stock rows are locked for update.
func (s *Store) Find(ctx context.Context, kind catalog.Kind, id string) (catalog.Entity, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	switch kind {
	case catalog.KindOffer:
		return findOne[catalog.Offer](tx, id)
	case catalog.KindStock:
		return findOne[catalog.Stock](tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func findOne[T any, P interface {
	*T
	catalog.Entity
}](tx *gorm.DB, id string) (catalog.Entity, error) {
	var rows []T
	if err := tx.Where("id_at_providers = ?", id).Limit(2).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", id, err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return P(&rows[0]), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousLookup, id)
	}
}

// Persist writes inserts then updates and commits the run transaction.
// Offers are written before stocks so new stocks can reference them.
func (s *Store) Persist(ctx context.Context, inserts, updates []catalog.Entity) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	newOffers, newStocks := split(inserts)
	changedOffers, changedStocks := split(updates)

	if len(newOffers) > 0 {
		if err := tx.Omit(clause.Associations).CreateInBatches(newOffers, insertBatchSize).Error; err != nil {
			return s.fail("insert offers", err)
		}
	}
	if len(changedOffers) > 0 {
		if err := upsert(tx, changedOffers); err != nil {
			return s.fail("update offers", err)
		}
	}
	for _, st := range newStocks {
		st.ResolveOffer()
	}
	for _, st := range changedStocks {
		st.ResolveOffer()
	}
	if len(newStocks) > 0 {
		if err := tx.Omit(clause.Associations).CreateInBatches(newStocks, insertBatchSize).Error; err != nil {
			return s.fail("insert stocks", err)
		}
	}
	if len(changedStocks) > 0 {
		if err := upsert(tx, changedStocks); err != nil {
			return s.fail("update stocks", err)
		}
	}

	err = tx.Commit().Error
	s.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit chunk: %w", err)
	}
	return nil
}

// Abort rolls back the open transaction, if any.
func (s *Store) Abort() {
	if s.tx == nil {
		return
	}
	s.tx.Rollback()
	s.tx = nil
}

func (s *Store) fail(op string, err error) error {
	s.Abort()
	return fmt.Errorf("failed to %s: %w", op, err)
}

func upsert[T any](tx *gorm.DB, rows []*T) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, insertBatchSize).Error
}

func split(entities []catalog.Entity) ([]*catalog.Offer, []*catalog.Stock) {
	var offers []*catalog.Offer
	var stocks []*catalog.Stock
	for _, e := range entities {
		switch v := e.(type) {
		case *catalog.Offer:
			offers = append(offers, v)
		case *catalog.Stock:
			stocks = append(stocks, v)
		}
	}
	return offers, stocks
}
