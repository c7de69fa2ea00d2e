package catalog

import (
	"fmt"
	"time"
)

// ProviderLink is the provider bookkeeping embedded in every synchronized entity.
type ProviderLink struct {
	IDAtProviders              string     `gorm:"column:id_at_providers;size:255;index" json:"id_at_providers"`
	LastProviderID             *uint      `gorm:"column:last_provider_id" json:"last_provider_id,omitempty"`
	DateModifiedAtLastProvider *time.Time `gorm:"column:date_modified_at_last_provider" json:"date_modified_at_last_provider,omitempty"`
}

// LastUpdateFor returns the modification date stored by providerID, or nil when
// another provider (or none) wrote the entity last.
func (l *ProviderLink) LastUpdateFor(providerID uint) *time.Time {
	if l.LastProviderID == nil || *l.LastProviderID != providerID {
		return nil
	}
	return l.DateModifiedAtLastProvider
}

// Stamp records that providerID wrote the entity with the given modification date.
func (l *ProviderLink) Stamp(providerID uint, modifiedAt time.Time) {
	id := providerID
	at := modifiedAt
	l.LastProviderID = &id
	l.DateModifiedAtLastProvider = &at
}

// Filler populates provider-controlled fields. One method per kind keeps the
// selection static.
type Filler interface {
	FillOffer(o *Offer) error
	FillStock(s *Stock) error
}

// Entity is a catalog row the synchronization engine can create or update.
type Entity interface {
	Kind() Kind
	Link() *ProviderLink
	// ParentOfferID resolves the sellable item the entity belongs to.
	ParentOfferID() uint
	FillWith(f Filler) error
	Validate() error
	// Snapshot captures the current field values and returns a function that
	// restores them in place.
	Snapshot() func()
}

// ImageHolder is implemented by entities that carry a thumbnail.
type ImageHolder interface {
	Entity
	Thumbnail() *Thumb
}

// New returns a blank entity of the given kind.
func New(kind Kind) (Entity, error) {
	switch kind {
	case KindOffer:
		return &Offer{IsActive: true}, nil
	case KindStock:
		return &Stock{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (o *Offer) Kind() Kind { return KindOffer }
func (o *Offer) Link() *ProviderLink { return &o.ProviderLink }
func (o *Offer) ParentOfferID() uint { return o.ID }
func (o *Offer) FillWith(f Filler) error { return f.FillOffer(o) }
func (o *Offer) Thumbnail() *Thumb { return &o.Thumb }
func (s *Stock) Kind() Kind { return KindStock }
func (s *Stock) Link() *ProviderLink { return &s.ProviderLink }
func (s *Stock) FillWith(f Filler) error { return f.FillStock(s) }

func (o *Offer) Snapshot() func() {
	saved := *o
	saved.ExtraData = cloneExtraData(o.ExtraData)
	saved.ProviderLink = o.ProviderLink.clone()
	saved.Thumb = o.Thumb.clone()
	return func() { *o = saved }
}

// ParentOfferID prefers the attached Offer, which may not be persisted yet.
func (s *Stock) ParentOfferID() uint {
	if s.Offer != nil && s.Offer.ID != 0 {
		return s.Offer.ID
	}
	return s.OfferID
}

// ResolveOffer copies the attached Offer's id into OfferID.
func (s *Stock) ResolveOffer() {
	if s.Offer != nil && s.Offer.ID != 0 {
		s.OfferID = s.Offer.ID
	}
}

func (s *Stock) Snapshot() func() {
	saved := *s
	saved.ProviderLink = s.ProviderLink.clone()
	if s.Quantity != nil {
		q := *s.Quantity
		saved.Quantity = &q
	}
	return func() { *s = saved }
}

func (l ProviderLink) clone() ProviderLink {
	out := ProviderLink{IDAtProviders: l.IDAtProviders}
	if l.LastProviderID != nil {
		id := *l.LastProviderID
		out.LastProviderID = &id
	}
	if l.DateModifiedAtLastProvider != nil {
		at := *l.DateModifiedAtLastProvider
		out.DateModifiedAtLastProvider = &at
	}
	return out
}

func (t Thumb) clone() Thumb {
	out := t
	if t.ThumbSyncedAt != nil {
		at := *t.ThumbSyncedAt
		out.ThumbSyncedAt = &at
	}
	return out
}
