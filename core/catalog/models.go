package catalog

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Kind names one of the reconciled entity types.
type Kind string

const (
	// KindOffer is the sellable item kind.
	KindOffer Kind = "Offer"
	// KindStock is the bookable variant kind.
	KindStock Kind = "Stock"
)

// SubcategoryCinemaSession is the subcategory stamped on synchronized movie offers.
const SubcategoryCinemaSession = "SEANCE_CINE"

// Provider is an external catalog source.
type Provider struct {
	ID            uint   `gorm:"column:id;primaryKey" json:"id"`
	Name          string `gorm:"column:name;size:90;not null" json:"name"`
	LocalClass    string `gorm:"column:local_class;size:60" json:"local_class"`
	IsActive      bool   `gorm:"column:is_active;not null" json:"is_active"`
	EnabledForPro bool   `gorm:"column:enabled_for_pro;not null" json:"enabled_for_pro"`
}

func (Provider) TableName() string { return "providers" }

// VenueProvider links a venue to the provider feeding its catalog.
// LastSyncDate is the only persisted synchronization cursor.
type VenueProvider struct {
	ID                     uint       `gorm:"column:id;primaryKey" json:"id"`
	VenueID                uint       `gorm:"column:venue_id;not null;index" json:"venue_id"`
	ProviderID             uint       `gorm:"column:provider_id;not null;index" json:"provider_id"`
	Provider               *Provider  `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	VenueIDAtOfferProvider string     `gorm:"column:venue_id_at_offer_provider;size:70;not null" json:"venue_id_at_offer_provider"`
	IsActive               bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsDuoOffers            bool       `gorm:"column:is_duo_offers;not null" json:"is_duo_offers"`
	LastSyncDate           *time.Time `gorm:"column:last_sync_date" json:"last_sync_date"`
}

func (VenueProvider) TableName() string { return "venue_providers" }

// Thumb tracks the image attached to an entity.
type Thumb struct {
	ThumbCount    int        `gorm:"column:thumb_count;not null" json:"thumb_count"`
	ThumbPath     string     `gorm:"column:thumb_path;size:255" json:"thumb_path,omitempty"`
	ThumbSyncedAt *time.Time `gorm:"column:thumb_synced_at" json:"thumb_synced_at,omitempty"`
}

// Offer is a sellable item.
type Offer struct {
	ID              uint              `gorm:"column:id;primaryKey" json:"id"`
	VenueID         uint              `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name            string            `gorm:"column:name;size:140;not null" json:"name"`
	Description     string            `gorm:"column:description;type:text" json:"description"`
	DurationMinutes *int              `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
	IsDuo           bool              `gorm:"column:is_duo;not null" json:"is_duo"`
	IsActive        bool              `gorm:"column:is_active;not null" json:"is_active"`
	SubcategoryID   string            `gorm:"column:subcategory_id;size:64;not null" json:"subcategory_id"`
	ExtraData       datatypes.JSONMap `gorm:"column:extra_data" json:"extra_data,omitempty"`
	DateCreated     time.Time         `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	DateUpdated     time.Time         `gorm:"column:date_updated;autoUpdateTime" json:"date_updated"`
	Thumb
	ProviderLink
}

func (Offer) TableName() string { return "offers" }

// Stock is a bookable variant of an Offer.
type Stock struct {
	ID                   uint            `gorm:"column:id;primaryKey" json:"id"`
	OfferID              uint            `gorm:"column:offer_id;not null;index" json:"offer_id"`
	Offer                *Offer          `gorm:"foreignKey:OfferID" json:"-"`
	Price                decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Quantity             *int            `gorm:"column:quantity" json:"quantity,omitempty"`
	BookedQuantity       int             `gorm:"column:booked_quantity;not null" json:"booked_quantity"`
	BeginningDatetime    *time.Time      `gorm:"column:beginning_datetime" json:"beginning_datetime,omitempty"`
	BookingLimitDatetime *time.Time      `gorm:"column:booking_limit_datetime" json:"booking_limit_datetime,omitempty"`
	IsSoftDeleted        bool            `gorm:"column:is_soft_deleted;not null" json:"is_soft_deleted"`
	DateCreated          time.Time       `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	DateUpdated          time.Time       `gorm:"column:date_updated;autoUpdateTime" json:"date_updated"`
	ProviderLink
}

func (Stock) TableName() string { return "stocks" }

// EventType is the lifecycle marker of a LocalProviderEvent.
type EventType string

const (
	EventSyncStart EventType = "SyncStart"
	EventSyncEnd   EventType = "SyncEnd"
	EventSyncError EventType = "SyncError"
)

// LocalProviderEvent is an append-only record of a synchronization run.
type LocalProviderEvent struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	ProviderID uint      `gorm:"column:provider_id;not null;index" json:"provider_id"`
	Type       EventType `gorm:"column:type;size:16;not null" json:"type"`
	Payload    string    `gorm:"column:payload;size:255" json:"payload"`
	Date       time.Time `gorm:"column:date;not null;index" json:"date"`
}

func (LocalProviderEvent) TableName() string { return "local_provider_events" }

// Models lists every table owned by the catalog, in migration order.
func Models() []any {
	return []any{
		&Provider{},
		&VenueProvider{},
		&Offer{},
		&Stock{},
		&LocalProviderEvent{},
	}
}

func cloneExtraData(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	return datatypes.JSONMap(maps.Clone(map[string]any(m)))
}
