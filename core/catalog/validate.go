package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ErrValidation wraps every field contract violation.
var ErrValidation = errors.New("validation failed")

const (
	maxOfferNameLength = 140
	maxDurationMinutes = 24 * 60
)

// MaxStockPrice is the highest price a synchronized stock may carry.
var MaxStockPrice = decimal.NewFromInt(300)

func (o *Offer) Validate() error {
	var errs []error
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, errors.New("name: must not be empty"))
	} else if utf8.RuneCountInString(o.Name) > maxOfferNameLength {
		errs = append(errs, fmt.Errorf("name: exceeds %d characters", maxOfferNameLength))
	}
	if o.VenueID == 0 {
		errs = append(errs, errors.New("venue_id: must be set"))
	}
	if o.SubcategoryID == "" {
		errs = append(errs, errors.New("subcategory_id: must be set"))
	}
	if o.DurationMinutes != nil && (*o.DurationMinutes < 0 || *o.DurationMinutes > maxDurationMinutes) {
		errs = append(errs, fmt.Errorf("duration_minutes: %d out of range", *o.DurationMinutes))
	}
	errs = append(errs, o.Thumb.validate()...)
	errs = append(errs, o.ProviderLink.validate()...)
	return wrap(errs)
}

func (s *Stock) Validate() error {
	var errs []error
	if s.Offer == nil && s.OfferID == 0 {
		errs = append(errs, errors.New("offer: must be set"))
	}
	if s.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("price: %s is negative", s.Price))
	} else if s.Price.GreaterThan(MaxStockPrice) {
		errs = append(errs, fmt.Errorf("price: %s exceeds %s", s.Price, MaxStockPrice))
	}
	if s.Quantity != nil {
		if *s.Quantity < 0 {
			errs = append(errs, fmt.Errorf("quantity: %d is negative", *s.Quantity))
		} else if *s.Quantity < s.BookedQuantity {
			errs = append(errs, fmt.Errorf("quantity: %d below booked quantity %d", *s.Quantity, s.BookedQuantity))
		}
	}
	if s.BeginningDatetime != nil && s.BookingLimitDatetime != nil && s.BookingLimitDatetime.After(*s.BeginningDatetime) {
		errs = append(errs, errors.New("booking_limit_datetime: after beginning_datetime"))
	}
	errs = append(errs, s.ProviderLink.validate()...)
	return wrap(errs)
}

func (t *Thumb) validate() []error {
	var errs []error
	if t.ThumbCount < 0 {
		errs = append(errs, fmt.Errorf("thumb_count: %d is negative", t.ThumbCount))
	}
	if t.ThumbCount > 0 && t.ThumbPath == "" {
		errs = append(errs, errors.New("thumb_path: must be set when thumb_count > 0"))
	}
	return errs
}

func (l *ProviderLink) validate() []error {
	if l.IDAtProviders == "" {
		return []error{errors.New("id_at_providers: must be set")}
	}
	return nil
}

func wrap(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
}
