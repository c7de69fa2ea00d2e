package cinema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"

	"go.uber.org/zap"
)

// LocalClass is the provider class served by this adapter.
const LocalClass = "CinemaStocks"

const (
	idSuffix     = "CINEMA"
	showtimeForm = "2006-01-02T15:04:05"
)

// Adapter yields one batch per movie of a cinema: the movie offer followed by
// one stock per upcoming show.
type Adapter struct {
	reconcile.BaseAdapter

	source   Source
	vp       *catalog.VenueProvider
	cfg      Config
	now      func() time.Time
	cinemaID string

	loaded bool
	movies []Movie
	shows  map[string][]Show
	pos    int

	movie      *Movie
	movieID    string
	showsByKey map[string]Show
}

// NewAdapter creates an adapter for the cinema linked by vp.
func NewAdapter(source Source, vp *catalog.VenueProvider, cfg Config, now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{
		source:   source,
		vp:       vp,
		cfg:      cfg,
		now:      now,
		cinemaID: vp.VenueIDAtOfferProvider,
	}
}

func (a *Adapter) Name() string { return LocalClass }

func (a *Adapter) SuppliesImages() bool { return a.cfg.Images }

func (a *Adapter) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("cinema_id", a.cinemaID),
		zap.String("movie_id", a.movieID),
	}
}

// Next loads the program on first use, then moves to the next movie.
func (a *Adapter) Next(ctx context.Context) ([]reconcile.ProvidableInfo, error) {
	if !a.loaded {
		if err := a.load(ctx); err != nil {
			return nil, err
		}
	}
	if a.pos >= len(a.movies) {
		return nil, reconcile.ErrExhausted
	}

	a.movie = &a.movies[a.pos]
	a.pos++
	a.movieID = utils.ToString(a.movie.ID)
	a.showsByKey = make(map[string]Show)

	shows := a.shows[a.movieID]
	if len(shows) == 0 {
		return []reconcile.ProvidableInfo{}, nil
	}

	offerID := a.offerIDAtProvider()
	offerInfo, err := reconcile.NewProvidableInfo(catalog.KindOffer, offerID, "", a.modifiedAt(a.movie.UpdatedAt))
	if err != nil {
		return nil, err
	}
	batch := []reconcile.ProvidableInfo{offerInfo}

	for _, show := range shows {
		stockID := fmt.Sprintf("%s#%s/%s", offerID, utils.ToString(show.ID), show.Showtime.UTC().Format(showtimeForm))
		info, err := reconcile.NewProvidableInfo(catalog.KindStock, stockID, "", a.modifiedAt(show.UpdatedAt))
		if err != nil {
			return nil, err
		}
		a.showsByKey[stockID] = show
		batch = append(batch, info)
	}
	return batch, nil
}

func (a *Adapter) load(ctx context.Context) error {
	movies, err := a.source.Movies(ctx, a.cinemaID)
	if err != nil {
		return fmt.Errorf("failed to list movies of cinema %s: %w", a.cinemaID, err)
	}
	shows, err := a.source.Shows(ctx, a.cinemaID)
	if err != nil {
		return fmt.Errorf("failed to list shows of cinema %s: %w", a.cinemaID, err)
	}

	a.shows = make(map[string][]Show)
	for _, show := range shows {
		if show.IsCancelled || show.IsDeleted {
			continue
		}
		movieID := utils.ToString(show.MovieID)
		a.shows[movieID] = append(a.shows[movieID], show)
	}
	a.movies = movies
	a.loaded = true
	return nil
}

// modifiedAt falls back to the current time when the listings omit a date,
// which makes every run refresh the entity.
func (a *Adapter) modifiedAt(updatedAt time.Time) time.Time {
	if updatedAt.IsZero() {
		return a.now().UTC()
	}
	return updatedAt.UTC()
}

func (a *Adapter) offerIDAtProvider() string {
	return fmt.Sprintf("%s%%%d%%%s", a.movieID, a.vp.VenueID, idSuffix)
}

func (a *Adapter) FillOffer(o *catalog.Offer) error {
	if a.movie == nil {
		return errors.New("no current movie")
	}
	o.Name = a.movie.Title
	o.Description = a.movie.Description
	o.VenueID = a.vp.VenueID
	o.SubcategoryID = catalog.SubcategoryCinemaSession
	o.IsDuo = a.vp.IsDuoOffers

	if minutes := utils.ToInt(a.movie.Duration); minutes > 0 {
		o.DurationMinutes = &minutes
	} else {
		o.DurationMinutes = nil
	}

	if visa := utils.ToString(a.movie.Visa); visa != "" {
		if o.ExtraData == nil {
			o.ExtraData = map[string]any{}
		}
		o.ExtraData["visa"] = visa
	}
	return nil
}

func (a *Adapter) FillStock(s *catalog.Stock) error {
	show, ok := a.showsByKey[s.IDAtProviders]
	if !ok {
		return fmt.Errorf("no show for stock %s", s.IDAtProviders)
	}

	price, err := utils.ToDecimal(show.Price)
	if err != nil {
		return fmt.Errorf("invalid price for show %s: %w", utils.ToString(show.ID), err)
	}
	s.Price = price

	// Remaining seats exclude what the catalog already sold.
	quantity := utils.ToInt(show.RemainingSeats) + s.BookedQuantity
	s.Quantity = &quantity

	showtime := show.Showtime.UTC()
	s.BeginningDatetime = &showtime
	limit := showtime
	s.BookingLimitDatetime = &limit
	return nil
}

// ImageBytes downloads the poster of the current movie.
func (a *Adapter) ImageBytes(ctx context.Context) ([]byte, error) {
	if a.movie == nil || a.movie.PosterURL == "" {
		return nil, nil
	}
	return a.source.Poster(ctx, a.movie.PosterURL)
}
