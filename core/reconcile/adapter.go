package reconcile

import (
	"context"
	"errors"

	"catalog-sync/core/catalog"

	"go.uber.org/zap"
)

// ErrExhausted is returned by Adapter.Next once the sequence is over.
var ErrExhausted = errors.New("provider sequence exhausted")

// Adapter is the contract a concrete provider integration satisfies.
// An adapter instance serves exactly one run: Next is forward-only and cannot be
// restarted.
type Adapter interface {
	// Name identifies the adapter in logs and events.
	Name() string

	// CanCreate reports whether the provider may create new sellable items,
	// as opposed to updating existing ones only.
	CanCreate() bool

	// Next returns the next batch, ordered items before their variants.
	// An empty batch means nothing matched this iteration. ErrExhausted ends
	// the sequence; any other error aborts the run.
	// Next may perform network I/O but must not touch local storage.
	Next(ctx context.Context) ([]ProvidableInfo, error)

	// Filler populates entities from the record the adapter currently holds.
	catalog.Filler

	// SuppliesImages reports whether ImageBytes should be consulted this run.
	SuppliesImages() bool

	// ImageBytes returns the image of the current record. Empty means no image.
	ImageBytes(ctx context.Context) ([]byte, error)

	// KeepAspectRatio reports whether thumbnails keep the source ratio.
	KeepAspectRatio() bool
}

// LogFielder is implemented by adapters that can describe their current
// record in warnings, e.g. with the provider's movie and theater ids.
type LogFielder interface {
	LogFields() []zap.Field
}

// BaseAdapter supplies the optional parts of the contract. Embed it and
// override what the provider supports.
type BaseAdapter struct{}

func (BaseAdapter) CanCreate() bool { return true }
func (BaseAdapter) SuppliesImages() bool { return false }
func (BaseAdapter) ImageBytes(context.Context) ([]byte, error) { return nil, nil }
func (BaseAdapter) KeepAspectRatio() bool { return true }
