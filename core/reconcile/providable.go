package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-sync/core/catalog"
)

// Separator joins a provider-scoped id and a kind name into a chunk key.
// Provider-scoped ids must never contain it.
const Separator = "|"

// ErrReservedCharacter is returned when a provider-scoped id contains Separator.
var ErrReservedCharacter = errors.New("provider-scoped id contains reserved character " + Separator)

// ProvidableInfo describes one entity a provider claims should exist locally.
type ProvidableInfo struct {
	kind       catalog.Kind
	id         string
	newID      string
	modifiedAt time.Time
}

// NewProvidableInfo validates and builds a ProvidableInfo. newID is the id the
// entity should carry after the write; it defaults to id.
func NewProvidableInfo(kind catalog.Kind, id, newID string, modifiedAt time.Time) (ProvidableInfo, error) {
	if id == "" {
		return ProvidableInfo{}, errors.New("provider-scoped id must not be empty")
	}
	if newID == "" {
		newID = id
	}
	for _, v := range []string{id, newID} {
		if strings.Contains(v, Separator) {
			return ProvidableInfo{}, fmt.Errorf("%w: %q", ErrReservedCharacter, v)
		}
	}
	if modifiedAt.IsZero() {
		return ProvidableInfo{}, fmt.Errorf("provider modification date missing for %q", id)
	}
	return ProvidableInfo{kind: kind, id: id, newID: newID, modifiedAt: modifiedAt}, nil
}

func (p ProvidableInfo) Kind() catalog.Kind { return p.kind }
func (p ProvidableInfo) ID() string { return p.id }
func (p ProvidableInfo) NewID() string { return p.newID }
func (p ProvidableInfo) ModifiedAt() time.Time { return p.modifiedAt }

// ChunkKey identifies a staged entity within one run.
type ChunkKey string

// Key builds the chunk key of p.
func (p ProvidableInfo) Key() ChunkKey {
	return ChunkKey(p.id + Separator + string(p.kind))
}
