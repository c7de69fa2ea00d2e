package reconcile

import (
	"context"
	"slices"

	"catalog-sync/core/catalog"
)

// Writer persists one flush worth of entities atomically.
type Writer interface {
	Persist(ctx context.Context, inserts, updates []catalog.Entity) error
}

// Chunks stages entities between flushes. A key lives in at most one of the
// two chunks, and re-staging a key replaces the previous value.
type Chunks struct {
	inserts stagedSet
	updates stagedSet
}

// NewChunks returns empty chunks.
func NewChunks() *Chunks {
	return &Chunks{inserts: newStagedSet(), updates: newStagedSet()}
}

// Stage records e under key. An entity already staged for insert stays in the
// insert chunk even when staged again as an update.
func (c *Chunks) Stage(key ChunkKey, e catalog.Entity, isNew bool) {
	if isNew || c.inserts.has(key) {
		c.updates.remove(key)
		c.inserts.put(key, e)
		return
	}
	c.updates.put(key, e)
}

// Lookup searches the insert chunk, then the update chunk.
func (c *Chunks) Lookup(key ChunkKey) (catalog.Entity, bool) {
	if e, ok := c.inserts.get(key); ok {
		return e, true
	}
	return c.updates.get(key)
}

// IsStaged reports whether key is in either chunk.
func (c *Chunks) IsStaged(key ChunkKey) bool {
	return c.inserts.has(key) || c.updates.has(key)
}

// IsNew reports whether key is staged for insert.
func (c *Chunks) IsNew(key ChunkKey) bool {
	return c.inserts.has(key)
}

// Remove drops key from both chunks.
func (c *Chunks) Remove(key ChunkKey) {
	c.inserts.remove(key)
	c.updates.remove(key)
}

// Len is the combined size of both chunks.
func (c *Chunks) Len() int {
	return c.inserts.len() + c.updates.len()
}

// Flush persists both chunks through w, clears them and returns the sorted,
// distinct ids of the sellable items touched.
func (c *Chunks) Flush(ctx context.Context, w Writer) ([]uint, error) {
	if c.Len() == 0 {
		return nil, nil
	}
	inserts, updates := c.inserts.values(), c.updates.values()
	if err := w.Persist(ctx, inserts, updates); err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(inserts)+len(updates))
	ids := make([]uint, 0, len(inserts)+len(updates))
	for _, e := range slices.Concat(inserts, updates) {
		id := e.ParentOfferID()
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	c.inserts = newStagedSet()
	c.updates = newStagedSet()
	return ids, nil
}

// stagedSet is an insertion-ordered map so flushes write in staging order.
type stagedSet struct {
	order []ChunkKey
	items map[ChunkKey]catalog.Entity
}

func newStagedSet() stagedSet {
	return stagedSet{items: make(map[ChunkKey]catalog.Entity)}
}

func (s *stagedSet) put(key ChunkKey, e catalog.Entity) {
	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
	}
	s.items[key] = e
}

func (s *stagedSet) get(key ChunkKey) (catalog.Entity, bool) {
	e, ok := s.items[key]
	return e, ok
}

func (s *stagedSet) has(key ChunkKey) bool {
	_, ok := s.items[key]
	return ok
}

func (s *stagedSet) remove(key ChunkKey) {
	if _, ok := s.items[key]; !ok {
		return
	}
	delete(s.items, key)
	s.order = slices.DeleteFunc(s.order, func(k ChunkKey) bool { return k == key })
}

func (s *stagedSet) len() int { return len(s.items) }

func (s *stagedSet) values() []catalog.Entity {
	out := make([]catalog.Entity, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}
