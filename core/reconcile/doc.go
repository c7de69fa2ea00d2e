// Package reconcile synchronizes a provider's catalog into local storage.
//
// A run pulls batches of ProvidableInfo from an Adapter, resolves each one
// against the entities already staged in the current chunk or stored in the
// database, and creates or updates them when the provider's modification date
// is newer than the one recorded on the entity. Staged entities are flushed in a
// single transaction once the chunk holds ChunkSize of them, and the offers they
// touched are handed to the search indexer.
//
// # Components
//
//   - Engine: drives the reconciliation loop and owns the run counters
//   - Chunks: stages inserts and updates between flushes
//   - Store: gorm lookups and writes, stock rows locked until their flush
//   - ThumbSynchronizer: attaches at most one provider image per entity per day
//   - Recorder: appends SyncStart, SyncEnd and SyncError events
//
// # Usage
//
//	engine := reconcile.NewEngine(db, indexer, thumbs, logger, cfg.Sync.Options())
//	stats, err := engine.Run(ctx, venueProvider, cinema.NewAdapter(client, venueProvider, cfg.Cinema))
//
// An inactive provider or venue link makes Run return immediately with zero
// stats. A validation failure only rejects the offending entity; lookup,
// adapter and storage failures abort the run before the cursor moves.
package reconcile
