// Package synchro runs catalog synchronizations on demand and on a schedule.
//
// The Service looks up a venue provider with its provider, picks the adapter
// factory registered for the provider's local class and hands both to the
// reconcile engine. Concurrent requests for the same venue provider share one
// run.
//
// # Routes
//
//   - POST /sync/venue-providers/:id?limit=N runs a synchronization
//   - GET /sync/providers/:id/events?limit=N lists the event trail
//
// The Scheduler calls SyncAll on a cron expression, skipping ticks while the
// previous one is still running.
package synchro
