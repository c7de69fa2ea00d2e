// Package search notifies the downstream search index about changed offers.
//
// The synchronization engine calls IndexOffers after every successful flush with
// the ids of the offers it touched. Notification is fire-and-forget: a queue
// outage is logged but never fails a synchronization run, since the next run or
// a periodic full reindex catches up.
//
// # Backends
//
//   - none: discards notifications (default, useful locally and in tests)
//   - redis: adds ids to a set consumed by the indexing worker
//   - amqp: publishes a JSON message per flush to a durable RabbitMQ queue
package search
