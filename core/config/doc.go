// Package config loads the catalog-sync configuration.
//
// Values come from the environment, optionally seeded from a .env file, with
// defaults declared as `default:"..."` struct tags on each section. Nested keys
// map to upper-case variables joined by underscores: sync.chunk_size is read
// from SYNC_CHUNK_SIZE.
//
// # Sections
//
//   - Server: HTTP port, API key, in-process scheduler switch
//   - Database: driver (mysql or sqlite) and connection details
//   - Storage: S3/MinIO bucket receiving thumbnails
//   - Log: level and format
//   - Sync: flush threshold, run limit, thumbnail bounds
//   - Search: reindex queue backend (none, redis, amqp)
//   - Scheduler: cron spec of periodic runs
//   - Cinema: listings API endpoint and credentials
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
