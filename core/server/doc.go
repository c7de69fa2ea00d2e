// Package server holds the HTTP server configuration.
//
// The operator API is assembled in cmd/start.go. This package only defines the
// settings it listens with, so that core/config can embed them next to the
// database, storage and synchronization sections.
//
// # Configuration
//
// The Config struct defines the listen port and the API key. Every feature route
// requires the key in the X-API-Key header; the Swagger documentation under
// /swagger/ stays public.
//
//	SERVER_PORT=8080
//	SERVER_API_KEY=change-me
//
// # Usage
//
// Addr accepts the port with or without a leading colon and returns the value
// expected by fiber.App.Listen:
//
//	app.Listen(cfg.Server.Addr())
package server
