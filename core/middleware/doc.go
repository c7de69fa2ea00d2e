// Package middleware contains HTTP middleware for the operator API.
//
// It provides the concerns that sit between every request and the feature
// handlers.
//
// # Components
//
//   - auth: rejects requests lacking the configured X-API-Key.
//   - rayid: assigns every request a ray id, stores it in the request locals
//     and exposes it in the X-Ray-ID header. logger.WithRayID reads it back so
//     all log lines of a request can be correlated.
//
// cmd/start.go registers rayid first and auth after the public documentation
// route, so that rejected requests are still traced.
package middleware
