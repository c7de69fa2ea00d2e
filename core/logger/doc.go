// Package logger builds the zap logger shared by commands, the HTTP server and
// synchronization runs.
//
// A "debug" level selects zap's development configuration, any other level the
// production one. Format chooses console or json encoding.
//
// # Request correlation
//
// WithRayID attaches the ray id stored by the rayid middleware so every line
// logged while serving a request can be correlated.
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
