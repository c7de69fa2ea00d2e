package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address for Port, accepting "8080" or ":8080".
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
