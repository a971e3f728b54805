// Package api provides the HTTP API server for talking to cassette sessions.
package api

import (
	"net/http"

	"github.com/papercomputeco/cassette/pkg/metrics"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// MCP is mounted at /mcp when set.
	MCP http.Handler

	// Metrics, when set, observes every request and is served at /metrics.
	Metrics *metrics.Metrics
}
