// Package storage defines the persistent key-value slot that backs the
// assistant's memory record.
//
// A slot holds opaque bytes under a string key. The memory package owns the
// record encoding; drivers only move bytes. Drivers are pluggable via
// configuration:
//
//	[storage]
//	provider = "file"   # or "memory", "sqlite", "postgres"
package storage

import (
	"context"
)

// Driver persists and retrieves raw values by key.
type Driver interface {
	// Get returns the value stored under key.
	// Returns a NotFoundError if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases driver resources.
	Close() error
}

// Provider names accepted by storage.provider.
const (
	ProviderMemory   = "memory"
	ProviderFile     = "file"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
	ProviderRedis    = "redis"
)
