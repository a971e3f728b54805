// Package inmemory provides a process-lifetime storage.Driver.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/cassette/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	mu sync.RWMutex

	// values maps key -> a private copy of the stored bytes
	values map[string][]byte
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (d *Driver) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.values[key]
	if !ok {
		return nil, storage.NotFoundError{Key: key}
	}

	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put stores a copy of value under key.
func (d *Driver) Put(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.values[key] = v
	return nil
}

// Delete removes key.
func (d *Driver) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.values, key)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (d *Driver) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values)
}
