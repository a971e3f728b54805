// Package redis provides a storage.Driver backed by a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/papercomputeco/cassette/pkg/storage"
)

// KeyPrefix namespaces every key written by the driver.
const KeyPrefix = "cassette:"

const pingTimeout = 5 * time.Second

// Driver implements storage.Driver using plain Redis string values.
type Driver struct {
	Client *goredis.Client
}

// NewDriver connects to the server named by a redis:// or rediss:// URL and
// checks it answers PING.
func NewDriver(ctx context.Context, url string) (*Driver, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Driver{Client: client}, nil
}

// Get returns the value stored under key.
func (d *Driver) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := d.Client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Put stores value under key without expiry.
func (d *Driver) Put(ctx context.Context, key string, value []byte) error {
	if err := d.Client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if err := d.Client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (d *Driver) Close() error {
	return d.Client.Close()
}
