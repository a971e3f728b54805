// Package sqlkv implements storage.Driver over a database/sql connection.
// It is embedded by the sqlite and postgres drivers, which only differ in how
// they open the connection and in their bind-parameter syntax.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/papercomputeco/cassette/pkg/storage"
)

// Dialect selects the bind-parameter style and column types.
type Dialect int

const (
	// SQLite uses "?" placeholders and BLOB values.
	SQLite Dialect = iota

	// Postgres uses "$n" placeholders and BYTEA values.
	Postgres
)

// Driver implements storage.Driver using a single "kv" table.
type Driver struct {
	DB      *sql.DB
	Dialect Dialect
}

// Migrate creates the kv table if it does not exist yet.
func (d *Driver) Migrate(ctx context.Context) error {
	blob, ts := "BLOB", "TIMESTAMP"
	if d.Dialect == Postgres {
		blob, ts = "BYTEA", "TIMESTAMPTZ"
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value %s NOT NULL,
	updated_at %s NOT NULL
)`, blob, ts)

	if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (d *Driver) Get(ctx context.Context, key string) ([]byte, error) {
	q := "SELECT value FROM kv WHERE key = " + d.bind(1)

	var value []byte
	err := d.DB.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

// Put upserts value under key.
func (d *Driver) Put(ctx context.Context, key string, value []byte) error {
	q := fmt.Sprintf(`INSERT INTO kv (key, value, updated_at) VALUES (%s, %s, %s)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		d.bind(1), d.bind(2), d.bind(3))

	if _, err := d.DB.ExecContext(ctx, q, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	q := "DELETE FROM kv WHERE key = " + d.bind(1)

	if _, err := d.DB.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.DB.Close()
}

func (d *Driver) bind(n int) string {
	if d.Dialect == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
