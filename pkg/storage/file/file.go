// Package file provides a storage.Driver that keeps one JSON document per key
// inside a directory, usually the .cassette/ dot-dir.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/cassette/pkg/storage"
)

const fileExt = ".json"

// Driver implements storage.Driver on the local filesystem.
type Driver struct {
	dir string
}

// NewDriver creates a file driver rooted at dir, creating it if needed.
func NewDriver(dir string) (*Driver, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", dir, err)
	}

	return &Driver{dir: dir}, nil
}

// Dir returns the directory the driver writes into.
func (d *Driver) Dir() string {
	return d.dir
}

// Get reads the document stored under key.
func (d *Driver) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return data, nil
}

// Put writes value under key. The write goes to a temp file that is renamed
// into place so readers never observe a partial document.
func (d *Driver) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", key, err)
	}

	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", key, err)
	}

	return nil
}

// Delete removes the document stored under key.
func (d *Driver) Delete(_ context.Context, key string) error {
	if err := os.Remove(d.path(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing %s: %w", key, err)
	}

	return nil
}

// Close is a no-op for the file driver.
func (d *Driver) Close() error {
	return nil
}

func (d *Driver) path(key string) string {
	return filepath.Join(d.dir, fileName(key))
}

// fileName maps a key onto a file name. Bytes outside [A-Za-z0-9._-] and a
// leading dot are written as %XX, so distinct keys never share a file and no
// key resolves to ".", ".." or a temp file.
func fileName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if safeByte(c) && (i > 0 || c != '.') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}

	return b.String() + fileExt
}

func safeByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '-':
		return true
	}
	return false
}
