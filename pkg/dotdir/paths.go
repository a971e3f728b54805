package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	memoryDir  = "memory"
	sqliteFile = "cassette.sqlite"
)

// MemoryDir returns the directory the file storage provider writes records
// into, creating it if needed.
func (m *Manager) MemoryDir(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, memoryDir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("creating memory directory %s: %w", path, err)
	}

	return path, nil
}

// SQLitePath returns the default database path for the sqlite provider.
func (m *Manager) SQLitePath(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, sqliteFile), nil
}
