// Package dotdir manages the .cassette/ and ~/.cassette directories.
//
// The directory holds config.toml and, for the file and sqlite storage
// providers, the persisted memory records.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the cassette directory.
	dirName = ".cassette"

	// EnvConfigDir names the directory when no override flag is given.
	EnvConfigDir = "CASSETTE_CONFIG_DIR"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .cassette/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. $CASSETTE_CONFIG_DIR
//  3. Local ./.cassette/ dir
//  4. Home ~/.cassette/ dir, created if missing
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case os.Getenv(EnvConfigDir) != "":
		dir = os.Getenv(EnvConfigDir)

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cassette directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether a .cassette/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
