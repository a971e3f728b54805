package storageutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/cassette/pkg/dotdir"
	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/storage/file"
	"github.com/papercomputeco/cassette/pkg/storage/inmemory"
	"github.com/papercomputeco/cassette/pkg/storage/postgres"
	"github.com/papercomputeco/cassette/pkg/storage/redis"
	"github.com/papercomputeco/cassette/pkg/storage/sqlite"
)

type NewDriverOpts struct {
	// Provider is one of storage.ProviderMemory, ProviderFile, ProviderSQLite,
	// ProviderPostgres or ProviderRedis.
	Provider string

	// Target is the directory (file), database path (sqlite), connection
	// string (postgres) or redis:// URL (redis). Ignored for the in-memory provider. When empty the
	// file and sqlite providers default into the .cassette/ dot-dir.
	Target string

	// ConfigDir overrides dot-dir resolution for the defaults above.
	ConfigDir string

	Logger *slog.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (storage.Driver, error) {
	switch o.Provider {
	case storage.ProviderMemory, "":
		o.Logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	case storage.ProviderFile:
		dir := o.Target
		if dir == "" {
			var err error
			if dir, err = dotdir.NewManager().MemoryDir(o.ConfigDir); err != nil {
				return nil, fmt.Errorf("resolving memory directory: %w", err)
			}
		}
		driver, err := file.NewDriver(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file driver: %w", err)
		}
		o.Logger.Info("using file storage", "dir", dir)
		return driver, nil

	case storage.ProviderSQLite:
		path := o.Target
		if path == "" {
			var err error
			if path, err = dotdir.NewManager().SQLitePath(o.ConfigDir); err != nil {
				return nil, fmt.Errorf("resolving sqlite path: %w", err)
			}
		}
		driver, err := sqlite.NewDriver(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		o.Logger.Info("using SQLite storage", "path", path)
		return driver, nil

	case storage.ProviderPostgres:
		if o.Target == "" {
			return nil, errors.New("postgres storage requires storage.path to hold a connection string")
		}
		driver, err := postgres.NewDriver(ctx, o.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL driver: %w", err)
		}
		o.Logger.Info("using PostgreSQL storage")
		return driver, nil

	case storage.ProviderRedis:
		if o.Target == "" {
			return nil, errors.New("redis storage requires storage.path to hold a redis:// url")
		}
		driver, err := redis.NewDriver(ctx, o.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis driver: %w", err)
		}
		o.Logger.Info("using Redis storage")
		return driver, nil

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", o.Provider)
	}
}
