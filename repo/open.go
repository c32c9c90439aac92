package repo

import (
	"context"
	"fmt"

	"StaffBot/config"
)

// OpenBackend builds the Backend selected by the storage config.
func OpenBackend(ctx context.Context, cfg config.Storage) (Backend, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileBackend(cfg.Path), nil
	case config.DriverSQLite, config.DriverPostgres:
		b, err := OpenSQLBackend(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverFirebase:
		b, err := NewFirebaseBackend(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.DatabaseURL, cfg.Firebase.Root)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
