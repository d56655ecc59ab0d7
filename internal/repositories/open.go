package repositories

import (
	"fmt"

	"github.com/desertthunder/vidstash/internal/shared"
)

// Open creates the Storage backend named by the configuration and prepares
// it for use. The sqlite driver opens the database file and applies pending
// migrations.
func Open(config *shared.Config) (Storage, error) {
	switch config.Database.Driver {
	case "", "sqlite":
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLStorage(db), nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", shared.ErrInvalidConfig, config.Database.Driver)
	}
}
