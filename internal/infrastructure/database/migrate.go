package database

import (
	"context"
	"database/sql"
	"fmt"

	"bookstore-catalog/db/migrations"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// NewMigrator returns a goose provider bound to db and the embedded
// migrations of driver. The provider holds no global goose state.
func NewMigrator(db *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case "postgres":
		dialect = goose.DialectPostgres
	case "sqlite":
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	fsys, err := migrations.FS(driver)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, fsys)
}

// MigrateUp applies every pending migration.
func MigrateUp(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := NewMigrator(db, driver)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("[MIGRATE] Applied")
	}
	return nil
}
