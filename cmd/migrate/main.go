package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/pkg/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	var (
		command = flag.String("command", "up", "Migration command: up, down, status")
		driver  = flag.String("driver", strings.ToLower(envOr("DB_DRIVER", config.DriverSQLite)), "Store driver: postgres, sqlite")
		path    = flag.String("sqlite-path", envOr("SQLITE_PATH", "data/bookstore.db"), "SQLite database file")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, closeDB, err := openDB(ctx, *driver, *path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer closeDB()

	if err := run(ctx, db, *driver, *command, os.Stdout); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
}

func run(ctx context.Context, db *sql.DB, driver, command string, out io.Writer) error {
	provider, err := database.NewMigrator(db, driver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Applied %d migration(s)\n", len(results))
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Rolled back %s\n", result.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		printStatus(out, statuses)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status", command)
	}
	return nil
}

func printStatus(out io.Writer, statuses []*goose.MigrationStatus) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		applied := "-"
		if s.State == goose.StateApplied {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	tw.Flush()
}

// openDB returns a database/sql handle for goose plus its close function.
func openDB(ctx context.Context, driver, sqlitePath string) (*sql.DB, func(), error) {
	switch driver {
	case config.DriverPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, nil, err
		}
		pg := database.NewPostgresDB(dbConfig)
		if err := pg.Connect(ctx); err != nil {
			return nil, nil, err
		}
		db := stdlib.OpenDBFromPool(pg.Pool)
		return db, func() {
			db.Close()
			pg.Close()
		}, nil
	case config.DriverSQLite:
		lite, err := database.OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return lite.DB, func() { lite.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
