package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// SQLiteDB - embedded single-file store (modernc.org/sqlite, no cgo)
type SQLiteDB struct {
	DB   *sql.DB
	Path string
}

// OpenSQLite opens (creating when needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Writers are serialized by SQLite anyway; one connection keeps
	// PRAGMAs and an in-memory database consistent across calls.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db, path); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("[DATABASE] SQLite opened")
	return &SQLiteDB{DB: db, Path: path}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	if path != memoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL;")
	}
	for _, stmt := range pragmas {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("sqlite is not initialized")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(pingCtx)
}

func (s *SQLiteDB) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
