// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/infrastructure/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB opens a fresh, migrated SQLite file under t.TempDir().
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	sqlite, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	require.NoError(t, database.MigrateUp(ctx, sqlite.DB, "sqlite"))
	return sqlite.DB
}

// BookRequest returns a valid payload; n varies the title.
func BookRequest(n int, category string) model.BookRequest {
	return model.BookRequest{
		Title:          fmt.Sprintf("Book %02d", n),
		Author:         "Jane Austen",
		Publisher:      "Penguin",
		ISBN:           "978-0-14-143951-8",
		Category:       category,
		Classification: "823.7",
		PageCount:      100 + n,
		Price:          decimal.New(int64(500+n*25), -2),
	}
}

// Catalog returns twelve books: 5 Fiction, 4 Science, 3 History, in that order.
func Catalog() []*model.Book {
	categories := []string{
		"Fiction", "Science", "History", "Fiction", "Science", "History",
		"Fiction", "Science", "Fiction", "History", "Science", "Fiction",
	}
	books := make([]*model.Book, len(categories))
	for i, c := range categories {
		b := BookRequest(i+1, c).ToBook(0)
		books[i] = &b
	}
	return books
}
