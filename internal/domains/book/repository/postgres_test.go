package repository_test

import (
	"context"
	"math"
	"os"
	"testing"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresRepo connects to TEST_DATABASE_URL, migrates, and empties the
// books table. Tests are skipped when the variable is unset.
func newPostgresRepo(t *testing.T) repository.RepositoryInterface {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.MigrateUp(ctx, db, "postgres"))

	_, err = pool.Exec(ctx, "TRUNCATE books RESTART IDENTITY")
	require.NoError(t, err)
	return repository.NewPostgresRepository(pool)
}

func newSeededPostgresRepo(t *testing.T) repository.RepositoryInterface {
	t.Helper()
	repo := newPostgresRepo(t)
	require.NoError(t, repo.CreateBatch(context.Background(), testutil.Catalog()))
	return repo
}

func TestPostgresRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newPostgresRepo(t)
	require.NoError(t, repo.Ping(ctx))

	b := testutil.BookRequest(1, "Fiction").ToBook(0)
	b.Price = decimal.RequireFromString("19.99")
	require.NoError(t, repo.Create(ctx, &b))
	assert.Equal(t, int64(1), b.BookID)

	got, err := repo.GetByID(ctx, b.BookID)
	require.NoError(t, err)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, b.PageCount, got.PageCount)
	assert.True(t, b.Price.Equal(got.Price), "price %s != %s", b.Price, got.Price)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestPostgresRepository_ListPage(t *testing.T) {
	ctx := context.Background()
	repo := newSeededPostgresRepo(t)

	tests := []struct {
		name      string
		filter    model.BookFilter
		wantLen   int
		wantTotal int
		firstID   int64
	}{
		{"first page", model.BookFilter{Limit: 5, Offset: 0}, 5, 12, 1},
		{"last partial page", model.BookFilter{Limit: 5, Offset: 10}, 2, 12, 11},
		{"past the end", model.BookFilter{Limit: 5, Offset: 15}, 0, 12, 0},
		{"saturated offset", model.BookFilter{Limit: 5, Offset: math.MaxInt}, 0, 12, 0},
		{"category second page", model.BookFilter{Category: "Fiction", Limit: 3, Offset: 3}, 2, 5, 9},
		{"case sensitive", model.BookFilter{Category: "fiction", Limit: 5}, 0, 0, 0},
		{"no limit", model.BookFilter{}, 12, 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := repo.ListPage(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, books)
			assert.Len(t, books, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.firstID, books[0].BookID)
			}
		})
	}
}

func TestPostgresRepository_MissingRowsAreNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newSeededPostgresRepo(t)

	missing := testutil.BookRequest(1, "Fiction").ToBook(999)
	assert.ErrorIs(t, repo.Update(ctx, &missing), model.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), model.ErrBookNotFound)

	require.NoError(t, repo.Delete(ctx, 12))
	assert.ErrorIs(t, repo.Delete(ctx, 12), model.ErrBookNotFound)

	b := testutil.BookRequest(13, "Fiction").ToBook(0)
	require.NoError(t, repo.Create(ctx, &b))
	assert.Equal(t, int64(13), b.BookID)
}

func TestPostgresRepository_UpdateRoundsPrice(t *testing.T) {
	ctx := context.Background()
	repo := newSeededPostgresRepo(t)

	b := testutil.BookRequest(4, "Science").ToBook(4)
	b.Price = decimal.RequireFromString("9.505")
	require.NoError(t, repo.Update(ctx, &b))

	got, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Science", got.Category)
	assert.Equal(t, "9.51", got.Price.StringFixed(2))
}

func TestPostgresRepository_DistinctCategories(t *testing.T) {
	repo := newSeededPostgresRepo(t)
	cats, err := repo.DistinctCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History", "Science"}, cats)
}
