package repository_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededRepo(t *testing.T) repository.RepositoryInterface {
	t.Helper()
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))
	require.NoError(t, repo.CreateBatch(context.Background(), testutil.Catalog()))
	return repo
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))

	b := testutil.BookRequest(1, "Fiction").ToBook(0)
	b.Price = decimal.RequireFromString("19.99")
	require.NoError(t, repo.Create(ctx, &b))
	require.NotZero(t, b.BookID)

	got, err := repo.GetByID(ctx, b.BookID)
	require.NoError(t, err)
	assert.Equal(t, b.BookID, got.BookID)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, b.ISBN, got.ISBN)
	assert.Equal(t, b.PageCount, got.PageCount)
	assert.True(t, b.Price.Equal(got.Price), "price %s != %s", b.Price, got.Price)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))
	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestSQLiteRepository_ListPage(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	tests := []struct {
		name      string
		filter    model.BookFilter
		wantLen   int
		wantTotal int
		firstID   int64
	}{
		{"first page", model.BookFilter{Limit: 5, Offset: 0}, 5, 12, 1},
		{"second page", model.BookFilter{Limit: 5, Offset: 5}, 5, 12, 6},
		{"last partial page", model.BookFilter{Limit: 5, Offset: 10}, 2, 12, 11},
		{"past the end", model.BookFilter{Limit: 5, Offset: 15}, 0, 12, 0},
		{"saturated offset", model.BookFilter{Limit: 5, Offset: math.MaxInt}, 0, 12, 0},
		{"category", model.BookFilter{Category: "History", Limit: 5}, 3, 3, 3},
		{"category second page", model.BookFilter{Category: "Fiction", Limit: 3, Offset: 3}, 2, 5, 9},
		{"unknown category", model.BookFilter{Category: "Poetry", Limit: 5}, 0, 0, 0},
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
			for i := 1; i < len(books); i++ {
				assert.Less(t, books[i-1].BookID, books[i].BookID)
			}
		})
	}
}

func TestSQLiteRepository_ListPageCountMatchesRowsUnderWrites(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	const writes = 40
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			b := testutil.BookRequest(100+i, "History").ToBook(0)
			assert.NoError(t, repo.Create(ctx, &b))
		}
	}()

	for i := 0; i < writes; i++ {
		books, total, err := repo.ListPage(ctx, model.BookFilter{Category: "History"})
		require.NoError(t, err)
		assert.Len(t, books, total, "read %d", i)
	}
	wg.Wait()

	books, total, err := repo.ListPage(ctx, model.BookFilter{Category: "History"})
	require.NoError(t, err)
	assert.Equal(t, 3+writes, total)
	assert.Len(t, books, total)
}

func TestSQLiteRepository_UpdateReplacesEveryField(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	replacement := model.Book{
		BookID:         4,
		Title:          "Dune",
		Author:         "Frank Herbert",
		Publisher:      "Chilton",
		ISBN:           "0-441-17271-7",
		Category:       "Science Fiction",
		Classification: "813.54",
		PageCount:      412,
		Price:          decimal.RequireFromString("9.50"),
	}
	require.NoError(t, repo.Update(ctx, &replacement))

	got, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, replacement.Title, got.Title)
	assert.Equal(t, replacement.Author, got.Author)
	assert.Equal(t, replacement.Publisher, got.Publisher)
	assert.Equal(t, replacement.ISBN, got.ISBN)
	assert.Equal(t, replacement.Category, got.Category)
	assert.Equal(t, replacement.Classification, got.Classification)
	assert.Equal(t, replacement.PageCount, got.PageCount)
	assert.Equal(t, "9.50", got.Price.StringFixed(2))

	missing := replacement
	missing.BookID = 999
	assert.ErrorIs(t, repo.Update(ctx, &missing), model.ErrBookNotFound)
}

func TestSQLiteRepository_DeleteNeverReusesID(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	require.NoError(t, repo.Delete(ctx, 12))
	_, err := repo.GetByID(ctx, 12)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 12), model.ErrBookNotFound)

	b := testutil.BookRequest(13, "Fiction").ToBook(0)
	require.NoError(t, repo.Create(ctx, &b))
	assert.Equal(t, int64(13), b.BookID)
}

func TestSQLiteRepository_DistinctCategories(t *testing.T) {
	ctx := context.Background()

	empty := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))
	cats, err := empty.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.NotNil(t, cats)

	cats, err = newSeededRepo(t).DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History", "Science"}, cats)
}

func TestSQLiteRepository_Ping(t *testing.T) {
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))
	assert.NoError(t, repo.Ping(context.Background()))
}
