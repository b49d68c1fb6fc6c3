package main

import (
	"context"
	"testing"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_InsertsSampleOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))

	n, err := seed(ctx, repo, false)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = seed(ctx, repo, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, total, err := repo.ListPage(ctx, model.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	cats, err := repo.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History", "Science"}, cats)
}

func TestSeed_Force(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))

	_, err := seed(ctx, repo, false)
	require.NoError(t, err)
	n, err := seed(ctx, repo, true)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, total, err := repo.ListPage(ctx, model.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 24, total)
}
