package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"bookstore-catalog/internal/domains/book/handler"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/domains/book/service"
	"bookstore-catalog/internal/storefront/cart"
	"bookstore-catalog/internal/storefront/client"
	"bookstore-catalog/internal/storefront/view"
	"bookstore-catalog/internal/testutil"
	"bookstore-catalog/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// newTestShell runs the real catalog API over httptest, seeded with the
// twelve-book fixture, and returns a shell reading script.
func newTestShell(t *testing.T, script string) (*shell, *bytes.Buffer) {
	t.Helper()
	repo := repository.NewSQLiteRepository(testutil.NewSQLiteDB(t))
	require.NoError(t, repo.CreateBatch(context.Background(), testutil.Catalog()))

	r := gin.New()
	handler.NewHandler(service.NewService(repo, cache.NewNop(), time.Minute)).RegisterRoutes(r.Group("/api/books"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL)
	require.NoError(t, err)

	var out bytes.Buffer
	sh := newShell(view.NewController(api), cart.New(), bufio.NewScanner(strings.NewReader(script)), &out)
	return sh, &out
}

func TestShell_Paging(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t, "")

	sh.exec(ctx, "list")
	assert.Contains(t, out.String(), "Page 1 of 3, 12 book(s), category All, sort asc")

	sh.exec(ctx, "next")
	sh.exec(ctx, "next")
	out.Reset()
	sh.exec(ctx, "next")
	assert.Equal(t, "Already on the last page.\n", out.String())

	out.Reset()
	sh.exec(ctx, "category Science")
	assert.Contains(t, out.String(), "Page 1 of 1, 4 book(s), category Science")

	out.Reset()
	sh.exec(ctx, "size 2")
	assert.Contains(t, out.String(), "Page 1 of 2, 4 book(s)")

	out.Reset()
	sh.exec(ctx, "page zero")
	assert.Contains(t, out.String(), "error: expected a number")

	out.Reset()
	sh.exec(ctx, "categories")
	assert.Equal(t, "All, Fiction, History, Science\n", out.String())
}

func TestShell_SortToggle(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t, "")
	sh.exec(ctx, "list")

	out.Reset()
	sh.exec(ctx, "sort")
	lines := strings.Split(out.String(), "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, "Sorted by title, desc.", lines[0])
	assert.Contains(t, lines[3], "Book 05")
}

func TestShell_Cart(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t, "")
	sh.exec(ctx, "list")

	sh.exec(ctx, "add 2")
	sh.exec(ctx, "add 2")
	// not on the current page, fetched by id
	sh.exec(ctx, "add 12")
	sh.exec(ctx, "remove 7")

	out.Reset()
	sh.exec(ctx, "cart")
	// 2 x 5.50 + 8.00
	assert.Contains(t, out.String(), "Items: 3  Total: 19.00")

	sh.exec(ctx, "remove 2")
	out.Reset()
	sh.exec(ctx, "cart")
	assert.Contains(t, out.String(), "Items: 1  Total: 8.00")

	out.Reset()
	sh.exec(ctx, "add 99")
	assert.Contains(t, out.String(), "error: The specified book does not exist")
}

func TestShell_CreateShowDelete(t *testing.T) {
	ctx := context.Background()
	script := strings.Join([]string{
		"create",
		"Dune", "Frank Herbert", "", "", "Fiction", "", "abc", "412", "9.99",
		"show 13",
		"delete 13",
		"show 13",
		"quit",
		"list",
	}, "\n") + "\n"
	sh, out := newTestShell(t, script)

	sh.run(ctx)
	got := out.String()
	assert.Contains(t, got, "pages must be a whole number")
	assert.Contains(t, got, "Created book 13.")
	assert.Contains(t, got, "Frank Herbert")
	assert.Contains(t, got, "9.99")
	assert.Contains(t, got, "Deleted book 13.")
	assert.Contains(t, got, "error: The specified book does not exist")
	// stopped at quit
	assert.Equal(t, 1, strings.Count(got, "Created book"))
	assert.NotContains(t, got[strings.LastIndex(got, "does not exist"):], "Page ")
}

func TestShell_CreateRejected(t *testing.T) {
	ctx := context.Background()
	// every answer blank: title, author and category are required
	script := "create\n\n\n\n\n\n\n\n\nquit\n"
	sh, out := newTestShell(t, script)

	sh.run(ctx)
	got := out.String()
	assert.Contains(t, got, "error: ")
	assert.Contains(t, got, "title: ")
	assert.Contains(t, got, "category: ")
	assert.NotContains(t, got, "Created book")
}

func TestShell_Edit(t *testing.T) {
	ctx := context.Background()
	// keep everything except the title and price
	script := "edit 1\nRenamed\n\n\n\n\n\n\n12.5\nshow 1\nquit\n"
	sh, out := newTestShell(t, script)

	sh.run(ctx)
	got := out.String()
	assert.Contains(t, got, "Updated book 1.")
	assert.Contains(t, got, "Renamed")
	assert.Contains(t, got, "12.50")
	assert.Contains(t, got, "Jane Austen")
}

func TestShell_UnknownCommand(t *testing.T) {
	sh, out := newTestShell(t, "")
	assert.False(t, sh.exec(context.Background(), "fly"))
	assert.Contains(t, out.String(), `unknown command "fly"`)
	assert.True(t, sh.exec(context.Background(), "quit"))
}
