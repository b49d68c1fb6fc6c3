package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookstore-catalog/internal/domains/book/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithRetryPolicy(fastRetry))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
	_, err = New("localhost:8080/api")
	assert.Error(t, err)
}

func TestListBooks_SendsPagingAndDropsAll(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"books":      []map[string]interface{}{{"bookId": 4, "title": "Dune", "price": 9.99}},
			"totalBooks": 7,
		})
	})

	res, err := c.ListBooks(context.Background(), model.PageQuery{Page: 2, PageSize: 3, Category: "All"})
	require.NoError(t, err)
	assert.Equal(t, "page=2&pageSize=3", gotQuery)
	assert.Equal(t, 7, res.TotalBooks)
	require.Len(t, res.Books, 1)
	assert.Equal(t, int64(4), res.Books[0].BookID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(res.Books[0].Price))

	_, err = c.ListBooks(context.Background(), model.PageQuery{Page: 1, PageSize: 5, Category: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "category=Science+Fiction&page=1&pageSize=5", gotQuery)
}

func TestListBooks_EmptyPageIsNonNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"totalBooks": 0})
	})

	res, err := c.ListBooks(context.Background(), model.PageQuery{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.NotNil(t, res.Books)
	assert.Empty(t, res.Books)
}

func TestGetBook_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   map[string]interface{}{"code": "BOOK_NOT_FOUND", "message": "book not found"},
		})
	})

	_, err := c.GetBook(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BOOK_NOT_FOUND", apiErr.Code)
	assert.Equal(t, "book not found", apiErr.Message)
}

func TestCreateBook_ValidationDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "VALIDATION_ERROR",
				"message": "invalid book",
				"details": map[string]interface{}{"title": "cannot be blank"},
			},
		})
	})

	_, err := c.CreateBook(context.Background(), model.BookRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "cannot be blank", apiErr.Details["title"])
}

func TestCreateBook_SendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.BookRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Dune", req.Title)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"bookId": 13, "title": req.Title, "price": "12.50"})
	})

	got, err := c.CreateBook(context.Background(), model.BookRequest{
		Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Price: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(13), got.BookID)
}

func TestDeleteBook_NoContent(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteBook(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/books/7", path)
}

func TestGet_RetriesOnServerError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []string{"Fiction", "History"})
	})

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History"}, cats)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Categories(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.EqualValues(t, 1+fastRetry.MaxRetries, atomic.LoadInt32(&calls))
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetBook(context.Background(), 1)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestMutations_AreNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.UpdateBook(context.Background(), 1, model.BookRequest{})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	b := newBackoff(RetryPolicy{BaseDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond})
	assert.Equal(t, 10*time.Millisecond, b.delay(0))
	assert.Equal(t, 20*time.Millisecond, b.delay(1))
	assert.Equal(t, 35*time.Millisecond, b.delay(2))
	assert.Equal(t, 35*time.Millisecond, b.delay(40))
}

func TestBackoff_JitterStaysInBand(t *testing.T) {
	b := newBackoff(RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Jitter: 0.2})
	for i := 0; i < 50; i++ {
		d := b.delay(0)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}
