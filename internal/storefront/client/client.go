// Package client talks to the catalog REST API on behalf of the storefront.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookstore-catalog/internal/domains/book/model"

	"github.com/rs/zerolog/log"
)

const maxErrorBody = 64 << 10

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	retry   RetryPolicy
	backoff *backoff
}

// New builds a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base URL %q must be absolute", baseURL)
	}

	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: 10 * time.Second},
		retry: DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxRetries < 0 {
		c.retry.MaxRetries = 0
	}
	c.backoff = newBackoff(c.retry)
	return c, nil
}

// ListBooks - GET /api/books
func (c *Client) ListBooks(ctx context.Context, q model.PageQuery) (*model.PageResult, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if cat := q.CategoryFilter(); cat != "" {
		v.Set("category", cat)
	}

	var out model.PageResult
	if err := c.do(ctx, http.MethodGet, "/api/books", v, nil, &out); err != nil {
		return nil, err
	}
	if out.Books == nil {
		out.Books = []model.Book{}
	}
	return &out, nil
}

// Categories - GET /api/books/categories (without "All")
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/books/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPut, bookPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil, nil)
}

func bookPath(id int64) string {
	return "/api/books/" + strconv.FormatInt(id, 10)
}

// do sends one call. GETs are retried on transport errors, 429 and 5xx.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("client: encode body: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retry.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff.delay(attempt - 1)
			log.Debug().Err(lastErr).Str("path", path).Int("attempt", attempt).Dur("wait", wait).Msg("[client] retrying")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.once(ctx, method, path, query, payload, out)
		if lastErr == nil || !retryable(ctx, lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	// transport failure
	return true
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		Error *struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	}
	return apiErr
}
