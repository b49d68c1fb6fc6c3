// Package view drives the storefront list and detail screens.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bookstore-catalog/internal/domains/book/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// ErrSuperseded is returned by a fetch whose response arrived after a newer
// fetch had already been issued. The state is left untouched.
var ErrSuperseded = errors.New("view: response superseded by a newer request")

// Catalog is the slice of the API client the view needs.
type Catalog interface {
	ListBooks(ctx context.Context, q model.PageQuery) (*model.PageResult, error)
	Categories(ctx context.Context) ([]string, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Option func(*Controller)

// WithLanguage sets the collation used for title sorting.
func WithLanguage(tag language.Tag) Option {
	return func(c *Controller) { c.lang = tag }
}

// Controller owns the view State. Fetches may overlap; only the response to
// the most recent one is applied.
type Controller struct {
	api  Catalog
	lang language.Tag

	mu    sync.Mutex
	state State
	gen   uint64
}

func NewController(api Catalog, opts ...Option) *Controller {
	c := &Controller{
		api:   api,
		lang:  language.English,
		state: NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy safe to read while fetches are in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Refresh re-fetches the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.update(ctx, func(*State) {})
}

func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return model.NewFieldError("page", model.ErrInvalidPage)
	}
	return c.update(ctx, func(s *State) { s.Page = page })
}

// NextPage is a no-op when there is nothing past the current page.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	can := c.state.CanNext()
	c.mu.Unlock()
	if !can {
		return nil
	}
	return c.update(ctx, func(s *State) { s.Page++ })
}

// PrevPage never goes below page 1.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	can := c.state.CanPrev()
	c.mu.Unlock()
	if !can {
		return nil
	}
	return c.update(ctx, func(s *State) { s.Page-- })
}

// SetPageSize resets to page 1.
func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		return model.NewFieldError("pageSize", model.ErrInvalidPageSize)
	}
	return c.update(ctx, func(s *State) {
		s.PageSize = size
		s.Page = 1
	})
}

// SetCategory resets to page 1. "" selects all categories.
func (c *Controller) SetCategory(ctx context.Context, category string) error {
	if category == "" {
		category = model.AllCategories
	}
	return c.update(ctx, func(s *State) {
		s.Category = category
		s.Page = 1
	})
}

// ToggleSort re-orders the displayed page without a fetch.
func (c *Controller) ToggleSort() SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Sort = c.state.Sort.Toggle()
	c.state.Books = SortByTitle(c.state.Books, c.state.Sort, c.lang)
	return c.state.Sort
}

// LoadCategories refreshes the category picker, "All" first.
func (c *Controller) LoadCategories(ctx context.Context) error {
	cats, err := c.api.Categories(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Err = err
		return err
	}
	c.state.Categories = append([]string{model.AllCategories}, cats...)
	return nil
}

// Show fetches one book for the detail screen; it does not touch the list.
func (c *Controller) Show(ctx context.Context, id int64) (*model.Book, error) {
	return c.api.GetBook(ctx, id)
}

func (c *Controller) Create(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	book, err := c.api.CreateBook(ctx, req)
	if err != nil {
		return nil, err
	}
	return book, c.afterMutation(ctx)
}

func (c *Controller) Update(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	book, err := c.api.UpdateBook(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return book, c.afterMutation(ctx)
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteBook(ctx, id); err != nil {
		return err
	}
	return c.afterMutation(ctx)
}

// afterMutation reloads the page and the category list, either of which the
// mutation may have changed.
func (c *Controller) afterMutation(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("reload after change: %w", err)
	}
	if err := c.LoadCategories(ctx); err != nil {
		return fmt.Errorf("reload categories after change: %w", err)
	}
	return nil
}

// update stages mutate on a copy of the query fields and fetches. The staged
// page, pageSize and category are committed together with the result, and
// only if no newer fetch started meanwhile; a failed fetch keeps the query
// that matches the books on screen.
func (c *Controller) update(ctx context.Context, mutate func(*State)) error {
	c.mu.Lock()
	staged := c.state
	staged.Books = nil
	staged.Categories = nil
	mutate(&staged)
	c.gen++
	gen := c.gen
	q := staged.Query()
	c.mu.Unlock()

	res, err := c.api.ListBooks(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		log.Debug().Uint64("generation", gen).Uint64("latest", c.gen).Msg("[view] dropping stale page")
		return ErrSuperseded
	}
	if err != nil {
		c.state.Err = err
		return err
	}
	c.state.Page = staged.Page
	c.state.PageSize = staged.PageSize
	c.state.Category = staged.Category
	c.state.Books = SortByTitle(res.Books, c.state.Sort, c.lang)
	c.state.TotalBooks = res.TotalBooks
	c.state.Err = nil
	return nil
}
