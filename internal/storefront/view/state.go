package view

import (
	"bookstore-catalog/internal/domains/book/model"
)

// State is a snapshot of what the list view displays.
type State struct {
	Page       int
	PageSize   int
	Category   string
	Sort       SortOrder
	Books      []model.Book
	TotalBooks int
	// Categories always starts with "All".
	Categories []string
	Err        error
}

func NewState() State {
	return State{
		Page:       model.DefaultPage,
		PageSize:   model.DefaultPageSize,
		Category:   model.AllCategories,
		Sort:       Ascending,
		Books:      []model.Book{},
		Categories: []string{model.AllCategories},
	}
}

// Query is the catalog request that backs this state.
func (s State) Query() model.PageQuery {
	return model.PageQuery{Page: s.Page, PageSize: s.PageSize, Category: s.Category}
}

// CanNext is false once the current page reaches totalBooks.
func (s State) CanNext() bool {
	return s.Page*s.PageSize < s.TotalBooks
}

func (s State) CanPrev() bool {
	return s.Page > 1
}

// TotalPages is at least 1 so an empty catalog still shows "page 1 of 1".
func (s State) TotalPages() int {
	if s.PageSize < 1 || s.TotalBooks == 0 {
		return 1
	}
	return (s.TotalBooks + s.PageSize - 1) / s.PageSize
}

func (s State) clone() State {
	out := s
	out.Books = append([]model.Book(nil), s.Books...)
	out.Categories = append([]string(nil), s.Categories...)
	return out
}
