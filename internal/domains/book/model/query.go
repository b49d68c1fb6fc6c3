package model

import (
	"math"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100

	// AllCategories is the category value meaning "no filter".
	AllCategories = "All"
)

// PageQuery - one request against the catalog: GET /api/books?page&pageSize&category
type PageQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Category string `json:"category,omitempty"`
}

// Validate rejects page < 1 and pageSize < 1.
func (q PageQuery) Validate() error {
	if q.Page < 1 {
		return NewFieldError("page", ErrInvalidPage)
	}
	if q.PageSize < 1 {
		return NewFieldError("pageSize", ErrInvalidPageSize)
	}
	return nil
}

// CategoryFilter returns the exact category to match, or "" when unfiltered.
// Both "" and "All" mean unfiltered; anything else is matched case-sensitively.
func (q PageQuery) CategoryFilter() string {
	c := strings.TrimSpace(q.Category)
	if c == AllCategories {
		return ""
	}
	return c
}

// Offset is the number of rows skipped before this page.
// It saturates at math.MaxInt instead of overflowing, so a far-out page
// is simply past the end.
func (q PageQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// Filter converts the query into what the store executes.
func (q PageQuery) Filter() BookFilter {
	return BookFilter{
		Category: q.CategoryFilter(),
		Offset:   q.Offset(),
		Limit:    q.PageSize,
	}
}

// PageResult - response of GET /api/books
// Books is never nil so an empty page serializes as [].
type PageResult struct {
	Books      []Book `json:"books"`
	TotalBooks int    `json:"totalBooks"`
}

// BookFilter - filter object for the repository. Empty Category means all.
// Limit <= 0 means no limit.
type BookFilter struct {
	Category string
	Offset   int
	Limit    int
}
