package view

import (
	"sort"

	"bookstore-catalog/internal/domains/book/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// SortByTitle returns a copy of books ordered by title under the collation
// rules of tag at full strength: case and accents break ties between titles
// that share a base spelling. Identical titles keep their incoming (book id)
// order in both directions.
func SortByTitle(books []model.Book, order SortOrder, tag language.Tag) []model.Book {
	out := make([]model.Book, len(books))
	copy(out, books)

	// a Collator keeps scratch buffers, one per call
	col := collate.New(tag)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := col.CompareString(out[i].Title, out[j].Title)
		if order == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}
