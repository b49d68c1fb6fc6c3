package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price is stored with.
const PriceScale = 2

// Book is a single catalog record.
// BookID is assigned by the store on create and is never reused.
type Book struct {
	BookID         int64           `json:"bookId"`
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	Publisher      string          `json:"publisher"`
	ISBN           string          `json:"isbn"`
	Category       string          `json:"category"`
	Classification string          `json:"classification"`
	PageCount      int             `json:"pageCount"`
	Price          decimal.Decimal `json:"price"`
}

// BookRequest - payload for POST /api/books and PUT /api/books/:id
// PUT is a full replace: every field is written, missing ones become zero values.
type BookRequest struct {
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	Publisher      string          `json:"publisher"`
	ISBN           string          `json:"isbn"`
	Category       string          `json:"category"`
	Classification string          `json:"classification"`
	PageCount      int             `json:"pageCount"`
	Price          decimal.Decimal `json:"price"`
}

// Normalize trims surrounding whitespace from every text field.
func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Publisher = strings.TrimSpace(r.Publisher)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Category = strings.TrimSpace(r.Category)
	r.Classification = strings.TrimSpace(r.Classification)
}

// Validate checks the payload. Field keys in the returned error follow the JSON names.
func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Publisher, validation.Length(0, 255)),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.Category,
			validation.Required,
			validation.Length(1, 100),
			validation.NotIn(AllCategories).Error("is reserved"),
		),
		validation.Field(&r.Classification, validation.Length(0, 100)),
		validation.Field(&r.PageCount, validation.Min(0)),
		validation.Field(&r.Price, validation.By(nonNegativeDecimal)),
	)
}

// ToBook builds the entity for the given id (0 on create).
// The price is rounded to PriceScale, matching what the store keeps.
func (r BookRequest) ToBook(id int64) Book {
	return Book{
		BookID:         id,
		Title:          r.Title,
		Author:         r.Author,
		Publisher:      r.Publisher,
		ISBN:           r.ISBN,
		Category:       r.Category,
		Classification: r.Classification,
		PageCount:      r.PageCount,
		Price:          r.Price.Round(PriceScale),
	}
}

// ToRequest is the inverse of ToBook, used by the storefront edit form.
func (b Book) ToRequest() BookRequest {
	return BookRequest{
		Title:          b.Title,
		Author:         b.Author,
		Publisher:      b.Publisher,
		ISBN:           b.ISBN,
		Category:       b.Category,
		Classification: b.Classification,
		PageCount:      b.PageCount,
		Price:          b.Price,
	}
}

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal amount")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}
