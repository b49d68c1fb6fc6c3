package repository

import (
	"context"

	"bookstore-catalog/internal/domains/book/model"
)

// RepositoryInterface - data access for the books table.
// Missing rows surface as model.ErrBookNotFound; driver failures are wrapped
// with model.StorageFailure.
type RepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// ListPage returns the rows of one page ordered by book_id ascending,
	// together with the total number of rows matching filter.Category.
	ListPage(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)

	// Create assigns book.BookID.
	Create(ctx context.Context, book *model.Book) error

	// CreateBatch inserts all books atomically, assigning ids in order.
	CreateBatch(ctx context.Context, books []*model.Book) error

	// Update replaces every column of the row with book.BookID.
	Update(ctx context.Context, book *model.Book) error

	Delete(ctx context.Context, id int64) error

	// DistinctCategories returns each category once, sorted ascending.
	DistinctCategories(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
}
