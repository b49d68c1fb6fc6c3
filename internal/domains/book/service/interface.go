package service

import (
	"context"
	"io"

	"bookstore-catalog/internal/domains/book/model"
)

// ServiceInterface - catalog business logic
type ServiceInterface interface {
	// Query answers one page query: validate, filter, count, skip/take.
	Query(ctx context.Context, q model.PageQuery) (*model.PageResult, error)
	Categories(ctx context.Context) ([]string, error)

	GetBook(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	// ExportBooks writes every book of category ("" or "All" = all) as xlsx.
	ExportBooks(ctx context.Context, category string, w io.Writer) (int, error)

	Ping(ctx context.Context) error
}
