package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = "book_id, title, author, publisher, isbn, category, classification, page_count, price"

// postgresRepository - raw SQL on pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.BookID,
		&b.Title,
		&b.Author,
		&b.Publisher,
		&b.ISBN,
		&b.Category,
		&b.Classification,
		&b.PageCount,
		&b.Price,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+bookColumns+" FROM books WHERE book_id = $1", id)
	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, model.StorageFailure("get book", err)
	}
	return b, nil
}

// ============================================
// LIST: COUNT then one page, same WHERE clause
// ============================================

type bookPage struct {
	books []model.Book
	total int
}

// ListPage reads the count and the page in one REPEATABLE READ transaction
// so totalBooks always matches the rows returned.
func (r *postgresRepository) ListPage(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	page, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bookPage, error) {
		if _, err := tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ, READ ONLY"); err != nil {
			return bookPage{}, model.StorageFailure("list books", err)
		}
		return listPageTx(ctx, tx, filter)
	})
	if err != nil {
		if !errors.Is(err, model.ErrStorageUnavailable) {
			err = model.StorageFailure("list books", err)
		}
		return nil, 0, err
	}
	return page.books, page.total, nil
}

func listPageTx(ctx context.Context, tx pgx.Tx, filter model.BookFilter) (bookPage, error) {
	whereClause, args := buildWhereClause(filter)

	page := bookPage{books: make([]model.Book, 0, max(filter.Limit, 0))}
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM books"+whereClause, args...).Scan(&page.total); err != nil {
		return bookPage{}, model.StorageFailure("count books", err)
	}
	// Skip the round trip when the page is past the end.
	if filter.Limit > 0 && filter.Offset >= page.total {
		return page, nil
	}

	query := "SELECT " + bookColumns + " FROM books" + whereClause + " ORDER BY book_id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return bookPage{}, model.StorageFailure("list books", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return bookPage{}, model.StorageFailure("scan book", err)
		}
		page.books = append(page.books, *b)
	}
	if err := rows.Err(); err != nil {
		return bookPage{}, model.StorageFailure("list books", err)
	}
	return page, nil
}

func buildWhereClause(filter model.BookFilter) (string, []any) {
	var conditions []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

const insertBookSQL = `INSERT INTO books (title, author, publisher, isbn, category, classification, page_count, price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING book_id`

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	if err := insertBook(ctx, r.pool, book); err != nil {
		return model.StorageFailure("create book", err)
	}
	return nil
}

// CreateBatch - all or nothing, inside one transaction.
func (r *postgresRepository) CreateBatch(ctx context.Context, books []*model.Book) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, b := range books {
			if err := insertBook(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, b := range books {
			b.BookID = 0
		}
		return model.StorageFailure("create books", err)
	}
	return nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertBook(ctx context.Context, q queryRower, book *model.Book) error {
	return q.QueryRow(ctx, insertBookSQL,
		book.Title,
		book.Author,
		book.Publisher,
		book.ISBN,
		book.Category,
		book.Classification,
		book.PageCount,
		book.Price,
	).Scan(&book.BookID)
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	tag, err := r.pool.Exec(ctx, `UPDATE books
SET title = $1, author = $2, publisher = $3, isbn = $4, category = $5,
    classification = $6, page_count = $7, price = $8
WHERE book_id = $9`,
		book.Title,
		book.Author,
		book.Publisher,
		book.ISBN,
		book.Category,
		book.Classification,
		book.PageCount,
		book.Price,
		book.BookID,
	)
	if err != nil {
		return model.StorageFailure("update book", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM books WHERE book_id = $1", id)
	if err != nil {
		return model.StorageFailure("delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT category FROM books ORDER BY category ASC")
	if err != nil {
		return nil, model.StorageFailure("list categories", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, model.StorageFailure("list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return model.StorageFailure("ping", err)
	}
	return nil
}
