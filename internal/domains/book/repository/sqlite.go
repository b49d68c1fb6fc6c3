package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore-catalog/internal/domains/book/model"
)

// sqliteRepository - database/sql on modernc.org/sqlite.
// Schema comes from the goose migrations in db/migrations/sqlite.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) RepositoryInterface {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE book_id = ?", id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, model.StorageFailure("get book", err)
	}
	return b, nil
}

// ListPage reads the count and the page inside one read-only transaction
// so totalBooks always describes the rows returned.
func (r *sqliteRepository) ListPage(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, model.StorageFailure("begin list", err)
	}
	defer func() { _ = tx.Rollback() }()

	books, total, err := listPageSQLite(ctx, tx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, model.StorageFailure("commit list", err)
	}
	return books, total, nil
}

func listPageSQLite(ctx context.Context, tx *sql.Tx, filter model.BookFilter) ([]model.Book, int, error) {
	where := ""
	var args []any
	if filter.Category != "" {
		where = " WHERE category = ?"
		args = append(args, filter.Category)
	}

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM books"+where, args...).Scan(&total); err != nil {
		return nil, 0, model.StorageFailure("count books", err)
	}

	books := []model.Book{}
	if filter.Limit > 0 && filter.Offset >= total {
		return books, total, nil
	}

	query := "SELECT " + bookColumns + " FROM books" + where + " ORDER BY book_id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, model.StorageFailure("list books", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, model.StorageFailure("scan book", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, model.StorageFailure("list books", err)
	}
	return books, total, nil
}

const insertBookSQLite = `INSERT INTO books (title, author, publisher, isbn, category, classification, page_count, price)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSQLite(ctx context.Context, ex sqlExecer, book *model.Book) error {
	res, err := ex.ExecContext(ctx, insertBookSQLite,
		book.Title,
		book.Author,
		book.Publisher,
		book.ISBN,
		book.Category,
		book.Classification,
		book.PageCount,
		book.Price.StringFixed(model.PriceScale),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	book.BookID = id
	return nil
}

func (r *sqliteRepository) Create(ctx context.Context, book *model.Book) error {
	if err := insertSQLite(ctx, r.db, book); err != nil {
		return model.StorageFailure("create book", err)
	}
	return nil
}

func (r *sqliteRepository) CreateBatch(ctx context.Context, books []*model.Book) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.StorageFailure("create books", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			for _, b := range books {
				b.BookID = 0
			}
		}
	}()

	for _, b := range books {
		if err = insertSQLite(ctx, tx, b); err != nil {
			return model.StorageFailure("create books", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return model.StorageFailure("create books", err)
	}
	return nil
}

func (r *sqliteRepository) Update(ctx context.Context, book *model.Book) error {
	res, err := r.db.ExecContext(ctx, `UPDATE books
SET title = ?, author = ?, publisher = ?, isbn = ?, category = ?,
    classification = ?, page_count = ?, price = ?
WHERE book_id = ?`,
		book.Title,
		book.Author,
		book.Publisher,
		book.ISBN,
		book.Category,
		book.Classification,
		book.PageCount,
		book.Price.StringFixed(model.PriceScale),
		book.BookID,
	)
	if err != nil {
		return model.StorageFailure("update book", err)
	}
	return requireAffected(res, "update book")
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE book_id = ?", id)
	if err != nil {
		return model.StorageFailure("delete book", err)
	}
	return requireAffected(res, "delete book")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return model.StorageFailure(op, err)
	}
	if n == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *sqliteRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT category FROM books ORDER BY category ASC")
	if err != nil {
		return nil, model.StorageFailure("list categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, model.StorageFailure("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, model.StorageFailure("list categories", err)
	}
	return categories, nil
}

func (r *sqliteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return model.StorageFailure("ping", fmt.Errorf("sqlite: %w", err))
	}
	return nil
}
