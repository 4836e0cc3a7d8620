package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/book"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const recordColumns = `id, user_id, book_id, borrowed_at, due_at, returned_at, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowedAt, &rec.DueAt,
		&rec.ReturnedAt, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func scanRecordWithBook(rows pgx.Rows) (Record, error) {
	var rec Record
	var b book.Book
	err := rows.Scan(
		&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowedAt, &rec.DueAt,
		&rec.ReturnedAt, &rec.CreatedAt, &rec.UpdatedAt,
		&b.ID, &b.Title, &b.ISBN, &b.PublishedDate,
		&b.AuthorID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Book = &b
	return rec, nil
}

const recordWithBookQuery = `
	SELECT r.id, r.user_id, r.book_id, r.borrowed_at, r.due_at,
	       r.returned_at, r.created_at, r.updated_at,
	       b.id, b.title, b.isbn, b.published_date,
	       b.author_id, b.status, b.created_at, b.updated_at
	FROM borrow_records r
	JOIN books b ON b.id = r.book_id
`

func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	const query = `
	INSERT INTO borrow_records (user_id, book_id, borrowed_at, due_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, rec.UserID, rec.BookID, rec.BorrowedAt, rec.DueAt).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Record, error) {
	query := recordWithBookQuery + ` ORDER BY r.borrowed_at DESC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecordWithBook(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Record, error) {
	query := recordWithBookQuery + ` WHERE r.id = $1 LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, id)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, ErrNotFound
	}
	return scanRecordWithBook(rows)
}

func (r *PostgresRepo) CloseOpen(ctx context.Context, bookID, userID int64, returnedAt time.Time) (Record, error) {
	const query = `
	UPDATE borrow_records
	SET returned_at = $3, updated_at = NOW()
	WHERE id = (
		SELECT id FROM borrow_records
		WHERE book_id = $1 AND user_id = $2 AND returned_at IS NULL
		ORDER BY borrowed_at DESC
		LIMIT 1
	)
	RETURNING ` + recordColumns + `
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rec, err := scanRecord(r.db.QueryRow(timeoutCtx, query, bookID, userID, returnedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
