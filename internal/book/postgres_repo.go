package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/author"
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

var bookWithAuthorColumns = []any{
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.isbn"), goqu.I("b.published_date"),
	goqu.I("b.author_id"), goqu.I("b.status"), goqu.I("b.created_at"), goqu.I("b.updated_at"),
	goqu.I("a.id"), goqu.I("a.name"), goqu.I("a.bio"), goqu.I("a.birthdate"),
	goqu.I("a.created_at"), goqu.I("a.updated_at"),
}

func scanBookWithAuthor(row pgx.Row) (Book, error) {
	var b Book
	var a author.Author
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.PublishedDate,
		&b.AuthorID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&a.ID, &a.Name, &a.Bio, &a.Birthdate,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Book{}, err
	}
	b.Author = &a
	return b, nil
}

// List searches and paginates the catalog. The statement is assembled with
// goqu because the filter set is dynamic; everything executes on the pool.
func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	base := goqu.Dialect("postgres").
		From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Prepared(true)

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		base = base.Where(goqu.Or(
			goqu.I("b.title").ILike(pattern),
			goqu.I("b.isbn").ILike(pattern),
			goqu.I("a.name").ILike(pattern),
		))
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := goqu.I("b.created_at").Desc()
	if q.Sort == "asc" {
		order = goqu.I("b.created_at").Asc()
	}

	dataSQL, dataArgs, err := base.
		Select(bookWithAuthorColumns...).
		Order(order).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
	SELECT b.id, b.title, b.isbn, b.published_date,
	       b.author_id, b.status, b.created_at, b.updated_at,
	       a.id, a.name, a.bio, a.birthdate,
	       a.created_at, a.updated_at
	FROM books b
	JOIN authors a ON a.id = b.author_id
	WHERE b.id = $1
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBookWithAuthor(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (title, isbn, published_date, author_id, status)
	VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'Available'))
	RETURNING id, status, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.ISBN, b.PublishedDate, b.AuthorID, b.Status).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return mapConstraintError(err)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, upd Update) (Book, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if upd.Title != nil {
		record["title"] = *upd.Title
	}
	if upd.ISBN != nil {
		record["isbn"] = *upd.ISBN
	}
	if upd.PublishedDate != nil {
		record["published_date"] = *upd.PublishedDate
	}
	if upd.AuthorID != nil {
		record["author_id"] = *upd.AuthorID
	}
	if upd.Status != nil {
		record["status"] = *upd.Status
	}

	query, args, err := goqu.Dialect("postgres").
		Update("books").
		Prepared(true).
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.C("id")).
		ToSQL()
	if err != nil {
		return Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, mapConstraintError(err)
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM books WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SetStatusIf(ctx context.Context, id int64, from, to string) (bool, error) {
	const query = `
	UPDATE books
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND status = $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrISBNTaken
		case "23503": // foreign_key_violation
			return ErrAuthorNotFound
		}
	}
	return err
}
