package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

const bookColumns = `id, isbn, title, author, COALESCE(publisher, ''), COALESCE(publish_date, ''), category, total_copies, available_copies, COALESCE(location, ''), status, COALESCE(price, 0), COALESCE(description, ''), created_at, updated_at`

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func scanBook(row *sql.Row) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.PublishDate, &b.Category,
		&b.TotalCopies, &b.AvailableCopies, &b.Location, &b.Status, &b.Price, &b.Description,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) scanBookRows(rows *sql.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.PublishDate, &b.Category,
			&b.TotalCopies, &b.AvailableCopies, &b.Location, &b.Status, &b.Price, &b.Description,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (isbn, title, author, publisher, publish_date, category, total_copies, available_copies, location, status, price, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishDate, b.Category,
		b.TotalCopies, b.AvailableCopies, b.Location, b.Status, b.Price, b.Description, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND deleted = FALSE`
	return scanBook(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 AND deleted = FALSE`
	return scanBook(r.db.QueryRowContext(ctx, query, isbn))
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET isbn=$1, title=$2, author=$3, publisher=$4, publish_date=$5, category=$6, total_copies=$7, location=$8, price=$9, description=$10, updated_at=$11 WHERE id=$12 AND deleted = FALSE`
	b.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishDate, b.Category,
		b.TotalCopies, b.Location, b.Price, b.Description, b.UpdatedAt, b.ID)
	return err
}

func (r *bookRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error {
	query := `UPDATE books SET status=$1, updated_at=$2 WHERE id=$3 AND deleted = FALSE`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *bookRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE books SET deleted = TRUE, updated_at=$1 WHERE id=$2 AND deleted = FALSE`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *bookRepository) Search(ctx context.Context, query, category string, page, pageSize int32) ([]domain.Book, int32, error) {
	offset := (page - 1) * pageSize
	sqlQuery := `SELECT ` + bookColumns + ` FROM books WHERE deleted = FALSE`
	args := []interface{}{}
	argIdx := 1

	if query != "" {
		sqlQuery += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d OR isbn ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+query+"%")
		argIdx++
	}
	if category != "" {
		sqlQuery += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + sqlQuery + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlQuery += fmt.Sprintf(" ORDER BY title LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books, err := r.scanBookRows(rows)
	return books, count, err
}

func (r *bookRepository) ListAvailable(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE available_copies > 0 AND status = $1 AND deleted = FALSE ORDER BY title`
	rows, err := r.db.QueryContext(ctx, query, domain.BookStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanBookRows(rows)
}

func (r *bookRepository) ListLowStock(ctx context.Context, threshold int32) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE available_copies <= $1 AND deleted = FALSE ORDER BY available_copies, title`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanBookRows(rows)
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM books WHERE deleted = FALSE`).Scan(&count)
	return count, err
}

func (r *bookRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND deleted = FALSE FOR UPDATE`
	return scanBook(tx.QueryRowContext(ctx, query, id))
}

// UpdateInventory persists a copy-count change guarded by the previously
// observed count, so a lost race shows up as sql.ErrNoRows instead of a
// silent double decrement.
func (r *bookRepository) UpdateInventory(ctx context.Context, tx *sql.Tx, b *domain.Book, expectedAvailable int32) error {
	query := `UPDATE books SET available_copies=$1, status=$2, updated_at=$3 WHERE id=$4 AND available_copies=$5 AND deleted = FALSE`
	b.UpdatedAt = time.Now()
	res, err := tx.ExecContext(ctx, query, b.AvailableCopies, b.Status, b.UpdatedAt, b.ID, expectedAvailable)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
