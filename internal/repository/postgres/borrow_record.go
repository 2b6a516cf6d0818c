package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"

	"github.com/lib/pq"
)

const recordColumns = `id, user_id, book_id, borrow_date, due_date, return_date, status, fine_amount, COALESCE(notes, ''), created_at, updated_at`

type borrowRecordRepository struct {
	db *sql.DB
}

func NewBorrowRecordRepository(db *sql.DB) repository.BorrowRecordRepository {
	return &borrowRecordRepository{db: db}
}

func scanRecord(row *sql.Row) (*domain.BorrowRecord, error) {
	rec := &domain.BorrowRecord{}
	var returnDate sql.NullTime
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate, &returnDate,
		&rec.Status, &rec.FineAmount, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if returnDate.Valid {
		rec.ReturnDate = &returnDate.Time
	}
	return rec, nil
}

func scanRecordRows(rows *sql.Rows) ([]domain.BorrowRecord, error) {
	var records []domain.BorrowRecord
	for rows.Next() {
		var rec domain.BorrowRecord
		var returnDate sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate, &returnDate,
			&rec.Status, &rec.FineAmount, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if returnDate.Valid {
			rec.ReturnDate = &returnDate.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *borrowRecordRepository) Create(ctx context.Context, tx *sql.Tx, rec *domain.BorrowRecord) error {
	query := `INSERT INTO borrow_records (user_id, book_id, borrow_date, due_date, status, fine_amount, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	err := tx.QueryRowContext(ctx, query, rec.UserID, rec.BookID, rec.BorrowDate, rec.DueDate,
		rec.Status, rec.FineAmount, rec.Notes, rec.CreatedAt, rec.UpdatedAt).Scan(&rec.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return repository.ErrDuplicateOpenRecord
	}
	return err
}

func (r *borrowRecordRepository) Update(ctx context.Context, tx *sql.Tx, rec *domain.BorrowRecord) error {
	query := `UPDATE borrow_records SET due_date=$1, return_date=$2, status=$3, fine_amount=$4, notes=$5, updated_at=$6 WHERE id=$7`
	rec.UpdatedAt = time.Now()
	_, err := tx.ExecContext(ctx, query, rec.DueDate, rec.ReturnDate, rec.Status, rec.FineAmount, rec.Notes, rec.UpdatedAt, rec.ID)
	return err
}

func (r *borrowRecordRepository) GetByID(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

func (r *borrowRecordRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE id = $1 FOR UPDATE`
	return scanRecord(tx.QueryRowContext(ctx, query, id))
}

func (r *borrowRecordRepository) HasOpenRecord(ctx context.Context, userID, bookID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM borrow_records WHERE user_id = $1 AND book_id = $2 AND status = $3)`
	err := r.db.QueryRowContext(ctx, query, userID, bookID, domain.BorrowStatusBorrowed).Scan(&exists)
	return exists, err
}

func (r *borrowRecordRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE user_id = $1 ORDER BY borrow_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordRows(rows)
}

func (r *borrowRecordRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE book_id = $1 ORDER BY borrow_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordRows(rows)
}

func (r *borrowRecordRepository) ListByStatus(ctx context.Context, status domain.BorrowStatus) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE status = $1 ORDER BY due_date, id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordRows(rows)
}

// ListOverdue returns open records strictly past due as of the given date.
func (r *borrowRecordRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE status = $1 AND due_date < $2 ORDER BY due_date, id`
	rows, err := r.db.QueryContext(ctx, query, domain.BorrowStatusBorrowed, asOf.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordRows(rows)
}

func (r *borrowRecordRepository) ListDueOn(ctx context.Context, date time.Time) ([]domain.BorrowRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM borrow_records WHERE status = $1 AND due_date = $2 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.BorrowStatusBorrowed, date.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordRows(rows)
}

func (r *borrowRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM borrow_records`).Scan(&count)
	return count, err
}

func (r *borrowRecordRepository) CountByStatus(ctx context.Context, status domain.BorrowStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM borrow_records WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *borrowRecordRepository) SumFines(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(fine_amount), 0) FROM borrow_records`).Scan(&total)
	return total, err
}

func (r *borrowRecordRepository) MonthlyBorrowCounts(ctx context.Context, since time.Time) ([]domain.MonthlyBorrowCount, error) {
	query := `SELECT to_char(borrow_date, 'YYYY-MM') AS month, count(*)
	          FROM borrow_records WHERE borrow_date >= $1 GROUP BY month ORDER BY month`
	rows, err := r.db.QueryContext(ctx, query, since.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.MonthlyBorrowCount
	for rows.Next() {
		var mc domain.MonthlyBorrowCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}
