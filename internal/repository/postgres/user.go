package postgres

import (
	"context"
	"database/sql"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

const userColumns = `id, username, password_hash, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(real_name, ''), role, status, max_borrow_limit, current_borrowed, fine_amount, last_login_at, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone, &u.RealName,
		&u.Role, &u.Status, &u.MaxBorrowLimit, &u.CurrentBorrowed, &u.FineAmount,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, email, phone, real_name, role, status, max_borrow_limit, current_borrowed, fine_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.Email, u.Phone, u.RealName,
		u.Role, u.Status, u.MaxBorrowLimit, u.CurrentBorrowed, u.FineAmount, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted = FALSE`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted = FALSE`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, phone=$2, real_name=$3, role=$4, status=$5, max_borrow_limit=$6, updated_at=$7 WHERE id=$8 AND deleted = FALSE`
	u.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query, u.Email, u.Phone, u.RealName, u.Role, u.Status, u.MaxBorrowLimit, u.UpdatedAt, u.ID)
	return err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login_at=$1, updated_at=$1 WHERE id=$2 AND deleted = FALSE`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *userRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE users SET deleted = TRUE, updated_at=$1 WHERE id=$2 AND deleted = FALSE`
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

func (r *userRepository) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	offset := (page - 1) * pageSize
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE deleted = FALSE`).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE deleted = FALSE ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone, &u.RealName,
			&u.Role, &u.Status, &u.MaxBorrowLimit, &u.CurrentBorrowed, &u.FineAmount,
			&lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if lastLogin.Valid {
			u.LastLoginAt = &lastLogin.Time
		}
		users = append(users, u)
	}
	return users, count, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE deleted = FALSE`).Scan(&count)
	return count, err
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE status = $1 AND deleted = FALSE`, domain.UserStatusActive).Scan(&count)
	return count, err
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted = FALSE FOR UPDATE`
	return scanUser(tx.QueryRowContext(ctx, query, id))
}

func (r *userRepository) UpdateBorrowState(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	query := `UPDATE users SET current_borrowed=$1, fine_amount=$2, updated_at=$3 WHERE id=$4`
	u.UpdatedAt = time.Now()
	_, err := tx.ExecContext(ctx, query, u.CurrentBorrowed, u.FineAmount, u.UpdatedAt, u.ID)
	return err
}
