package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
)

// ErrDuplicateOpenRecord surfaces the storage-level uniqueness backstop for
// the single-open-record-per-(user,book) invariant.
var ErrDuplicateOpenRecord = errors.New("open borrow record already exists for user and book")

// Mutating methods used by the borrowing workflow take a *sql.Tx so the
// user, book, and record changes of one operation commit or roll back as a
// unit. Read paths outside a workflow go through the plain *sql.DB.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)

	// Row-locked access inside a workflow transaction.
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.User, error)
	UpdateBorrowState(ctx context.Context, tx *sql.Tx, user *domain.User) error
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error
	SoftDelete(ctx context.Context, id int64) error
	Search(ctx context.Context, query, category string, page, pageSize int32) ([]domain.Book, int32, error)
	ListAvailable(ctx context.Context) ([]domain.Book, error)
	ListLowStock(ctx context.Context, threshold int32) ([]domain.Book, error)
	Count(ctx context.Context) (int64, error)

	// Row-locked access inside a workflow transaction. UpdateInventory is a
	// compare-and-swap on available_copies and reports sql.ErrNoRows when the
	// expected count no longer matches.
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Book, error)
	UpdateInventory(ctx context.Context, tx *sql.Tx, book *domain.Book, expectedAvailable int32) error
}

type BorrowRecordRepository interface {
	Create(ctx context.Context, tx *sql.Tx, record *domain.BorrowRecord) error
	Update(ctx context.Context, tx *sql.Tx, record *domain.BorrowRecord) error
	GetByID(ctx context.Context, id int64) (*domain.BorrowRecord, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.BorrowRecord, error)
	HasOpenRecord(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BorrowRecord, error)
	ListByBook(ctx context.Context, bookID int64) ([]domain.BorrowRecord, error)
	ListByStatus(ctx context.Context, status domain.BorrowStatus) ([]domain.BorrowRecord, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.BorrowRecord, error)
	ListDueOn(ctx context.Context, date time.Time) ([]domain.BorrowRecord, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.BorrowStatus) (int64, error)
	SumFines(ctx context.Context) (float64, error)
	MonthlyBorrowCounts(ctx context.Context, since time.Time) ([]domain.MonthlyBorrowCount, error)
}
