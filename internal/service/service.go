package service

import (
	"context"
	"time"

	"library-backend/internal/domain"
)

// BorrowService is the borrowing workflow: every mutating operation runs as
// one atomic transaction across the user, book, and record rows.
type BorrowService interface {
	CreateBorrowRecord(ctx context.Context, userID, bookID int64, borrowDays int, notes string) (*domain.BorrowRecord, error)
	ReturnBook(ctx context.Context, recordID int64) (*domain.BorrowRecord, error)
	RenewBorrow(ctx context.Context, recordID int64, additionalDays int) (*domain.BorrowRecord, error)
	// CalculateOverdueFine projects the as-of-now penalty for a still-open
	// record; it never mutates state.
	CalculateOverdueFine(ctx context.Context, recordID int64) (float64, error)
	PayFine(ctx context.Context, recordID int64, amount float64) error
	GetBorrowRecord(ctx context.Context, recordID int64) (*domain.BorrowRecord, error)
	CanUserBorrowMore(ctx context.Context, userID int64) (bool, error)
	HasUserBorrowedBook(ctx context.Context, userID, bookID int64) (bool, error)
}

// LibraryService covers read-only reporting plus the batch and maintenance
// flows layered on top of the borrowing workflow.
type LibraryService interface {
	BatchBorrowBooks(ctx context.Context, userID int64, bookIDs []int64) []domain.BatchItemResult
	BatchReturnBooks(ctx context.Context, userID int64, recordIDs []int64) []domain.BatchItemResult
	ReserveBook(ctx context.Context, userID, bookID int64) (*domain.Book, error)
	CancelReservation(ctx context.Context, userID, bookID int64) error
	GetBorrowStatistics(ctx context.Context) (*domain.BorrowStatistics, error)
	GetMonthlyBorrowStats(ctx context.Context) ([]domain.MonthlyBorrowCount, error)
	GetLibraryOverview(ctx context.Context) (*domain.LibraryOverview, error)
	GetCurrentBorrows(ctx context.Context) ([]domain.BorrowRecord, error)
	GetOverdueRecords(ctx context.Context) ([]domain.BorrowRecord, error)
	GetDueTodayRecords(ctx context.Context) ([]domain.BorrowRecord, error)
	GetUserBorrowHistory(ctx context.Context, userID int64) ([]domain.BorrowRecord, error)
	GetUserCurrentBorrows(ctx context.Context, userID int64) ([]domain.BorrowRecord, error)
	GetRecordsByBook(ctx context.Context, bookID int64) ([]domain.BorrowRecord, error)
	ProcessOverdueFines(ctx context.Context) (int, error)
	SendBorrowReminders(ctx context.Context) (int, error)
}

type UserService interface {
	Register(ctx context.Context, username, password, email, phone, realName string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, string, error) // user, access, refresh
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeactivateUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
}

type BookService interface {
	AddBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, query, category string, page, pageSize int32) ([]domain.Book, int32, error)
	ListAvailableBooks(ctx context.Context) ([]domain.Book, error)
	ListLowStockBooks(ctx context.Context) ([]domain.Book, error)
	IsBookAvailable(ctx context.Context, id int64) (bool, error)
}

type EmailService interface {
	SendDueReminder(ctx context.Context, email, username, bookTitle string, dueDate time.Time) error
	SendOverdueNotice(ctx context.Context, email, username, bookTitle string, overdueDays int, fine float64) error
}
