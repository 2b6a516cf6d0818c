package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"library-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockUserRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateBorrowState(ctx context.Context, tx *sql.Tx, user *domain.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) Search(ctx context.Context, query, category string, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, query, category, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) ListAvailable(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) ListLowStock(ctx context.Context, threshold int32) ([]domain.Book, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Book, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) UpdateInventory(ctx context.Context, tx *sql.Tx, book *domain.Book, expectedAvailable int32) error {
	args := m.Called(ctx, tx, book, expectedAvailable)
	return args.Error(0)
}

// MockBorrowRecordRepo
type MockBorrowRecordRepo struct {
	mock.Mock
}

func (m *MockBorrowRecordRepo) Create(ctx context.Context, tx *sql.Tx, rec *domain.BorrowRecord) error {
	args := m.Called(ctx, tx, rec)
	return args.Error(0)
}
func (m *MockBorrowRecordRepo) Update(ctx context.Context, tx *sql.Tx, rec *domain.BorrowRecord) error {
	args := m.Called(ctx, tx, rec)
	return args.Error(0)
}
func (m *MockBorrowRecordRepo) GetByID(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) HasOpenRecord(ctx context.Context, userID, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBorrowRecordRepo) ListByUser(ctx context.Context, userID int64) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) ListByBook(ctx context.Context, bookID int64) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) ListByStatus(ctx context.Context, status domain.BorrowStatus) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) ListDueOn(ctx context.Context, date time.Time) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowRecordRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBorrowRecordRepo) CountByStatus(ctx context.Context, status domain.BorrowStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBorrowRecordRepo) SumFines(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockBorrowRecordRepo) MonthlyBorrowCounts(ctx context.Context, since time.Time) ([]domain.MonthlyBorrowCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.MonthlyBorrowCount), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDueReminder(ctx context.Context, email, username, bookTitle string, dueDate time.Time) error {
	args := m.Called(ctx, email, username, bookTitle, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, username, bookTitle string, overdueDays int, fine float64) error {
	args := m.Called(ctx, email, username, bookTitle, overdueDays, fine)
	return args.Error(0)
}

// MockBorrowService
type MockBorrowService struct {
	mock.Mock
}

func (m *MockBorrowService) CreateBorrowRecord(ctx context.Context, userID, bookID int64, borrowDays int, notes string) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, userID, bookID, borrowDays, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowService) ReturnBook(ctx context.Context, recordID int64) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowService) RenewBorrow(ctx context.Context, recordID int64, additionalDays int) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, recordID, additionalDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowService) CalculateOverdueFine(ctx context.Context, recordID int64) (float64, error) {
	args := m.Called(ctx, recordID)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockBorrowService) PayFine(ctx context.Context, recordID int64, amount float64) error {
	args := m.Called(ctx, recordID, amount)
	return args.Error(0)
}
func (m *MockBorrowService) GetBorrowRecord(ctx context.Context, recordID int64) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}
func (m *MockBorrowService) CanUserBorrowMore(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBorrowService) HasUserBorrowedBook(ctx context.Context, userID, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
