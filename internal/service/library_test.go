package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"library-backend/internal/domain"
	"library-backend/internal/service"
	"library-backend/internal/utils"
)

func newLibraryFixture(t *testing.T) (service.LibraryService, sqlmock.Sqlmock, *MockBorrowService, *MockUserRepo, *MockBookRepo, *MockBorrowRecordRepo, *MockEmailService, func()) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	borrowSvc := new(MockBorrowService)
	userRepo := new(MockUserRepo)
	bookRepo := new(MockBookRepo)
	recordRepo := new(MockBorrowRecordRepo)
	emailSvc := new(MockEmailService)
	svc := service.NewLibraryService(db, borrowSvc, userRepo, bookRepo, recordRepo, emailSvc, testPolicy())
	return svc, dbMock, borrowSvc, userRepo, bookRepo, recordRepo, emailSvc, func() { db.Close() }
}

func TestLibraryService_BatchBorrowBooks(t *testing.T) {
	ctx := context.Background()
	svc, _, borrowSvc, _, _, _, _, done := newLibraryFixture(t)
	defer done()

	borrowSvc.On("CreateBorrowRecord", ctx, int64(1), int64(10), 30, "").
		Return(&domain.BorrowRecord{ID: 100, UserID: 1, BookID: 10}, nil)
	borrowSvc.On("CreateBorrowRecord", ctx, int64(1), int64(11), 30, "").
		Return(nil, domain.Conflict("book unavailable"))
	borrowSvc.On("CreateBorrowRecord", ctx, int64(1), int64(12), 30, "").
		Return(&domain.BorrowRecord{ID: 101, UserID: 1, BookID: 12}, nil)

	results := svc.BatchBorrowBooks(ctx, 1, []int64{10, 11, 12})

	assert.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "unavailable")
	assert.True(t, results[2].Success)
	borrowSvc.AssertNumberOfCalls(t, "CreateBorrowRecord", 3)
}

func TestLibraryService_BatchReturnBooks(t *testing.T) {
	ctx := context.Background()
	svc, _, borrowSvc, _, _, _, _, done := newLibraryFixture(t)
	defer done()

	borrowSvc.On("GetBorrowRecord", ctx, int64(100)).
		Return(&domain.BorrowRecord{ID: 100, UserID: 1}, nil)
	borrowSvc.On("ReturnBook", ctx, int64(100)).
		Return(&domain.BorrowRecord{ID: 100, UserID: 1, Status: domain.BorrowStatusReturned}, nil)

	// Record 200 belongs to somebody else and must not be returned.
	borrowSvc.On("GetBorrowRecord", ctx, int64(200)).
		Return(&domain.BorrowRecord{ID: 200, UserID: 9}, nil)

	results := svc.BatchReturnBooks(ctx, 1, []int64{100, 200})

	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	borrowSvc.AssertNotCalled(t, "ReturnBook", ctx, int64(200))
}

func TestLibraryService_ReserveBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, _, userRepo, bookRepo, _, _, done := newLibraryFixture(t)
		defer done()

		userRepo.On("GetByID", ctx, int64(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int64(2)).Return(availableBook(2, 3), nil)
		bookRepo.On("UpdateStatus", ctx, int64(2), domain.BookStatusReserved).Return(nil)

		book, err := svc.ReserveBook(ctx, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookStatusReserved, book.Status)
	})

	t.Run("Unavailable Book", func(t *testing.T) {
		svc, _, _, userRepo, bookRepo, _, _, done := newLibraryFixture(t)
		defer done()

		book := availableBook(2, 1)
		book.Status = domain.BookStatusMaintenance

		userRepo.On("GetByID", ctx, int64(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int64(2)).Return(book, nil)

		_, err := svc.ReserveBook(ctx, 1, 2)
		assert.True(t, domain.IsKind(err, domain.ErrorKindConflict))
	})
}

func TestLibraryService_GetBorrowStatistics(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _, recordRepo, _, done := newLibraryFixture(t)
	defer done()

	recordRepo.On("Count", ctx).Return(int64(40), nil)
	recordRepo.On("CountByStatus", ctx, domain.BorrowStatusBorrowed).Return(int64(12), nil)
	recordRepo.On("ListOverdue", ctx, mock.AnythingOfType("time.Time")).
		Return([]domain.BorrowRecord{{ID: 1}, {ID: 2}}, nil)
	recordRepo.On("SumFines", ctx).Return(3.5, nil)

	stats, err := svc.GetBorrowStatistics(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(40), stats.TotalBorrows)
	assert.Equal(t, int64(12), stats.CurrentBorrows)
	assert.Equal(t, int64(2), stats.OverdueBorrows)
	assert.InDelta(t, 3.5, stats.TotalFines, 1e-9)
}

func TestLibraryService_GetUserCurrentBorrows(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _, recordRepo, _, done := newLibraryFixture(t)
	defer done()

	recordRepo.On("ListByUser", ctx, int64(1)).Return([]domain.BorrowRecord{
		{ID: 1, Status: domain.BorrowStatusBorrowed},
		{ID: 2, Status: domain.BorrowStatusReturned},
		{ID: 3, Status: domain.BorrowStatusOverdue},
	}, nil)

	open, err := svc.GetUserCurrentBorrows(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, int64(1), open[0].ID)

	history, err := svc.GetUserBorrowHistory(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestLibraryService_ProcessOverdueFines(t *testing.T) {
	ctx := context.Background()
	svc, dbMock, _, userRepo, _, recordRepo, _, done := newLibraryFixture(t)
	defer done()

	due := utils.Date(time.Now()).AddDate(0, 0, -4)
	fresh := domain.BorrowRecord{ID: 1, UserID: 1, DueDate: due, Status: domain.BorrowStatusBorrowed}
	alreadyFined := domain.BorrowRecord{ID: 2, UserID: 1, DueDate: due, Status: domain.BorrowStatusBorrowed, FineAmount: 2.0}

	recordRepo.On("ListOverdue", ctx, mock.AnythingOfType("time.Time")).
		Return([]domain.BorrowRecord{fresh, alreadyFined}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	user := activeUser(1)
	lockedCopy := fresh
	recordRepo.On("GetByIDForUpdate", ctx, mock.Anything, int64(1)).Return(&lockedCopy, nil)
	userRepo.On("GetByIDForUpdate", ctx, mock.Anything, int64(1)).Return(user, nil)
	recordRepo.On("Update", ctx, mock.Anything, &lockedCopy).Return(nil)
	userRepo.On("UpdateBorrowState", ctx, mock.Anything, user).Return(nil)

	processed, err := svc.ProcessOverdueFines(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.InDelta(t, 2.0, lockedCopy.FineAmount, 1e-9)
	assert.InDelta(t, 2.0, user.FineAmount, 1e-9)
}

func TestLibraryService_SendBorrowReminders(t *testing.T) {
	ctx := context.Background()
	svc, _, _, userRepo, bookRepo, recordRepo, emailSvc, done := newLibraryFixture(t)
	defer done()

	due := utils.Date(time.Now())
	dueToday := domain.BorrowRecord{ID: 1, UserID: 1, BookID: 2, DueDate: due, Status: domain.BorrowStatusBorrowed}
	overdue := domain.BorrowRecord{ID: 3, UserID: 1, BookID: 4, DueDate: due.AddDate(0, 0, -2), Status: domain.BorrowStatusBorrowed}

	recordRepo.On("ListDueOn", ctx, mock.AnythingOfType("time.Time")).Return([]domain.BorrowRecord{dueToday}, nil)
	recordRepo.On("ListOverdue", ctx, mock.AnythingOfType("time.Time")).Return([]domain.BorrowRecord{overdue}, nil)

	userRepo.On("GetByID", ctx, int64(1)).Return(activeUser(1), nil)
	bookRepo.On("GetByID", ctx, int64(2)).Return(availableBook(2, 1), nil)
	bookRepo.On("GetByID", ctx, int64(4)).Return(availableBook(4, 1), nil)

	emailSvc.On("SendDueReminder", ctx, "reader@test.com", "reader", "Book", due).Return(nil)
	emailSvc.On("SendOverdueNotice", ctx, "reader@test.com", "reader", "Book", 2, 1.0).Return(nil)

	sent, err := svc.SendBorrowReminders(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	emailSvc.AssertExpectations(t)
}
