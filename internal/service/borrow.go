package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
	"library-backend/internal/utils"
)

type borrowService struct {
	db         *sql.DB
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	recordRepo repository.BorrowRecordRepository
	policy     config.LibraryConfig
}

func NewBorrowService(
	db *sql.DB,
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	recordRepo repository.BorrowRecordRepository,
	policy config.LibraryConfig,
) BorrowService {
	return &borrowService{
		db:         db,
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		recordRepo: recordRepo,
		policy:     policy,
	}
}

// CreateBorrowRecord lends one copy of a book to a user. The user and book
// rows are locked for the duration of the transaction; user rows are always
// locked before book rows so concurrent operations cannot deadlock.
func (s *borrowService) CreateBorrowRecord(ctx context.Context, userID, bookID int64, borrowDays int, notes string) (rec *domain.BorrowRecord, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user not found: %d", userID)
		}
		return nil, err
	}

	book, err := s.bookRepo.GetByIDForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("book not found: %d", bookID)
		}
		return nil, err
	}

	if borrowDays <= 0 {
		return nil, domain.InvalidArgument("borrow days must be positive")
	}
	if !user.CanBorrowMore() {
		return nil, domain.Conflict("borrow limit reached")
	}
	if !book.IsAvailable() {
		return nil, domain.Conflict("book unavailable")
	}

	open, err := s.recordRepo.HasOpenRecord(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.Conflict("already borrowed")
	}

	expected := book.AvailableCopies
	if !book.BorrowOne() {
		return nil, domain.Conflict("book unavailable")
	}
	if err = s.bookRepo.UpdateInventory(ctx, tx, book, expected); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Conflict("book unavailable")
		}
		return nil, err
	}

	user.IncrementBorrowCount()
	if err = s.userRepo.UpdateBorrowState(ctx, tx, user); err != nil {
		return nil, err
	}

	borrowDate := utils.Date(time.Now())
	rec = &domain.BorrowRecord{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, borrowDays),
		Status:     domain.BorrowStatusBorrowed,
		Notes:      notes,
	}
	if err = s.recordRepo.Create(ctx, tx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateOpenRecord) {
			return nil, domain.Conflict("already borrowed")
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("Borrow record created", "record_id", rec.ID, "user_id", userID, "book_id", bookID, "due_date", rec.DueDate.Format("2006-01-02"))
	return rec, nil
}

// ReturnBook closes an open record, computes any overdue fine, and puts the
// copy back on the shelf.
func (s *borrowService) ReturnBook(ctx context.Context, recordID int64) (rec *domain.BorrowRecord, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err = s.recordRepo.GetByIDForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("borrow record not found: %d", recordID)
		}
		return nil, err
	}
	if rec.IsClosed() {
		return nil, domain.Conflict("already returned")
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, rec.UserID)
	if err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByIDForUpdate(ctx, tx, rec.BookID)
	if err != nil {
		return nil, err
	}

	// Lateness is decided before the status flips, on day granularity.
	now := time.Now()
	returnDate := utils.Date(now)
	overdue := rec.IsOverdueAt(now)

	rec.ReturnDate = &returnDate
	if overdue {
		fine := utils.OverdueFine(rec.DueDate, now, s.policy.DailyFineRate)
		rec.Status = domain.BorrowStatusOverdue
		rec.FineAmount = fine
		user.FineAmount += fine
	} else {
		rec.Status = domain.BorrowStatusReturned
	}

	user.DecrementBorrowCount()
	if err = s.userRepo.UpdateBorrowState(ctx, tx, user); err != nil {
		return nil, err
	}

	expected := book.AvailableCopies
	book.ReturnOne()
	if err = s.bookRepo.UpdateInventory(ctx, tx, book, expected); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Conflict("concurrent inventory change, retry")
		}
		return nil, err
	}

	if err = s.recordRepo.Update(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("Book returned", "record_id", rec.ID, "status", rec.Status, "fine", rec.FineAmount)
	return rec, nil
}

// RenewBorrow extends the due date of an open, not-yet-overdue record.
// Inventory and borrow counts are untouched.
func (s *borrowService) RenewBorrow(ctx context.Context, recordID int64, additionalDays int) (rec *domain.BorrowRecord, err error) {
	if additionalDays <= 0 {
		return nil, domain.InvalidArgument("additional days must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err = s.recordRepo.GetByIDForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("borrow record not found: %d", recordID)
		}
		return nil, err
	}
	if rec.IsClosed() {
		return nil, domain.Conflict("already returned")
	}
	if rec.IsOverdueAt(time.Now()) {
		return nil, domain.Conflict("overdue, must return first")
	}

	rec.DueDate = rec.DueDate.AddDate(0, 0, additionalDays)
	if err = s.recordRepo.Update(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("Borrow renewed", "record_id", rec.ID, "due_date", rec.DueDate.Format("2006-01-02"))
	return rec, nil
}

// CalculateOverdueFine is a projection of the live penalty for an open
// record, distinct from the fine persisted at return time.
func (s *borrowService) CalculateOverdueFine(ctx context.Context, recordID int64) (float64, error) {
	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NotFound("borrow record not found: %d", recordID)
		}
		return 0, err
	}

	now := time.Now()
	if !rec.IsOverdueAt(now) {
		return 0, nil
	}
	return utils.OverdueFine(rec.DueDate, now, s.policy.DailyFineRate), nil
}

// PayFine applies a payment to a record's fine and the user's balance in one
// transaction.
func (s *borrowService) PayFine(ctx context.Context, recordID int64, amount float64) (err error) {
	if amount <= 0 {
		return domain.InvalidArgument("payment amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err := s.recordRepo.GetByIDForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("borrow record not found: %d", recordID)
		}
		return err
	}
	if amount > rec.FineAmount {
		return domain.InvalidArgument("payment exceeds owed fine")
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, rec.UserID)
	if err != nil {
		return err
	}

	rec.FineAmount -= amount
	user.FineAmount -= amount
	if user.FineAmount < 0 {
		user.FineAmount = 0
	}

	if err = s.recordRepo.Update(ctx, tx, rec); err != nil {
		return err
	}
	if err = s.userRepo.UpdateBorrowState(ctx, tx, user); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	logger.Info("Fine payment applied", "record_id", rec.ID, "amount", amount, "remaining", rec.FineAmount)
	return nil
}

func (s *borrowService) GetBorrowRecord(ctx context.Context, recordID int64) (*domain.BorrowRecord, error) {
	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("borrow record not found: %d", recordID)
		}
		return nil, err
	}
	return rec, nil
}

func (s *borrowService) CanUserBorrowMore(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.NotFound("user not found: %d", userID)
		}
		return false, err
	}
	return user.CanBorrowMore(), nil
}

func (s *borrowService) HasUserBorrowedBook(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.recordRepo.HasOpenRecord(ctx, userID, bookID)
}
