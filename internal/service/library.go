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

// lowStockThreshold marks books with this many (or fewer) copies left as
// low stock in the overview.
const lowStockThreshold int32 = 1

type libraryService struct {
	db         *sql.DB
	borrowSvc  BorrowService
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	recordRepo repository.BorrowRecordRepository
	emailSvc   EmailService
	policy     config.LibraryConfig
}

func NewLibraryService(
	db *sql.DB,
	borrowSvc BorrowService,
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	recordRepo repository.BorrowRecordRepository,
	emailSvc EmailService,
	policy config.LibraryConfig,
) LibraryService {
	return &libraryService{
		db:         db,
		borrowSvc:  borrowSvc,
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		recordRepo: recordRepo,
		emailSvc:   emailSvc,
		policy:     policy,
	}
}

// BatchBorrowBooks runs the single-record workflow per book. One item
// failing does not stop the loop and never fails the batch.
func (s *libraryService) BatchBorrowBooks(ctx context.Context, userID int64, bookIDs []int64) []domain.BatchItemResult {
	results := make([]domain.BatchItemResult, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		rec, err := s.borrowSvc.CreateBorrowRecord(ctx, userID, bookID, s.policy.DefaultBorrowDays, "")
		if err != nil {
			logger.Warn("Batch borrow item failed", "user_id", userID, "book_id", bookID, "error", err)
			results = append(results, domain.BatchItemResult{ID: bookID, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, domain.BatchItemResult{ID: bookID, Success: true, Record: rec})
	}
	return results
}

// BatchReturnBooks returns each record after verifying it belongs to the
// user, collecting per-item outcomes.
func (s *libraryService) BatchReturnBooks(ctx context.Context, userID int64, recordIDs []int64) []domain.BatchItemResult {
	results := make([]domain.BatchItemResult, 0, len(recordIDs))
	for _, recordID := range recordIDs {
		rec, err := s.borrowSvc.GetBorrowRecord(ctx, recordID)
		if err == nil && rec.UserID != userID {
			err = domain.InvalidArgument("record does not belong to user")
		}
		if err == nil {
			rec, err = s.borrowSvc.ReturnBook(ctx, recordID)
		}
		if err != nil {
			logger.Warn("Batch return item failed", "user_id", userID, "record_id", recordID, "error", err)
			results = append(results, domain.BatchItemResult{ID: recordID, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, domain.BatchItemResult{ID: recordID, Success: true, Record: rec})
	}
	return results
}

// ReserveBook flips an available book to RESERVED. Reservations are an
// out-of-band state: copy-count changes never override them.
func (s *libraryService) ReserveBook(ctx context.Context, userID, bookID int64) (*domain.Book, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user not found: %d", userID)
		}
		return nil, err
	}
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("book not found: %d", bookID)
		}
		return nil, err
	}
	if !book.IsAvailable() {
		return nil, domain.Conflict("book unavailable")
	}

	book.Status = domain.BookStatusReserved
	if err := s.bookRepo.UpdateStatus(ctx, bookID, domain.BookStatusReserved); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *libraryService) CancelReservation(ctx context.Context, userID, bookID int64) error {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("book not found: %d", bookID)
		}
		return err
	}
	if book.Status != domain.BookStatusReserved {
		return nil
	}
	return s.bookRepo.UpdateStatus(ctx, bookID, domain.BookStatusAvailable)
}

func (s *libraryService) GetBorrowStatistics(ctx context.Context) (*domain.BorrowStatistics, error) {
	total, err := s.recordRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.recordRepo.CountByStatus(ctx, domain.BorrowStatusBorrowed)
	if err != nil {
		return nil, err
	}
	overdue, err := s.recordRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	fines, err := s.recordRepo.SumFines(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.BorrowStatistics{
		TotalBorrows:   total,
		CurrentBorrows: current,
		OverdueBorrows: int64(len(overdue)),
		TotalFines:     fines,
	}, nil
}

func (s *libraryService) GetMonthlyBorrowStats(ctx context.Context) ([]domain.MonthlyBorrowCount, error) {
	since := time.Now().AddDate(0, -6, 0)
	return s.recordRepo.MonthlyBorrowCounts(ctx, since)
}

func (s *libraryService) GetLibraryOverview(ctx context.Context) (*domain.LibraryOverview, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	available, err := s.bookRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.bookRepo.ListLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	stats, err := s.GetBorrowStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.LibraryOverview{
		TotalUsers:     totalUsers,
		ActiveUsers:    activeUsers,
		TotalBooks:     totalBooks,
		AvailableBooks: int64(len(available)),
		LowStockBooks:  int64(len(lowStock)),
		TotalBorrows:   stats.TotalBorrows,
		CurrentBorrows: stats.CurrentBorrows,
		OverdueBorrows: stats.OverdueBorrows,
		TotalFines:     stats.TotalFines,
	}, nil
}

func (s *libraryService) GetCurrentBorrows(ctx context.Context) ([]domain.BorrowRecord, error) {
	return s.recordRepo.ListByStatus(ctx, domain.BorrowStatusBorrowed)
}

func (s *libraryService) GetOverdueRecords(ctx context.Context) ([]domain.BorrowRecord, error) {
	return s.recordRepo.ListOverdue(ctx, time.Now())
}

func (s *libraryService) GetDueTodayRecords(ctx context.Context) ([]domain.BorrowRecord, error) {
	return s.recordRepo.ListDueOn(ctx, time.Now())
}

func (s *libraryService) GetUserBorrowHistory(ctx context.Context, userID int64) ([]domain.BorrowRecord, error) {
	records, err := s.recordRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var closed []domain.BorrowRecord
	for _, rec := range records {
		if rec.IsClosed() {
			closed = append(closed, rec)
		}
	}
	return closed, nil
}

func (s *libraryService) GetUserCurrentBorrows(ctx context.Context, userID int64) ([]domain.BorrowRecord, error) {
	records, err := s.recordRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var open []domain.BorrowRecord
	for _, rec := range records {
		if rec.IsOpen() {
			open = append(open, rec)
		}
	}
	return open, nil
}

func (s *libraryService) GetRecordsByBook(ctx context.Context, bookID int64) ([]domain.BorrowRecord, error) {
	return s.recordRepo.ListByBook(ctx, bookID)
}

// ProcessOverdueFines is the nightly sweep: open records past due with no
// recorded fine get the live projection persisted and added to the user's
// balance. Each record is its own transaction so one failure does not stall
// the sweep.
func (s *libraryService) ProcessOverdueFines(ctx context.Context) (int, error) {
	overdue, err := s.recordRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, rec := range overdue {
		if rec.FineAmount != 0 {
			continue
		}
		if err := s.recordOverdueFine(ctx, rec.ID); err != nil {
			logger.Error("Failed to record overdue fine", "record_id", rec.ID, "error", err)
			continue
		}
		processed++
	}

	logger.Info("Overdue fine sweep finished", "overdue", len(overdue), "processed", processed)
	return processed, nil
}

func (s *libraryService) recordOverdueFine(ctx context.Context, recordID int64) (err error) {
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
		return err
	}
	now := time.Now()
	if !rec.IsOverdueAt(now) || rec.FineAmount != 0 {
		return tx.Commit()
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, rec.UserID)
	if err != nil {
		return err
	}

	fine := utils.OverdueFine(rec.DueDate, now, s.policy.DailyFineRate)
	rec.FineAmount = fine
	user.FineAmount += fine

	if err = s.recordRepo.Update(ctx, tx, rec); err != nil {
		return err
	}
	if err = s.userRepo.UpdateBorrowState(ctx, tx, user); err != nil {
		return err
	}
	return tx.Commit()
}

// SendBorrowReminders emails users with records due today and users already
// overdue. Returns the number of reminders sent.
func (s *libraryService) SendBorrowReminders(ctx context.Context) (int, error) {
	now := time.Now()
	sent := 0

	dueToday, err := s.recordRepo.ListDueOn(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, rec := range dueToday {
		user, book, err := s.lookupRecordParties(ctx, &rec)
		if err != nil || user.Email == "" {
			continue
		}
		if err := s.emailSvc.SendDueReminder(ctx, user.Email, user.Username, book.Title, rec.DueDate); err != nil {
			logger.Error("Failed to send due reminder", "record_id", rec.ID, "error", err)
			continue
		}
		sent++
	}

	overdue, err := s.recordRepo.ListOverdue(ctx, now)
	if err != nil {
		return sent, err
	}
	for _, rec := range overdue {
		user, book, err := s.lookupRecordParties(ctx, &rec)
		if err != nil || user.Email == "" {
			continue
		}
		days := rec.OverdueDaysAt(now)
		fine := utils.OverdueFine(rec.DueDate, now, s.policy.DailyFineRate)
		if err := s.emailSvc.SendOverdueNotice(ctx, user.Email, user.Username, book.Title, days, fine); err != nil {
			logger.Error("Failed to send overdue notice", "record_id", rec.ID, "error", err)
			continue
		}
		sent++
	}

	logger.Info("Borrow reminder sweep finished", "due_today", len(dueToday), "overdue", len(overdue), "sent", sent)
	return sent, nil
}

func (s *libraryService) lookupRecordParties(ctx context.Context, rec *domain.BorrowRecord) (*domain.User, *domain.Book, error) {
	user, err := s.userRepo.GetByID(ctx, rec.UserID)
	if err != nil {
		return nil, nil, err
	}
	book, err := s.bookRepo.GetByID(ctx, rec.BookID)
	if err != nil {
		return nil, nil, err
	}
	return user, book, nil
}
