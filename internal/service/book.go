package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type bookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

func (s *bookService) AddBook(ctx context.Context, book *domain.Book) error {
	book.ISBN = strings.TrimSpace(book.ISBN)
	if book.ISBN == "" {
		return domain.InvalidArgument("isbn is required")
	}
	if strings.TrimSpace(book.Title) == "" {
		return domain.InvalidArgument("title is required")
	}
	if book.TotalCopies <= 0 {
		return domain.InvalidArgument("total copies must be positive")
	}

	if _, err := s.bookRepo.GetByISBN(ctx, book.ISBN); err == nil {
		return domain.Conflict("isbn already registered: %s", book.ISBN)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	book.AvailableCopies = book.TotalCopies
	book.Status = domain.BookStatusAvailable
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}

	logger.Info("Book added", "book_id", book.ID, "isbn", book.ISBN, "title", book.Title)
	return nil
}

func (s *bookService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("book not found: %d", id)
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("book not found: %s", isbn)
		}
		return nil, err
	}
	return book, nil
}

// UpdateBook changes catalog metadata and copy counts. Growing or shrinking
// total copies moves available copies by the same delta, floored at zero so
// outstanding loans stay consistent.
func (s *bookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	existing, err := s.GetBook(ctx, book.ID)
	if err != nil {
		return err
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.Publisher = book.Publisher
	existing.Category = book.Category
	existing.Description = book.Description
	existing.Location = book.Location
	existing.Price = book.Price
	if book.PublishDate != "" {
		existing.PublishDate = book.PublishDate
	}

	if book.TotalCopies > 0 && book.TotalCopies != existing.TotalCopies {
		delta := book.TotalCopies - existing.TotalCopies
		existing.TotalCopies = book.TotalCopies
		existing.AvailableCopies += delta
		if existing.AvailableCopies < 0 {
			existing.AvailableCopies = 0
		}
		if existing.AvailableCopies > 0 && existing.Status == domain.BookStatusBorrowed {
			existing.Status = domain.BookStatusAvailable
		}
	}

	if err := s.bookRepo.Update(ctx, existing); err != nil {
		return err
	}
	*book = *existing
	return nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int64) error {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if book.AvailableCopies < book.TotalCopies {
		return domain.Conflict("book has outstanding loans")
	}
	return s.bookRepo.SoftDelete(ctx, id)
}

func (s *bookService) SearchBooks(ctx context.Context, query, category string, page, pageSize int32) ([]domain.Book, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	return s.bookRepo.Search(ctx, query, category, page, pageSize)
}

func (s *bookService) ListAvailableBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.ListAvailable(ctx)
}

func (s *bookService) ListLowStockBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.ListLowStock(ctx, lowStockThreshold)
}

func (s *bookService) IsBookAvailable(ctx context.Context, id int64) (bool, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return false, err
	}
	return book.IsAvailable(), nil
}
