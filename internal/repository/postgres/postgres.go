package postgres

import (
	"database/sql"

	"library-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BookRepository
	repository.BorrowRecordRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		BookRepository:         NewBookRepository(db),
		BorrowRecordRepository: NewBorrowRecordRepository(db),
	}
}

// DB exposes the underlying handle for services that open transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}
