package domain

import "time"

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "BORROWED"
	BorrowStatusReturned BorrowStatus = "RETURNED"
	BorrowStatusOverdue  BorrowStatus = "OVERDUE"
	BorrowStatusLost     BorrowStatus = "LOST"
)

// BorrowRecord links a user to a borrowed book. It references both by id
// only; the user and book rows stay independently owned.
type BorrowRecord struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	BookID     int64        `json:"book_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
	FineAmount float64      `json:"fine_amount"`
	Notes      string       `json:"notes"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsOpen reports whether the book is still out.
func (r *BorrowRecord) IsOpen() bool {
	return r.Status == BorrowStatusBorrowed
}

// IsClosed reports whether the record has already been settled by a return,
// on time or late.
func (r *BorrowRecord) IsClosed() bool {
	return r.Status == BorrowStatusReturned || r.Status == BorrowStatusOverdue
}

// IsOverdueAt reports whether an open record is past due as of the given
// time. Day granularity: due today is not overdue, overdue starts the day
// after the due date.
func (r *BorrowRecord) IsOverdueAt(now time.Time) bool {
	if r.IsClosed() {
		return false
	}
	return toDate(now).After(toDate(r.DueDate))
}

// OverdueDaysAt returns the number of whole days past due, zero when not
// overdue.
func (r *BorrowRecord) OverdueDaysAt(now time.Time) int {
	if !r.IsOverdueAt(now) {
		return 0
	}
	return int(toDate(now).Sub(toDate(r.DueDate)).Hours() / 24)
}

// toDate truncates to a calendar date on the canonical (UTC) clock.
func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
