package domain

import "time"

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "AVAILABLE"
	BookStatusBorrowed    BookStatus = "BORROWED"
	BookStatusReserved    BookStatus = "RESERVED"
	BookStatusMaintenance BookStatus = "MAINTENANCE"
	BookStatusLost        BookStatus = "LOST"
)

type Book struct {
	ID              int64      `json:"id"`
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher"`
	PublishDate     string     `json:"publish_date"`
	Category        string     `json:"category"`
	TotalCopies     int32      `json:"total_copies"`
	AvailableCopies int32      `json:"available_copies"`
	Location        string     `json:"location"`
	Status          BookStatus `json:"status"`
	Price           float64    `json:"price"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Deleted         bool       `json:"-"`
}

// IsAvailable reports whether at least one copy can be lent out right now.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0 && b.Status == BookStatusAvailable
}

// BorrowOne takes one copy off the shelf. When the last copy goes out the
// book flips to BORROWED. Returns false if no copy could be taken.
func (b *Book) BorrowOne() bool {
	if !b.IsAvailable() {
		return false
	}
	b.AvailableCopies--
	if b.AvailableCopies == 0 {
		b.Status = BookStatusBorrowed
	}
	return true
}

// ReturnOne puts one copy back. BORROWED flips back to AVAILABLE once a copy
// is in stock; RESERVED/MAINTENANCE/LOST are managed out of band and stay.
func (b *Book) ReturnOne() {
	b.AvailableCopies++
	if b.Status == BookStatusBorrowed && b.AvailableCopies > 0 {
		b.Status = BookStatusAvailable
	}
}
