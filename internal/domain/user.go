package domain

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleLibrarian UserRole = "LIBRARIAN"
	UserRoleUser      UserRole = "USER"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	PasswordHash    string     `json:"-"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	RealName        string     `json:"real_name"`
	Role            UserRole   `json:"role"`
	Status          UserStatus `json:"status"`
	MaxBorrowLimit  int32      `json:"max_borrow_limit"`
	CurrentBorrowed int32      `json:"current_borrowed"`
	FineAmount      float64    `json:"fine_amount"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Deleted         bool       `json:"-"`
}

// CanBorrowMore reports whether the user may take out another book:
// under the borrow limit, active, and carrying no outstanding fines.
func (u *User) CanBorrowMore() bool {
	return u.CurrentBorrowed < u.MaxBorrowLimit && u.Status == UserStatusActive && u.FineAmount == 0
}

// IncrementBorrowCount bumps the borrow count, capped at the limit.
func (u *User) IncrementBorrowCount() {
	if u.CurrentBorrowed < u.MaxBorrowLimit {
		u.CurrentBorrowed++
	}
}

// DecrementBorrowCount lowers the borrow count, never below zero.
func (u *User) DecrementBorrowCount() {
	if u.CurrentBorrowed > 0 {
		u.CurrentBorrowed--
	}
}
