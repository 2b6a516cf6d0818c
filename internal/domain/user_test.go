package domain

import "testing"

func activeUser() *User {
	return &User{Status: UserStatusActive, MaxBorrowLimit: 5}
}

func TestUser_CanBorrowMore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*User)
		want  bool
	}{
		{"fresh active user", func(u *User) {}, true},
		{"at limit", func(u *User) { u.CurrentBorrowed = 5 }, false},
		{"one below limit", func(u *User) { u.CurrentBorrowed = 4 }, true},
		{"inactive", func(u *User) { u.Status = UserStatusInactive }, false},
		{"suspended", func(u *User) { u.Status = UserStatusSuspended }, false},
		{"outstanding fine", func(u *User) { u.FineAmount = 0.5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := activeUser()
			tt.setup(u)
			if got := u.CanBorrowMore(); got != tt.want {
				t.Errorf("CanBorrowMore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_BorrowCountBounds(t *testing.T) {
	u := activeUser()
	u.CurrentBorrowed = 5
	u.IncrementBorrowCount()
	if u.CurrentBorrowed != 5 {
		t.Errorf("increment past limit: got %d", u.CurrentBorrowed)
	}

	u.CurrentBorrowed = 0
	u.DecrementBorrowCount()
	if u.CurrentBorrowed != 0 {
		t.Errorf("decrement below zero: got %d", u.CurrentBorrowed)
	}

	u.IncrementBorrowCount()
	u.IncrementBorrowCount()
	u.DecrementBorrowCount()
	if u.CurrentBorrowed != 1 {
		t.Errorf("round trip: got %d", u.CurrentBorrowed)
	}
}
