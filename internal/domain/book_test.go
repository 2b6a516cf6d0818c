package domain

import "testing"

func TestBook_BorrowOne(t *testing.T) {
	b := &Book{TotalCopies: 2, AvailableCopies: 2, Status: BookStatusAvailable}

	if !b.BorrowOne() {
		t.Fatal("first borrow should succeed")
	}
	if b.AvailableCopies != 1 || b.Status != BookStatusAvailable {
		t.Errorf("after first borrow: copies=%d status=%s", b.AvailableCopies, b.Status)
	}

	if !b.BorrowOne() {
		t.Fatal("second borrow should succeed")
	}
	if b.AvailableCopies != 0 || b.Status != BookStatusBorrowed {
		t.Errorf("last copy out: copies=%d status=%s", b.AvailableCopies, b.Status)
	}

	if b.BorrowOne() {
		t.Error("borrow with no copies should fail")
	}
}

func TestBook_BorrowOne_NonAvailableStatus(t *testing.T) {
	for _, status := range []BookStatus{BookStatusReserved, BookStatusMaintenance, BookStatusLost} {
		b := &Book{TotalCopies: 1, AvailableCopies: 1, Status: status}
		if b.BorrowOne() {
			t.Errorf("borrow should fail for status %s", status)
		}
		if b.AvailableCopies != 1 {
			t.Errorf("failed borrow must not change copies, got %d", b.AvailableCopies)
		}
	}
}

func TestBook_ReturnOne(t *testing.T) {
	b := &Book{TotalCopies: 1, AvailableCopies: 0, Status: BookStatusBorrowed}
	b.ReturnOne()
	if b.AvailableCopies != 1 || b.Status != BookStatusAvailable {
		t.Errorf("return: copies=%d status=%s", b.AvailableCopies, b.Status)
	}

	// Out-of-band states survive a returned copy.
	r := &Book{TotalCopies: 2, AvailableCopies: 0, Status: BookStatusReserved}
	r.ReturnOne()
	if r.Status != BookStatusReserved {
		t.Errorf("reserved status overwritten: %s", r.Status)
	}
}

func TestBook_BorrowReturnRoundTrip(t *testing.T) {
	b := &Book{TotalCopies: 1, AvailableCopies: 1, Status: BookStatusAvailable}
	b.BorrowOne()
	b.ReturnOne()
	if b.AvailableCopies != 1 || b.Status != BookStatusAvailable {
		t.Errorf("round trip: copies=%d status=%s", b.AvailableCopies, b.Status)
	}
}
