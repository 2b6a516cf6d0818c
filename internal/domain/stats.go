package domain

// BorrowStatistics summarizes lending activity across all records.
type BorrowStatistics struct {
	TotalBorrows   int64   `json:"total_borrows"`
	CurrentBorrows int64   `json:"current_borrows"`
	OverdueBorrows int64   `json:"overdue_borrows"`
	TotalFines     float64 `json:"total_fines"`
}

// MonthlyBorrowCount is one month's borrow volume, month formatted yyyy-mm.
type MonthlyBorrowCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// LibraryOverview aggregates the headline numbers for the dashboard.
type LibraryOverview struct {
	TotalUsers     int64   `json:"total_users"`
	ActiveUsers    int64   `json:"active_users"`
	TotalBooks     int64   `json:"total_books"`
	AvailableBooks int64   `json:"available_books"`
	LowStockBooks  int64   `json:"low_stock_books"`
	TotalBorrows   int64   `json:"total_borrows"`
	CurrentBorrows int64   `json:"current_borrows"`
	OverdueBorrows int64   `json:"overdue_borrows"`
	TotalFines     float64 `json:"total_fines"`
}

// BatchItemResult reports the outcome of one item in a batch operation.
// Batches keep going on per-item failures; the batch itself never fails.
type BatchItemResult struct {
	ID      int64         `json:"id"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Record  *BorrowRecord `json:"record,omitempty"`
}
