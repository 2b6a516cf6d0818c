package jobs

import (
	"context"

	"library-backend/internal/logger"
)

// ProcessOverdueFines records fines for open records past their due date and
// adds them to the owing users' balances.
func (jr *JobRunner) ProcessOverdueFines() {
	jr.runWithRecovery("ProcessOverdueFines", func() {
		ctx := context.Background()

		count, err := jr.services.Library.ProcessOverdueFines(ctx)
		if err != nil {
			logger.Error("Failed to process overdue fines", "error", err)
			return
		}
		logger.Info("Processed overdue fines", "count", count)
	})
}

// SendBorrowReminders emails due-today reminders and overdue notices.
func (jr *JobRunner) SendBorrowReminders() {
	jr.runWithRecovery("SendBorrowReminders", func() {
		ctx := context.Background()

		count, err := jr.services.Library.SendBorrowReminders(ctx)
		if err != nil {
			logger.Error("Failed to send borrow reminders", "error", err)
			return
		}
		logger.Info("Sent borrow reminders", "count", count)
	})
}
