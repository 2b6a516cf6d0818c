package utils

import "time"

// DefaultDailyFineRate is the fallback fine per overdue day when no rate is
// configured.
const DefaultDailyFineRate = 0.5

// Date represents a calendar date on the canonical (UTC) clock.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to
// another, negative when `to` falls before `from`.
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}

// OverdueDays returns how many whole days past due a record is as of the
// given time. A record due today is not overdue; overdue starts the day
// after the due date.
func OverdueDays(dueDate, asOf time.Time) int {
	days := DaysBetween(dueDate, asOf)
	if days < 0 {
		return 0
	}
	return days
}

// OverdueFine computes the fine owed for a record with the given due date as
// of the given time: whole overdue days times the daily rate.
func OverdueFine(dueDate, asOf time.Time, dailyRate float64) float64 {
	return float64(OverdueDays(dueDate, asOf)) * dailyRate
}
