package utils

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// CalculateInstallmentAmount splits principal plus interest evenly.
// Formula: principal * (1 + rate) / count. The remainder is not redistributed.
func CalculateInstallmentAmount(principal decimal.Decimal, rate decimal.Decimal, count int) decimal.Decimal {
	total := principal.Mul(decimal.NewFromInt(1).Add(rate))
	return total.Div(decimal.NewFromInt(int64(count)))
}

// CalculateLatePenalty returns amount * (feeRate + dailyRate * daysLate).
func CalculateLatePenalty(amount decimal.Decimal, daysLate int, feeRate, dailyRate decimal.Decimal) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	rate := feeRate.Add(dailyRate.Mul(decimal.NewFromInt(int64(daysLate))))
	return amount.Mul(rate)
}

// AddMonths moves anchor forward by whole calendar months, clamping the day
// to the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(anchor time.Time, months int) time.Time {
	y, m, d := anchor.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())

	lastDay := now.With(first).EndOfMonth().Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(first.Year(), first.Month(), d,
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

// CalculateDueDate returns the due date of the given 1-based installment.
// Every date is derived from the first due date so clamping never accumulates.
func CalculateDueDate(firstDueDate time.Time, installmentNumber int) time.Time {
	return AddMonths(firstDueDate, installmentNumber-1)
}

// TruncateDate drops the time of day and pins the date to UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from 'from' to 'to' (negative if to is earlier).
func DaysBetween(from, to time.Time) int {
	return int(TruncateDate(to).Sub(TruncateDate(from)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDate(t), nil
}

// Today returns the current calendar date in UTC.
func Today() time.Time {
	return TruncateDate(time.Now())
}
