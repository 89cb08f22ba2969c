package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateInstallmentAmount(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		count     int
		expected  decimal.Decimal
	}{
		{
			name:      "zero interest",
			principal: decimal.NewFromInt(5000),
			rate:      decimal.Zero,
			count:     5,
			expected:  decimal.NewFromInt(1000),
		},
		{
			name:      "ten percent interest",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromFloat(0.10),
			count:     10,
			expected:  decimal.NewFromInt(110),
		},
		{
			name:      "single installment",
			principal: decimal.NewFromInt(750),
			rate:      decimal.NewFromFloat(0.05),
			count:     1,
			expected:  decimal.RequireFromString("787.5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInstallmentAmount(tt.principal, tt.rate, tt.count)
			assert.True(t, result.Equal(tt.expected), "Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestCalculateInstallmentAmount_SumWithinTolerance(t *testing.T) {
	principal := decimal.NewFromInt(1000)
	rate := decimal.NewFromFloat(0.07)
	count := 3

	amount := CalculateInstallmentAmount(principal, rate, count)
	sum := amount.Mul(decimal.NewFromInt(int64(count)))
	total := decimal.RequireFromString("1070")

	assert.True(t, sum.Sub(total).Abs().LessThan(decimal.RequireFromString("0.000001")))
}

func TestCalculateLatePenalty(t *testing.T) {
	fee := decimal.RequireFromString("0.02")
	daily := decimal.RequireFromString("0.00033")

	penalty := CalculateLatePenalty(decimal.NewFromInt(1000), 10, fee, daily)
	assert.True(t, penalty.Equal(decimal.RequireFromString("23.3")), "got %s", penalty)

	assert.True(t, CalculateLatePenalty(decimal.NewFromInt(1000), 0, fee, daily).IsZero())
	assert.True(t, CalculateLatePenalty(decimal.NewFromInt(1000), -3, fee, daily).IsZero())
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		months   int
		expected time.Time
	}{
		{name: "same day next month", anchor: date(2025, 3, 15), months: 1, expected: date(2025, 4, 15)},
		{name: "clamps to february", anchor: date(2025, 1, 31), months: 1, expected: date(2025, 2, 28)},
		{name: "clamps to leap february", anchor: date(2024, 1, 31), months: 1, expected: date(2024, 2, 29)},
		{name: "clamps to thirty day month", anchor: date(2025, 1, 31), months: 3, expected: date(2025, 4, 30)},
		{name: "crosses year boundary", anchor: date(2025, 11, 30), months: 3, expected: date(2026, 2, 28)},
		{name: "zero months", anchor: date(2025, 1, 31), months: 0, expected: date(2025, 1, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.anchor, tt.months))
		})
	}
}

func TestCalculateDueDate_DoesNotDriftAfterClamping(t *testing.T) {
	first := date(2025, 1, 31)
	expected := []time.Time{
		date(2025, 1, 31),
		date(2025, 2, 28),
		date(2025, 3, 31),
		date(2025, 4, 30),
		date(2025, 5, 31),
	}

	for i, want := range expected {
		assert.Equal(t, want, CalculateDueDate(first, i+1))
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 10, DaysBetween(date(2025, 1, 1), date(2025, 1, 11)))
	assert.Equal(t, 0, DaysBetween(date(2025, 1, 1), time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(date(2025, 3, 1), date(2025, 2, 28)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), d)

	_, err = ParseDate("28/02/2025")
	assert.Error(t, err)
}
