package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LastDayOfMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		targetDay int
		expected  time.Time
	}{
		{
			name:      "normal day",
			year:      2026,
			month:     time.March,
			targetDay: 15,
			expected:  time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "day 31 in February non-leap",
			year:      2026,
			month:     time.February,
			targetDay: 31,
			expected:  time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "day 31 in February leap",
			year:      2024,
			month:     time.February,
			targetDay: 31,
			expected:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "day 31 in April",
			year:      2026,
			month:     time.April,
			targetDay: 31,
			expected:  time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateActualDate(tt.year, tt.month, tt.targetDay)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "jan 31 into leap february",
			from:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 into non-leap february",
			from:     time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "december rolls the year",
			from:     time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "leap day plus twelve months",
			from:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			months:   12,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "time of day dropped",
			from:     time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC),
			months:   2,
			expected: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "negative months",
			from:     time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   -2,
			expected: time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.from, tt.months)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(base, time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 31, DaysBetween(base, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(base, time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)))
}
