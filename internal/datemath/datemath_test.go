package datemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "mid-week Wednesday",
			input:    time.Date(2024, time.June, 12, 15, 30, 0, 0, time.Local),
			expected: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "Monday stays put",
			input:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
			expected: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "Sunday is day 7, not day 0",
			input:    time.Date(2024, time.June, 16, 23, 59, 0, 0, time.Local),
			expected: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "week crossing a month boundary",
			input:    time.Date(2024, time.March, 2, 10, 0, 0, 0, time.Local),
			expected: time.Date(2024, time.February, 26, 0, 0, 0, 0, time.Local),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MondayOf(tt.input))
		})
	}
}

func TestMondayOf_Properties(t *testing.T) {
	// Walk a full year of days: every result must be a Monday at most 6 days
	// back, and MondayOf must be idempotent.
	d := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 366; i++ {
		monday := MondayOf(d)
		assert.Equal(t, time.Monday, monday.Weekday())
		assert.False(t, monday.After(d))
		assert.True(t, d.Sub(monday) < 7*24*time.Hour)
		assert.Equal(t, monday, MondayOf(monday))
		d = AddDays(d, 1)
	}
}

func TestAddDays_DoesNotMutate(t *testing.T) {
	orig := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)
	shifted := AddDays(orig, 7)

	assert.Equal(t, time.Date(2024, time.June, 17, 9, 0, 0, 0, time.Local), shifted)
	assert.Equal(t, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local), orig)
}

func TestAddDays_Negative(t *testing.T) {
	d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2023, time.December, 25, 0, 0, 0, 0, time.Local), AddDays(d, -7))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	b := time.Date(2024, time.June, 10, 23, 59, 59, 0, time.Local)
	c := time.Date(2024, time.June, 11, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		date string
		week int
	}{
		{"2024-01-01", 1},  // a Monday, week 1 of 2024
		{"2024-12-31", 1},  // a Tuesday, belongs to ISO week 1 of 2025
		{"2024-06-10", 24}, // plain mid-year Monday
		{"2023-01-01", 52}, // a Sunday, still in 2022's last week
		{"2020-12-31", 53}, // 53-week year
	}
	for _, tt := range tests {
		d, err := time.ParseInLocation("2006-01-02", tt.date, time.Local)
		assert.NoError(t, err)
		assert.Equal(t, tt.week, ISOWeekNumber(d), "week of %s", tt.date)
	}
}

func TestISOWeekNumber_MatchesStdlib(t *testing.T) {
	d := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 366*3; i++ {
		_, want := d.ISOWeek()
		assert.Equal(t, want, ISOWeekNumber(d), "date %s", d.Format("2006-01-02"))
		d = AddDays(d, 1)
	}
}
