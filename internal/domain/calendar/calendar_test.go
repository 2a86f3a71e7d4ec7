package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	return New(USBankHolidays{}, 2025, 2025)
}

func TestUSBankHolidaysCount(t *testing.T) {
	holidays := USBankHolidays{}.Holidays(2025)
	assert.Len(t, holidays, 10)
}

func TestMLKDay2025(t *testing.T) {
	holidays := USBankHolidays{}.Holidays(2025)
	mlk := date(2025, time.January, 20)
	assert.Contains(t, holidays, mlk)
	assert.Equal(t, time.Monday, mlk.Weekday())
}

func TestNthWeekday(t *testing.T) {
	tests := []struct {
		name    string
		month   time.Month
		weekday time.Weekday
		n       int
		want    time.Time
	}{
		{"third Monday of January", time.January, time.Monday, 3, date(2025, time.January, 20)},
		{"last Monday of May", time.May, time.Monday, -1, date(2025, time.May, 26)},
		{"fourth Thursday of November", time.November, time.Thursday, 4, date(2025, time.November, 27)},
		{"first Monday of September", time.September, time.Monday, 1, date(2025, time.September, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NthWeekday(2025, tt.month, tt.weekday, tt.n))
		})
	}
}

func TestIsBusinessDay(t *testing.T) {
	cal := newTestCalendar(t)

	assert.True(t, cal.IsBusinessDay(date(2025, time.January, 31)))  // Friday
	assert.False(t, cal.IsBusinessDay(date(2025, time.February, 1))) // Saturday
	assert.False(t, cal.IsBusinessDay(date(2025, time.January, 20))) // MLK Day
}

func TestLastBusinessDayOfMonth(t *testing.T) {
	cal := newTestCalendar(t)

	// January 31, 2025 is a Friday.
	assert.Equal(t, date(2025, time.January, 31), cal.LastBusinessDayOfMonth(2025, time.January))

	// August 31, 2025 is a Sunday, rolls back to Friday the 29th.
	assert.Equal(t, date(2025, time.August, 29), cal.LastBusinessDayOfMonth(2025, time.August))
}

func TestAddBusinessDays(t *testing.T) {
	cal := newTestCalendar(t)

	// Friday Jan 31 + 2 business days = Tuesday Feb 4.
	assert.Equal(t, date(2025, time.February, 4), cal.AddBusinessDays(date(2025, time.January, 31), 2))

	// Monday Feb 3 - 2 business days = Thursday Jan 30.
	assert.Equal(t, date(2025, time.January, 30), cal.AddBusinessDays(date(2025, time.February, 3), -2))

	// Zero days leaves a non-business day unchanged.
	assert.Equal(t, date(2025, time.February, 1), cal.AddBusinessDays(date(2025, time.February, 1), 0))
}

func TestShiftToBusinessDay(t *testing.T) {
	cal := newTestCalendar(t)

	// Saturday shifts forward to Monday, backward to Friday.
	assert.Equal(t, date(2025, time.February, 3), cal.ShiftToBusinessDay(date(2025, time.February, 1), 1))
	assert.Equal(t, date(2025, time.January, 31), cal.ShiftToBusinessDay(date(2025, time.February, 1), -1))

	// Business days are returned as-is.
	assert.Equal(t, date(2025, time.February, 3), cal.ShiftToBusinessDay(date(2025, time.February, 3), 1))
}

func TestCalendarSpansMultipleYears(t *testing.T) {
	cal := New(USBankHolidays{}, 2024, 2026)

	assert.False(t, cal.IsBusinessDay(date(2024, time.December, 25)))
	assert.False(t, cal.IsBusinessDay(date(2026, time.January, 1)))
}
