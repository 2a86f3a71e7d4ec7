package calendar

import (
	"time"
)

// HolidayProvider returns the holiday dates observed in a given year.
// Weekends are implicit and handled by the calendar itself.
type HolidayProvider interface {
	Holidays(year int) []time.Time
}

// Calendar answers business-day questions over a fixed span of years.
// Dates are compared at day granularity in UTC.
type Calendar struct {
	holidays map[time.Time]struct{}
}

func New(provider HolidayProvider, firstYear, lastYear int) *Calendar {
	c := &Calendar{holidays: make(map[time.Time]struct{})}
	for year := firstYear; year <= lastYear; year++ {
		for _, h := range provider.Holidays(year) {
			c.holidays[Day(h)] = struct{}{}
		}
	}
	return c
}

// Day truncates a time to midnight UTC so dates compare as pure calendar days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) IsBusinessDay(date time.Time) bool {
	d := Day(date)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// AddBusinessDays moves forward (n > 0) or backward (n < 0) by |n| business
// days. n == 0 returns the date unchanged even if it is not a business day.
func (c *Calendar) AddBusinessDays(date time.Time, n int) time.Time {
	current := Day(date)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		current = current.AddDate(0, 0, step)
		if c.IsBusinessDay(current) {
			n--
		}
	}
	return current
}

// ShiftToBusinessDay returns date itself when it is a business day, otherwise
// the nearest business day in the given direction (+1 forward, -1 backward).
func (c *Calendar) ShiftToBusinessDay(date time.Time, direction int) time.Time {
	current := Day(date)
	step := 1
	if direction < 0 {
		step = -1
	}
	for !c.IsBusinessDay(current) {
		current = current.AddDate(0, 0, step)
	}
	return current
}

// LastBusinessDayOfMonth walks backward from the last calendar day of the month.
func (c *Calendar) LastBusinessDayOfMonth(year int, month time.Month) time.Time {
	last := LastDayOfMonth(year, month)
	return c.ShiftToBusinessDay(last, -1)
}

func LastDayOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func FirstDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
