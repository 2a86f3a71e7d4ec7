package calendar

import (
	"time"
)

// USBankHolidays provides the US federal bank holidays observed each year:
// the five fixed-date holidays plus the five floating Monday/Thursday ones.
// Saturday holidays are observed the preceding Friday, Sunday holidays the
// following Monday.
type USBankHolidays struct{}

func (USBankHolidays) Holidays(year int) []time.Time {
	fixed := []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),   // New Year's Day
		time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC),     // Juneteenth
		time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC),      // Independence Day
		time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC), // Veterans Day
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), // Christmas
	}

	floating := []time.Time{
		NthWeekday(year, time.January, time.Monday, 3),    // MLK Day
		NthWeekday(year, time.February, time.Monday, 3),   // Presidents Day
		NthWeekday(year, time.May, time.Monday, -1),       // Memorial Day
		NthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		NthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
	}

	holidays := append(fixed, floating...)

	observed := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		switch h.Weekday() {
		case time.Saturday:
			observed = append(observed, h.AddDate(0, 0, -1))
		case time.Sunday:
			observed = append(observed, h.AddDate(0, 0, 1))
		default:
			observed = append(observed, h)
		}
	}
	return observed
}

// NthWeekday returns the nth occurrence of a weekday within a month,
// or the last occurrence when n == -1.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	firstOccurrence := first.AddDate(0, 0, offset)

	if n > 0 {
		return firstOccurrence.AddDate(0, 0, (n-1)*7)
	}

	fifth := firstOccurrence.AddDate(0, 0, 4*7)
	if fifth.Month() == month {
		return fifth
	}
	return firstOccurrence.AddDate(0, 0, 3*7)
}
