package loan

import (
	"fmt"
	"loan-interest-engine/internal/domain/calendar"
	"loan-interest-engine/internal/pkg/apperrors"
	"time"
)

// resetOffsetDays is how many business days before a period's start its
// reference rate is observed.
const resetOffsetDays = 2

// GeneratePeriods partitions [origination, maturity] into interest periods.
// The first period runs from the origination date to the last business day of
// its month; every later period starts the calendar day after the previous
// period's end and runs to the last business day of that month; the final
// period ends on the maturity date exactly, never calendar-adjusted. A loan
// whose origination and maturity fall in the same month yields one period.
//
// Starting the calendar day after the previous end (rather than on the first
// of the month) keeps the sequence gap-free when a month ends on a weekend or
// holiday. Period start dates are never business-day shifted; only the reset
// date lookup shifts.
func GeneratePeriods(origination, maturity time.Time, cal *calendar.Calendar) ([]Period, error) {
	start := calendar.Day(origination)
	end := calendar.Day(maturity)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: origination date must be before maturity date", apperrors.ErrConfiguration)
	}

	var periods []Period
	cursor := start
	for {
		number := len(periods) + 1
		if calendar.SameMonth(cursor, end) {
			periods = append(periods, newPeriod(number, cursor, end, cal))
			return periods, nil
		}

		periodEnd := cal.LastBusinessDayOfMonth(cursor.Year(), cursor.Month())
		if periodEnd.Before(cursor) {
			// The cursor already sits past the month's last business day
			// (month ended on a weekend/holiday); run through the next month.
			next := calendar.FirstDayOfMonth(cursor.Year(), cursor.Month()).AddDate(0, 1, 0)
			periodEnd = cal.LastBusinessDayOfMonth(next.Year(), next.Month())
		}
		if !periodEnd.Before(end) {
			periods = append(periods, newPeriod(number, cursor, end, cal))
			return periods, nil
		}

		periods = append(periods, newPeriod(number, cursor, periodEnd, cal))
		cursor = periodEnd.AddDate(0, 0, 1)
	}
}

func newPeriod(number int, start, end time.Time, cal *calendar.Calendar) Period {
	return Period{
		Number:    number,
		StartDate: start,
		EndDate:   end,
		ResetDate: cal.AddBusinessDays(start, -resetOffsetDays),
		Days:      daysInclusive(start, end),
	}
}

// daysInclusive counts calendar days with both endpoints included.
func daysInclusive(start, end time.Time) int {
	return int(calendar.Day(end).Sub(calendar.Day(start)).Hours()/24) + 1
}

// RequiredResetDates lists every reset date the loan's schedule will look up,
// in period order.
func (l *Loan) RequiredResetDates(cal *calendar.Calendar) ([]time.Time, error) {
	periods, err := GeneratePeriods(l.OriginationDate, l.MaturityDate, cal)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(periods))
	for i, p := range periods {
		dates[i] = p.ResetDate
	}
	return dates, nil
}

// CalendarYears returns the holiday-calendar year span the loan needs.
func (l *Loan) CalendarYears() (int, int) {
	// Reset dates can reach into the prior year when origination is early January.
	return l.OriginationDate.Year() - 1, l.MaturityDate.Year()
}
