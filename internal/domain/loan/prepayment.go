package loan

import (
	"fmt"
	"loan-interest-engine/internal/domain/calendar"
	"loan-interest-engine/internal/pkg/apperrors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PrincipalPrepayment is a mid-life partial principal paydown, effective
// end-of-day on Date.
type PrincipalPrepayment struct {
	Date   time.Time
	Amount decimal.Decimal
}

// SplitPeriod re-derives a period into contiguous segments with distinct
// principal balances, one boundary per prepayment date. Each prepayment is
// effective end-of-day, so the segment carrying the old balance always ends on
// the prepayment date and is at least one day long. A prepayment dated on the
// period's end date produces no trailing segment; the reduction takes effect
// the next period.
//
// Interest per segment uses the period's effective rate: the reference rate
// never changes mid-period. Returns the segments and the principal balance
// carried out of the period.
func SplitPeriod(p Period, openingPrincipal decimal.Decimal, prepayments []PrincipalPrepayment) ([]Segment, decimal.Decimal, error) {
	merged, err := normalizePrepayments(p, prepayments)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var segments []Segment
	cursor := p.StartDate
	balance := openingPrincipal

	for _, pp := range merged {
		if pp.Amount.GreaterThanOrEqual(balance) {
			return nil, decimal.Zero, fmt.Errorf("%w: amount %s on %s is not below the active principal %s",
				apperrors.ErrInvalidPrepayment, pp.Amount.StringFixed(2), pp.Date.Format(time.DateOnly), balance.StringFixed(2))
		}

		segments = append(segments, newSegment(cursor, pp.Date, balance, p.EffectiveRate))
		cursor = pp.Date.AddDate(0, 0, 1)
		balance = balance.Sub(pp.Amount)
	}

	if !cursor.After(p.EndDate) {
		segments = append(segments, newSegment(cursor, p.EndDate, balance, p.EffectiveRate))
	}

	return segments, balance, nil
}

func newSegment(start, end time.Time, principal, effectiveRate decimal.Decimal) Segment {
	days := daysInclusive(start, end)
	return Segment{
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Principal: principal,
		Interest:  PeriodInterest(principal, effectiveRate, days),
	}
}

// normalizePrepayments sorts prepayments chronologically, merges same-date
// amounts, and rejects dates outside the period or non-positive amounts.
func normalizePrepayments(p Period, prepayments []PrincipalPrepayment) ([]PrincipalPrepayment, error) {
	out := make([]PrincipalPrepayment, 0, len(prepayments))
	for _, pp := range prepayments {
		day := calendar.Day(pp.Date)
		if day.Before(p.StartDate) || day.After(p.EndDate) {
			return nil, fmt.Errorf("%w: date %s is outside period %d [%s, %s]",
				apperrors.ErrInvalidPrepayment, day.Format(time.DateOnly), p.Number,
				p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
		}
		if !pp.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidPrepayment)
		}
		out = append(out, PrincipalPrepayment{Date: day, Amount: pp.Amount})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	merged := out[:0]
	for _, pp := range out {
		if n := len(merged); n > 0 && merged[n-1].Date.Equal(pp.Date) {
			merged[n-1].Amount = merged[n-1].Amount.Add(pp.Amount)
			continue
		}
		merged = append(merged, pp)
	}
	return merged, nil
}
