package loan

import (
	"context"
	"fmt"
	"loan-interest-engine/internal/domain/calendar"
	"loan-interest-engine/internal/domain/rate"
	"loan-interest-engine/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

// ElectionSource answers whether PIK was elected for (loan, period number).
// Absence of an election defaults to false.
type ElectionSource interface {
	Elected(ctx context.Context, loanID string, periodNumber int) (bool, error)
}

// ScheduleInput bundles the collaborators BuildSchedule reads from. Passing
// them explicitly keeps the engine free of ambient state and testable in
// isolation.
type ScheduleInput struct {
	Rates       rate.Source
	Elections   ElectionSource
	Prepayments []PrincipalPrepayment
	Calendar    *calendar.Calendar
}

// BuildSchedule generates the loan's full interest schedule. Periods are
// walked strictly in chronological order because the carried-forward
// principal and the prepayment ledger balance are threaded state. Any failure
// aborts the whole schedule; no partial result is returned.
//
// The walk is a pure recomputation from the inputs: regenerating with
// identical rates, elections and payments yields identical periods, so a
// late-arriving prepayment is handled by simply rebuilding.
func (l *Loan) BuildSchedule(ctx context.Context, in ScheduleInput) ([]Period, error) {
	periods, err := GeneratePeriods(l.OriginationDate, l.MaturityDate, in.Calendar)
	if err != nil {
		return nil, err
	}

	byPeriod, err := groupPrepayments(periods, l.OriginationDate, in.Prepayments)
	if err != nil {
		return nil, err
	}

	ledger := NewInterestPrepaymentLedger(l.InterestPrepayment)
	principal := l.Principal

	for i := range periods {
		p := &periods[i]
		p.PrincipalBeginning = principal

		reference, err := in.Rates.RateOnOrBefore(ctx, p.ResetDate)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", p.Number, err)
		}
		p.ReferenceRate = reference
		p.EffectiveRate = EffectiveRate(reference, l.Margin, l.Floor, l.Ceiling)

		closing := principal
		if prepays := byPeriod[p.Number]; len(prepays) > 0 {
			segments, closingBalance, err := SplitPeriod(*p, principal, prepays)
			if err != nil {
				return nil, err
			}
			p.Segments = segments
			p.InterestOwed = sumSegmentInterest(segments)
			closing = closingBalance
		} else {
			p.InterestOwed = PeriodInterest(principal, p.EffectiveRate, p.Days)
		}

		p.PrepaidBalanceStart = ledger.RemainingBalance()
		applied, cashDue, ending := ledger.ApplyToPeriod(p.InterestOwed)
		p.PrepaidApplied = applied
		p.PrepaidBalanceEnd = ending

		elected, err := in.Elections.Elected(ctx, l.ID, p.Number)
		if err != nil {
			return nil, fmt.Errorf("period %d: election lookup: %w", p.Number, err)
		}
		if elected && p.PrepaidBalanceStart.IsPositive() {
			return nil, fmt.Errorf("%w: period %d has prepaid balance %s outstanding",
				apperrors.ErrPIKElectionConflict, p.Number, p.PrepaidBalanceStart.StringFixed(2))
		}

		pik, err := ApplyPIK(cashDue, p.PrincipalBeginning, closing, l.PIKRate, p.Days, elected)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", p.Number, err)
		}
		p.PIKElected = elected && pik.PIKAmount.IsPositive()
		p.PIKAmount = pik.PIKAmount
		p.CashDue = pik.CashDue
		p.PrincipalEnding = pik.NewPrincipal

		principal = p.PrincipalEnding
	}

	return periods, nil
}

func sumSegmentInterest(segments []Segment) decimal.Decimal {
	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Interest)
	}
	return total
}

// groupPrepayments assigns each prepayment to the period containing its date.
// A prepayment dated on or before origination, or after maturity, is invalid.
func groupPrepayments(periods []Period, origination time.Time, prepayments []PrincipalPrepayment) (map[int][]PrincipalPrepayment, error) {
	byPeriod := make(map[int][]PrincipalPrepayment, len(prepayments))
	for _, pp := range prepayments {
		day := calendar.Day(pp.Date)
		if !day.After(calendar.Day(origination)) {
			return nil, fmt.Errorf("%w: date %s is on or before the origination date",
				apperrors.ErrInvalidPrepayment, day.Format(time.DateOnly))
		}
		number := 0
		for _, p := range periods {
			if !day.Before(p.StartDate) && !day.After(p.EndDate) {
				number = p.Number
				break
			}
		}
		if number == 0 {
			return nil, fmt.Errorf("%w: date %s is outside the loan's life",
				apperrors.ErrInvalidPrepayment, day.Format(time.DateOnly))
		}
		byPeriod[number] = append(byPeriod[number], PrincipalPrepayment{Date: day, Amount: pp.Amount})
	}
	return byPeriod, nil
}
