package loan

import (
	"fmt"
	"loan-interest-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// PIKResult is the outcome of applying a payment-in-kind election to a period.
type PIKResult struct {
	PIKAmount    decimal.Decimal
	CashDue      decimal.Decimal
	NewPrincipal decimal.Decimal
}

// ApplyPIK capitalizes part of a period's interest when elected. The PIK
// amount accrues on the period's beginning principal at the PIK rate over the
// period's day count; the capitalized amount is added to closingPrincipal (the
// balance after any mid-period prepayments) and compounds into later periods.
//
// A PIK amount exceeding the interest owed would make cash due negative; that
// is a terms misconfiguration and is surfaced, never clamped.
func ApplyPIK(interestOwed, beginningPrincipal, closingPrincipal, pikRatePercent decimal.Decimal, days int, elected bool) (PIKResult, error) {
	if !elected || !pikRatePercent.IsPositive() {
		return PIKResult{
			PIKAmount:    decimal.Zero,
			CashDue:      interestOwed,
			NewPrincipal: closingPrincipal,
		}, nil
	}

	pikAmount := PeriodInterest(beginningPrincipal, pikRatePercent, days)
	cashDue := interestOwed.Sub(pikAmount)
	if cashDue.IsNegative() {
		return PIKResult{}, fmt.Errorf("%w: PIK amount %s exceeds interest owed %s",
			apperrors.ErrNegativeCashDue, pikAmount.StringFixed(2), interestOwed.StringFixed(2))
	}

	return PIKResult{
		PIKAmount:    pikAmount,
		CashDue:      cashDue,
		NewPrincipal: closingPrincipal.Add(pikAmount),
	}, nil
}
