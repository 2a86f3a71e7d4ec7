package loan

import (
	"github.com/shopspring/decimal"
)

// InterestPrepaymentLedger draws an upfront interest prepayment balance down
// across periods. ApplyToPeriod must be called once per period in strict
// chronological order; it is a stateful draw-down, not idempotent. Once the
// balance reaches zero it stays zero.
type InterestPrepaymentLedger struct {
	starting  decimal.Decimal
	remaining decimal.Decimal
}

func NewInterestPrepaymentLedger(balance decimal.Decimal) *InterestPrepaymentLedger {
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return &InterestPrepaymentLedger{starting: balance, remaining: balance}
}

func (l *InterestPrepaymentLedger) StartingBalance() decimal.Decimal {
	return l.starting
}

func (l *InterestPrepaymentLedger) RemainingBalance() decimal.Decimal {
	return l.remaining
}

// ApplyToPeriod consumes min(remaining, interestOwed) from the balance and
// returns the amount applied, the cash still due, and the ending balance.
func (l *InterestPrepaymentLedger) ApplyToPeriod(interestOwed decimal.Decimal) (applied, cashDue, ending decimal.Decimal) {
	applied = decimal.Min(l.remaining, interestOwed)
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	cashDue = interestOwed.Sub(applied)
	l.remaining = l.remaining.Sub(applied)
	if l.remaining.IsNegative() {
		l.remaining = decimal.Zero
	}
	return applied, cashDue, l.remaining
}
