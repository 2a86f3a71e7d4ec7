package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	PaymentKindInterest            PaymentKind = "interest"
	PaymentKindPrincipalPrepayment PaymentKind = "principal_prepayment"
)

// Payment is an append-only audit record. principal_prepayment records are
// the trigger input to schedule re-segmentation.
type Payment struct {
	ID           string
	LoanID       string
	Date         time.Time
	Amount       decimal.Decimal
	Kind         PaymentKind
	PeriodNumber *int
	Notes        string
	CreatedAt    time.Time
}

func (k PaymentKind) Valid() bool {
	return k == PaymentKindInterest || k == PaymentKindPrincipalPrepayment
}
