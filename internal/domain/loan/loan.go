package loan

import (
	"fmt"
	"loan-interest-engine/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a floating-rate, interest-only loan indexed to term SOFR.
// All rates are annual percentages (2.5 means 2.50%).
type Loan struct {
	ID       string
	Borrower string

	Principal decimal.Decimal
	Margin    decimal.Decimal

	// Floor and Ceiling clamp the reference rate before the margin is added.
	// nil means unbounded on that side.
	Floor   *decimal.Decimal
	Ceiling *decimal.Decimal

	// PIKRate is the annual rate used for payment-in-kind capitalization.
	// Zero means the loan has no PIK facility.
	PIKRate decimal.Decimal

	// InterestPrepayment is the upfront interest prepayment balance drawn
	// down before any cash interest is due. Zero means none.
	InterestPrepayment decimal.Decimal

	OriginationDate time.Time
	MaturityDate    time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terms carries the inputs to NewLoan.
type Terms struct {
	ID                 string
	Borrower           string
	Principal          decimal.Decimal
	Margin             decimal.Decimal
	Floor              *decimal.Decimal
	Ceiling            *decimal.Decimal
	PIKRate            decimal.Decimal
	InterestPrepayment decimal.Decimal
	OriginationDate    time.Time
	MaturityDate       time.Time
}

func NewLoan(t Terms) (*Loan, error) {
	if t.ID == "" {
		return nil, fmt.Errorf("%w: loan id is required", apperrors.ErrConfiguration)
	}
	if !t.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrConfiguration)
	}
	if t.Margin.IsNegative() {
		return nil, fmt.Errorf("%w: margin cannot be negative", apperrors.ErrConfiguration)
	}
	if t.OriginationDate.IsZero() || t.MaturityDate.IsZero() {
		return nil, fmt.Errorf("%w: origination and maturity dates are required", apperrors.ErrConfiguration)
	}
	if !t.OriginationDate.Before(t.MaturityDate) {
		return nil, fmt.Errorf("%w: origination date must be before maturity date", apperrors.ErrConfiguration)
	}
	if t.Floor != nil && t.Ceiling != nil && t.Floor.GreaterThan(*t.Ceiling) {
		return nil, fmt.Errorf("%w: floor cannot exceed ceiling", apperrors.ErrConfiguration)
	}
	if t.PIKRate.IsNegative() {
		return nil, fmt.Errorf("%w: PIK rate cannot be negative", apperrors.ErrConfiguration)
	}
	if t.InterestPrepayment.IsNegative() {
		return nil, fmt.Errorf("%w: interest prepayment cannot be negative", apperrors.ErrConfiguration)
	}

	return &Loan{
		ID:                 t.ID,
		Borrower:           t.Borrower,
		Principal:          t.Principal,
		Margin:             t.Margin,
		Floor:              t.Floor,
		Ceiling:            t.Ceiling,
		PIKRate:            t.PIKRate,
		InterestPrepayment: t.InterestPrepayment,
		OriginationDate:    t.OriginationDate,
		MaturityDate:       t.MaturityDate,
	}, nil
}

// Period is one interest period of a loan's schedule. Periods form a strictly
// increasing, non-overlapping, contiguous sequence covering
// [origination, maturity]. Both endpoints are inclusive.
type Period struct {
	Number    int
	StartDate time.Time
	EndDate   time.Time

	// ResetDate is the business day two business days before StartDate.
	ResetDate time.Time

	// Days is the inclusive day count (end - start + 1), the actual/360 numerator.
	Days int

	ReferenceRate decimal.Decimal
	EffectiveRate decimal.Decimal

	PrincipalBeginning decimal.Decimal
	PrincipalEnding    decimal.Decimal

	InterestOwed decimal.Decimal

	// Segments is non-nil only when a mid-period principal prepayment split
	// the period into sub-intervals with distinct principal balances.
	Segments []Segment

	PrepaidBalanceStart decimal.Decimal
	PrepaidApplied      decimal.Decimal
	PrepaidBalanceEnd   decimal.Decimal

	PIKElected bool
	PIKAmount  decimal.Decimal

	CashDue decimal.Decimal
}

// Segment is a sub-interval of a period with a distinct principal balance.
// Segments of one period are contiguous, their day counts sum to the period's
// day count and their interest sums to the period's total interest.
type Segment struct {
	StartDate time.Time
	EndDate   time.Time
	Days      int
	Principal decimal.Decimal
	Interest  decimal.Decimal
}
