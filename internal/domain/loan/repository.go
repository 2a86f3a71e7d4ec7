package loan

import (
	"context"
)

// Repository persists loans. Schedules are not stored: they are recomputed on
// demand from the loan terms plus the rate, election and payment stores, which
// keeps regeneration after a prepayment trivially consistent.
type Repository interface {
	CreateLoan(ctx context.Context, l *Loan) (*Loan, error)
	GetLoanByID(ctx context.Context, loanID string) (*Loan, error)
	ListLoanIDs(ctx context.Context) ([]string, error)
}

// ElectionRepository stores PIK elections keyed by (loan id, period number).
type ElectionRepository interface {
	// Get returns false without error when no election exists.
	Get(ctx context.Context, loanID string, periodNumber int) (bool, error)
	Set(ctx context.Context, loanID string, periodNumber int, elected bool) error
}

// PaymentRepository is the append-only payment audit store.
type PaymentRepository interface {
	Append(ctx context.Context, p Payment) (Payment, error)
	// ListByLoan returns payments in chronological order.
	ListByLoan(ctx context.Context, loanID string) ([]Payment, error)
}
