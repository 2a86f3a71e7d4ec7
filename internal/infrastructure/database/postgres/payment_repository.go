package postgres

import (
	"context"
	"fmt"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/infrastructure/monitoring"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentRepository is the append-only payment audit store.
type PaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewPaymentRepository(db DBPool, logger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{db: db, logger: logger.With("component", "PaymentRepository")}
}

var _ loan.PaymentRepository = (*PaymentRepository)(nil)

const paymentColumns = `id, loan_id, payment_date, amount::text, kind, period_number, notes, created_at`

func (r *PaymentRepository) Append(ctx context.Context, p loan.Payment) (loan.Payment, error) {
	query := `
        INSERT INTO payments (id, loan_id, payment_date, amount, kind, period_number, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING ` + paymentColumns
	status := "success"
	startTime := time.Now()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	created, err := scanPayment(r.db.QueryRow(ctx, query,
		p.ID, p.LoanID, p.Date, p.Amount.String(), string(p.Kind), p.PeriodNumber, p.Notes))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("AppendPayment", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to append payment", "loan_id", p.LoanID, "error", err)
		return loan.Payment{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Payment appended", "payment_id", created.ID, "loan_id", created.LoanID)
	return created, nil
}

// ListByLoan returns the loan's payments in chronological order.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]loan.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE loan_id = $1
        ORDER BY payment_date, created_at`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		monitoring.RecordDBQuery("ListPayments", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to list payments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var payments []loan.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			monitoring.RecordDBQuery("ListPayments", "error", time.Since(startTime))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("ListPayments", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Row iteration failed listing payments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("ListPayments", status, time.Since(startTime))
	return payments, nil
}

func scanPayment(row pgx.Row) (loan.Payment, error) {
	var (
		p         loan.Payment
		amountStr string
		kind      string
	)
	err := row.Scan(&p.ID, &p.LoanID, &p.Date, &amountStr, &kind, &p.PeriodNumber, &p.Notes, &p.CreatedAt)
	if err != nil {
		return loan.Payment{}, err
	}
	if p.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return loan.Payment{}, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	p.Kind = loan.PaymentKind(kind)
	return p, nil
}
