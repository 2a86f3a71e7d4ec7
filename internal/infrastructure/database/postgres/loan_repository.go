package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/infrastructure/monitoring"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// LoanRepository stores loan terms. Schedules are never persisted; they are
// recomputed from the terms plus the rate, election and payment stores.
type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

var _ loan.Repository = (*LoanRepository)(nil)

const uniqueViolationCode = "23505"

// NUMERIC columns travel as text so decimals round-trip without any float
// conversion.
const loanColumns = `id, borrower, principal::text, margin::text, floor::text, ceiling::text,
       pik_rate::text, interest_prepayment::text, origination_date, maturity_date, created_at, updated_at`

func (r *LoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (id, borrower, principal, margin, floor, ceiling, pik_rate, interest_prepayment, origination_date, maturity_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING ` + loanColumns
	status := "success"
	startTime := time.Now()

	row := r.db.QueryRow(ctx, query,
		l.ID, l.Borrower, l.Principal.String(), l.Margin.String(),
		nullableDecimalArg(l.Floor), nullableDecimalArg(l.Ceiling),
		l.PIKRate.String(), l.InterestPrepayment.String(),
		l.OriginationDate, l.MaturityDate,
	)
	created, err := scanLoan(row)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateLoan", status, time.Since(startTime))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.WarnContext(ctx, "Loan already exists", "loan_id", l.ID)
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrAlreadyExists, l.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to insert loan", "loan_id", l.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID)
	return created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID string) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) ListLoanIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM loans ORDER BY id`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("ListLoanIDs", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to list loan IDs", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			monitoring.RecordDBQuery("ListLoanIDs", "error", time.Since(startTime))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("ListLoanIDs", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Row iteration failed listing loan IDs", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("ListLoanIDs", status, time.Since(startTime))
	return ids, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var (
		l              loan.Loan
		principal      string
		margin         string
		floor          *string
		ceiling        *string
		pikRate        string
		prepaidBalance string
	)
	err := row.Scan(
		&l.ID, &l.Borrower, &principal, &margin, &floor, &ceiling,
		&pikRate, &prepaidBalance, &l.OriginationDate, &l.MaturityDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.Principal, err = decimal.NewFromString(principal); err != nil {
		return nil, fmt.Errorf("invalid principal %q: %w", principal, err)
	}
	if l.Margin, err = decimal.NewFromString(margin); err != nil {
		return nil, fmt.Errorf("invalid margin %q: %w", margin, err)
	}
	if l.PIKRate, err = decimal.NewFromString(pikRate); err != nil {
		return nil, fmt.Errorf("invalid pik_rate %q: %w", pikRate, err)
	}
	if l.InterestPrepayment, err = decimal.NewFromString(prepaidBalance); err != nil {
		return nil, fmt.Errorf("invalid interest_prepayment %q: %w", prepaidBalance, err)
	}
	if l.Floor, err = nullableDecimal(floor, "floor"); err != nil {
		return nil, err
	}
	if l.Ceiling, err = nullableDecimal(ceiling, "ceiling"); err != nil {
		return nil, err
	}
	return &l, nil
}

func nullableDecimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableDecimal(s *string, column string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", column, *s, err)
	}
	return &d, nil
}
