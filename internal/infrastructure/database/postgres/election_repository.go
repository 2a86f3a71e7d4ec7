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
)

// ElectionRepository stores PIK elections keyed by (loan id, period number).
type ElectionRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewElectionRepository(db DBPool, logger *slog.Logger) *ElectionRepository {
	return &ElectionRepository{db: db, logger: logger.With("component", "ElectionRepository")}
}

var _ loan.ElectionRepository = (*ElectionRepository)(nil)

// Get returns false without error when no election row exists.
func (r *ElectionRepository) Get(ctx context.Context, loanID string, periodNumber int) (bool, error) {
	query := `SELECT elected FROM pik_elections WHERE loan_id = $1 AND period_number = $2`
	status := "success"
	startTime := time.Now()

	var elected bool
	err := r.db.QueryRow(ctx, query, loanID, periodNumber).Scan(&elected)

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery("GetPIKElection", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.ErrorContext(ctx, "Failed to get PIK election", "loan_id", loanID, "period", periodNumber, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return elected, nil
}

func (r *ElectionRepository) Set(ctx context.Context, loanID string, periodNumber int, elected bool) error {
	query := `
        INSERT INTO pik_elections (loan_id, period_number, elected, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (loan_id, period_number)
        DO UPDATE SET elected = EXCLUDED.elected, updated_at = NOW()`
	status := "success"
	startTime := time.Now()

	_, err := r.db.Exec(ctx, query, loanID, periodNumber, elected)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SetPIKElection", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set PIK election", "loan_id", loanID, "period", periodNumber, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}
