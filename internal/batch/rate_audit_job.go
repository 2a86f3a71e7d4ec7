package batch

import (
	"context"
	"errors"
	"fmt"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/infrastructure/monitoring"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// RateAuditJob walks every loan and counts required reset dates that have no
// rate observation yet. The total feeds the missing-rates gauge so an
// unpublished fixing is noticed before schedule generation fails on it.
type RateAuditJob struct {
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewRateAuditJob(loanSvc loan.LoanService, logger *slog.Logger) *RateAuditJob {
	if loanSvc == nil || logger == nil {
		panic("RateAuditJob dependencies cannot be nil")
	}
	return &RateAuditJob{
		loanService: loanSvc,
		logger:      logger.With("job", "RateAudit"),
	}
}

func (j *RateAuditJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting rate audit job.")

	loanIDs, err := j.loanService.ListLoanIDs(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list loan IDs, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched loan IDs.", slog.Int("count", len(loanIDs)))

	if len(loanIDs) == 0 {
		monitoring.SetMissingResetRates(0)
		j.logger.InfoContext(ctx, "No loans to audit.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var totalMissing, loansWithMissing, errorCount int64

	for _, loanID := range loanIDs {
		wg.Add(1)
		go func(currentLoanID string) {
			defer wg.Done()

			logCtx := j.logger.With(slog.String("loanID", currentLoanID))
			missing, auditErr := j.loanService.MissingResetDates(ctx, currentLoanID)
			if auditErr != nil {
				if errors.Is(auditErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Loan disappeared during audit", slog.Any("error", auditErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to audit reset dates", slog.Any("error", auditErr))
					atomic.AddInt64(&errorCount, 1)
				}
				return
			}

			if len(missing) > 0 {
				dates := make([]string, len(missing))
				for i, d := range missing {
					dates[i] = d.Format(time.DateOnly)
				}
				logCtx.WarnContext(ctx, "Loan has reset dates without a rate observation",
					slog.Int("count", len(missing)), slog.Any("dates", dates))
				atomic.AddInt64(&totalMissing, int64(len(missing)))
				atomic.AddInt64(&loansWithMissing, 1)
			}
		}(loanID)
	}

	wg.Wait()
	monitoring.SetMissingResetRates(int(totalMissing))

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("loans_audited", len(loanIDs)),
		slog.Int64("loans_with_missing_rates", loansWithMissing),
		slog.Int64("missing_reset_dates", totalMissing),
		slog.Int64("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Rate audit job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Rate audit job finished successfully.")
	return nil
}
