package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-interest-engine/internal/domain/calendar"
	"loan-interest-engine/internal/domain/rate"
	"loan-interest-engine/internal/event"
	"loan-interest-engine/internal/infrastructure/monitoring"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type LoanService interface {
	CreateLoan(ctx context.Context, terms Terms) (*Loan, error)

	GetLoan(ctx context.Context, loanID string) (*Loan, error)

	// GenerateSchedule builds the loan's full interest schedule from the
	// current rate, election and payment stores. Any engine error aborts the
	// whole generation; no partial schedule is returned.
	GenerateSchedule(ctx context.Context, loanID string) ([]Period, error)

	RequiredResetDates(ctx context.Context, loanID string) ([]time.Time, error)

	// MissingResetDates lists required reset dates with no rate observation
	// on or before them.
	MissingResetDates(ctx context.Context, loanID string) ([]time.Time, error)

	// RecordPayment appends a payment audit record. A principal_prepayment is
	// validated against the current schedule before anything is written: an
	// invalid prepayment leaves the stored state untouched.
	RecordPayment(ctx context.Context, loanID string, date time.Time, amount decimal.Decimal, kind PaymentKind, periodNumber *int, notes string) (Payment, error)

	ListPayments(ctx context.Context, loanID string) ([]Payment, error)

	// SetPIKElection records a PIK election for a period. Rejected while the
	// loan's interest-prepayment balance is still outstanding at that period.
	SetPIKElection(ctx context.Context, loanID string, periodNumber int, elected bool) error

	ListLoanIDs(ctx context.Context) ([]string, error)
}

type loanServiceImpl struct {
	repo      Repository
	elections ElectionRepository
	payments  PaymentRepository
	rates     rate.Source
	holidays  calendar.HolidayProvider
	publisher event.EventPublisher
	logger    *slog.Logger
}

func NewLoanService(
	repo Repository,
	elections ElectionRepository,
	payments PaymentRepository,
	rates rate.Source,
	holidays calendar.HolidayProvider,
	publisher event.EventPublisher,
	logger *slog.Logger,
) LoanService {
	return &loanServiceImpl{
		repo:      repo,
		elections: elections,
		payments:  payments,
		rates:     rates,
		holidays:  holidays,
		publisher: publisher,
		logger:    logger.With("component", "LoanService"),
	}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, terms Terms) (*Loan, error) {
	s.logger.InfoContext(ctx, "Creating new loan", "loanID", terms.ID, "borrower", terms.Borrower)

	l, err := NewLoan(terms)
	if err != nil {
		s.logger.WarnContext(ctx, "Loan terms rejected", "loanID", terms.ID, "error", err)
		return nil, err
	}

	created, err := s.repo.CreateLoan(ctx, l)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", "loanID", terms.ID, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Loan created", "loanID", created.ID)
	return created, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID string) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan %s not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, "error", err)
		return nil, err
	}
	return l, nil
}

func (s *loanServiceImpl) GenerateSchedule(ctx context.Context, loanID string) ([]Period, error) {
	start := time.Now()

	periods, err := s.generateSchedule(ctx, loanID)
	if err != nil {
		monitoring.RecordScheduleGenerated("failure", time.Since(start))
		return nil, err
	}
	monitoring.RecordScheduleGenerated("success", time.Since(start))

	totalInterest, totalPIK := decimal.Zero, decimal.Zero
	for _, p := range periods {
		totalInterest = totalInterest.Add(p.InterestOwed)
		totalPIK = totalPIK.Add(p.PIKAmount)
	}

	if pubErr := s.publisher.PublishScheduleGenerated(ctx, event.ScheduleGeneratedEvent{
		LoanID:        loanID,
		PeriodCount:   len(periods),
		TotalInterest: totalInterest.StringFixed(2),
		TotalPIK:      totalPIK.StringFixed(2),
		Timestamp:     time.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish schedule.generated event", "loanID", loanID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Schedule generated", "loanID", loanID, "periods", len(periods),
		"totalInterest", totalInterest.StringFixed(2))
	return periods, nil
}

func (s *loanServiceImpl) generateSchedule(ctx context.Context, loanID string) ([]Period, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return s.buildSchedule(ctx, l)
}

func (s *loanServiceImpl) buildSchedule(ctx context.Context, l *Loan) ([]Period, error) {
	prepayments, err := s.loadPrepayments(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	return l.BuildSchedule(ctx, ScheduleInput{
		Rates:       s.rates,
		Elections:   electionSource{repo: s.elections},
		Prepayments: prepayments,
		Calendar:    s.loanCalendar(l),
	})
}

func (s *loanServiceImpl) RequiredResetDates(ctx context.Context, loanID string) ([]time.Time, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return l.RequiredResetDates(s.loanCalendar(l))
}

func (s *loanServiceImpl) MissingResetDates(ctx context.Context, loanID string) ([]time.Time, error) {
	required, err := s.RequiredResetDates(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var missing []time.Time
	for _, d := range required {
		if _, err := s.rates.RateOnOrBefore(ctx, d); err != nil {
			if errors.Is(err, apperrors.ErrMissingRate) {
				missing = append(missing, d)
				continue
			}
			return nil, err
		}
	}
	return missing, nil
}

func (s *loanServiceImpl) RecordPayment(ctx context.Context, loanID string, date time.Time, amount decimal.Decimal, kind PaymentKind, periodNumber *int, notes string) (Payment, error) {
	logCtx := s.logger.With("loanID", loanID, "kind", string(kind))

	if !kind.Valid() {
		monitoring.RecordPayment(string(kind), "failure_kind")
		return Payment{}, fmt.Errorf("%w: unknown payment kind %q", apperrors.ErrInvalidArgument, kind)
	}
	if !amount.IsPositive() {
		monitoring.RecordPayment(string(kind), "failure_amount")
		return Payment{}, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidArgument)
	}

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		monitoring.RecordPayment(string(kind), "failure_not_found")
		return Payment{}, err
	}

	if kind == PaymentKindPrincipalPrepayment {
		// Dry-run the revised schedule so an invalid prepayment is rejected
		// before any state mutation.
		if err := s.validatePrepayment(ctx, l, PrincipalPrepayment{Date: date, Amount: amount}); err != nil {
			logCtx.WarnContext(ctx, "Principal prepayment rejected", "date", date.Format(time.DateOnly), "error", err)
			monitoring.RecordPayment(string(kind), "failure_invalid")
			return Payment{}, err
		}
	}

	created, err := s.payments.Append(ctx, Payment{
		LoanID:       loanID,
		Date:         calendar.Day(date),
		Amount:       amount,
		Kind:         kind,
		PeriodNumber: periodNumber,
		Notes:        notes,
	})
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to append payment", "error", err)
		monitoring.RecordPayment(string(kind), "failure_internal")
		return Payment{}, err
	}
	monitoring.RecordPayment(string(kind), "success")

	if pubErr := s.publisher.PublishPaymentRecorded(ctx, event.PaymentRecordedEvent{
		LoanID:    loanID,
		PaymentID: created.ID,
		Kind:      string(created.Kind),
		Amount:    created.Amount.StringFixed(2),
		Date:      created.Date.Format(time.DateOnly),
		Timestamp: time.Now(),
	}); pubErr != nil {
		logCtx.WarnContext(ctx, "Failed to publish payment.recorded event", "error", pubErr)
	}

	logCtx.InfoContext(ctx, "Payment recorded", "paymentID", created.ID, "amount", created.Amount.StringFixed(2))
	return created, nil
}

func (s *loanServiceImpl) ListPayments(ctx context.Context, loanID string) ([]Payment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return s.payments.ListByLoan(ctx, loanID)
}

func (s *loanServiceImpl) SetPIKElection(ctx context.Context, loanID string, periodNumber int, elected bool) error {
	logCtx := s.logger.With("loanID", loanID, "period", periodNumber)

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		monitoring.RecordPIKElection("failure_not_found")
		return err
	}
	if periodNumber < 1 {
		monitoring.RecordPIKElection("failure_invalid")
		return fmt.Errorf("%w: period number must be at least 1", apperrors.ErrInvalidArgument)
	}

	periods, err := GeneratePeriods(l.OriginationDate, l.MaturityDate, s.loanCalendar(l))
	if err != nil {
		monitoring.RecordPIKElection("failure_internal")
		return err
	}
	if periodNumber > len(periods) {
		monitoring.RecordPIKElection("failure_invalid")
		return fmt.Errorf("%w: loan %s has only %d periods", apperrors.ErrInvalidArgument, loanID, len(periods))
	}

	if elected {
		if !l.PIKRate.IsPositive() {
			monitoring.RecordPIKElection("failure_invalid")
			return fmt.Errorf("%w: loan %s has no PIK rate configured", apperrors.ErrValidation, loanID)
		}
		// The prepaid balance entering the period depends only on earlier
		// periods, so the current schedule decides the conflict.
		if err := s.checkPrepaidConflict(ctx, l, periodNumber); err != nil {
			monitoring.RecordPIKElection("failure_conflict")
			return err
		}
	}

	if err := s.elections.Set(ctx, loanID, periodNumber, elected); err != nil {
		logCtx.ErrorContext(ctx, "Failed to store PIK election", "error", err)
		monitoring.RecordPIKElection("failure_internal")
		return err
	}
	monitoring.RecordPIKElection("success")

	if pubErr := s.publisher.PublishPIKElectionSet(ctx, event.PIKElectionSetEvent{
		LoanID:       loanID,
		PeriodNumber: periodNumber,
		Elected:      elected,
		Timestamp:    time.Now(),
	}); pubErr != nil {
		logCtx.WarnContext(ctx, "Failed to publish pik.election.set event", "error", pubErr)
	}

	logCtx.InfoContext(ctx, "PIK election stored", "elected", elected)
	return nil
}

func (s *loanServiceImpl) ListLoanIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListLoanIDs(ctx)
}

func (s *loanServiceImpl) checkPrepaidConflict(ctx context.Context, l *Loan, periodNumber int) error {
	if !l.InterestPrepayment.IsPositive() {
		return nil
	}

	periods, err := s.buildSchedule(ctx, l)
	if err != nil {
		return fmt.Errorf("cannot verify prepaid balance for election: %w", err)
	}
	p := periods[periodNumber-1]
	if p.PrepaidBalanceStart.IsPositive() {
		return fmt.Errorf("%w: period %d has prepaid balance %s outstanding",
			apperrors.ErrPIKElectionConflict, periodNumber, p.PrepaidBalanceStart.StringFixed(2))
	}
	return nil
}

func (s *loanServiceImpl) validatePrepayment(ctx context.Context, l *Loan, candidate PrincipalPrepayment) error {
	existing, err := s.loadPrepayments(ctx, l.ID)
	if err != nil {
		return err
	}

	_, err = l.BuildSchedule(ctx, ScheduleInput{
		Rates:       s.rates,
		Elections:   electionSource{repo: s.elections},
		Prepayments: append(existing, candidate),
		Calendar:    s.loanCalendar(l),
	})
	return err
}

func (s *loanServiceImpl) loadPrepayments(ctx context.Context, loanID string) ([]PrincipalPrepayment, error) {
	payments, err := s.payments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	var prepayments []PrincipalPrepayment
	for _, p := range payments {
		if p.Kind == PaymentKindPrincipalPrepayment {
			prepayments = append(prepayments, PrincipalPrepayment{Date: p.Date, Amount: p.Amount})
		}
	}
	return prepayments, nil
}

func (s *loanServiceImpl) loanCalendar(l *Loan) *calendar.Calendar {
	first, last := l.CalendarYears()
	return calendar.New(s.holidays, first, last)
}

type electionSource struct {
	repo ElectionRepository
}

func (e electionSource) Elected(ctx context.Context, loanID string, periodNumber int) (bool, error) {
	return e.repo.Get(ctx, loanID, periodNumber)
}
