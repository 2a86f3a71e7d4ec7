package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-interest-engine/internal/domain/rate"
	"loan-interest-engine/internal/infrastructure/monitoring"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// RateRepository is the append-only term SOFR fixing store, keyed by unique
// reset date.
type RateRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewRateRepository(db DBPool, logger *slog.Logger) *RateRepository {
	return &RateRepository{db: db, logger: logger.With("component", "RateRepository")}
}

var _ rate.Repository = (*RateRepository)(nil)

const rateColumns = `reset_date, rate::text, source, created_at`

func (r *RateRepository) Insert(ctx context.Context, obs rate.Observation) (rate.Observation, error) {
	query := `
        INSERT INTO rate_observations (reset_date, rate, source, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING ` + rateColumns
	status := "success"
	startTime := time.Now()

	created, err := scanObservation(r.db.QueryRow(ctx, query, obs.ResetDate, obs.Rate.String(), obs.Source))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("InsertRate", status, time.Since(startTime))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.WarnContext(ctx, "Rate observation already exists", "reset_date", obs.ResetDate.Format(time.DateOnly))
			return rate.Observation{}, fmt.Errorf("%w: rate for %s", apperrors.ErrAlreadyExists, obs.ResetDate.Format(time.DateOnly))
		}
		r.logger.ErrorContext(ctx, "Failed to insert rate observation", "error", err)
		return rate.Observation{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return created, nil
}

func (r *RateRepository) Update(ctx context.Context, obs rate.Observation) (rate.Observation, error) {
	query := `
        UPDATE rate_observations
        SET rate = $2, source = $3
        WHERE reset_date = $1
        RETURNING ` + rateColumns
	status := "success"
	startTime := time.Now()

	updated, err := scanObservation(r.db.QueryRow(ctx, query, obs.ResetDate, obs.Rate.String(), obs.Source))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateRate", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rate.Observation{}, fmt.Errorf("%w: no rate for %s", apperrors.ErrNotFound, obs.ResetDate.Format(time.DateOnly))
		}
		r.logger.ErrorContext(ctx, "Failed to update rate observation", "error", err)
		return rate.Observation{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return updated, nil
}

func (r *RateRepository) GetOnOrBefore(ctx context.Context, date time.Time) (rate.Observation, error) {
	query := `
        SELECT ` + rateColumns + `
        FROM rate_observations
        WHERE reset_date <= $1
        ORDER BY reset_date DESC
        LIMIT 1`
	status := "success"
	startTime := time.Now()

	obs, err := scanObservation(r.db.QueryRow(ctx, query, date))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetRateOnOrBefore", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rate.Observation{}, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to look up rate", "date", date.Format(time.DateOnly), "error", err)
		return rate.Observation{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return obs, nil
}

func (r *RateRepository) List(ctx context.Context) ([]rate.Observation, error) {
	query := `SELECT ` + rateColumns + ` FROM rate_observations ORDER BY reset_date`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("ListRates", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to list rate observations", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var observations []rate.Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			monitoring.RecordDBQuery("ListRates", "error", time.Since(startTime))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("ListRates", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Row iteration failed listing rates", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("ListRates", status, time.Since(startTime))
	return observations, nil
}

func scanObservation(row pgx.Row) (rate.Observation, error) {
	var (
		obs     rate.Observation
		rateStr string
	)
	if err := row.Scan(&obs.ResetDate, &rateStr, &obs.Source, &obs.CreatedAt); err != nil {
		return rate.Observation{}, err
	}
	d, err := decimal.NewFromString(rateStr)
	if err != nil {
		return rate.Observation{}, fmt.Errorf("invalid rate %q: %w", rateStr, err)
	}
	obs.Rate = d
	return obs, nil
}
