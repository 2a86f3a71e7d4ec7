package postgres

import (
	"context"
	"errors"
	"loan-interest-engine/internal/domain/rate"
	"loan-interest-engine/internal/pkg/apperrors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rateColumnNames = []string{"reset_date", "rate", "source", "created_at"}

func setupRateRepo(t *testing.T) (context.Context, *RateRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewRateRepository(mockPool, testLogger), mockPool
}

func TestInsertRateWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	resetDate := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO rate_observations")).
		WithArgs(resetDate, "4.55", "CME").
		WillReturnRows(pgxmock.NewRows(rateColumnNames).
			AddRow(resetDate, "4.55", "CME", time.Now()))

	created, err := repo.Insert(ctx, rate.Observation{
		ResetDate: resetDate,
		Rate:      decimal.RequireFromString("4.55"),
		Source:    "CME",
	})
	require.NoError(t, err)
	assert.Equal(t, "4.55", created.Rate.StringFixed(2))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertRateWhenDuplicateResetDate(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	resetDate := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO rate_observations")).
		WithArgs(resetDate, "4.60", "CME").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Insert(ctx, rate.Observation{
		ResetDate: resetDate,
		Rate:      decimal.RequireFromString("4.60"),
		Source:    "CME",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestUpdateRateWhenMissing(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	resetDate := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE rate_observations")).
		WithArgs(resetDate, "4.60", "CME").
		WillReturnRows(pgxmock.NewRows(rateColumnNames))

	_, err := repo.Update(ctx, rate.Observation{
		ResetDate: resetDate,
		Rate:      decimal.RequireFromString("4.60"),
		Source:    "CME",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGetRateOnOrBefore(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	lookupDate := time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)
	fixingDate := time.Date(2025, time.January, 28, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE reset_date <= $1")).
		WithArgs(lookupDate).
		WillReturnRows(pgxmock.NewRows(rateColumnNames).
			AddRow(fixingDate, "4.52", "CME", time.Now()))

	obs, err := repo.GetOnOrBefore(ctx, lookupDate)
	require.NoError(t, err)
	assert.Equal(t, fixingDate, obs.ResetDate)
	assert.Equal(t, "4.52", obs.Rate.StringFixed(2))
}

func TestGetRateOnOrBeforeWhenNoObservation(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	lookupDate := time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE reset_date <= $1")).
		WithArgs(lookupDate).
		WillReturnRows(pgxmock.NewRows(rateColumnNames))

	_, err := repo.GetOnOrBefore(ctx, lookupDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListRatesOrderedByResetDate(t *testing.T) {
	ctx, repo, mockPool := setupRateRepo(t)
	defer mockPool.Close()
	d1 := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM rate_observations ORDER BY reset_date")).
		WillReturnRows(pgxmock.NewRows(rateColumnNames).
			AddRow(d1, "4.55", "CME", time.Now()).
			AddRow(d2, "4.60", "CME", time.Now()))

	observations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, d1, observations[0].ResetDate)
	assert.Equal(t, d2, observations[1].ResetDate)
}
