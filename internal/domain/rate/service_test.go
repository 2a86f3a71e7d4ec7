package rate

import (
	"context"
	"errors"
	"io"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) Insert(ctx context.Context, obs Observation) (Observation, error) {
	args := m.Called(ctx, obs)
	if created, ok := args.Get(0).(Observation); ok {
		return created, args.Error(1)
	}
	return Observation{}, args.Error(1)
}

func (m *MockRateRepository) Update(ctx context.Context, obs Observation) (Observation, error) {
	args := m.Called(ctx, obs)
	if updated, ok := args.Get(0).(Observation); ok {
		return updated, args.Error(1)
	}
	return Observation{}, args.Error(1)
}

func (m *MockRateRepository) GetOnOrBefore(ctx context.Context, date time.Time) (Observation, error) {
	args := m.Called(ctx, date)
	if obs, ok := args.Get(0).(Observation); ok {
		return obs, args.Error(1)
	}
	return Observation{}, args.Error(1)
}

func (m *MockRateRepository) List(ctx context.Context) ([]Observation, error) {
	args := m.Called(ctx)
	if observations, ok := args.Get(0).([]Observation); ok {
		return observations, args.Error(1)
	}
	return nil, args.Error(1)
}

func newRateService(repo Repository) RateService {
	return NewRateService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRateOnOrBeforeReturnsFixing(t *testing.T) {
	repo := new(MockRateRepository)
	svc := newRateService(repo)
	ctx := context.Background()
	lookup := time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)

	repo.On("GetOnOrBefore", ctx, lookup).Return(Observation{
		ResetDate: time.Date(2025, time.January, 28, 0, 0, 0, 0, time.UTC),
		Rate:      decimal.RequireFromString("4.52"),
	}, nil).Once()

	rate, err := svc.RateOnOrBefore(ctx, lookup)
	require.NoError(t, err)
	assert.Equal(t, "4.52", rate.StringFixed(2))
	repo.AssertExpectations(t)
}

func TestRateOnOrBeforeMapsNotFoundToMissingRate(t *testing.T) {
	repo := new(MockRateRepository)
	svc := newRateService(repo)
	ctx := context.Background()
	lookup := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

	repo.On("GetOnOrBefore", ctx, lookup).Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.RateOnOrBefore(ctx, lookup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingRate))
	assert.Contains(t, err.Error(), "2025-01-13")
}

func TestAddObservationValidation(t *testing.T) {
	repo := new(MockRateRepository)
	svc := newRateService(repo)
	ctx := context.Background()

	_, err := svc.AddObservation(ctx, Observation{Rate: decimal.RequireFromString("4.55")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = svc.AddObservation(ctx, Observation{
		ResetDate: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
		Rate:      decimal.RequireFromString("-1"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAddObservationRejectsDuplicate(t *testing.T) {
	repo := new(MockRateRepository)
	svc := newRateService(repo)
	ctx := context.Background()
	obs := Observation{
		ResetDate: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
		Rate:      decimal.RequireFromString("4.55"),
		Source:    "CME",
	}

	repo.On("Insert", ctx, obs).Return(nil, apperrors.ErrAlreadyExists).Once()

	_, err := svc.AddObservation(ctx, obs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestZeroRateObservationIsValid(t *testing.T) {
	repo := new(MockRateRepository)
	svc := newRateService(repo)
	ctx := context.Background()
	obs := Observation{
		ResetDate: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
		Rate:      decimal.Zero,
	}

	repo.On("Insert", ctx, obs).Return(obs, nil).Once()

	created, err := svc.AddObservation(ctx, obs)
	require.NoError(t, err)
	assert.True(t, created.Rate.IsZero())
}
