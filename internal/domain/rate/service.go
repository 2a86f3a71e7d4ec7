package rate

import (
	"context"
	"errors"
	"fmt"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type RateService interface {
	Source

	AddObservation(ctx context.Context, obs Observation) (Observation, error)

	// UpdateObservation overwrites an existing fixing. Adding a duplicate via
	// AddObservation is rejected, so corrections always come through here.
	UpdateObservation(ctx context.Context, obs Observation) (Observation, error)

	ListObservations(ctx context.Context) ([]Observation, error)
}

type rateServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewRateService(r Repository, logger *slog.Logger) RateService {
	return &rateServiceImpl{repo: r, logger: logger.With("component", "RateService")}
}

func (s *rateServiceImpl) RateOnOrBefore(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	obs, err := s.repo.GetOnOrBefore(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "No rate observation on or before date", "date", date.Format(time.DateOnly))
			return decimal.Zero, fmt.Errorf("%w: no observation on or before %s", apperrors.ErrMissingRate, date.Format(time.DateOnly))
		}
		s.logger.ErrorContext(ctx, "Failed to look up rate", "date", date.Format(time.DateOnly), "error", err)
		return decimal.Zero, fmt.Errorf("%w: rate lookup for %s: %v", apperrors.ErrInternalServer, date.Format(time.DateOnly), err)
	}
	return obs.Rate, nil
}

func (s *rateServiceImpl) AddObservation(ctx context.Context, obs Observation) (Observation, error) {
	if obs.ResetDate.IsZero() {
		return Observation{}, fmt.Errorf("%w: reset date is required", apperrors.ErrInvalidArgument)
	}
	if obs.Rate.IsNegative() {
		return Observation{}, fmt.Errorf("%w: rate cannot be negative", apperrors.ErrInvalidArgument)
	}

	created, err := s.repo.Insert(ctx, obs)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Duplicate rate observation rejected", "date", obs.ResetDate.Format(time.DateOnly))
			return Observation{}, fmt.Errorf("%w: observation for %s already recorded", apperrors.ErrAlreadyExists, obs.ResetDate.Format(time.DateOnly))
		}
		s.logger.ErrorContext(ctx, "Failed to insert rate observation", "error", err)
		return Observation{}, err
	}
	s.logger.InfoContext(ctx, "Rate observation recorded", "date", created.ResetDate.Format(time.DateOnly), "rate", created.Rate.String())
	return created, nil
}

func (s *rateServiceImpl) UpdateObservation(ctx context.Context, obs Observation) (Observation, error) {
	if obs.ResetDate.IsZero() {
		return Observation{}, fmt.Errorf("%w: reset date is required", apperrors.ErrInvalidArgument)
	}
	if obs.Rate.IsNegative() {
		return Observation{}, fmt.Errorf("%w: rate cannot be negative", apperrors.ErrInvalidArgument)
	}

	updated, err := s.repo.Update(ctx, obs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Observation{}, fmt.Errorf("%w: no observation for %s to update", apperrors.ErrNotFound, obs.ResetDate.Format(time.DateOnly))
		}
		s.logger.ErrorContext(ctx, "Failed to update rate observation", "error", err)
		return Observation{}, err
	}
	s.logger.InfoContext(ctx, "Rate observation overwritten", "date", updated.ResetDate.Format(time.DateOnly), "rate", updated.Rate.String())
	return updated, nil
}

func (s *rateServiceImpl) ListObservations(ctx context.Context) ([]Observation, error) {
	return s.repo.List(ctx)
}
