package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Observation is one published term SOFR fixing. Rates are annual percentages
// (4.55 means 4.55%). The history is append-only and keyed by unique reset date.
type Observation struct {
	ResetDate time.Time
	Rate      decimal.Decimal
	Source    string
	CreatedAt time.Time
}

// Source is the lookup capability the interest engine needs: the rate
// effective on or before a reset date, or a definite missing signal.
type Source interface {
	RateOnOrBefore(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

type Repository interface {
	// Insert rejects a duplicate reset date with apperrors.ErrAlreadyExists.
	// Overwriting an existing fixing requires an explicit Update.
	Insert(ctx context.Context, obs Observation) (Observation, error)

	Update(ctx context.Context, obs Observation) (Observation, error)

	// GetOnOrBefore returns the most recent observation with
	// ResetDate <= date, or apperrors.ErrNotFound.
	GetOnOrBefore(ctx context.Context, date time.Time) (Observation, error)

	List(ctx context.Context) ([]Observation, error)
}
