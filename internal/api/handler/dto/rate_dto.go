package dto

import (
	"fmt"
	"loan-interest-engine/internal/domain/rate"
	"time"

	"github.com/shopspring/decimal"
)

type RateRequest struct {
	ResetDate string `json:"resetDate"`
	Rate      string `json:"rate"`
	Source    string `json:"source,omitempty"`
}

func (r *RateRequest) Validate() error {
	if _, err := time.Parse(time.DateOnly, r.ResetDate); err != nil {
		return fmt.Errorf("invalid resetDate format (use YYYY-MM-DD): %w", err)
	}
	if _, err := decimal.NewFromString(r.Rate); err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}
	return nil
}

func (r *RateRequest) ToObservation() rate.Observation {
	obs := rate.Observation{Source: r.Source}
	obs.ResetDate, _ = time.Parse(time.DateOnly, r.ResetDate)
	obs.Rate, _ = decimal.NewFromString(r.Rate)
	return obs
}

type RateResponse struct {
	ResetDate string    `json:"resetDate"`
	Rate      string    `json:"rate"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewRateResponse(obs rate.Observation) RateResponse {
	return RateResponse{
		ResetDate: obs.ResetDate.Format(time.DateOnly),
		Rate:      obs.Rate.String(),
		Source:    obs.Source,
		CreatedAt: obs.CreatedAt,
	}
}
