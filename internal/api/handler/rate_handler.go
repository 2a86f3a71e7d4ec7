package handler

import (
	"fmt"
	"loan-interest-engine/internal/api/handler/dto"
	"loan-interest-engine/internal/domain/rate"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type RateHandler struct {
	service rate.RateService
	logger  *slog.Logger
}

func NewRateHandler(s rate.RateService, l *slog.Logger) *RateHandler {
	return &RateHandler{
		service: s,
		logger:  l.With("component", "RateHandler"),
	}
}

// AddRate records a new term SOFR fixing.
//
// @Summary Record a rate observation
// @Description Records the term SOFR fixing for a reset date. A duplicate reset date is rejected; corrections go through the update endpoint.
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body dto.RateRequest true "Rate observation payload"
// @Success 201 {object} dto.RateResponse "Observation successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 409 {object} dto.ErrorResponse "Observation for that reset date already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rates [post]
// @Security BearerAuth
func (h *RateHandler) AddRate(w http.ResponseWriter, r *http.Request) {
	var req dto.RateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.AddObservation(r.Context(), req.ToObservation())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewRateResponse(created))
}

// UpdateRate overwrites an existing fixing.
//
// @Summary Overwrite a rate observation
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body dto.RateRequest true "Rate observation payload"
// @Success 200 {object} dto.RateResponse "Observation successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "No observation for that reset date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rates [put]
// @Security BearerAuth
func (h *RateHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req dto.RateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateObservation(r.Context(), req.ToObservation())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewRateResponse(updated))
}

// ListRates returns the full fixing history.
//
// @Summary List rate observations
// @Tags Rates
// @Produce json
// @Success 200 {array} dto.RateResponse "Observations ordered by reset date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rates [get]
// @Security BearerAuth
func (h *RateHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	observations, err := h.service.ListObservations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.RateResponse, len(observations))
	for i, obs := range observations {
		resp[i] = dto.NewRateResponse(obs)
	}
	respondJSON(w, http.StatusOK, resp)
}
