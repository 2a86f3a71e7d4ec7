package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"loan-interest-engine/internal/api/handler/dto"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/export"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrConfiguration), errors.Is(err, apperrors.ErrInvalidPrepayment):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrPIKElectionConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrMissingRate), errors.Is(err, apperrors.ErrNegativeCashDue):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (string, error) {
	id := chi.URLParam(r, "loanID")
	if id == "" {
		return "", fmt.Errorf("loanID not found in URL path")
	}
	return id, nil
}

// CreateLoan registers a new loan.
//
// @Summary Create a new loan
// @Description Registers a floating-rate interest-only loan from its terms: principal, margin, optional floor/ceiling, optional PIK rate and upfront interest prepayment, and the origination and maturity dates.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or loan terms"
// @Failure 409 {object} dto.ErrorResponse "Loan ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateLoan(r.Context(), req.ToTerms())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// GetLoan retrieves a loan's terms.
//
// @Summary Retrieve loan terms
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan terms successfully retrieved"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// GetSchedule generates and returns the loan's full interest schedule.
//
// @Summary Generate the interest schedule
// @Description Builds the full period-by-period schedule from the loan terms and the current rate, election and payment stores. Nothing is persisted; repeating the call yields the same schedule for unchanged inputs.
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.ScheduleResponse "Schedule successfully generated"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 422 {object} dto.ErrorResponse "A required rate observation is missing or cash due would be negative"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/schedule [get]
// @Security BearerAuth
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	periods, err := h.service.GenerateSchedule(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewScheduleResponse(loanID, periods))
}

// ExportSchedule streams the schedule as CSV or formatted text.
//
// @Summary Export the interest schedule
// @Description Generates the schedule and streams it in the requested format. Use the `format` query parameter: `csv` (default) or `text`.
// @Tags Loans
// @Produce plain
// @Param loanID path string true "Loan ID"
// @Param format query string false "Export format: csv or text" default(csv)
// @Success 200 {string} string "Exported schedule"
// @Failure 400 {object} dto.ErrorResponse "Unknown export format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 422 {object} dto.ErrorResponse "A required rate observation is missing"
// @Router /loans/{loanID}/schedule/export [get]
// @Security BearerAuth
func (h *LoanHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "text" {
		respondError(w, fmt.Errorf("%w: unknown export format %q", apperrors.ErrInvalidArgument, format))
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	periods, err := h.service.GenerateSchedule(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-schedule.csv", loanID))
		err = export.WriteCSV(w, l, periods)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = export.WriteText(w, l, periods)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to stream schedule export", "loanID", loanID, "error", err)
	}
}

// GetResetDates lists the loan's required reset dates and which are missing.
//
// @Summary List required reset dates
// @Description Lists the reset date of every period (two business days before the period start) and flags the dates with no rate observation on or before them.
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.ResetDatesResponse "Reset dates successfully listed"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/reset-dates [get]
// @Security BearerAuth
func (h *LoanHandler) GetResetDates(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	required, err := h.service.RequiredResetDates(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	missing, err := h.service.MissingResetDates(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := dto.ResetDatesResponse{LoanID: loanID}
	for _, d := range required {
		resp.ResetDates = append(resp.ResetDates, d.Format(time.DateOnly))
	}
	for _, d := range missing {
		resp.Missing = append(resp.Missing, d.Format(time.DateOnly))
	}
	respondJSON(w, http.StatusOK, resp)
}

// RecordPayment appends a payment to the loan's audit trail.
//
// @Summary Record a payment
// @Description Appends an interest payment or principal prepayment. A principal prepayment is validated against the schedule first: it must fall strictly inside the loan life and must not reach the outstanding principal. An invalid prepayment leaves the stored state untouched.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param request body dto.RecordPaymentRequest true "Payment request payload"
// @Success 201 {object} dto.PaymentResponse "Payment successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or prepayment"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	paymentDate, _ := time.Parse(time.DateOnly, req.Date)
	amount, _ := decimal.NewFromString(req.Amount)

	created, err := h.service.RecordPayment(r.Context(), loanID, paymentDate, amount,
		loan.PaymentKind(req.Kind), req.PeriodNumber, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPaymentResponse(created))
}

// ListPayments returns the loan's payment audit trail.
//
// @Summary List recorded payments
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {array} dto.PaymentResponse "Payments in chronological order"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [get]
// @Security BearerAuth
func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	payments, err := h.service.ListPayments(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = dto.NewPaymentResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// SetPIKElection stores a PIK election for one period.
//
// @Summary Set a PIK election
// @Description Marks a period as paid-in-kind (or reverts it to cash). Rejected while the loan's interest-prepayment balance is still outstanding at that period.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param periodNumber path int true "Period number (1-based)"
// @Param request body dto.SetElectionRequest true "Election payload"
// @Success 200 {object} map[string]string "Election stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid period or loan has no PIK facility"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Prepaid interest balance still outstanding"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/elections/{periodNumber} [put]
// @Security BearerAuth
func (h *LoanHandler) SetPIKElection(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	periodNumber, err := periodNumberFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.SetElectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.SetPIKElection(r.Context(), loanID, periodNumber, req.Elected); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Election stored"})
}

func periodNumberFromURL(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "periodNumber")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid period number %q", raw)
	}
	return n, nil
}
