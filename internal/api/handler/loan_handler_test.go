package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"loan-interest-engine/internal/api/handler/dto"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, terms loan.Terms) (*loan.Loan, error) {
	args := m.Called(ctx, terms)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID string) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GenerateSchedule(ctx context.Context, loanID string) ([]loan.Period, error) {
	args := m.Called(ctx, loanID)
	if periods, ok := args.Get(0).([]loan.Period); ok {
		return periods, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) RequiredResetDates(ctx context.Context, loanID string) ([]time.Time, error) {
	args := m.Called(ctx, loanID)
	if dates, ok := args.Get(0).([]time.Time); ok {
		return dates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) MissingResetDates(ctx context.Context, loanID string) ([]time.Time, error) {
	args := m.Called(ctx, loanID)
	if dates, ok := args.Get(0).([]time.Time); ok {
		return dates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) RecordPayment(ctx context.Context, loanID string, date time.Time, amount decimal.Decimal, kind loan.PaymentKind, periodNumber *int, notes string) (loan.Payment, error) {
	args := m.Called(ctx, loanID, date, amount, kind, periodNumber, notes)
	if p, ok := args.Get(0).(loan.Payment); ok {
		return p, args.Error(1)
	}
	return loan.Payment{}, args.Error(1)
}

func (m *MockLoanService) ListPayments(ctx context.Context, loanID string) ([]loan.Payment, error) {
	args := m.Called(ctx, loanID)
	if payments, ok := args.Get(0).([]loan.Payment); ok {
		return payments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) SetPIKElection(ctx context.Context, loanID string, periodNumber int, elected bool) error {
	args := m.Called(ctx, loanID, periodNumber, elected)
	return args.Error(0)
}

func (m *MockLoanService) ListLoanIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func withLoanID(req *http.Request, loanID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{Keys: []string{"loanID"}, Values: []string{loanID}},
	}))
}

func withLoanIDAndPeriod(req *http.Request, loanID, period string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{"loanID", "periodNumber"},
			Values: []string{loanID, period},
		},
	}))
}

func sampleLoan() *loan.Loan {
	ceiling := decimal.RequireFromString("8.00")
	return &loan.Loan{
		ID:              "LOAN-001",
		Borrower:        "ABC Company",
		Principal:       decimal.RequireFromString("1000000"),
		Margin:          decimal.RequireFromString("2.50"),
		Ceiling:         &ceiling,
		OriginationDate: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:    time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoanHandlerCreateLoan(t *testing.T) {
	t.Run("successfully creates loan", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("CreateLoan", mock.Anything, mock.AnythingOfType("loan.Terms")).
			Return(sampleLoan(), nil).Once()

		body := `{"id":"LOAN-001","borrower":"ABC Company","principal":"1000000","margin":"2.50","ceiling":"8.00","originationDate":"2025-01-15","maturityDate":"2025-04-30"}`
		req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.LoanResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "LOAN-001", resp.ID)
		assert.Equal(t, "1000000.00", resp.Principal)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects invalid terms", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		body := `{"id":"LOAN-001","principal":"not-a-number","margin":"2.50","originationDate":"2025-01-15","maturityDate":"2025-04-30"}`
		req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
	})

	t.Run("returns conflict for duplicate loan ID", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("CreateLoan", mock.Anything, mock.AnythingOfType("loan.Terms")).
			Return(nil, apperrors.ErrAlreadyExists).Once()

		body := `{"id":"LOAN-001","principal":"1000000","margin":"2.50","originationDate":"2025-01-15","maturityDate":"2025-04-30"}`
		req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoanHandlerGetLoan(t *testing.T) {
	t.Run("successfully retrieves loan", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("GetLoan", mock.Anything, "LOAN-001").Return(sampleLoan(), nil).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.GetLoan(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoanResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "ABC Company", resp.Borrower)
		require.NotNil(t, resp.Ceiling)
		assert.Equal(t, "8", *resp.Ceiling)
		assert.Nil(t, resp.Floor)
		mockService.AssertExpectations(t)
	})

	t.Run("returns not found", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("GetLoan", mock.Anything, "MISSING").Return(nil, apperrors.ErrNotFound).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/MISSING", nil), "MISSING")
		rec := httptest.NewRecorder()

		handler.GetLoan(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns internal server error for unexpected errors", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("GetLoan", mock.Anything, "LOAN-001").Return(nil, errors.New("unexpected error")).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.GetLoan(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "An unexpected error occurred.", resp.Error.Message)
	})
}

func TestLoanHandlerGetSchedule(t *testing.T) {
	t.Run("returns generated schedule", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		periods := []loan.Period{
			{
				Number:             1,
				StartDate:          time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
				EndDate:            time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
				ResetDate:          time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
				Days:               17,
				ReferenceRate:      decimal.RequireFromString("4.55"),
				EffectiveRate:      decimal.RequireFromString("7.05"),
				PrincipalBeginning: decimal.RequireFromString("1000000"),
				PrincipalEnding:    decimal.RequireFromString("1000000"),
				InterestOwed:       decimal.RequireFromString("3329.17"),
				CashDue:            decimal.RequireFromString("3329.17"),
			},
		}
		mockService.On("GenerateSchedule", mock.Anything, "LOAN-001").Return(periods, nil).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001/schedule", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.GetSchedule(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ScheduleResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Periods, 1)
		assert.Equal(t, "2025-01-13", resp.Periods[0].ResetDate)
		assert.Equal(t, "3329.17", resp.Periods[0].InterestOwed)
		mockService.AssertExpectations(t)
	})

	t.Run("maps missing rate to unprocessable entity", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("GenerateSchedule", mock.Anything, "LOAN-001").
			Return(nil, apperrors.ErrMissingRate).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001/schedule", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.GetSchedule(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestLoanHandlerRecordPayment(t *testing.T) {
	t.Run("records principal prepayment", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		created := loan.Payment{
			ID:     "pay-1",
			LoanID: "LOAN-001",
			Date:   time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("100000"),
			Kind:   loan.PaymentKindPrincipalPrepayment,
		}
		mockService.On("RecordPayment", mock.Anything, "LOAN-001",
			time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
			mock.AnythingOfType("decimal.Decimal"), loan.PaymentKindPrincipalPrepayment,
			(*int)(nil), "").Return(created, nil).Once()

		body := `{"date":"2025-02-15","amount":"100000","kind":"principal_prepayment"}`
		req := withLoanID(httptest.NewRequest(http.MethodPost, "/loans/LOAN-001/payments", strings.NewReader(body)), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.RecordPayment(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.PaymentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "pay-1", resp.ID)
		assert.Equal(t, "100000.00", resp.Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects unknown kind before calling service", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		body := `{"date":"2025-02-15","amount":"100000","kind":"refund"}`
		req := withLoanID(httptest.NewRequest(http.MethodPost, "/loans/LOAN-001/payments", strings.NewReader(body)), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.RecordPayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "RecordPayment",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps invalid prepayment to bad request", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("RecordPayment", mock.Anything, "LOAN-001",
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("decimal.Decimal"),
			loan.PaymentKindPrincipalPrepayment, (*int)(nil), "").
			Return(loan.Payment{}, apperrors.ErrInvalidPrepayment).Once()

		body := `{"date":"2025-02-15","amount":"99999999","kind":"principal_prepayment"}`
		req := withLoanID(httptest.NewRequest(http.MethodPost, "/loans/LOAN-001/payments", strings.NewReader(body)), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.RecordPayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerSetPIKElection(t *testing.T) {
	t.Run("stores election", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("SetPIKElection", mock.Anything, "LOAN-001", 3, true).Return(nil).Once()

		body := `{"elected":true}`
		req := withLoanIDAndPeriod(httptest.NewRequest(http.MethodPut, "/loans/LOAN-001/elections/3", strings.NewReader(body)), "LOAN-001", "3")
		rec := httptest.NewRecorder()

		handler.SetPIKElection(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("maps prepaid conflict to conflict status", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("SetPIKElection", mock.Anything, "LOAN-001", 1, true).
			Return(apperrors.ErrPIKElectionConflict).Once()

		body := `{"elected":true}`
		req := withLoanIDAndPeriod(httptest.NewRequest(http.MethodPut, "/loans/LOAN-001/elections/1", strings.NewReader(body)), "LOAN-001", "1")
		rec := httptest.NewRecorder()

		handler.SetPIKElection(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("rejects non-numeric period", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		body := `{"elected":true}`
		req := withLoanIDAndPeriod(httptest.NewRequest(http.MethodPut, "/loans/LOAN-001/elections/abc", strings.NewReader(body)), "LOAN-001", "abc")
		rec := httptest.NewRecorder()

		handler.SetPIKElection(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerExportSchedule(t *testing.T) {
	t.Run("streams csv", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		mockService.On("GetLoan", mock.Anything, "LOAN-001").Return(sampleLoan(), nil).Once()
		mockService.On("GenerateSchedule", mock.Anything, "LOAN-001").Return([]loan.Period{}, nil).Once()

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001/schedule/export?format=csv", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.ExportSchedule(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "# Loan ID: LOAN-001")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, newTestLogger())

		req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001/schedule/export?format=pdf", nil), "LOAN-001")
		rec := httptest.NewRecorder()

		handler.ExportSchedule(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GenerateSchedule", mock.Anything, mock.Anything)
	})
}

func TestLoanHandlerGetResetDates(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, newTestLogger())

	required := []time.Time{
		time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC),
	}
	missing := []time.Time{required[1]}
	mockService.On("RequiredResetDates", mock.Anything, "LOAN-001").Return(required, nil).Once()
	mockService.On("MissingResetDates", mock.Anything, "LOAN-001").Return(missing, nil).Once()

	req := withLoanID(httptest.NewRequest(http.MethodGet, "/loans/LOAN-001/reset-dates", nil), "LOAN-001")
	rec := httptest.NewRecorder()

	handler.GetResetDates(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ResetDatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"2025-01-13", "2025-01-30"}, resp.ResetDates)
	assert.Equal(t, []string{"2025-01-30"}, resp.Missing)
	mockService.AssertExpectations(t)
}
