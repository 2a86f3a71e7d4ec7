package dto

import (
	"fmt"
	"loan-interest-engine/internal/domain/loan"
	"time"

	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	ID                 string  `json:"id"`
	Borrower           string  `json:"borrower"`
	Principal          string  `json:"principal"`
	Margin             string  `json:"margin"`
	Floor              *string `json:"floor,omitempty"`
	Ceiling            *string `json:"ceiling,omitempty"`
	PIKRate            string  `json:"pikRate,omitempty"`
	InterestPrepayment string  `json:"interestPrepayment,omitempty"`
	OriginationDate    string  `json:"originationDate"`
	MaturityDate       string  `json:"maturityDate"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if _, err := decimal.NewFromString(r.Principal); err != nil {
		return fmt.Errorf("invalid principal: %w", err)
	}
	if _, err := decimal.NewFromString(r.Margin); err != nil {
		return fmt.Errorf("invalid margin: %w", err)
	}
	for name, v := range map[string]*string{"floor": r.Floor, "ceiling": r.Ceiling} {
		if v == nil {
			continue
		}
		if _, err := decimal.NewFromString(*v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	for name, v := range map[string]string{"pikRate": r.PIKRate, "interestPrepayment": r.InterestPrepayment} {
		if v == "" {
			continue
		}
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if _, err := time.Parse(time.DateOnly, r.OriginationDate); err != nil {
		return fmt.Errorf("invalid originationDate format (use YYYY-MM-DD): %w", err)
	}
	if _, err := time.Parse(time.DateOnly, r.MaturityDate); err != nil {
		return fmt.Errorf("invalid maturityDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

// ToTerms converts a validated request into loan terms.
func (r *CreateLoanRequest) ToTerms() loan.Terms {
	terms := loan.Terms{
		ID:       r.ID,
		Borrower: r.Borrower,
	}
	terms.Principal, _ = decimal.NewFromString(r.Principal)
	terms.Margin, _ = decimal.NewFromString(r.Margin)
	if r.Floor != nil {
		f, _ := decimal.NewFromString(*r.Floor)
		terms.Floor = &f
	}
	if r.Ceiling != nil {
		c, _ := decimal.NewFromString(*r.Ceiling)
		terms.Ceiling = &c
	}
	if r.PIKRate != "" {
		terms.PIKRate, _ = decimal.NewFromString(r.PIKRate)
	}
	if r.InterestPrepayment != "" {
		terms.InterestPrepayment, _ = decimal.NewFromString(r.InterestPrepayment)
	}
	terms.OriginationDate, _ = time.Parse(time.DateOnly, r.OriginationDate)
	terms.MaturityDate, _ = time.Parse(time.DateOnly, r.MaturityDate)
	return terms
}

type RecordPaymentRequest struct {
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Kind         string `json:"kind"`
	PeriodNumber *int   `json:"periodNumber,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !loan.PaymentKind(r.Kind).Valid() {
		return fmt.Errorf("kind must be %q or %q", loan.PaymentKindInterest, loan.PaymentKindPrincipalPrepayment)
	}
	return nil
}

type SetElectionRequest struct {
	Elected bool `json:"elected"`
}

type LoanResponse struct {
	ID                 string    `json:"id"`
	Borrower           string    `json:"borrower"`
	Principal          string    `json:"principal"`
	Margin             string    `json:"margin"`
	Floor              *string   `json:"floor,omitempty"`
	Ceiling            *string   `json:"ceiling,omitempty"`
	PIKRate            string    `json:"pikRate"`
	InterestPrepayment string    `json:"interestPrepayment"`
	OriginationDate    string    `json:"originationDate"`
	MaturityDate       string    `json:"maturityDate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	resp := LoanResponse{
		ID:                 l.ID,
		Borrower:           l.Borrower,
		Principal:          l.Principal.StringFixed(2),
		Margin:             l.Margin.String(),
		PIKRate:            l.PIKRate.String(),
		InterestPrepayment: l.InterestPrepayment.StringFixed(2),
		OriginationDate:    l.OriginationDate.Format(time.DateOnly),
		MaturityDate:       l.MaturityDate.Format(time.DateOnly),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.Floor != nil {
		s := l.Floor.String()
		resp.Floor = &s
	}
	if l.Ceiling != nil {
		s := l.Ceiling.String()
		resp.Ceiling = &s
	}
	return resp
}

type SegmentResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Days      int    `json:"days"`
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
}

type PeriodResponse struct {
	Number              int               `json:"number"`
	StartDate           string            `json:"startDate"`
	EndDate             string            `json:"endDate"`
	ResetDate           string            `json:"resetDate"`
	Days                int               `json:"days"`
	ReferenceRate       string            `json:"referenceRate"`
	EffectiveRate       string            `json:"effectiveRate"`
	PrincipalBeginning  string            `json:"principalBeginning"`
	PrincipalEnding     string            `json:"principalEnding"`
	InterestOwed        string            `json:"interestOwed"`
	Segments            []SegmentResponse `json:"segments,omitempty"`
	PrepaidBalanceStart string            `json:"prepaidBalanceStart"`
	PrepaidApplied      string            `json:"prepaidApplied"`
	PrepaidBalanceEnd   string            `json:"prepaidBalanceEnd"`
	PIKElected          bool              `json:"pikElected"`
	PIKAmount           string            `json:"pikAmount"`
	CashDue             string            `json:"cashDue"`
}

type ScheduleResponse struct {
	LoanID  string           `json:"loanId"`
	Periods []PeriodResponse `json:"periods"`
}

func NewScheduleResponse(loanID string, periods []loan.Period) ScheduleResponse {
	resp := ScheduleResponse{LoanID: loanID, Periods: make([]PeriodResponse, len(periods))}
	for i, p := range periods {
		resp.Periods[i] = NewPeriodResponse(p)
	}
	return resp
}

func NewPeriodResponse(p loan.Period) PeriodResponse {
	resp := PeriodResponse{
		Number:              p.Number,
		StartDate:           p.StartDate.Format(time.DateOnly),
		EndDate:             p.EndDate.Format(time.DateOnly),
		ResetDate:           p.ResetDate.Format(time.DateOnly),
		Days:                p.Days,
		ReferenceRate:       p.ReferenceRate.String(),
		EffectiveRate:       p.EffectiveRate.String(),
		PrincipalBeginning:  p.PrincipalBeginning.StringFixed(2),
		PrincipalEnding:     p.PrincipalEnding.StringFixed(2),
		InterestOwed:        p.InterestOwed.StringFixed(2),
		PrepaidBalanceStart: p.PrepaidBalanceStart.StringFixed(2),
		PrepaidApplied:      p.PrepaidApplied.StringFixed(2),
		PrepaidBalanceEnd:   p.PrepaidBalanceEnd.StringFixed(2),
		PIKElected:          p.PIKElected,
		PIKAmount:           p.PIKAmount.StringFixed(2),
		CashDue:             p.CashDue.StringFixed(2),
	}
	for _, s := range p.Segments {
		resp.Segments = append(resp.Segments, SegmentResponse{
			StartDate: s.StartDate.Format(time.DateOnly),
			EndDate:   s.EndDate.Format(time.DateOnly),
			Days:      s.Days,
			Principal: s.Principal.StringFixed(2),
			Interest:  s.Interest.StringFixed(2),
		})
	}
	return resp
}

type PaymentResponse struct {
	ID           string    `json:"id"`
	LoanID       string    `json:"loanId"`
	Date         string    `json:"date"`
	Amount       string    `json:"amount"`
	Kind         string    `json:"kind"`
	PeriodNumber *int      `json:"periodNumber,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewPaymentResponse(p loan.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		LoanID:       p.LoanID,
		Date:         p.Date.Format(time.DateOnly),
		Amount:       p.Amount.StringFixed(2),
		Kind:         string(p.Kind),
		PeriodNumber: p.PeriodNumber,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
	}
}

type ResetDatesResponse struct {
	LoanID     string   `json:"loanId"`
	ResetDates []string `json:"resetDates"`
	Missing    []string `json:"missing,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
