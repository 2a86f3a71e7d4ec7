package event

import (
	"time"
)

type ScheduleGeneratedEvent struct {
	LoanID        string    `json:"loanId"`
	PeriodCount   int       `json:"periodCount"`
	TotalInterest string    `json:"totalInterest"`
	TotalPIK      string    `json:"totalPik"`
	Timestamp     time.Time `json:"timestamp"`
}

type PaymentRecordedEvent struct {
	LoanID    string    `json:"loanId"`
	PaymentID string    `json:"paymentId"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

type PIKElectionSetEvent struct {
	LoanID       string    `json:"loanId"`
	PeriodNumber int       `json:"periodNumber"`
	Elected      bool      `json:"elected"`
	Timestamp    time.Time `json:"timestamp"`
}
