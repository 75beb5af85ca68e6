package model

import "time"

// PaymentType distinguishes the document kinds the finance endpoint
// returns. The set is open; unknown types display as-is.
type PaymentType string

const (
	PaymentInvoice PaymentType = "Invoice"
	PaymentDeposit PaymentType = "Deposit"
)

// Payment is a read-only financial document owned by the server.
// The client never reconciles these, only projects and sums them.
type Payment struct {
	ID          string      `json:"id"`
	Type        PaymentType `json:"type"`
	ReceiverID  string      `json:"receiver_id"`
	IssueDate   time.Time   `json:"issue_date"`
	PaymentTerm time.Time   `json:"payment_term"`
	Currency    string      `json:"currency"`
	Value       Money       `json:"value"`
	PaidValue   Money       `json:"paid_value"`
	Remaining   Money       `json:"remaining"`
}

// Overdue reports whether the payment term has passed unpaid.
func (p Payment) Overdue(now time.Time) bool {
	return p.Remaining > 0 && now.After(p.PaymentTerm)
}

// IsDeposit reports whether the document is a deposit rather than an
// invoice; deposits are listed separately and excluded from unpaid totals.
func (p Payment) IsDeposit() bool { return p.Type == PaymentDeposit }
