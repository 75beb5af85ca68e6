// Package payments holds the local projection of the caller's financial
// documents and the summary views derived from them.
package payments

import (
	"context"
	"sync"
	"time"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/model"
)

// Lister is the slice of the gateway the payments store needs.
type Lister interface {
	ListPayments(ctx context.Context) ([]model.Payment, error)
}

// Summary is the derived financial overview: documents split into
// invoices and deposits, plus the unpaid sums. Deposits never count
// toward the unpaid totals.
type Summary struct {
	Invoices           []model.Payment `json:"invoices"`
	Deposits           []model.Payment `json:"deposits"`
	Overdue            []model.Payment `json:"overdue"`
	UnpaidTotal        model.Money     `json:"unpaid_total"`
	OverdueUnpaidTotal model.Money     `json:"overdue_unpaid_total"`
}

// Store projects the server's payment documents. Refresh replaces the
// projection wholesale; a failed refresh keeps the previous one.
type Store struct {
	lister Lister
	bus    *bus.Bus
	now    func() time.Time

	mu       sync.Mutex
	payments []model.Payment
}

// NewStore creates an empty payments projection.
func NewStore(lister Lister, b *bus.Bus) *Store {
	return &Store{lister: lister, bus: b, now: time.Now}
}

// Refresh re-fetches the document list and publishes payments-updated on
// success. On failure the current projection is kept and no event fires.
func (s *Store) Refresh(ctx context.Context) error {
	payments, err := s.lister.ListPayments(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payments = payments
	s.mu.Unlock()

	s.bus.Publish(bus.Event{Topic: bus.TopicPaymentsUpdated})
	return nil
}

// Payments returns a copy of the projection in server order.
func (s *Store) Payments() []model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// Get returns one document from the projection.
func (s *Store) Get(paymentID string) (model.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == paymentID {
			return p, true
		}
	}
	return model.Payment{}, false
}

// Summarize derives the financial overview from the current projection.
// Overdue is evaluated against the store clock at call time, so a
// document can become overdue between two calls without a refresh.
func (s *Store) Summarize() Summary {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var sum Summary
	for _, p := range s.payments {
		if p.IsDeposit() {
			sum.Deposits = append(sum.Deposits, p)
			continue
		}
		sum.Invoices = append(sum.Invoices, p)
		sum.UnpaidTotal = sum.UnpaidTotal.Add(p.Remaining)
		if p.Overdue(now) {
			sum.Overdue = append(sum.Overdue, p)
			sum.OverdueUnpaidTotal = sum.OverdueUnpaidTotal.Add(p.Remaining)
		}
	}
	return sum
}
