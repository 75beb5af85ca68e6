// Package order drives order submission and holds the local projection of
// server-side order history.
package order

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/catalog"
	"ehurt-storefront/internal/gateway"
	"ehurt-storefront/internal/model"
	"ehurt-storefront/internal/reconcile"
)

// ErrSubmitInFlight is returned when a submission starts while another one
// is still talking to the server. Duplicates are rejected, never queued.
var ErrSubmitInFlight = errors.New("order submission already in flight")

// State is the submission pipeline's phase.
type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether the state requires acknowledgement before the
// next submission cycle.
func (s State) Terminal() bool { return s == StateSucceeded || s == StateFailed }

// Result is the observable pipeline outcome: the current state plus the
// order ID on success or the classified error on failure.
type Result struct {
	State   State              `json:"state"`
	OrderID string             `json:"order_id,omitempty"`
	Err     *model.SubmitError `json:"error,omitempty"`
}

// Submitter is the slice of the gateway the pipeline needs.
type Submitter interface {
	SubmitOrder(ctx context.Context, req *gateway.SubmitOrderRequest) (*model.Order, error)
}

// CatalogSource supplies the current catalog snapshot, used to enrich
// rejections whose server payload omits detail.
type CatalogSource interface {
	Snapshot() *catalog.Snapshot
}

// Pipeline serializes order submissions. At most one submission is in
// flight at any time; the cart is cleared only on confirmed success and
// left untouched on every failure path.
type Pipeline struct {
	cart      *cart.Store
	catalog   CatalogSource
	submitter Submitter
	bus       *bus.Bus
	log       *slog.Logger

	mu      sync.Mutex
	state   State
	orderID string
	lastErr *model.SubmitError
}

// NewPipeline creates an idle pipeline.
func NewPipeline(cartStore *cart.Store, catalogSource CatalogSource, submitter Submitter, b *bus.Bus, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cart:      cartStore,
		catalog:   catalogSource,
		submitter: submitter,
		bus:       b,
		log:       log,
		state:     StateIdle,
	}
}

// Submit captures the cart, sends it, and settles into a terminal state.
//
// If a submission is already in flight it returns ErrSubmitInFlight
// without contacting the server. Starting a new submission from an
// unacknowledged terminal state implicitly acknowledges it. The payload is
// the snapshot captured at entry; cart mutations made while the request is
// on the wire do not leak into it. An empty cart is still sent: the server
// owns that rejection and answers with its empty-order code.
//
// On success the cart is cleared and an order-submitted event fires. On
// failure the cart is untouched and the returned error is always a
// *model.SubmitError.
func (p *Pipeline) Submit(ctx context.Context) (*model.Order, error) {
	p.mu.Lock()
	if p.state == StateSending {
		p.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	snap := p.cart.Snapshot()
	p.state = StateSending
	p.orderID = ""
	p.lastErr = nil
	p.mu.Unlock()

	req := &gateway.SubmitOrderRequest{Lines: make([]gateway.SubmitLine, 0, len(snap.Lines))}
	for _, line := range snap.Lines {
		req.Lines = append(req.Lines, gateway.SubmitLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	placed, err := p.submitter.SubmitOrder(ctx, req)
	if err != nil {
		submitErr := asSubmitError(err)
		p.enrich(submitErr, snap.Lines)

		p.mu.Lock()
		p.state = StateFailed
		p.lastErr = submitErr
		p.mu.Unlock()

		p.log.Warn("order submission failed",
			"class", submitErr.Class,
			"code", submitErr.Code,
			"lines", len(snap.Lines))
		return nil, submitErr
	}

	p.cart.Clear()

	p.mu.Lock()
	p.state = StateSucceeded
	p.orderID = placed.ID
	p.mu.Unlock()

	p.log.Info("order submitted", "order_id", placed.ID, "lines", len(snap.Lines))
	p.bus.Publish(bus.Event{Topic: bus.TopicOrderSubmitted, OrderID: placed.ID})
	return placed, nil
}

// Status returns the current pipeline outcome. Terminal results persist
// until Acknowledge so a caller polling after the fact still sees them.
func (p *Pipeline) Status() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Result{State: p.state, OrderID: p.orderID, Err: p.lastErr}
}

// Acknowledge clears a terminal result and returns the pipeline to idle.
// Acknowledging a non-terminal state is a no-op.
func (p *Pipeline) Acknowledge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Terminal() {
		return
	}
	p.state = StateIdle
	p.orderID = ""
	p.lastErr = nil
}

// enrich fills in unknown-product and price-mismatch detail from a local
// diff when the server's rejection payload omits it.
func (p *Pipeline) enrich(submitErr *model.SubmitError, lines []cart.Line) {
	switch submitErr.Class {
	case model.RejectUnknownProducts:
		if len(submitErr.UnknownProducts) > 0 {
			return
		}
	case model.RejectPriceMismatch:
		if len(submitErr.PriceChanges) > 0 {
			return
		}
	default:
		return
	}

	report := reconcile.CheckLines(lines, p.catalog.Snapshot())
	if submitErr.Class == model.RejectUnknownProducts {
		submitErr.UnknownProducts = report.Unknown
	} else {
		submitErr.PriceChanges = report.PriceChanges
	}
}

// asSubmitError coerces any submission failure into a classified error.
func asSubmitError(err error) *model.SubmitError {
	var submitErr *model.SubmitError
	if errors.As(err, &submitErr) {
		return submitErr
	}
	return model.NewTransportSubmitError(err)
}
