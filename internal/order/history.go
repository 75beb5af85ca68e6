package order

import (
	"context"
	"sync"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/model"
)

// Lister is the slice of the gateway the history store needs.
type Lister interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
}

// History is the local projection of the caller's placed orders. The
// server owns the data; Refresh replaces the projection wholesale and a
// failed refresh leaves the previous one in place.
type History struct {
	lister Lister
	bus    *bus.Bus

	mu     sync.Mutex
	orders []model.Order
}

// NewHistory creates an empty history bound to its event bus.
func NewHistory(lister Lister, b *bus.Bus) *History {
	return &History{lister: lister, bus: b}
}

// Refresh re-fetches the order list and publishes orders-updated on
// success. On failure the current projection is kept and no event fires.
func (h *History) Refresh(ctx context.Context) error {
	orders, err := h.lister.ListOrders(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.orders = orders
	h.mu.Unlock()

	h.bus.Publish(bus.Event{Topic: bus.TopicOrdersUpdated})
	return nil
}

// Orders returns a copy of the projection in server order (newest first).
func (h *History) Orders() []model.Order {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Order, len(h.orders))
	copy(out, h.orders)
	return out
}

// Get returns one order from the projection.
func (h *History) Get(orderID string) (model.Order, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range h.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return model.Order{}, false
}

// Frequency counts, per item ID, how many orders contain that item.
// Quantity within an order does not weigh in; ordering an item twice in
// one order still counts once. This feeds the favorites ranking.
func (h *History) Frequency() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	freq := make(map[string]int)
	for _, o := range h.orders {
		seen := make(map[string]bool, len(o.Items))
		for _, item := range o.Items {
			if seen[item.ItemID] {
				continue
			}
			seen[item.ItemID] = true
			freq[item.ItemID]++
		}
	}
	return freq
}
