// Package cart implements the local cart: a mapping from item ID to
// desired quantity and price-at-add-time, pending submission. The cart is
// deliberately independent of the live catalog; prices are snapshotted on
// add and validated by the server at submission time.
package cart

import (
	"sync"

	"ehurt-storefront/internal/model"
)

// Line is one cart entry. UnitPrice is the price at add time, never
// re-read from the catalog.
type Line struct {
	ItemID    string      `json:"item_id"`
	Quantity  int         `json:"quantity"`
	UnitPrice model.Money `json:"unit_price"`
}

// Snapshot is a point-in-time copy of the cart: lines in insertion order
// plus the total recomputed from them.
type Snapshot struct {
	Lines []Line      `json:"lines"`
	Total model.Money `json:"total"`
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// Store is the single-writer cart. Only user-triggered mutations and the
// submission pipeline's Clear may modify it; reads copy the current value.
type Store struct {
	mu    sync.Mutex
	lines map[string]*Line
	order []string // insertion order for stable display
}

// New creates an empty cart.
func New() *Store {
	return &Store{lines: make(map[string]*Line)}
}

// AddOrRemove toggles an item: absent adds a line of quantity 1 at the
// item's current price, present removes the line entirely. Zero-priced
// items are not purchasable and toggle as a no-op. Role policy (read-only
// callers) is the caller's concern; the store knows nothing about roles.
// Returns whether the item is in the cart after the call.
func (s *Store) AddOrRemove(item model.CatalogItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[item.ID]; ok {
		s.remove(item.ID)
		return false
	}
	if !item.Buyable() {
		return false
	}

	s.lines[item.ID] = &Line{ItemID: item.ID, Quantity: 1, UnitPrice: item.Price}
	s.order = append(s.order, item.ID)
	return true
}

// SetQuantity upserts a line at the given quantity and unit price.
// Quantities <= 0 remove the line. An upsert of an existing line keeps its
// position in insertion order.
func (s *Store) SetQuantity(itemID string, quantity int, unitPrice model.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(itemID)
		return
	}

	if line, ok := s.lines[itemID]; ok {
		line.Quantity = quantity
		line.UnitPrice = unitPrice
		return
	}

	s.lines[itemID] = &Line{ItemID: itemID, Quantity: quantity, UnitPrice: unitPrice}
	s.order = append(s.order, itemID)
}

// Remove deletes a line if present.
func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(itemID)
}

// remove drops a line and its insertion-order slot. Caller holds s.mu.
func (s *Store) remove(itemID string) {
	if _, ok := s.lines[itemID]; !ok {
		return
	}
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart. Called on successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]*Line)
	s.order = nil
}

// Contains reports whether the item has a line.
func (s *Store) Contains(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lines[itemID]
	return ok
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Snapshot copies the lines in insertion order and recomputes the total.
// The total is never cached across mutations, so it cannot drift from the
// line contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Lines: make([]Line, 0, len(s.order))}
	for _, id := range s.order {
		line := s.lines[id]
		snap.Lines = append(snap.Lines, *line)
		snap.Total = snap.Total.Add(line.UnitPrice.MulInt(line.Quantity))
	}
	return snap
}
