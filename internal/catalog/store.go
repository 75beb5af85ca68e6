// Package catalog holds the authoritative snapshot of sellable items and
// the pure filter/rank engine deriving views from it.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/model"
)

// Snapshot is an immutable view of the catalog at a point in time.
// Refreshes replace the whole snapshot; nothing mutates one in place, so
// readers holding a snapshot never observe a torn state.
type Snapshot struct {
	Items      []model.CatalogItem `json:"items"`
	Categories []string            `json:"categories"`

	byID map[string]model.CatalogItem
}

// NewSnapshot builds a snapshot with its lookup index. Item IDs are unique
// per the server contract; on duplicates the later entry wins.
func NewSnapshot(items []model.CatalogItem, categories []string) *Snapshot {
	byID := make(map[string]model.CatalogItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &Snapshot{Items: items, Categories: categories, byID: byID}
}

// Item looks up an item by identifier.
func (s *Snapshot) Item(id string) (model.CatalogItem, bool) {
	item, ok := s.byID[id]
	return item, ok
}

// Fetcher supplies catalog contents from the server boundary.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]model.CatalogItem, []string, error)
}

// Store owns the current catalog snapshot. Reads are lock-free; Refresh
// swaps the snapshot wholesale and announces it on the bus.
type Store struct {
	fetcher Fetcher
	bus     *bus.Bus
	snap    atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with an empty snapshot.
func NewStore(fetcher Fetcher, b *bus.Bus) *Store {
	s := &Store{fetcher: fetcher, bus: b}
	s.snap.Store(NewSnapshot(nil, nil))
	return s
}

// Snapshot returns the current catalog view.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Filter returns the current items narrowed by the optional name
// substring and category.
func (s *Store) Filter(substring, category string) []model.CatalogItem {
	return Filter(s.Snapshot().Items, substring, category)
}

// Groups returns the current catalog as category sections.
func (s *Store) Groups() []Group {
	return GroupByCategory(s.Snapshot())
}

// Favorites ranks the frequently-ordered items against the current
// snapshot.
func (s *Store) Favorites(frequency map[string]int, limit int) []model.CatalogItem {
	return RankFavorites(frequency, s.Snapshot(), limit)
}

// Bonus returns the current weekly-bonus promotion items.
func (s *Store) Bonus() []model.CatalogItem {
	return BonusItems(s.Snapshot())
}

// Refresh fetches the catalog and atomically replaces the snapshot.
// On success it publishes catalog-updated; on failure the prior snapshot
// stays in place and only the caller sees the error, so passive observers
// are never falsely notified.
func (s *Store) Refresh(ctx context.Context) error {
	items, categories, err := s.fetcher.FetchCatalog(ctx)
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}

	s.snap.Store(NewSnapshot(items, categories))
	s.bus.Publish(bus.Event{Topic: bus.TopicCatalogUpdated})
	return nil
}
