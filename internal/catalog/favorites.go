package catalog

import (
	"sort"

	"ehurt-storefront/internal/model"
)

// DefaultFavoritesLimit bounds the "frequently ordered" section.
const DefaultFavoritesLimit = 15

// RankFavorites derives the "frequently ordered" view from an
// order-history frequency table and the current catalog snapshot.
//
// Items absent from the snapshot are dropped silently: they cannot be
// re-ordered. Remaining items sort by descending frequency with ties
// broken by ascending item ID, so repeated calls over the same inputs
// return an identical sequence. The result is truncated to limit
// (DefaultFavoritesLimit when limit <= 0).
func RankFavorites(frequency map[string]int, snap *Snapshot, limit int) []model.CatalogItem {
	if limit <= 0 {
		limit = DefaultFavoritesLimit
	}

	type ranked struct {
		item  model.CatalogItem
		count int
	}

	entries := make([]ranked, 0, len(frequency))
	for id, count := range frequency {
		if count <= 0 {
			continue
		}
		item, ok := snap.Item(id)
		if !ok {
			continue
		}
		entries = append(entries, ranked{item: item, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].item.ID < entries[j].item.ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]model.CatalogItem, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items
}
