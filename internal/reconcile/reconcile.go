// Package reconcile compares cart lines against the current catalog
// snapshot. The server is authoritative about rejections; this diff runs
// locally after a rejection to name the offending products and price
// deltas when the server response omits them.
package reconcile

import (
	"sort"

	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/catalog"
	"ehurt-storefront/internal/model"
)

// Report lists the discrepancies between a set of cart lines and a
// catalog snapshot.
type Report struct {
	// Unknown holds IDs of cart lines with no catalog entry, sorted.
	Unknown []string
	// PriceChanges holds lines whose add-time price no longer matches the
	// catalog, in cart order.
	PriceChanges []model.PriceChange
}

// IsClean reports whether every line matched the snapshot exactly.
func (r *Report) IsClean() bool {
	return len(r.Unknown) == 0 && len(r.PriceChanges) == 0
}

// CheckLines diffs cart lines against the snapshot.
//
// A line matches when its item exists in the snapshot and its add-time
// unit price equals the snapshot price. Anything else lands in the
// report: missing items as Unknown, price drift as PriceChanges carrying
// both the old (cart) and new (catalog) price.
func CheckLines(lines []cart.Line, snap *catalog.Snapshot) *Report {
	report := &Report{}

	for _, line := range lines {
		item, ok := snap.Item(line.ItemID)
		if !ok {
			report.Unknown = append(report.Unknown, line.ItemID)
			continue
		}
		if item.Price != line.UnitPrice {
			report.PriceChanges = append(report.PriceChanges, model.PriceChange{
				ItemID:   line.ItemID,
				OldPrice: line.UnitPrice,
				NewPrice: item.Price,
			})
		}
	}

	sort.Strings(report.Unknown)
	return report
}
