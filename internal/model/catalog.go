// Package model defines the domain records shared across the storefront:
// catalog items, cart-facing money amounts, orders, payment documents, and
// the structured error taxonomy of the wholesale server boundary.
package model

// WarehouseStatus is the supplier-reported availability of an item.
type WarehouseStatus string

const (
	WarehouseInStock WarehouseStatus = "IN_STOCK"
	WarehouseLow     WarehouseStatus = "LOW"
	WarehouseOut     WarehouseStatus = "OUT"
)

// CatalogItem is one sellable product in a catalog snapshot.
// The ID is unique within a snapshot and stable across refreshes.
type CatalogItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           Money           `json:"price"`
	Unit            string          `json:"unit"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	WarehouseStatus WarehouseStatus `json:"warehouse_status,omitempty"`
	Points          int             `json:"points,omitempty"`
	Bonus           bool            `json:"bonus,omitempty"`
}

// HasPoints reports whether the item awards loyalty points.
// Derived from Points, never stored separately.
func (i CatalogItem) HasPoints() bool { return i.Points > 0 }

// HasBonus reports whether the item is part of the weekly bonus promotion.
func (i CatalogItem) HasBonus() bool { return i.Bonus }

// HasWarehouseStatus reports whether the supplier provided availability.
func (i CatalogItem) HasWarehouseStatus() bool { return i.WarehouseStatus != "" }

// Buyable reports whether the item can be added to a cart.
// Zero-priced entries are presentation-only (samples, announcements).
func (i CatalogItem) Buyable() bool { return !i.Price.IsZero() }
