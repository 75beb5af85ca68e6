package order

import (
	"fmt"

	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/model"
)

// Clone copies every line of a past order into the cart at the prices
// recorded on that order, not today's catalog prices. The server detects
// any drift at submission time and answers with its structured rejection.
//
// The copy is all or nothing: the cart is only touched after the whole
// order has been validated. Lines already in the cart are overwritten with
// the cloned quantity and price.
func Clone(o model.Order, dst *cart.Store) error {
	if len(o.Items) == 0 {
		return fmt.Errorf("order %s has no items to clone", o.ID)
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("order %s: item %s has non-positive quantity %d", o.ID, item.ItemID, item.Quantity)
		}
	}

	for _, item := range o.Items {
		dst.SetQuantity(item.ItemID, item.Quantity, item.UnitPrice)
	}
	return nil
}

// CloneByID resolves an order in the history projection and clones it.
func CloneByID(h *History, orderID string, dst *cart.Store) error {
	o, ok := h.Get(orderID)
	if !ok {
		return model.NewNotFoundError("order")
	}
	return Clone(o, dst)
}
