// Package gateway defines the abstract server boundary of the storefront.
// The wholesale backend owns the catalog, orders, and payment documents;
// the client holds derived, eventually-consistent views over it.
package gateway

import (
	"context"

	"ehurt-storefront/internal/model"
)

// Gateway abstracts the wholesale server API. The production
// implementation lives in internal/ehurt; Mock serves tests.
//
// Every method attaches the caller's credential (from the request context
// or the configured service account) and returns classified errors:
// SubmitOrder failures are always *model.SubmitError, everything else
// *model.APIError.
type Gateway interface {
	// FetchCatalog returns the full list of sellable items plus the
	// category list, in server order.
	FetchCatalog(ctx context.Context) ([]model.CatalogItem, []string, error)

	// SubmitOrder places an order built from a captured cart snapshot.
	// On rejection the error is a *model.SubmitError carrying one of the
	// four structured classes (or the generic unrecognized class).
	SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*model.Order, error)

	// GetOrder returns one previously placed order, for history and clone.
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)

	// ListOrders returns the caller's order history, newest first.
	ListOrders(ctx context.Context) ([]model.Order, error)

	// ListPayments returns the caller's financial documents.
	ListPayments(ctx context.Context) ([]model.Payment, error)

	// GetPayment returns a single financial document.
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)

	// UpdatePassword changes the stored secret for an account.
	// Returns a coded *model.APIError on authentication failure.
	UpdatePassword(ctx context.Context, accountID, password string) error
}

// SubmitLine is one cart line as serialized for submission: the price is
// the price-at-add-time snapshot, which is what lets the server detect a
// mismatch against its current catalog.
type SubmitLine struct {
	ItemID    string      `json:"id"`
	Quantity  int         `json:"quantity"`
	UnitPrice model.Money `json:"price"`
}

// SubmitOrderRequest is the payload captured from the cart at submit time.
// It is never re-read from the live cart once submission starts.
type SubmitOrderRequest struct {
	Lines []SubmitLine `json:"items"`
}
