package gateway

import (
	"context"

	"ehurt-storefront/internal/model"
)

// Mock implements Gateway for testing.
// Each method can be configured via function fields.
type Mock struct {
	FetchCatalogFunc   func(ctx context.Context) ([]model.CatalogItem, []string, error)
	SubmitOrderFunc    func(ctx context.Context, req *SubmitOrderRequest) (*model.Order, error)
	GetOrderFunc       func(ctx context.Context, orderID string) (*model.Order, error)
	ListOrdersFunc     func(ctx context.Context) ([]model.Order, error)
	ListPaymentsFunc   func(ctx context.Context) ([]model.Payment, error)
	GetPaymentFunc     func(ctx context.Context, paymentID string) (*model.Payment, error)
	UpdatePasswordFunc func(ctx context.Context, accountID, password string) error
}

// FetchCatalog calls the configured FetchCatalogFunc or returns an empty catalog.
func (m *Mock) FetchCatalog(ctx context.Context) ([]model.CatalogItem, []string, error) {
	if m.FetchCatalogFunc != nil {
		return m.FetchCatalogFunc(ctx)
	}
	return nil, nil, nil
}

// SubmitOrder calls the configured SubmitOrderFunc or rejects as empty.
func (m *Mock) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*model.Order, error) {
	if m.SubmitOrderFunc != nil {
		return m.SubmitOrderFunc(ctx, req)
	}
	return nil, model.NewSubmitError(model.CodeEmptyOrder)
}

// GetOrder calls the configured GetOrderFunc or returns not found.
func (m *Mock) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return nil, model.NewNotFoundError("order")
}

// ListOrders calls the configured ListOrdersFunc or returns no orders.
func (m *Mock) ListOrders(ctx context.Context) ([]model.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, nil
}

// ListPayments calls the configured ListPaymentsFunc or returns no documents.
func (m *Mock) ListPayments(ctx context.Context) ([]model.Payment, error) {
	if m.ListPaymentsFunc != nil {
		return m.ListPaymentsFunc(ctx)
	}
	return nil, nil
}

// GetPayment calls the configured GetPaymentFunc or returns not found.
func (m *Mock) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	return nil, model.NewNotFoundError("payment")
}

// UpdatePassword calls the configured UpdatePasswordFunc or succeeds.
func (m *Mock) UpdatePassword(ctx context.Context, accountID, password string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, accountID, password)
	}
	return nil
}

// Verify Mock implements Gateway at compile time.
var _ Gateway = (*Mock)(nil)
