package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"ehurt-storefront/internal/gateway"
	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/model"
)

// The MCP tool handlers share all state with the REST handlers, so these
// tests call them directly and leave transport concerns to the SDK.

func TestMCPSearchCatalog(t *testing.T) {
	f := newFixture(t)

	_, out, err := f.handler.mcpSearchCatalog(context.Background(), nil, SearchCatalogInput{Name: "flour"})
	if err != nil {
		t.Fatalf("mcpSearchCatalog: %v", err)
	}
	if len(out.Items) != 2 {
		t.Errorf("items = %+v", out.Items)
	}
	if len(out.Categories) != 2 {
		t.Errorf("categories = %v", out.Categories)
	}
}

func TestMCPToggleCartItem(t *testing.T) {
	f := newFixture(t)

	_, out, err := f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{ItemID: "1"})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !out.InCart || len(out.Cart.Lines) != 1 {
		t.Errorf("output = %+v", out)
	}

	_, out, err = f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{ItemID: "1"})
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if out.InCart || len(out.Cart.Lines) != 0 {
		t.Errorf("output after second toggle = %+v", out)
	}

	if _, _, err := f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{}); err == nil {
		t.Error("missing item_id accepted")
	}
	if _, _, err := f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{ItemID: "ghost"}); err == nil {
		t.Error("unknown item accepted")
	}
}

func TestMCPSubmitOrder(t *testing.T) {
	f := newFixture(t)
	f.gateway.SubmitOrderFunc = func(ctx context.Context, req *gateway.SubmitOrderRequest) (*model.Order, error) {
		return &model.Order{ID: "ord-42", Status: model.OrderWaiting}, nil
	}
	f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{ItemID: "1"})

	_, placed, err := f.handler.mcpSubmitOrder(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if placed.ID != "ord-42" {
		t.Errorf("order = %+v", placed)
	}
	if f.cart.Len() != 0 {
		t.Error("cart not cleared")
	}
}

func TestMCPSubmitOrderRejectionMessage(t *testing.T) {
	f := newFixture(t)
	f.gateway.SubmitOrderFunc = func(ctx context.Context, req *gateway.SubmitOrderRequest) (*model.Order, error) {
		return nil, model.NewSubmitError(model.CodeInactiveAccount)
	}

	_, _, err := f.handler.mcpSubmitOrder(context.Background(), nil, EmptyInput{})
	if err == nil {
		t.Fatal("rejection not surfaced")
	}
	// The agent sees the user-facing message, not the raw code.
	if strings.Contains(err.Error(), model.CodeInactiveAccount) {
		t.Errorf("error leaks raw code: %v", err)
	}
}

func TestMCPOwnerRoleIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := middleware.WithAccount(context.Background(),
		middleware.Account{ID: "u-7", Role: middleware.RoleOwner})

	if _, _, err := f.handler.mcpToggleCartItem(ctx, nil, ToggleCartItemInput{ItemID: "1"}); err == nil {
		t.Error("toggle_cart_item allowed for owner")
	}
	if _, _, err := f.handler.mcpSetCartQuantity(ctx, nil, SetCartQuantityInput{ItemID: "1", Quantity: 2}); err == nil {
		t.Error("set_cart_quantity allowed for owner")
	}
	if _, _, err := f.handler.mcpSubmitOrder(ctx, nil, EmptyInput{}); err == nil {
		t.Error("submit_order allowed for owner")
	}
	if _, _, err := f.handler.mcpCloneOrder(ctx, nil, CloneOrderInput{OrderID: "ord-1"}); err == nil {
		t.Error("clone_order allowed for owner")
	}
	if f.cart.Len() != 0 {
		t.Errorf("cart has %d line(s), want 0", f.cart.Len())
	}

	// Reads stay open to owners.
	if _, _, err := f.handler.mcpGetCart(ctx, nil, EmptyInput{}); err != nil {
		t.Errorf("get_cart as owner: %v", err)
	}
	if _, _, err := f.handler.mcpSearchCatalog(ctx, nil, SearchCatalogInput{}); err != nil {
		t.Errorf("search_catalog as owner: %v", err)
	}
}

func TestMCPToggleRemovesLineGoneFromCatalog(t *testing.T) {
	f := newFixture(t)
	f.cart.SetQuantity("discontinued", 1, price(t, "7.00"))

	_, out, err := f.handler.mcpToggleCartItem(context.Background(), nil, ToggleCartItemInput{ItemID: "discontinued"})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if out.InCart || f.cart.Len() != 0 {
		t.Errorf("stale line not removed: %+v", out)
	}
}

func TestMCPCloneOrder(t *testing.T) {
	f := newFixture(t)

	_, snap, err := f.handler.mcpCloneOrder(context.Background(), nil, CloneOrderInput{OrderID: "ord-1"})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if len(snap.Lines) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, _, err := f.handler.mcpCloneOrder(context.Background(), nil, CloneOrderInput{OrderID: "missing"}); err == nil {
		t.Error("missing order accepted")
	}
}

func TestMCPHandlerMounts(t *testing.T) {
	f := newFixture(t)
	var h http.Handler = f.handler.NewMCPHandler()
	if h == nil {
		t.Fatal("nil MCP handler")
	}
}
