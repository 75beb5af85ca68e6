// MCP transport handler using the official MCP Go SDK.
// Exposes the storefront operations as MCP tools so an agent can browse
// the catalog, manage the cart, and place orders over JSON-RPC.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/model"
	"ehurt-storefront/internal/order"
)

// === MCP Tool Input/Output Types ===

// SearchCatalogInput is the input schema for the search_catalog tool.
type SearchCatalogInput struct {
	Name     string `json:"name,omitempty" jsonschema:"case-insensitive name substring"`
	Category string `json:"category,omitempty" jsonschema:"exact category name"`
}

// SearchCatalogOutput lists the matching items plus the category list.
type SearchCatalogOutput struct {
	Items      []model.CatalogItem `json:"items"`
	Categories []string            `json:"categories"`
}

// EmptyInput is the input schema for tools that take no arguments.
type EmptyInput struct{}

// StatusOutput reports a bare operation outcome.
type StatusOutput struct {
	Status string `json:"status"`
}

// ToggleCartItemInput is the input schema for the toggle_cart_item tool.
type ToggleCartItemInput struct {
	ItemID string `json:"item_id" jsonschema:"catalog item ID,required"`
}

// ToggleCartItemOutput reports the post-toggle membership and cart.
type ToggleCartItemOutput struct {
	InCart bool          `json:"in_cart"`
	Cart   cart.Snapshot `json:"cart"`
}

// SetCartQuantityInput is the input schema for the set_cart_quantity tool.
type SetCartQuantityInput struct {
	ItemID   string `json:"item_id" jsonschema:"catalog item ID,required"`
	Quantity int    `json:"quantity" jsonschema:"desired quantity; zero or less removes the line,required"`
}

// CloneOrderInput is the input schema for the clone_order tool.
type CloneOrderInput struct {
	OrderID string `json:"order_id" jsonschema:"past order to copy into the cart,required"`
}

// FavoritesOutput lists the frequently-ordered items, ranked.
type FavoritesOutput struct {
	Items []model.CatalogItem `json:"items"`
}

// NewMCPServer creates an MCP server with the storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ehurt-storefront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Wholesale storefront operations. Use these tools to browse the " +
				"catalog, manage the cart, and place orders against the wholesale account.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_catalog",
		Description: "Search the catalog by name substring and/or exact category. Empty filters return everything.",
	}, h.mcpSearchCatalog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh_catalog",
		Description: "Re-fetch the catalog from the wholesale platform.",
	}, h.mcpRefreshCatalog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_favorites",
		Description: "List the most frequently ordered items still available in the catalog.",
	}, h.mcpListFavorites)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Get the current cart lines and total.",
	}, h.mcpGetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_cart_item",
		Description: "Add an item to the cart if absent, remove it if present.",
	}, h.mcpToggleCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_cart_quantity",
		Description: "Set the quantity of a cart line. Zero or negative removes the line.",
	}, h.mcpSetCartQuantity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_order",
		Description: "Submit the current cart as an order. The cart is cleared only on success.",
	}, h.mcpSubmitOrder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clone_order",
		Description: "Copy every line of a past order into the cart at the prices recorded on that order.",
	}, h.mcpCloneOrder)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

// mcpRequireClient applies the same role policy as the mutating REST
// routes: owners get a read-only view. The identity middleware wraps the
// /mcp mount, so the account travels on the tool context.
func mcpRequireClient(ctx context.Context) error {
	if account, ok := middleware.AccountFrom(ctx); ok && !account.CanMutateCart() {
		return fmt.Errorf("owner role is read-only")
	}
	return nil
}

func (h *Handler) mcpSearchCatalog(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchCatalogInput,
) (*mcp.CallToolResult, SearchCatalogOutput, error) {
	return nil, SearchCatalogOutput{
		Items:      h.catalog.Filter(input.Name, input.Category),
		Categories: h.catalog.Snapshot().Categories,
	}, nil
}

func (h *Handler) mcpRefreshCatalog(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if err := h.catalog.Refresh(ctx); err != nil {
		return nil, StatusOutput{}, h.mcpError(err)
	}
	return nil, StatusOutput{Status: "refreshed"}, nil
}

func (h *Handler) mcpListFavorites(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, FavoritesOutput, error) {
	items := h.catalog.Favorites(h.history.Frequency(), h.favoritesLimit)
	return nil, FavoritesOutput{Items: items}, nil
}

func (h *Handler) mcpGetCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, cart.Snapshot, error) {
	return nil, h.cart.Snapshot(), nil
}

func (h *Handler) mcpToggleCartItem(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ToggleCartItemInput,
) (*mcp.CallToolResult, ToggleCartItemOutput, error) {
	if err := mcpRequireClient(ctx); err != nil {
		return nil, ToggleCartItemOutput{}, err
	}
	if input.ItemID == "" {
		return nil, ToggleCartItemOutput{}, fmt.Errorf("item_id is required")
	}

	// Present lines toggle off without a catalog lookup, matching the
	// REST route.
	if h.cart.Contains(input.ItemID) {
		inCart := h.cart.AddOrRemove(model.CatalogItem{ID: input.ItemID})
		return nil, ToggleCartItemOutput{InCart: inCart, Cart: h.cart.Snapshot()}, nil
	}

	item, ok := h.catalog.Snapshot().Item(input.ItemID)
	if !ok {
		return nil, ToggleCartItemOutput{}, fmt.Errorf("item %s not found in catalog", input.ItemID)
	}

	inCart := h.cart.AddOrRemove(item)
	return nil, ToggleCartItemOutput{InCart: inCart, Cart: h.cart.Snapshot()}, nil
}

func (h *Handler) mcpSetCartQuantity(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SetCartQuantityInput,
) (*mcp.CallToolResult, cart.Snapshot, error) {
	if err := mcpRequireClient(ctx); err != nil {
		return nil, cart.Snapshot{}, err
	}
	if input.ItemID == "" {
		return nil, cart.Snapshot{}, fmt.Errorf("item_id is required")
	}

	price, ok := h.linePrice(input.ItemID)
	if !ok {
		return nil, cart.Snapshot{}, fmt.Errorf("item %s not found in catalog", input.ItemID)
	}

	h.cart.SetQuantity(input.ItemID, input.Quantity, price)
	return nil, h.cart.Snapshot(), nil
}

func (h *Handler) mcpSubmitOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *model.Order, error) {
	if err := mcpRequireClient(ctx); err != nil {
		return nil, nil, err
	}

	placed, err := h.pipeline.Submit(ctx)
	if err != nil {
		if errors.Is(err, order.ErrSubmitInFlight) {
			return nil, nil, fmt.Errorf("an order submission is already in progress")
		}
		var submitErr *model.SubmitError
		if errors.As(err, &submitErr) {
			return nil, nil, fmt.Errorf("%s", submitErr.Message())
		}
		return nil, nil, h.mcpError(err)
	}
	return nil, placed, nil
}

func (h *Handler) mcpCloneOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CloneOrderInput,
) (*mcp.CallToolResult, cart.Snapshot, error) {
	if err := mcpRequireClient(ctx); err != nil {
		return nil, cart.Snapshot{}, err
	}
	if input.OrderID == "" {
		return nil, cart.Snapshot{}, fmt.Errorf("order_id is required")
	}
	if err := h.cloneOrder(ctx, input.OrderID); err != nil {
		return nil, cart.Snapshot{}, h.mcpError(err)
	}
	return nil, h.cart.Snapshot(), nil
}

// mcpError converts internal errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
