// Package handler provides HTTP handlers for the storefront API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/catalog"
	"ehurt-storefront/internal/gateway"
	"ehurt-storefront/internal/model"
	"ehurt-storefront/internal/order"
	"ehurt-storefront/internal/payments"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	catalog        *catalog.Store
	cart           *cart.Store
	pipeline       *order.Pipeline
	history        *order.History
	payments       *payments.Store
	gateway        gateway.Gateway
	logger         *slog.Logger
	favoritesLimit int
}

// Deps bundles the handler's collaborators.
type Deps struct {
	Catalog        *catalog.Store
	Cart           *cart.Store
	Pipeline       *order.Pipeline
	History        *order.History
	Payments       *payments.Store
	Gateway        gateway.Gateway
	Logger         *slog.Logger
	FavoritesLimit int
}

// New creates a Handler. A non-positive FavoritesLimit falls back to the
// catalog default.
func New(d Deps) *Handler {
	limit := d.FavoritesLimit
	if limit <= 0 {
		limit = catalog.DefaultFavoritesLimit
	}
	return &Handler{
		catalog:        d.Catalog,
		cart:           d.Cart,
		pipeline:       d.Pipeline,
		history:        d.History,
		payments:       d.Payments,
		gateway:        d.Gateway,
		logger:         d.Logger,
		favoritesLimit: limit,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog views
	mux.HandleFunc("GET /catalog", h.handleCatalog)
	mux.HandleFunc("GET /catalog/groups", h.handleCatalogGroups)
	mux.HandleFunc("GET /catalog/favorites", h.handleFavorites)
	mux.HandleFunc("GET /catalog/promotions", h.handlePromotions)
	mux.HandleFunc("POST /catalog/refresh", h.handleCatalogRefresh)

	// Cart
	mux.HandleFunc("GET /cart", h.handleCart)
	mux.HandleFunc("POST /cart/items", h.handleCartToggle)
	mux.HandleFunc("PUT /cart/items/{id}", h.handleCartSetQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", h.handleCartRemove)

	// Order submission and history
	mux.HandleFunc("POST /orders", h.handleSubmitOrder)
	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /orders/status", h.handleOrderStatus)
	mux.HandleFunc("POST /orders/status/ack", h.handleOrderAck)
	mux.HandleFunc("POST /orders/refresh", h.handleOrdersRefresh)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /orders/{id}/clone", h.handleCloneOrder)

	// Financial documents
	mux.HandleFunc("GET /payments", h.handleListPayments)
	mux.HandleFunc("GET /payments/summary", h.handlePaymentsSummary)
	mux.HandleFunc("POST /payments/refresh", h.handlePaymentsRefresh)
	mux.HandleFunc("GET /payments/{id}", h.handleGetPayment)

	// Account
	mux.HandleFunc("PATCH /auth", h.handleUpdatePassword)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// writeSubmitError sends the structured submission failure payload: one
// stable class, the user-facing message, and the per-line detail.
func (h *Handler) writeSubmitError(w http.ResponseWriter, submitErr *model.SubmitError) {
	h.writeJSON(w, http.StatusUnprocessableEntity, submitErrorResponse{
		Error: submitErrorBody{
			Class:           submitErr.Class,
			Code:            submitErr.Code,
			Message:         submitErr.Message(),
			UnknownProducts: submitErr.UnknownProducts,
			PriceChanges:    submitErr.PriceChanges,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type submitErrorResponse struct {
	Error submitErrorBody `json:"error"`
}

type submitErrorBody struct {
	Class           model.RejectionClass `json:"class"`
	Code            string               `json:"code,omitempty"`
	Message         string               `json:"message"`
	UnknownProducts []string             `json:"unknown_products,omitempty"`
	PriceChanges    []model.PriceChange  `json:"price_changes,omitempty"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
