package handler

import (
	"context"
	"errors"
	"net/http"

	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/model"
	"ehurt-storefront/internal/order"
)

// requireClient enforces the role policy on mutating endpoints: owners
// get a read-only view, clients may change cart and order state. Requests
// without an account header pass; single-account deployments do not send
// one.
func (h *Handler) requireClient(w http.ResponseWriter, r *http.Request) bool {
	account, ok := middleware.AccountFrom(r.Context())
	if ok && !account.CanMutateCart() {
		h.writeError(w, model.NewForbiddenError("owner role is read-only"))
		return false
	}
	return true
}

// === Catalog ===

// handleCatalog returns the catalog filtered by the optional name= and
// category= query parameters. Filters compose.
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	items := h.catalog.Filter(r.URL.Query().Get("name"), r.URL.Query().Get("category"))

	h.writeJSON(w, http.StatusOK, catalogResponse{
		Items:      items,
		Categories: snap.Categories,
	})
}

// handleCatalogGroups returns the catalog as display sections: category
// order follows the server's category list, stragglers sort last.
func (h *Handler) handleCatalogGroups(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.Groups())
}

// handleFavorites derives the frequently-ordered section from order
// history and the current catalog.
func (h *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Favorites(h.history.Frequency(), h.favoritesLimit)
	h.writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

// handlePromotions returns the weekly bonus items.
func (h *Handler) handlePromotions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, itemsResponse{Items: h.catalog.Bonus()})
}

func (h *Handler) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === Cart ===

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

// handleCartToggle adds the item if absent, removes it if present.
func (h *Handler) handleCartToggle(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}

	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ItemID == "" {
		h.writeError(w, model.NewValidationError("item_id", "must not be empty"))
		return
	}

	// A line already in the cart toggles off without a catalog lookup, so
	// an item that vanished from the snapshot can still be removed.
	if h.cart.Contains(req.ItemID) {
		inCart := h.cart.AddOrRemove(model.CatalogItem{ID: req.ItemID})
		h.writeJSON(w, http.StatusOK, toggleResponse{InCart: inCart, Cart: h.cart.Snapshot()})
		return
	}

	item, ok := h.catalog.Snapshot().Item(req.ItemID)
	if !ok {
		h.writeError(w, model.NewNotFoundError("item"))
		return
	}
	if !item.Buyable() {
		h.writeError(w, model.NewValidationError("item_id", "item is not purchasable"))
		return
	}

	inCart := h.cart.AddOrRemove(item)
	h.writeJSON(w, http.StatusOK, toggleResponse{InCart: inCart, Cart: h.cart.Snapshot()})
}

// handleCartSetQuantity upserts a line. An existing line keeps its
// add-time price; a new one snapshots the current catalog price.
func (h *Handler) handleCartSetQuantity(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}

	itemID := r.PathValue("id")
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	price, ok := h.linePrice(itemID)
	if !ok {
		h.writeError(w, model.NewNotFoundError("item"))
		return
	}

	h.cart.SetQuantity(itemID, req.Quantity, price)
	h.writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

// linePrice resolves the unit price for an upsert: the existing line's
// snapshotted price when present, otherwise the current catalog price.
func (h *Handler) linePrice(itemID string) (model.Money, bool) {
	for _, line := range h.cart.Snapshot().Lines {
		if line.ItemID == itemID {
			return line.UnitPrice, true
		}
	}
	item, ok := h.catalog.Snapshot().Item(itemID)
	if !ok || !item.Buyable() {
		return 0, false
	}
	return item.Price, true
}

func (h *Handler) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}
	h.cart.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// === Orders ===

// handleSubmitOrder runs the submission pipeline. A submission already in
// flight answers 409 without touching the server; a rejection answers 422
// with the structured failure payload.
func (h *Handler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}

	placed, err := h.pipeline.Submit(r.Context())
	if err != nil {
		if errors.Is(err, order.ErrSubmitInFlight) {
			h.writeError(w, &model.APIError{
				Code:       "SUBMIT_IN_FLIGHT",
				Message:    "an order submission is already in progress",
				StatusCode: http.StatusConflict,
			})
			return
		}
		var submitErr *model.SubmitError
		if errors.As(err, &submitErr) {
			h.writeSubmitError(w, submitErr)
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, placed)
}

func (h *Handler) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.pipeline.Status())
}

func (h *Handler) handleOrderAck(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}
	h.pipeline.Acknowledge()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ordersResponse{Orders: h.history.Orders()})
}

func (h *Handler) handleOrdersRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetOrder serves from the local projection and falls back to the
// platform for orders older than the projection window.
func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if o, ok := h.history.Get(orderID); ok {
		h.writeJSON(w, http.StatusOK, o)
		return
	}

	o, err := h.gateway.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// handleCloneOrder re-adds every line of a past order to the cart at the
// prices recorded on that order.
func (h *Handler) handleCloneOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}

	if err := h.cloneOrder(r.Context(), r.PathValue("id")); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			h.writeError(w, apiErr)
			return
		}
		h.writeError(w, model.NewValidationError("order", err.Error()))
		return
	}

	h.writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

// cloneOrder resolves the order locally first and falls back to the
// platform for orders older than the projection window. On any failure
// the cart is untouched.
func (h *Handler) cloneOrder(ctx context.Context, orderID string) error {
	if o, ok := h.history.Get(orderID); ok {
		return order.Clone(o, h.cart)
	}

	o, err := h.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return order.Clone(*o, h.cart)
}

// === Payments ===

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, paymentsResponse{Payments: h.payments.Payments()})
}

func (h *Handler) handlePaymentsSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.payments.Summarize())
}

func (h *Handler) handlePaymentsRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("id")
	if p, ok := h.payments.Get(paymentID); ok {
		h.writeJSON(w, http.StatusOK, p)
		return
	}

	p, err := h.gateway.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// === Account ===

func (h *Handler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if !h.requireClient(w, r) {
		return
	}

	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ID == "" || req.Password == "" {
		h.writeError(w, model.NewValidationError("body", "id and password are required"))
		return
	}

	if err := h.gateway.UpdatePassword(r.Context(), req.ID, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// === Request/Response Types ===

type catalogResponse struct {
	Items      []model.CatalogItem `json:"items"`
	Categories []string            `json:"categories"`
}

type itemsResponse struct {
	Items []model.CatalogItem `json:"items"`
}

type toggleRequest struct {
	ItemID string `json:"item_id"`
}

type toggleResponse struct {
	InCart bool        `json:"in_cart"`
	Cart   interface{} `json:"cart"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
}

type paymentsResponse struct {
	Payments []model.Payment `json:"payments"`
}

type passwordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}
