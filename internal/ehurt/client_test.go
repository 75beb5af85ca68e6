package ehurt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ehurt-storefront/internal/gateway"
	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/model"
)

// newTestClient builds a client pointed at the test server, swapping out
// the fingerprint transport for the server's plain one.
func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL
	if cfg.Credential == "" {
		cfg.Credential = "svc-token"
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.httpClient = srv.Client()
	return c
}

func money(t *testing.T, s string) model.Money {
	t.Helper()
	m, err := model.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/catalog" || r.Method != http.MethodGet {
			t.Errorf("%s %s, want GET /api/catalog", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id": "1", "name": "Wheat Flour", "price": "4.50",
					"unit": "kg", "category": "Baking",
					"warehouse_status": "IN_STOCK", "points": 3, "has_bonus": true,
				},
				{"id": "2", "name": "Withdrawn", "price": "0.00"},
			},
			"categories": []string{"Baking"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	items, categories, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}

	if len(items) != 2 || len(categories) != 1 {
		t.Fatalf("got %d items, %d categories", len(items), len(categories))
	}
	first := items[0]
	if first.Price != money(t, "4.50") || !first.Bonus || first.Points != 3 {
		t.Errorf("item = %+v", first)
	}
	if first.WarehouseStatus != model.WarehouseInStock {
		t.Errorf("WarehouseStatus = %s", first.WarehouseStatus)
	}
	// The zero-price sentinel survives as an unbuyable item, not an error.
	if items[1].Buyable() {
		t.Error("zero-priced item reported buyable")
	}
}

func TestCallerCredentialOverridesService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer caller-token" {
			t.Errorf("Authorization = %q, want caller token", got)
		}
		json.NewEncoder(w).Encode(wireCatalogResponse{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	ctx := middleware.WithCredential(context.Background(), "caller-token")
	if _, _, err := c.FetchCatalog(ctx); err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
}

func TestSubmitOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders" || r.Method != http.MethodPost {
			t.Errorf("%s %s, want POST /api/orders", r.Method, r.URL.Path)
		}
		var req struct {
			Items []struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
				Price    string `json:"price"`
			} `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].Price != "4.50" {
			t.Errorf("request items = %+v", req.Items)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "ord-9", "status": "WAITING", "issue_date": "2026-03-01",
			"items": []map[string]any{
				{"id": "1", "name": "Wheat Flour", "quantity": 2, "price": "4.50"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	placed, err := c.SubmitOrder(context.Background(), &gateway.SubmitOrderRequest{
		Lines: []gateway.SubmitLine{{ItemID: "1", Quantity: 2, UnitPrice: money(t, "4.50")}},
	})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if placed.ID != "ord-9" || placed.Status != model.OrderWaiting {
		t.Errorf("order = %+v", placed)
	}
	if placed.Total() != money(t, "9.00") {
		t.Errorf("Total = %v, want 9.00", placed.Total())
	}
}

func TestSubmitOrderStructuredRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    "ORD4",
				"message": "price mismatch",
				"prices": []map[string]any{
					{"id": "1", "old": "4.00", "new": "4.50"},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	_, err := c.SubmitOrder(context.Background(), &gateway.SubmitOrderRequest{})

	var submitErr *model.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("error = %v, want *model.SubmitError", err)
	}
	if submitErr.Class != model.RejectPriceMismatch || submitErr.Code != model.CodePriceMismatch {
		t.Errorf("Class = %s, Code = %s", submitErr.Class, submitErr.Code)
	}
	if len(submitErr.PriceChanges) != 1 {
		t.Fatalf("PriceChanges = %+v", submitErr.PriceChanges)
	}
	change := submitErr.PriceChanges[0]
	if change.OldPrice != money(t, "4.00") || change.NewPrice != money(t, "4.50") {
		t.Errorf("change = %+v", change)
	}
}

func TestSubmitOrderMalformedRejectionIsUnrecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	_, err := c.SubmitOrder(context.Background(), &gateway.SubmitOrderRequest{})

	var submitErr *model.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("error = %v, want *model.SubmitError", err)
	}
	if submitErr.Class != model.RejectUnrecognized {
		t.Errorf("Class = %s, want unrecognized", submitErr.Class)
	}
}

func TestSubmitOrderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, Config{})
	srv.Close() // connection refused from here on

	_, err := c.SubmitOrder(context.Background(), &gateway.SubmitOrderRequest{})
	var submitErr *model.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("error = %v, want *model.SubmitError", err)
	}
	if submitErr.Class != model.RejectUnrecognized {
		t.Errorf("Class = %s, want unrecognized", submitErr.Class)
	}
}

func TestVersionGate(t *testing.T) {
	version := "2.4.0"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if version != "" {
			w.Header().Set(versionHeader, version)
		}
		json.NewEncoder(w).Encode(wireCatalogResponse{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MinAPIVersion: "2.4.0"})

	if _, _, err := c.FetchCatalog(context.Background()); err != nil {
		t.Errorf("version at minimum rejected: %v", err)
	}

	version = "3.0.1"
	if _, _, err := c.FetchCatalog(context.Background()); err != nil {
		t.Errorf("newer version rejected: %v", err)
	}

	version = "2.3.9"
	if _, _, err := c.FetchCatalog(context.Background()); err == nil {
		t.Error("version below minimum accepted")
	}

	// Older deployments predate the header entirely.
	version = ""
	if _, _, err := c.FetchCatalog(context.Background()); err != nil {
		t.Errorf("missing version header rejected: %v", err)
	}
}

func TestListOrdersAndPayments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders":
			json.NewEncoder(w).Encode(map[string]any{
				"orders": []map[string]any{
					{"id": "ord-2", "status": "DELIVERED", "issue_date": "2026-02-20"},
					{"id": "ord-1", "status": "COMPLETED", "issue_date": "2026-02-01"},
				},
			})
		case "/api/payments":
			json.NewEncoder(w).Encode(map[string]any{
				"payments": []map[string]any{
					{
						"id": "inv-1", "type": "Invoice", "receiver_id": "u-1022",
						"issue_date": "2026-02-01", "payment_term": "2026-02-15",
						"currency": "PLN", "value": "120.00", "paid_value": "20.00",
						"remaining": "100.00",
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})

	orders, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "ord-2" {
		t.Errorf("orders = %+v", orders)
	}

	payments, err := c.ListPayments(context.Background())
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %+v", payments)
	}
	p := payments[0]
	if p.Remaining != money(t, "100.00") || p.Currency != "PLN" {
		t.Errorf("payment = %+v", p)
	}
	if p.PaymentTerm.Format("2006-01-02") != "2026-02-15" {
		t.Errorf("PaymentTerm = %v", p.PaymentTerm)
	}
}

func TestUpdatePassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/auth" {
			t.Errorf("%s %s, want PATCH /api/auth", r.Method, r.URL.Path)
		}
		var req wirePasswordUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.ID != "u-1022" || req.Password != "s3cret" {
			t.Errorf("request = %+v", req)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	if err := c.UpdatePassword(context.Background(), "u-1022", "s3cret"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	if err := c.UpdatePassword(context.Background(), "u-1022", ""); err == nil {
		t.Error("empty password accepted")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})

	if _, err := c.GetOrder(context.Background(), "ord-1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("404 error = %v, want not-found", err)
	}

	status = http.StatusTooManyRequests
	if _, err := c.GetOrder(context.Background(), "ord-1"); !errors.Is(err, model.ErrRateLimited) {
		t.Errorf("429 error = %v, want rate-limited", err)
	}

	status = http.StatusUnauthorized
	if _, err := c.GetOrder(context.Background(), "ord-1"); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("401 error = %v, want unauthorized", err)
	}
}
