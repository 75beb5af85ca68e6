// Package ehurt implements the gateway against the wholesale platform's
// HTTP API.
package ehurt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"ehurt-storefront/internal/gateway"
	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/model"
	"ehurt-storefront/internal/transport"
)

// userAgent identifies this client to the platform.
// Required: the platform CDN rate-limits requests without a User-Agent.
const userAgent = "EhurtStorefront/1.0"

// versionHeader carries the platform's API version on every response.
// Responses below the configured minimum are refused rather than
// misinterpreted.
const versionHeader = "Ehurt-Api-Version"

// Config holds the platform connection settings.
type Config struct {
	// BaseURL is the platform origin, e.g. https://api.ehurt.example.
	BaseURL string
	// Credential is the service bearer token, used when a request context
	// carries no caller credential of its own.
	Credential string
	// MinAPIVersion is the lowest server API version this client accepts,
	// e.g. "2.4.0". Empty disables the gate.
	MinAPIVersion string
	// Timeout bounds each request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client talks to the wholesale platform. It is safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	credential    string
	minAPIVersion string
}

var _ gateway.Gateway = (*Client)(nil)

// New creates a platform client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Credential == "" {
		return nil, fmt.Errorf("service credential is required")
	}
	if cfg.MinAPIVersion != "" && !semver.IsValid(normalizeVersion(cfg.MinAPIVersion)) {
		return nil, fmt.Errorf("invalid minimum API version %q", cfg.MinAPIVersion)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Chrome TLS fingerprint transport: the platform CDN throttles Go's
	// native fingerprint. See internal/transport.
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewChromeTransport(timeout),
		},
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		credential:    cfg.Credential,
		minAPIVersion: cfg.MinAPIVersion,
	}, nil
}

// FetchCatalog returns the sellable items and the category list.
func (c *Client) FetchCatalog(ctx context.Context) ([]model.CatalogItem, []string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/catalog", nil)
	if err != nil {
		return nil, nil, err
	}

	var wire wireCatalogResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, nil, model.NewUpstreamError("ehurt", fmt.Errorf("parsing catalog: %w", err))
	}
	items, categories, err := catalogFromWire(wire)
	if err != nil {
		return nil, nil, model.NewUpstreamError("ehurt", err)
	}
	return items, categories, nil
}

// SubmitOrder places an order. Failures are always *model.SubmitError:
// structured rejections carry the server's code and detail, transport and
// malformed responses collapse into the generic class.
func (c *Client) SubmitOrder(ctx context.Context, req *gateway.SubmitOrderRequest) (*model.Order, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, model.NewTransportSubmitError(fmt.Errorf("marshaling order: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, model.NewTransportSubmitError(err)
	}
	c.setHeaders(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, model.NewTransportSubmitError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportSubmitError(fmt.Errorf("reading response: %w", err))
	}

	if err := c.checkVersion(resp); err != nil {
		return nil, model.NewTransportSubmitError(err)
	}

	if resp.StatusCode >= 400 {
		submitErr, parseErr := submitErrorFromWire(decodeWireError(body))
		if parseErr != nil {
			return nil, model.NewTransportSubmitError(
				fmt.Errorf("status %d: %w", resp.StatusCode, parseErr))
		}
		return nil, submitErr
	}

	var wire wireOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, model.NewTransportSubmitError(fmt.Errorf("parsing order: %w", err))
	}
	placed, err := orderFromWire(wire)
	if err != nil {
		return nil, model.NewTransportSubmitError(err)
	}
	return &placed, nil
}

// GetOrder returns one previously placed order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}

	var wire wireOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, model.NewUpstreamError("ehurt", fmt.Errorf("parsing order: %w", err))
	}
	order, err := orderFromWire(wire)
	if err != nil {
		return nil, model.NewUpstreamError("ehurt", err)
	}
	return &order, nil
}

// ListOrders returns the caller's order history in server order.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return nil, err
	}

	var wire wireOrderList
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, model.NewUpstreamError("ehurt", fmt.Errorf("parsing orders: %w", err))
	}

	orders := make([]model.Order, 0, len(wire.Orders))
	for _, wo := range wire.Orders {
		order, err := orderFromWire(wo)
		if err != nil {
			return nil, model.NewUpstreamError("ehurt", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ListPayments returns the caller's financial documents.
func (c *Client) ListPayments(ctx context.Context) ([]model.Payment, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/payments", nil)
	if err != nil {
		return nil, err
	}

	var wire wirePaymentList
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, model.NewUpstreamError("ehurt", fmt.Errorf("parsing payments: %w", err))
	}

	payments := make([]model.Payment, 0, len(wire.Payments))
	for _, wp := range wire.Payments {
		payment, err := paymentFromWire(wp)
		if err != nil {
			return nil, model.NewUpstreamError("ehurt", err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// GetPayment returns one financial document.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	var wire wirePayment
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, model.NewUpstreamError("ehurt", fmt.Errorf("parsing payment: %w", err))
	}
	payment, err := paymentFromWire(wire)
	if err != nil {
		return nil, model.NewUpstreamError("ehurt", err)
	}
	return &payment, nil
}

// UpdatePassword changes the stored secret for an account.
func (c *Client) UpdatePassword(ctx context.Context, accountID, password string) error {
	if password == "" {
		return model.NewValidationError("password", "must not be empty")
	}
	_, err := c.do(ctx, http.MethodPatch, "/api/auth", wirePasswordUpdate{
		ID:       accountID,
		Password: password,
	})
	return err
}

// do executes one request and returns the response body, mapping error
// statuses to *model.APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewUpstreamError("ehurt", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if err := c.checkVersion(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, c.parseErrorResponse(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// setHeaders sets the common request headers. The caller credential from
// the request context wins over the configured service credential.
func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	credential := c.credential
	if caller, ok := middleware.CredentialFrom(ctx); ok {
		credential = caller
	}
	req.Header.Set("Authorization", "Bearer "+credential)
}

// checkVersion enforces the minimum server API version. A response
// without the header passes; older deployments predate it.
func (c *Client) checkVersion(resp *http.Response) error {
	if c.minAPIVersion == "" {
		return nil
	}
	got := resp.Header.Get(versionHeader)
	if got == "" {
		return nil
	}
	if !semver.IsValid(normalizeVersion(got)) {
		return model.NewUpstreamError("ehurt",
			fmt.Errorf("unparseable %s header %q", versionHeader, got))
	}
	if semver.Compare(normalizeVersion(got), normalizeVersion(c.minAPIVersion)) < 0 {
		return model.NewUpstreamError("ehurt",
			fmt.Errorf("server API version %s is below supported minimum %s", got, c.minAPIVersion))
	}
	return nil
}

// normalizeVersion adds the v prefix semver requires; the platform sends
// bare versions like "2.4.0".
func normalizeVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// parseErrorResponse converts a platform error to an APIError.
func (c *Client) parseErrorResponse(statusCode int, body []byte) error {
	we := decodeWireError(body)

	switch statusCode {
	case 404:
		return model.NewNotFoundError("resource")
	case 401, 403:
		reason := we.Error.Message
		if reason == "" {
			reason = "ehurt authentication failed"
		}
		return model.NewUnauthorizedError(reason)
	case 400:
		msg := we.Error.Message
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	case 429:
		return model.NewRateLimitError("ehurt")
	default:
		return model.NewUpstreamError("ehurt",
			fmt.Errorf("status %d: %s - %s", statusCode, we.Error.Code, we.Error.Message))
	}
}
