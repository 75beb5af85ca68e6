package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUpstreamError  = errors.New("upstream error")
	ErrRateLimited    = errors.New("rate limited")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewUnauthorizedError creates a 401 error for auth failures.
func NewUnauthorizedError(reason string) *APIError {
	return &APIError{
		Code:       "UNAUTHORIZED",
		Message:    reason,
		StatusCode: 401,
		Err:        ErrUnauthorized,
	}
}

// NewForbiddenError creates a 403 error for role policy violations.
func NewForbiddenError(reason string) *APIError {
	return &APIError{
		Code:       "FORBIDDEN",
		Message:    reason,
		StatusCode: 403,
		Err:        ErrUnauthorized,
	}
}

// NewUpstreamError creates a 502 error for wholesale server failures.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// NewRateLimitError creates a 429 error for rate limiting.
func NewRateLimitError(service string) *APIError {
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("%s rate limit exceeded, please retry later", service),
		StatusCode: 429,
		Err:        ErrRateLimited,
	}
}

// === Order submission rejections ===

// Server rejection codes for POST /api/orders.
// These come from the wholesale backend and are stable contract values.
const (
	CodeEmptyOrder      = "ORD1"
	CodeUnknownProducts = "ORD3"
	CodePriceMismatch   = "ORD4"
	CodeInactiveAccount = "ORD8"
)

// RejectionClass is the semantic class of a submission failure. Every
// failure maps to exactly one class; transport errors and unknown codes
// collapse into RejectUnrecognized.
type RejectionClass string

const (
	RejectEmptyOrder      RejectionClass = "empty-order"
	RejectUnknownProducts RejectionClass = "unknown-products"
	RejectPriceMismatch   RejectionClass = "price-mismatch"
	RejectInactiveAccount RejectionClass = "inactive-account"
	RejectUnrecognized    RejectionClass = "unrecognized"
)

// ClassifyRejection maps a raw server code to its semantic class.
func ClassifyRejection(code string) RejectionClass {
	switch code {
	case CodeEmptyOrder:
		return RejectEmptyOrder
	case CodeUnknownProducts:
		return RejectUnknownProducts
	case CodePriceMismatch:
		return RejectPriceMismatch
	case CodeInactiveAccount:
		return RejectInactiveAccount
	}
	return RejectUnrecognized
}

// PriceChange reports a per-line price disagreement in an ORD4 rejection:
// the price the cart submitted and the server's current price.
type PriceChange struct {
	ItemID   string `json:"item_id"`
	OldPrice Money  `json:"old_price"`
	NewPrice Money  `json:"new_price"`
}

// SubmitError is the classified outcome of a failed order submission.
// The cart is always left untouched on failure so the user can correct
// and retry.
type SubmitError struct {
	Code            string         `json:"code,omitempty"` // raw server code, empty for transport failures
	Class           RejectionClass `json:"class"`
	UnknownProducts []string       `json:"unknown_products,omitempty"` // ORD3: offending cart line IDs
	PriceChanges    []PriceChange  `json:"price_changes,omitempty"`    // ORD4: old/new price per line
	Err             error          `json:"-"`                          // wrapped transport error, if any
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order submission failed (%s): %v", e.Class, e.Err)
	}
	return fmt.Sprintf("order submission failed (%s): %s", e.Class, e.Code)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure. Unknown codes and
// transport failures share one fixed generic message, never a code dump.
func (e *SubmitError) Message() string {
	switch e.Class {
	case RejectEmptyOrder:
		return "Your order contains no products. Add something from the catalog and try again."
	case RejectUnknownProducts:
		return "Your order contains products that no longer exist in the catalog. Remove the marked lines and resubmit."
	case RejectPriceMismatch:
		return "Some prices in your order no longer match the current catalog. Review the highlighted lines and resubmit."
	case RejectInactiveAccount:
		return "Your account has not been activated yet. Please try again later."
	}
	return "The order could not be sent. The server or connection may be unavailable; please try again later."
}

// NewSubmitError builds a classified rejection from a raw server code.
func NewSubmitError(code string) *SubmitError {
	return &SubmitError{Code: code, Class: ClassifyRejection(code)}
}

// NewTransportSubmitError wraps a network-level failure as the generic
// unrecognized rejection.
func NewTransportSubmitError(err error) *SubmitError {
	return &SubmitError{Class: RejectUnrecognized, Err: err}
}
