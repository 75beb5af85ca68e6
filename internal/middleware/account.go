package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dunglas/httpsfv"
)

// Role is the access level carried by the Ehurt-Account header. Clients
// place orders; owners get a read-only view of the same account.
type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "owner"
)

// Account identifies the caller for the duration of one request.
type Account struct {
	ID   string
	Role Role
}

// CanMutateCart reports whether the role may change cart or order state.
func (a Account) CanMutateCart() bool { return a.Role == RoleClient }

// ParseAccountHeader extracts the account from an Ehurt-Account header.
// Format is an RFC 8941 Dictionary: id="u-1022";role=client
//
// A missing role defaults to client. Unknown roles are rejected so a
// typo'd "onwer" cannot silently gain write access.
func ParseAccountHeader(header string) (Account, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Account{}, errors.New("empty Ehurt-Account header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return Account{}, fmt.Errorf("invalid Ehurt-Account header: %w", err)
	}

	member, ok := dict.Get("id")
	if !ok {
		return Account{}, errors.New("id key not found in Ehurt-Account header")
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return Account{}, errors.New("id value must be an item")
	}
	id, ok := item.Value.(string)
	if !ok || id == "" {
		return Account{}, errors.New("id value must be a non-empty string")
	}

	account := Account{ID: id, Role: RoleClient}

	if member, ok := dict.Get("role"); ok {
		item, ok := member.(httpsfv.Item)
		if !ok {
			return Account{}, errors.New("role value must be an item")
		}
		switch v := item.Value.(type) {
		case httpsfv.Token:
			account.Role = Role(v)
		case string:
			account.Role = Role(v)
		default:
			return Account{}, errors.New("role value must be a token or string")
		}
		if account.Role != RoleClient && account.Role != RoleOwner {
			return Account{}, fmt.Errorf("unknown role %q", account.Role)
		}
	}

	return account, nil
}

type contextKey int

const (
	accountKey contextKey = iota
	credentialKey
)

// WithAccount returns a context carrying the caller's account.
func WithAccount(ctx context.Context, account Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFrom returns the account attached by Identity, if any.
func AccountFrom(ctx context.Context) (Account, bool) {
	account, ok := ctx.Value(accountKey).(Account)
	return account, ok
}

// WithCredential returns a context carrying the caller's bearer token.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey, credential)
}

// CredentialFrom returns the bearer token attached by Identity, if any.
// Callers without one fall back to the configured service credential.
func CredentialFrom(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(credentialKey).(string)
	return credential, ok && credential != ""
}

// Identity returns middleware that lifts the Ehurt-Account header and the
// Authorization bearer token into the request context. Both headers are
// optional; a malformed Ehurt-Account header is a 400 rather than a
// silent anonymous request.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get("Ehurt-Account"); header != "" {
				account, err := ParseAccountHeader(header)
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				ctx = WithAccount(ctx, account)
			}

			if auth := r.Header.Get("Authorization"); auth != "" {
				if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
					ctx = WithCredential(ctx, token)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
