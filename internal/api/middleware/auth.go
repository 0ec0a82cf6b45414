package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/highscores-go/internal/api/apierr"
	"github.com/mcoot/highscores-go/internal/services/token"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ErrMissingToken is returned when the request carries no bearer token
var ErrMissingToken = errors.New("missing bearer token")

// Authorizer decides whether a request carries a valid identity
type Authorizer interface {
	Authorize(r *http.Request) (*token.Claims, error)
}

// TokenVerifier checks a raw token string
type TokenVerifier interface {
	Verify(token string) (*token.Claims, error)
}

// FailureRecorder observes rejected requests
type FailureRecorder interface {
	AuthFailed()
}

// BearerAuthorizer authorizes requests with an "Authorization: Bearer <token>" header
type BearerAuthorizer struct {
	verifier TokenVerifier
}

// NewBearerAuthorizer creates a BearerAuthorizer
func NewBearerAuthorizer(verifier TokenVerifier) *BearerAuthorizer {
	return &BearerAuthorizer{verifier: verifier}
}

// Authorize implements Authorizer
func (a *BearerAuthorizer) Authorize(r *http.Request) (*token.Claims, error) {
	tok := extractToken(r)
	if tok == "" {
		return nil, ErrMissingToken
	}
	return a.verifier.Verify(tok)
}

// Auth creates authentication middleware.
// Every rejection gets the same 401 response whatever the cause.
func Auth(authorizer Authorizer, failures FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authorizer.Authorize(r)
			if err != nil || claims == nil {
				if failures != nil {
					failures.AuthFailed()
				}
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	tok, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(tok)
}

// WithClaims returns a copy of ctx carrying claims
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaims returns the verified claims from the request context, or nil
func GetClaims(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}
