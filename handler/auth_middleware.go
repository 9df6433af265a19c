package handler

import (
	"context"
	"net/http"
	"strings"

	"go-bank-ledger/common"
	"go-bank-ledger/model"
	"go-bank-ledger/service"
)

type contextKey string

const (
	ClaimsKey    contextKey = "claims"
	RequestIDKey contextKey = "requestID"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*model.AppClaims, error)
}

// ClaimsFromContext returns the verified claims placed by AuthMiddleware, or nil.
func ClaimsFromContext(ctx context.Context) *model.AppClaims {
	claims, _ := ctx.Value(ClaimsKey).(*model.AppClaims)
	return claims
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the verified claims to the request context.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := tokens.ParseToken(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware lets only administrators through. It must run after AuthMiddleware.
func AdminMiddleware(policy *service.AccessPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.AuthorizeAdmin(ClaimsFromContext(r.Context())); err != nil {
				common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
