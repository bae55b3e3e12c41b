// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// orgIDKey is the context key for storing the authenticated organization ID.
const orgIDKey ContextKey = "orgID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (OrgIDGetter, error)
}

// OrgIDGetter is an interface for extracting the organization ID from token claims.
type OrgIDGetter interface {
	GetOrgID() uuid.UUID
}

// AuthMiddleware creates middleware that validates JWT tokens and adds the
// organization ID to the request context. Every tenant-scoped route sits
// behind it.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Parse Bearer token
			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Validate token
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Add organization ID to request context
			ctx := context.WithValue(r.Context(), orgIDKey, claims.GetOrgID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOrgID extracts the authenticated organization ID from the request context.
func GetOrgID(r *http.Request) (uuid.UUID, error) {
	orgID, ok := r.Context().Value(orgIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("organization ID not found in request context")
	}
	return orgID, nil
}

// OrgIDKey returns the context key for the organization ID (for testing purposes).
func OrgIDKey() ContextKey {
	return orgIDKey
}
