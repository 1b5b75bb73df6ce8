package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"resource_hub/internal/common"
	"resource_hub/internal/common/security"
)

type contextKey string

const identityCtxKey contextKey = "identity"

const (
	msgNoToken      = "Unauthorized: No token provided"
	msgInvalidToken = "Unauthorized: Invalid token"
	msgForbidden    = "Forbidden: Insufficient permissions"
)

// TokenFromAuthorization returns the second whitespace separated field of the
// Authorization header, so both "Bearer T" and "bearer T" work.
func TokenFromAuthorization(r *http.Request) string {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// Verifier verifies the bearer token, if any, and stores the result for
// Authenticate and OptionalIdentity. It never rejects a request itself.
func Verifier(tm *security.TokenManager) func(http.Handler) http.Handler {
	return jwtauth.Verify(tm.JWTAuth(), TokenFromAuthorization)
}

// Authenticate rejects requests without a valid token. When requiredRole is
// non-empty the caller's role must match it.
func Authenticate(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := identityFromVerifier(r.Context())
			if err != nil {
				msg := msgInvalidToken
				if errors.Is(err, jwtauth.ErrNoTokenFound) {
					msg = msgNoToken
				}
				common.RespondWithJSON(w, http.StatusUnauthorized, common.AuthErrorResponse{Error: msg})
				return
			}

			if requiredRole != "" && identity.Role != requiredRole {
				isAdmin := identity.IsAdmin
				common.RespondWithJSON(w, http.StatusForbidden, common.AuthErrorResponse{
					Error:           msgForbidden,
					IsAuthenticated: true,
					IsAdmin:         &isAdmin,
				})
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromVerifier(ctx context.Context) (security.Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return security.Identity{}, err
	}
	if token == nil {
		return security.Identity{}, jwtauth.ErrNoTokenFound
	}
	return security.IdentityFromClaims(claims)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (security.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(security.Identity)
	return identity, ok
}

// OptionalIdentity is for public routes whose behaviour depends on the
// caller. It returns nil when no valid token was presented.
func OptionalIdentity(ctx context.Context) *security.Identity {
	if identity, ok := IdentityFromContext(ctx); ok {
		return &identity
	}
	identity, err := identityFromVerifier(ctx)
	if err != nil {
		return nil
	}
	return &identity
}
