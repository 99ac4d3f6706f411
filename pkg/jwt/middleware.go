package jwt

import (
	"context"
	"net/http"
	"strings"
)

type claimsContextKey struct{}

// Middleware validates Bearer tokens and injects the decoded claims into
// the request context. A non-empty issuer additionally pins the token's
// iss claim; anything else is rejected with 401.
func Middleware(service *Service, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			var claims StandardClaims
			if err := service.Parse(token, &claims); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if issuer != "" && claims.Issuer != issuer {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims the middleware stored, if any.
func ClaimsFromContext(ctx context.Context) (StandardClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(StandardClaims)
	return claims, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", ErrInvalidToken
	}
	parts := strings.Split(auth, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
