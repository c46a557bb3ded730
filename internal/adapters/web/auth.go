package web

import (
	"context"
	"net/http"
	"strings"
)

type bearerTokenKey struct{}

// bearerFromContext returns the Accurate access token stored by RequireBearer.
func bearerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(bearerTokenKey{}).(string)
	return v
}

// RequireBearer extracts the caller's Accurate access token from the
// Authorization header and stores it in the request context. The token is
// opaque here; Accurate validates it. Returns 401 if the header is absent or
// not of the form "Bearer <token>".
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := parseBearer(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, r, "access token not found in Authorization header", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), bearerTokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
