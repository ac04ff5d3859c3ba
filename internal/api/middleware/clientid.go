package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/commutewise/commutewise/internal/api/models"
)

// clientIDKey is the context key for the client ID.
type clientIDKey struct{}

// clientIDPattern bounds what we accept as a client identifier. The API has
// no accounts; the X-Client-Id header scopes saved trips per installation.
var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequireClientID extracts the X-Client-Id header and adds it to the request
// context. Requests without a usable client ID are rejected.
func RequireClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get("X-Client-Id")
		if clientID == "" {
			writeUnauthorized(w, r, "missing X-Client-Id header")
			return
		}

		if !clientIDPattern.MatchString(clientID) {
			writeUnauthorized(w, r, "invalid X-Client-Id header")
			return
		}

		ctx := context.WithValue(r.Context(), clientIDKey{}, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetClientID retrieves the client ID from the context.
// Returns an empty string if the request carried none.
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok {
		return id
	}
	return ""
}
