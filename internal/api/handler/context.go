package handler

import (
	"context"

	"github.com/commutewise/commutewise/internal/api/middleware"
)

// GetClientID retrieves the client ID from the context.
// This is a convenience wrapper around middleware.GetClientID.
func GetClientID(ctx context.Context) string {
	return middleware.GetClientID(ctx)
}
