package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/pkg/logger"
)

const (
	customerIDHeader = "X-Customer-Id"
	storeIDHeader    = "X-Store-Id"
)

// Identity reads caller identifiers from gateway-provided headers. Upstream
// authentication terminates at the edge, so headers are trusted here.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if raw := strings.TrimSpace(r.Header.Get(customerIDHeader)); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					ctx = WithCustomerID(ctx, id.String())
					if logg != nil {
						ctx = logg.WithCustomerID(ctx, id.String())
					}
				}
			}
			if raw := strings.TrimSpace(r.Header.Get(storeIDHeader)); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					ctx = WithStoreID(ctx, id.String())
					if logg != nil {
						ctx = logg.WithStoreID(ctx, id.String())
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
