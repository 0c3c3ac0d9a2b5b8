package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/api/responses"
	"github.com/quickpour/quickpour-backend/internal/drivers"
	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/logger"
)

// DriverLocations returns the latest known coordinates for the given drivers.
func DriverLocations(svc *drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drivers service unavailable"))
			return
		}

		driverIDs, err := parseDriverIDs(r.URL.Query().Get("ids"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		locations, err := svc.Locations(r.Context(), driverIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"locations": locations})
	}
}

func parseDriverIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ids query parameter required")
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver id").WithDetails(map[string]any{"id": part})
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ids query parameter required")
	}
	return ids, nil
}
