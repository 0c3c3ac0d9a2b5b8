package drivers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/procs"
)

const maxDriversPerQuery = 100

type locationCaller interface {
	GetDriverLocations(ctx context.Context, driverIDs []uuid.UUID) ([]procs.DriverLocation, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes last-known driver coordinates for dispatch dashboards. The
// backing procedure is rate-limited upstream, so lookups go through a
// short-TTL cache.
type Service struct {
	procs locationCaller
	cache cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService builds the driver locations service. The cache is optional.
func NewService(procCaller locationCaller, cache cacheStore, ttl time.Duration, logg *logger.Logger) (*Service, error) {
	if procCaller == nil {
		return nil, fmt.Errorf("proc caller required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Service{procs: procCaller, cache: cache, ttl: ttl, logg: logg}, nil
}

// Locations returns coordinates for the requested drivers.
func (s *Service) Locations(ctx context.Context, driverIDs []uuid.UUID) ([]procs.DriverLocation, error) {
	if len(driverIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one driver id required")
	}
	if len(driverIDs) > maxDriversPerQuery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d driver ids per query", maxDriversPerQuery))
	}

	key := s.cacheKeyFor(driverIDs)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	locations, err := s.procs.GetDriverLocations(ctx, driverIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get driver locations")
	}

	s.toCache(ctx, key, locations)
	return locations, nil
}

func (s *Service) cacheKeyFor(driverIDs []uuid.UUID) string {
	if s.cache == nil {
		return ""
	}
	ids := make([]string, 0, len(driverIDs))
	for _, id := range driverIDs {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	return s.cache.CacheKey("driver-locations", strings.Join(ids, ","))
}

func (s *Service) fromCache(ctx context.Context, key string) []procs.DriverLocation {
	if s.cache == nil || key == "" {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var locations []procs.DriverLocation
	if err := json.Unmarshal([]byte(raw), &locations); err != nil {
		return nil
	}
	return locations
}

func (s *Service) toCache(ctx context.Context, key string, locations []procs.DriverLocation) {
	if s.cache == nil || key == "" || locations == nil {
		return
	}
	payload, err := json.Marshal(locations)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(logCtx, "cache driver locations failed")
	}
}
