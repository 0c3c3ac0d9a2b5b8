package drivers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/procs"
)

type stubLocationCaller struct {
	locations []procs.DriverLocation
	err       error
	calls     int
}

func (s *stubLocationCaller) GetDriverLocations(ctx context.Context, driverIDs []uuid.UUID) ([]procs.DriverLocation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.locations, nil
}

type stubCache struct {
	values map[string]string
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", errors.New("cache miss")
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value.(string)
	return nil
}

func (s *stubCache) CacheKey(parts ...string) string {
	key := "qp:cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func TestLocationsCachesProcResult(t *testing.T) {
	driverID := uuid.New()
	caller := &stubLocationCaller{
		locations: []procs.DriverLocation{{ID: driverID, Lat: 45.52, Lng: -122.68}},
	}
	cache := &stubCache{}
	svc, err := NewService(caller, cache, time.Second, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	for i := 0; i < 2; i++ {
		locations, err := svc.Locations(context.Background(), []uuid.UUID{driverID})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if len(locations) != 1 || locations[0].ID != driverID {
			t.Fatalf("unexpected locations %+v", locations)
		}
	}
	if caller.calls != 1 {
		t.Fatalf("second call should come from cache, proc calls = %d", caller.calls)
	}
}

func TestLocationsWorksWithoutCache(t *testing.T) {
	caller := &stubLocationCaller{}
	svc, err := NewService(caller, nil, time.Second, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Locations(context.Background(), []uuid.UUID{uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.calls != 1 {
		t.Fatalf("expected one proc call, got %d", caller.calls)
	}
}

func TestLocationsValidatesInput(t *testing.T) {
	svc, err := NewService(&stubLocationCaller{}, nil, time.Second, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Locations(context.Background(), nil)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	many := make([]uuid.UUID, maxDriversPerQuery+1)
	for i := range many {
		many[i] = uuid.New()
	}
	_, err = svc.Locations(context.Background(), many)
	if pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for oversized query, got %v", err)
	}
}

func TestLocationsProcFailure(t *testing.T) {
	caller := &stubLocationCaller{err: errors.New("proc offline")}
	svc, err := NewService(caller, nil, time.Second, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Locations(context.Background(), []uuid.UUID{uuid.New()})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
