package services

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quickbite/storefront/internal/domain"
	"github.com/quickbite/storefront/internal/repositories"
)

// ErrVisitInvalidInput indicates the visit listing received an unusable
// limit.
var ErrVisitInvalidInput = errors.New("visit service: invalid input")

// VisitServiceDeps wires the visit recording inputs. Repository is
// required; Geo, Clock, IDGenerator, and Logger default when absent.
type VisitServiceDeps struct {
	Repository  repositories.VisitRepository
	Geo         GeoLookup
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

type visitService struct {
	repository  repositories.VisitRepository
	geo         GeoLookup
	clock       func() time.Time
	idGenerator func() string
	logger      func(context.Context, string, map[string]any)

	mu       sync.Mutex
	recorded bool
}

// NewVisitService constructs the visit recorder enforcing dependency
// validation.
func NewVisitService(deps VisitServiceDeps) (VisitService, error) {
	if deps.Repository == nil {
		return nil, errors.New("visit service: repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGenerator := deps.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &visitService{
		repository:  deps.Repository,
		geo:         deps.Geo,
		clock:       clock,
		idGenerator: idGenerator,
		logger:      logger,
	}, nil
}

// RecordVisit logs at most one visit for the lifetime of the service.
// Append failures are swallowed so the caller never blocks on the log. The
// returned bool reports whether this call produced the stored record.
func (s *visitService) RecordVisit(ctx context.Context, sample VisitSample) (VisitRecord, bool) {
	s.mu.Lock()
	if s.recorded {
		s.mu.Unlock()
		return VisitRecord{}, false
	}
	s.recorded = true
	s.mu.Unlock()

	visit, err := s.LogVisit(ctx, sample)
	if err != nil {
		s.logger(ctx, "visit.record.failed", map[string]any{
			"ip":    visit.IP,
			"error": err.Error(),
		})
	}
	return visit, true
}

// LogVisit enriches the sample with best-effort geolocation and appends it
// to the log. The built record is returned even when the append fails so
// callers can still respond with it.
func (s *visitService) LogVisit(ctx context.Context, sample VisitSample) (VisitRecord, error) {
	ip := NormalizeIP(sample.IP)
	location := GeoLocation{}
	if s.geo != nil {
		location = s.geo.Lookup(ctx, ip)
	}

	visit := VisitRecord{
		ID:        s.idGenerator(),
		IP:        ip,
		City:      location.City,
		Region:    location.Region,
		Country:   location.Country,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Timezone:  location.Timezone,
		UserAgent: sample.UserAgent,
		Time:      domain.Timestamp(s.clock()),
	}

	stored, err := s.repository.Append(ctx, visit)
	if err != nil {
		return visit, err
	}
	return stored, nil
}

// ListVisits returns every stored record in append order.
func (s *visitService) ListVisits(ctx context.Context) ([]VisitRecord, error) {
	return s.repository.List(ctx)
}

// ListRecentVisits returns up to limit records, most recent first.
func (s *visitService) ListRecentVisits(ctx context.Context, limit int) ([]VisitRecord, error) {
	if limit <= 0 {
		return nil, ErrVisitInvalidInput
	}

	visits, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	recent := make([]VisitRecord, 0, limit)
	for i := len(visits) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, visits[i])
	}
	return recent, nil
}

// NormalizeIP strips IPv4-mapped prefixes and folds IPv6 loopback onto its
// IPv4 spelling so the visit log stores one canonical form.
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	ip = strings.TrimPrefix(ip, "::ffff:")
	if ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}

// ClientIP derives the visitor address from the forwarded-for header when
// present, falling back to the connection remote address.
func ClientIP(remoteAddr, forwardedFor string) string {
	if forwardedFor != "" {
		first := forwardedFor
		if idx := strings.Index(forwardedFor, ","); idx >= 0 {
			first = forwardedFor[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return NormalizeIP(first)
		}
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return NormalizeIP(remoteAddr)
	}
	return NormalizeIP(host)
}
