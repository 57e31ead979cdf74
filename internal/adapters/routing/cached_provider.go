package routing

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
)

const (
	// Precision 8 is roughly a 38m x 19m cell, finer than any two distinct places.
	geohashPrecision = 8

	// Deadline for the detached cache write.
	cacheWriteTimeout = 5 * time.Second
)

// Logger is a printf-style logging function injected into CachedProvider.
type Logger func(format string, args ...any)

// CachedProvider wraps a RouteProvider with a cache-aside layer. Cache errors
// never fail a query: reads fall through to the inner provider and writes are
// logged.
type CachedProvider struct {
	inner      ports.RouteProvider
	cache      ports.LegCache
	ttl        time.Duration
	logger     Logger
	afterStore func()
}

type CachedProviderOption func(*CachedProvider)

// WithLogger sets the logger used for cache failures. Nil means silent.
func WithLogger(l Logger) CachedProviderOption {
	return func(p *CachedProvider) { p.logger = l }
}

// withAfterStore sets a hook run after every async write. Tests only.
func withAfterStore(fn func()) CachedProviderOption {
	return func(p *CachedProvider) { p.afterStore = fn }
}

// cachedMatrixProvider keeps the matrix capability of the wrapped provider visible.
type cachedMatrixProvider struct {
	*CachedProvider
	matrix ports.MatrixProvider
}

func (p *cachedMatrixProvider) ComputeDurationMatrix(ctx context.Context, mode domain.TravelMode, points []domain.Coordinates) ([][]int, error) {
	return p.matrix.ComputeDurationMatrix(ctx, mode, points)
}

func (p *cachedMatrixProvider) MaxMatrixElements(mode domain.TravelMode) int {
	return p.matrix.MaxMatrixElements(mode)
}

// NewCachedProvider wraps inner. The result implements ports.MatrixProvider
// exactly when inner does; matrix calls are not cached.
func NewCachedProvider(inner ports.RouteProvider, cache ports.LegCache, ttl time.Duration, opts ...CachedProviderOption) ports.RouteProvider {
	p := &CachedProvider{inner: inner, cache: cache, ttl: ttl}
	for _, opt := range opts {
		opt(p)
	}
	if mp, ok := inner.(ports.MatrixProvider); ok {
		return &cachedMatrixProvider{CachedProvider: p, matrix: mp}
	}
	return p
}

func (p *CachedProvider) MaxWaypoints(mode domain.TravelMode) int {
	return p.inner.MaxWaypoints(mode)
}

func (p *CachedProvider) ComputeLegs(ctx context.Context, q ports.RouteQuery) ([]domain.Leg, error) {
	key := legCacheKey(q)

	legs, ok, err := p.cache.GetLegs(ctx, key)
	if err != nil {
		p.logf("routing: cache: read failed (key=%s): %v", key, err)
	}
	if ok && len(legs) == len(q.Waypoints)-1 {
		return legs, nil
	}

	legs, err = p.inner.ComputeLegs(ctx, q)
	if err != nil {
		return nil, err
	}

	stored := append([]domain.Leg(nil), legs...)
	// Detached from ctx so the write survives the request finishing first.
	go func() {
		storeCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		if err := p.cache.PutLegs(storeCtx, key, stored, p.ttl); err != nil {
			p.logf("routing: cache: async write failed (key=%s): %v", key, err)
		}
		if p.afterStore != nil {
			p.afterStore()
		}
	}()

	return legs, nil
}

func (p *CachedProvider) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger(format, args...)
	}
}

// legCacheKey identifies a query by mode, departure hour and the geohash of
// each waypoint. Walking times do not depend on the clock, so walking keys
// omit the hour.
func legCacheKey(q ports.RouteQuery) string {
	var b strings.Builder
	b.WriteString("legs:")
	b.WriteString(string(q.Mode))
	b.WriteString(":")
	if q.Mode != domain.TravelModeWalking && !q.DepartAt.IsZero() {
		b.WriteString(q.DepartAt.UTC().Format("2006010215"))
	}
	for _, c := range q.Waypoints {
		b.WriteString(":")
		b.WriteString(geohash.EncodeWithPrecision(c.Lat, c.Lon, geohashPrecision))
	}
	return b.String()
}
