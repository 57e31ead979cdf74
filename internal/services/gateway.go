package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
)

// GatewayConfig tunes how the gateway talks to the routing provider.
type GatewayConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	CallTimeout time.Duration
	Concurrency int
	Location    *time.Location
}

// DefaultGatewayConfig mirrors the production defaults.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		MaxAttempts: 4,
		Backoff:     200 * time.Millisecond,
		CallTimeout: 10 * time.Second,
		Concurrency: 5,
		Location:    time.UTC,
	}
}

// ErrMatrixUnsupported is returned by EstimateMatrix when the provider has no matrix endpoint.
var ErrMatrixUnsupported = errors.New("routing provider does not support duration matrices")

// Gateway splits a day's waypoints into provider-sized queries, runs them with
// bounded concurrency and retries, and reassembles the legs in input order.
type Gateway struct {
	provider ports.RouteProvider
	cfg      GatewayConfig
	now      func() time.Time
}

type GatewayOption func(*Gateway)

// WithGatewayClock overrides the clock used to keep departures in the future.
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

func NewGateway(provider ports.RouteProvider, cfg GatewayConfig, opts ...GatewayOption) *Gateway {
	def := DefaultGatewayConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}

	g := &Gateway{provider: provider, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchLegs returns exactly len(coords)-1 legs for the given day, leg i
// joining coords[i] and coords[i+1], whatever order the provider calls finish in.
func (g *Gateway) FetchLegs(
	ctx context.Context,
	mode domain.TravelMode,
	coords []domain.Coordinates,
	date time.Time,
) (_ []domain.Leg, err error) {
	defer obs.Time(ctx, "gateway.FetchLegs")(&err)

	const op = "fetch legs"
	if len(coords) < 2 {
		return nil, &domain.Error{Kind: domain.KindMalformedPlaces, Op: op, Err: errors.New("need at least two waypoints")}
	}

	chunks := chunkWaypoints(coords, g.provider.MaxWaypoints(mode))
	departures := departureTimes(date, len(chunks), mode, g.now(), g.cfg.Location)

	results := make([][]domain.Leg, len(chunks))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)

	for i := range chunks {
		i := i
		q := ports.RouteQuery{Mode: mode, Waypoints: chunks[i], DepartAt: departures[i]}
		eg.Go(func() error {
			legs, err := withRetry(egCtx, g, op, func(callCtx context.Context) ([]domain.Leg, error) {
				legs, err := g.provider.ComputeLegs(callCtx, q)
				if err != nil {
					return nil, err
				}
				if len(legs) != len(q.Waypoints)-1 {
					return nil, fmt.Errorf("%w: got %d legs for %d waypoints",
						ports.ErrMalformedResponse, len(legs), len(q.Waypoints))
				}
				return legs, nil
			})
			if err != nil {
				return err
			}
			results[i] = legs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: ctxErr}
		}
		return nil, err
	}

	out := make([]domain.Leg, 0, len(coords)-1)
	for _, legs := range results {
		out = append(out, legs...)
	}
	return out, nil
}

// EstimateMatrix returns an all-pairs duration matrix in seconds for points,
// or ErrMatrixUnsupported when the provider cannot produce one in a single call.
func (g *Gateway) EstimateMatrix(
	ctx context.Context,
	mode domain.TravelMode,
	points []domain.Coordinates,
) (_ [][]int, err error) {
	defer obs.Time(ctx, "gateway.EstimateMatrix")(&err)

	const op = "estimate matrix"
	mp, ok := g.provider.(ports.MatrixProvider)
	if !ok {
		return nil, ErrMatrixUnsupported
	}
	n := len(points)
	if n == 0 {
		return [][]int{}, nil
	}
	if limit := mp.MaxMatrixElements(mode); limit > 0 && n*n > limit {
		return nil, fmt.Errorf("%w: %d elements exceed limit %d", ErrMatrixUnsupported, n*n, limit)
	}

	return withRetry(ctx, g, op, func(callCtx context.Context) ([][]int, error) {
		m, err := mp.ComputeDurationMatrix(callCtx, mode, points)
		if err != nil {
			return nil, err
		}
		if len(m) != n {
			return nil, fmt.Errorf("%w: matrix has %d rows, want %d", ports.ErrMalformedResponse, len(m), n)
		}
		for i, row := range m {
			if len(row) != n {
				return nil, fmt.Errorf("%w: matrix row %d has %d entries, want %d", ports.ErrMalformedResponse, i, len(row), n)
			}
		}
		return m, nil
	})
}

// withRetry runs call with a per-attempt timeout, retrying transient failures
// with exponential backoff while respecting cancellation of ctx.
func withRetry[T any](
	ctx context.Context,
	g *Gateway,
	op string,
	call func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	backoff := g.cfg.Backoff

	var lastErr error

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
		res, err := call(callCtx)
		cancel()
		if err == nil {
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: ctxErr}
		}
		lastErr = err

		kind := classifyProviderError(err)
		if kind != domain.KindProviderTransient {
			return zero, &domain.Error{Kind: kind, Op: op, Err: err}
		}
		if attempt == g.cfg.MaxAttempts {
			break
		}

		obs.Logf(ctx, "op=%s attempt=%d retry_in=%s err=%v", op, attempt, backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: ctx.Err()}
		case <-timer.C:
		}

		backoff *= 2
	}

	return zero, &domain.Error{
		Kind: domain.KindProviderTransient,
		Op:   op,
		Err:  fmt.Errorf("gave up after %d attempts: %w", g.cfg.MaxAttempts, lastErr),
	}
}

// classifyProviderError maps a provider failure onto the error taxonomy.
// Only KindProviderTransient is retried.
func classifyProviderError(err error) domain.ErrorKind {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Kind
	}

	var se *ports.ProviderStatusError
	if errors.As(err, &se) {
		if se.Temporary() {
			return domain.KindProviderTransient
		}
		return domain.KindProviderFatal
	}

	if errors.Is(err, ports.ErrNoRoute) {
		return domain.KindProviderFatal
	}

	// The parent context is checked before classification, so a deadline here
	// is the per-attempt timeout.
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.KindProviderTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.KindProviderTransient
	}

	return domain.KindUnknown
}

// chunkWaypoints splits coords into queries of at most limit waypoints. Adjacent
// chunks share their boundary waypoint so no pair is dropped. Chunks are
// copies, never views of coords.
func chunkWaypoints(coords []domain.Coordinates, limit int) [][]domain.Coordinates {
	if limit < 2 {
		limit = 2
	}
	if len(coords) <= limit {
		return [][]domain.Coordinates{append([]domain.Coordinates(nil), coords...)}
	}

	var out [][]domain.Coordinates
	for start := 0; start < len(coords)-1; start += limit - 1 {
		end := start + limit
		if end > len(coords) {
			end = len(coords)
		}
		out = append(out, append([]domain.Coordinates(nil), coords[start:end]...))
	}
	return out
}
