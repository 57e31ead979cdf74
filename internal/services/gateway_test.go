package services

import (
	"context"
	"errors"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"testing"
	"time"
)

func lineCoords(n int) []domain.Coordinates {
	out := make([]domain.Coordinates, n)
	for i := range out {
		out[i] = domain.Coordinates{Lon: float64(i), Lat: 22}
	}
	return out
}

func TestChunkWaypointsOverlapByOne(t *testing.T) {
	coords := lineCoords(12)

	chunks := chunkWaypoints(coords, 5)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}

	pairs := 0
	for i, c := range chunks {
		pairs += len(c) - 1
		if i > 0 && chunks[i-1][len(chunks[i-1])-1] != c[0] {
			t.Fatalf("chunk %d does not start where chunk %d ends", i, i-1)
		}
	}
	if pairs != len(coords)-1 {
		t.Fatalf("pairs covered = %d, want %d", pairs, len(coords)-1)
	}
}

func TestChunkWaypointsPairwise(t *testing.T) {
	chunks := chunkWaypoints(lineCoords(4), 2)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 2 || c[0].Lon != float64(i) {
			t.Fatalf("chunk %d = %v, want pair starting at %d", i, c, i)
		}
	}
}

func TestChunkWaypointsDoNotAliasInput(t *testing.T) {
	for _, n := range []int{3, 12} {
		coords := lineCoords(n)
		want := lineCoords(n)

		for _, c := range chunkWaypoints(coords, 5) {
			for i := range c {
				c[i] = domain.Coordinates{Lon: -1, Lat: -1}
			}
		}
		for i := range coords {
			if coords[i] != want[i] {
				t.Fatalf("n=%d: coords[%d] = %v after writing to chunks, want %v", n, i, coords[i], want[i])
			}
		}
	}
}

func TestFetchLegsKeepsInputOrderWhenCallsFinishInReverse(t *testing.T) {
	const n = 6
	p := &stubProvider{
		maxWaypoints: 2,
		fn: func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error) {
			// Earlier pairs finish later.
			time.Sleep(time.Duration(n-int(q.Waypoints[0].Lon)) * 10 * time.Millisecond)
			return []domain.Leg{{
				Mode:           q.Mode,
				DistanceMeters: int(q.Waypoints[0].Lon)*1000 + int(q.Waypoints[1].Lon),
			}}, nil
		},
	}
	g := NewGateway(p, GatewayConfig{MaxAttempts: 1, CallTimeout: time.Second, Concurrency: n, Location: hkt}, WithGatewayClock(fixedNow))

	legs, err := g.FetchLegs(context.Background(), domain.TravelModeTransit, lineCoords(n), fixedNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != n-1 {
		t.Fatalf("legs = %d, want %d", len(legs), n-1)
	}
	for i, leg := range legs {
		want := i*1000 + i + 1
		if leg.DistanceMeters != want {
			t.Fatalf("leg %d distance = %d, want %d", i, leg.DistanceMeters, want)
		}
	}
}

func TestFetchLegsRetriesTransientFailures(t *testing.T) {
	p := &stubProvider{
		fn: func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error) {
			if call <= 2 {
				return nil, &ports.ProviderStatusError{Code: 503, Body: "unavailable"}
			}
			return straightLegs(q), nil
		},
	}

	legs, err := testGateway(p).FetchLegs(context.Background(), domain.TravelModeDriving, lineCoords(2), fixedNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("legs = %d, want 1", len(legs))
	}
	if got := p.callCount(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestFetchLegsRetriesPerAttemptTimeout(t *testing.T) {
	p := &stubProvider{
		fn: func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error) {
			if call == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return straightLegs(q), nil
		},
	}
	g := NewGateway(p, GatewayConfig{MaxAttempts: 2, CallTimeout: 20 * time.Millisecond, Concurrency: 1, Location: hkt}, WithGatewayClock(fixedNow))

	if _, err := g.FetchLegs(context.Background(), domain.TravelModeWalking, lineCoords(3), fixedNow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.callCount(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
}

func TestFetchLegsErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		legs      int
		wantKind  domain.ErrorKind
		wantCalls int
	}{
		{name: "fatal status not retried", err: &ports.ProviderStatusError{Code: 400}, wantKind: domain.KindProviderFatal, wantCalls: 1},
		{name: "forbidden not retried", err: &ports.ProviderStatusError{Code: 403}, wantKind: domain.KindProviderFatal, wantCalls: 1},
		{name: "transient exhausted", err: &ports.ProviderStatusError{Code: 429}, wantKind: domain.KindProviderTransient, wantCalls: 4},
		{name: "no route", err: ports.ErrNoRoute, wantKind: domain.KindProviderFatal, wantCalls: 1},
		{name: "malformed payload", err: ports.ErrMalformedResponse, wantKind: domain.KindUnknown, wantCalls: 1},
		{name: "wrong leg count", legs: 1, wantKind: domain.KindUnknown, wantCalls: 1},
		{name: "unclassified error", err: errors.New("boom"), wantKind: domain.KindUnknown, wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProvider{
				fn: func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return make([]domain.Leg, tc.legs), nil
				},
			}

			_, err := testGateway(p).FetchLegs(context.Background(), domain.TravelModeDriving, lineCoords(3), fixedNow())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := domain.KindOf(err); got != tc.wantKind {
				t.Fatalf("kind = %v, want %v (err=%v)", got, tc.wantKind, err)
			}
			if got := p.callCount(); got != tc.wantCalls {
				t.Fatalf("attempts = %d, want %d", got, tc.wantCalls)
			}
		})
	}
}

func TestFetchLegsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 8)

	p := &stubProvider{
		maxWaypoints: 2,
		fn: func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	go func() {
		<-started
		cancel()
	}()

	_, err := testGateway(p).FetchLegs(ctx, domain.TravelModeTransit, lineCoords(4), fixedNow())
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
}

func TestFetchLegsDepartureTimes(t *testing.T) {
	p := &stubProvider{maxWaypoints: 2}
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, hkt)

	if _, err := testGateway(p).FetchLegs(context.Background(), domain.TravelModeTransit, lineCoords(3), date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[float64]time.Time{}
	for _, q := range p.queries {
		got[q.Waypoints[0].Lon] = q.DepartAt.In(hkt)
	}
	if h := got[0]; h.Hour() != 9 || h.Minute() != 0 {
		t.Fatalf("first departure = %v, want 09:00", h)
	}
	if h := got[1]; h.Hour() != 18 || h.Minute() != 0 {
		t.Fatalf("second departure = %v, want 18:00", h)
	}
}

func TestEstimateMatrixUnsupported(t *testing.T) {
	_, err := testGateway(&stubProvider{}).EstimateMatrix(context.Background(), domain.TravelModeDriving, lineCoords(3))
	if !errors.Is(err, ErrMatrixUnsupported) {
		t.Fatalf("err = %v, want ErrMatrixUnsupported", err)
	}
}

func TestEstimateMatrix(t *testing.T) {
	p := &matrixStubProvider{}
	m, err := testGateway(p).EstimateMatrix(context.Background(), domain.TravelModeDriving, lineCoords(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 3 || len(m[0]) != 3 {
		t.Fatalf("matrix shape = %dx%d, want 3x3", len(m), len(m[0]))
	}
	if m[0][0] != 0 || m[0][2] <= m[0][1] {
		t.Fatalf("matrix = %v, want increasing distances along the line", m)
	}
}
