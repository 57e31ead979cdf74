package services

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

var hkt = mustLoad("Asia/Hong_Kong")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// 2026-03-10 is a Tuesday.
func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 10, 0, 0, 0, hkt)
}

type stubStore struct {
	places map[domain.PlaceID]*domain.Place
	err    error
	calls  int
}

func newStubStore(places ...*domain.Place) *stubStore {
	s := &stubStore{places: make(map[domain.PlaceID]*domain.Place)}
	for _, p := range places {
		s.places[p.ID] = p
	}
	return s
}

func (s *stubStore) GetPlaces(ctx context.Context, ids []domain.PlaceID) (map[domain.PlaceID]*domain.Place, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[domain.PlaceID]*domain.Place)
	for _, id := range ids {
		if p, ok := s.places[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubStore) ListPlaces(ctx context.Context, region domain.Region) ([]*domain.Place, error) {
	var out []*domain.Place
	for _, p := range s.places {
		if region == "" || p.Region.Normalize() == region.Normalize() {
			out = append(out, p)
		}
	}
	return out, nil
}

func place(id string, region domain.Region, lon, lat float64) *domain.Place {
	return &domain.Place{
		ID:       domain.PlaceID(id),
		Name:     id,
		Region:   region,
		Location: domain.Coordinates{Lon: lon, Lat: lat},
	}
}

// stubProvider answers route queries with straight-line legs unless fn is set.
type stubProvider struct {
	maxWaypoints int

	mu      sync.Mutex
	calls   int
	queries []ports.RouteQuery

	fn func(ctx context.Context, call int, q ports.RouteQuery) ([]domain.Leg, error)
}

func (p *stubProvider) ComputeLegs(ctx context.Context, q ports.RouteQuery) ([]domain.Leg, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.queries = append(p.queries, q)
	p.mu.Unlock()

	if p.fn != nil {
		return p.fn(ctx, call, q)
	}
	return straightLegs(q), nil
}

func (p *stubProvider) MaxWaypoints(mode domain.TravelMode) int {
	if p.maxWaypoints == 0 {
		return 10
	}
	return p.maxWaypoints
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func straightLegs(q ports.RouteQuery) []domain.Leg {
	legs := make([]domain.Leg, 0, len(q.Waypoints)-1)
	for i := 0; i+1 < len(q.Waypoints); i++ {
		a, b := q.Waypoints[i], q.Waypoints[i+1]
		d := geo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
		legs = append(legs, domain.Leg{
			Mode:            q.Mode,
			DistanceMeters:  int(d),
			DurationSeconds: int(d / 10),
			Start:           a,
			End:             b,
		})
	}
	return legs
}

// matrixStubProvider adds a duration matrix endpoint to stubProvider.
type matrixStubProvider struct {
	stubProvider
	matrixCalls int
	matrixErr   error
}

func (p *matrixStubProvider) ComputeDurationMatrix(ctx context.Context, mode domain.TravelMode, points []domain.Coordinates) ([][]int, error) {
	p.mu.Lock()
	p.matrixCalls++
	p.mu.Unlock()
	if p.matrixErr != nil {
		return nil, p.matrixErr
	}
	m := make([][]int, len(points))
	for i, a := range points {
		m[i] = make([]int, len(points))
		for j, b := range points {
			m[i][j] = int(geo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}))
		}
	}
	return m, nil
}

func (p *matrixStubProvider) MaxMatrixElements(mode domain.TravelMode) int { return 625 }

type fixedFares struct {
	region domain.Region
	fare   domain.Fare
}

func (f fixedFares) ForRegion(r domain.Region) (ports.FareEstimator, bool) {
	if r != f.region {
		return nil, false
	}
	return f, true
}

func (f fixedFares) EstimateFare(leg domain.Leg) (domain.Fare, bool) { return f.fare, true }

func testGateway(p ports.RouteProvider) *Gateway {
	return NewGateway(p, GatewayConfig{
		MaxAttempts: 4,
		Backoff:     0,
		CallTimeout: time.Second,
		Concurrency: 4,
		Location:    hkt,
	}, WithGatewayClock(fixedNow))
}
