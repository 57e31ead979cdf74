package routing

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Typical door-to-door speeds in m/s.
var straightLineSpeed = map[domain.TravelMode]float64{
	domain.TravelModeDriving: 30.0 / 3.6,
	domain.TravelModeTransit: 20.0 / 3.6,
	domain.TravelModeWalking: 4.8 / 3.6,
}

// Roads are longer than the great circle between two points.
const detourFactor = 1.3

// StraightLineProvider estimates legs from great-circle distance and a fixed
// speed per mode. It needs no credentials and never fails for valid input.
type StraightLineProvider struct {
	maxWaypoints int
}

func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{maxWaypoints: defaultMaxWaypoints}
}

func (p *StraightLineProvider) MaxWaypoints(mode domain.TravelMode) int {
	return p.maxWaypoints
}

func (p *StraightLineProvider) MaxMatrixElements(mode domain.TravelMode) int {
	return 0
}

func (p *StraightLineProvider) ComputeLegs(ctx context.Context, q ports.RouteQuery) ([]domain.Leg, error) {
	if len(q.Waypoints) < 2 {
		return nil, fmt.Errorf("straight line: need at least two waypoints, got %d", len(q.Waypoints))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	legs := make([]domain.Leg, 0, len(q.Waypoints)-1)
	for i := 0; i+1 < len(q.Waypoints); i++ {
		a, b := q.Waypoints[i], q.Waypoints[i+1]
		meters, secs := estimate(q.Mode, a, b)
		legs = append(legs, domain.Leg{
			Mode:            q.Mode,
			DistanceMeters:  meters,
			DurationSeconds: secs,
			Start:           a,
			End:             b,
		})
	}
	return legs, nil
}

// ComputeDurationMatrix returns estimated durations for every ordered pair.
func (p *StraightLineProvider) ComputeDurationMatrix(
	ctx context.Context,
	mode domain.TravelMode,
	points []domain.Coordinates,
) ([][]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]int, len(points))
	for i, a := range points {
		out[i] = make([]int, len(points))
		for j, b := range points {
			if i != j {
				_, out[i][j] = estimate(mode, a, b)
			}
		}
	}
	return out, nil
}

func estimate(mode domain.TravelMode, a, b domain.Coordinates) (meters, seconds int) {
	speed, ok := straightLineSpeed[mode]
	if !ok {
		speed = straightLineSpeed[domain.TravelModeDriving]
	}
	d := geo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}) * detourFactor
	return int(d), int(d / speed)
}
