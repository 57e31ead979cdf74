package ports

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"time"
)

// One directions request: an ordered list of waypoints travelled in a single mode.
type RouteQuery struct {
	Mode      domain.TravelMode
	Waypoints []domain.Coordinates
	DepartAt  time.Time
}

// Contract for the external directions service.
type RouteProvider interface {
	// Return one leg per consecutive waypoint pair, in waypoint order.
	ComputeLegs(ctx context.Context, q RouteQuery) ([]domain.Leg, error)
	// Largest number of waypoints (origin and destination included) a single
	// query may carry for mode. 2 means the provider is pairwise only.
	MaxWaypoints(mode domain.TravelMode) int
}

// Optional extension of RouteProvider that supports all-pairs estimates.
type MatrixProvider interface {
	RouteProvider
	// Return durations in seconds; entry [i][j] is the trip from points[i] to points[j].
	ComputeDurationMatrix(ctx context.Context, mode domain.TravelMode, points []domain.Coordinates) ([][]int, error)
	// Largest origins*destinations product accepted in one matrix call.
	MaxMatrixElements(mode domain.TravelMode) int
}

// ProviderStatusError reports a non-success HTTP status from the provider.
type ProviderStatusError struct {
	Code int
	Body string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *ProviderStatusError) Temporary() bool {
	switch e.Code {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

var (
	// ErrMalformedResponse marks provider payloads that could not be interpreted.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrNoRoute means the provider answered but found no route between the waypoints.
	ErrNoRoute = errors.New("provider found no route")
)
