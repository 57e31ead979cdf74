package domain

import (
	"fmt"
	"strings"
)

// How the traveller moves between two places on a given day.
type TravelMode string

const (
	TravelModeTransit TravelMode = "transit"
	TravelModeDriving TravelMode = "driving"
	TravelModeWalking TravelMode = "walking"
)

// ParseTravelMode accepts the wire names plus the short aliases used by older clients
// ("drive", "walk").
func ParseTravelMode(s string) (TravelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transit":
		return TravelModeTransit, nil
	case "driving", "drive":
		return TravelModeDriving, nil
	case "walking", "walk":
		return TravelModeWalking, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// Vehicle kind of a transit leg. The zero value means mixed or unknown.
type TransitOption string

const (
	TransitOptionBus   TransitOption = "bus"
	TransitOptionRail  TransitOption = "rail"
	TransitOptionFerry TransitOption = "ferry"
)

// Price of a single leg. Currency is an ISO 4217 code implied by the region.
type Fare struct {
	Amount   float64
	Currency string
}

// Represents one provider leg after normalization, before it is tied to place ids.
// Start and End are the coordinates the provider snapped the leg to; they are
// zero when the provider does not report them.
type Leg struct {
	Mode            TravelMode
	DistanceMeters  int
	DurationSeconds int
	Polyline        string
	Fare            *Fare
	TransitOption   TransitOption
	Start           Coordinates
	End             Coordinates
}

// Represents one leg of a day route between two places.
// Segments are built fresh per request and never persisted.
type RouteSegment struct {
	OriginID        PlaceID
	DestinationID   PlaceID
	Mode            TravelMode
	DistanceMeters  int
	DurationSeconds int
	Fare            *Fare
	TransitOption   TransitOption
	Polyline        string
}
