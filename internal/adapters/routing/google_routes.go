package routing

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const (
	routesAPIURL = "https://routes.googleapis.com/directions/v2:computeRoutes"
	matrixAPIURL = "https://routes.googleapis.com/distanceMatrix/v2:computeRouteMatrix"

	// Upper bound for a whole HTTP exchange; the gateway applies its own,
	// usually shorter, per-attempt deadline on top.
	googleTimeout = 30 * time.Second

	httpMaxIdleConns    = 10
	httpIdleConnTimeout = 30 * time.Second

	// Transit does not accept intermediates, so transit days are pairwise.
	// Origin + destination + 8 intermediates otherwise.
	transitMaxWaypoints = 2
	defaultMaxWaypoints = 10

	// Element caps of computeRouteMatrix: traffic-aware and transit requests
	// allow 100 elements, everything else 625.
	trafficAwareMatrixElements = 100
	defaultMatrixElements      = 625
)

var routesFieldMask = strings.Join([]string{
	"routes.legs.distanceMeters",
	"routes.legs.duration",
	"routes.legs.polyline.encodedPolyline",
	"routes.legs.startLocation",
	"routes.legs.endLocation",
	"routes.legs.steps.travelMode",
	"routes.legs.steps.transitDetails.transitLine.vehicle.type",
	"routes.travelAdvisory.transitFare",
}, ",")

const matrixFieldMask = "originIndex,destinationIndex,duration,condition,status"

// GoogleRoutesProvider implements ports.MatrixProvider on the Google Routes API v2.
//
// It does not retry; the routing gateway owns retries, timeouts and fan-out.
// The provider is safe for concurrent use.
type GoogleRoutesProvider struct {
	client    *http.Client
	apiKey    string
	routesURL string
	matrixURL string
}

type GoogleOption func(*GoogleRoutesProvider)

// WithEndpoints overrides the API URLs. Used by tests to point at httptest servers.
func WithEndpoints(routesURL, matrixURL string) GoogleOption {
	return func(g *GoogleRoutesProvider) {
		g.routesURL = routesURL
		g.matrixURL = matrixURL
	}
}

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(g *GoogleRoutesProvider) {
		g.client = c
	}
}

func NewGoogleRoutesProvider(apiKey string, opts ...GoogleOption) (*GoogleRoutesProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google routes api key is empty")
	}

	transport := &http.Transport{
		MaxIdleConns:        httpMaxIdleConns,
		MaxIdleConnsPerHost: httpMaxIdleConns,
		IdleConnTimeout:     httpIdleConnTimeout,
	}

	g := &GoogleRoutesProvider{
		client:    &http.Client{Timeout: googleTimeout, Transport: transport},
		apiKey:    apiKey,
		routesURL: routesAPIURL,
		matrixURL: matrixAPIURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GoogleRoutesProvider) MaxWaypoints(mode domain.TravelMode) int {
	if mode == domain.TravelModeTransit {
		return transitMaxWaypoints
	}
	return defaultMaxWaypoints
}

func (g *GoogleRoutesProvider) MaxMatrixElements(mode domain.TravelMode) int {
	if mode == domain.TravelModeWalking {
		return defaultMatrixElements
	}
	return trafficAwareMatrixElements
}

// ComputeLegs issues one computeRoutes call covering every waypoint of q.
func (g *GoogleRoutesProvider) ComputeLegs(ctx context.Context, q ports.RouteQuery) (_ []domain.Leg, err error) {
	defer obs.Time(ctx, "google.ComputeLegs")(&err)

	if len(q.Waypoints) < 2 {
		return nil, errors.New("compute legs: need at least two waypoints")
	}
	if q.Mode == domain.TravelModeTransit && len(q.Waypoints) > transitMaxWaypoints {
		return nil, errors.New("compute legs: transit does not support intermediate waypoints")
	}

	body := computeRoutesRequest{
		Origin:                   toWaypoint(q.Waypoints[0]),
		Destination:              toWaypoint(q.Waypoints[len(q.Waypoints)-1]),
		TravelMode:               apiTravelMode(q.Mode),
		RoutingPreference:        routingPreference(q.Mode),
		ComputeAlternativeRoutes: false,
		LanguageCode:             "en",
		Units:                    "METRIC",
	}
	for _, c := range q.Waypoints[1 : len(q.Waypoints)-1] {
		body.Intermediates = append(body.Intermediates, toWaypoint(c))
	}
	if !q.DepartAt.IsZero() {
		body.DepartureTime = q.DepartAt.UTC().Format(time.RFC3339)
	}

	var resp computeRoutesResponse
	if err := g.postJSON(ctx, g.routesURL, routesFieldMask, body, &resp); err != nil {
		return nil, fmt.Errorf("compute legs: %w", err)
	}

	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("compute legs: %w", ports.ErrNoRoute)
	}
	r := resp.Routes[0]
	if len(r.Legs) != len(q.Waypoints)-1 {
		return nil, fmt.Errorf("compute legs: %w: got %d legs for %d waypoints",
			ports.ErrMalformedResponse, len(r.Legs), len(q.Waypoints))
	}

	legs := make([]domain.Leg, len(r.Legs))
	for i, rl := range r.Legs {
		leg, err := convertLeg(rl, q.Mode)
		if err != nil {
			return nil, fmt.Errorf("compute legs: leg %d: %w", i, err)
		}
		if leg.Start == (domain.Coordinates{}) {
			leg.Start = q.Waypoints[i]
		}
		if leg.End == (domain.Coordinates{}) {
			leg.End = q.Waypoints[i+1]
		}
		legs[i] = leg
	}

	// The route-level transit fare only identifies a leg when there is one.
	if len(legs) == 1 && legs[0].Mode == domain.TravelModeTransit && r.TravelAdvisory.TransitFare != nil {
		if f, ok := convertMoney(*r.TravelAdvisory.TransitFare); ok {
			legs[0].Fare = &f
		}
	}

	return legs, nil
}

// ComputeDurationMatrix issues one computeRouteMatrix call for all pairs of points.
// Pairs without a route get math.MaxInt32 so they are never preferred.
func (g *GoogleRoutesProvider) ComputeDurationMatrix(
	ctx context.Context,
	mode domain.TravelMode,
	points []domain.Coordinates,
) (_ [][]int, err error) {
	defer obs.Time(ctx, "google.ComputeDurationMatrix")(&err)

	endpoints := make([]matrixEndpoint, len(points))
	for i, p := range points {
		endpoints[i] = matrixEndpoint{Waypoint: toWaypoint(p)}
	}

	body := computeRouteMatrixRequest{
		Origins:           endpoints,
		Destinations:      endpoints,
		TravelMode:        apiTravelMode(mode),
		RoutingPreference: routingPreference(mode),
	}

	var elements []matrixElement
	if err := g.postJSON(ctx, g.matrixURL, matrixFieldMask, body, &elements); err != nil {
		return nil, fmt.Errorf("compute matrix: %w", err)
	}

	n := len(points)
	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
		for j := range out[i] {
			if i != j {
				out[i][j] = math.MaxInt32
			}
		}
	}

	for _, e := range elements {
		if e.OriginIndex < 0 || e.OriginIndex >= n || e.DestinationIndex < 0 || e.DestinationIndex >= n {
			return nil, fmt.Errorf("compute matrix: %w: index (%d,%d) out of range",
				ports.ErrMalformedResponse, e.OriginIndex, e.DestinationIndex)
		}
		if e.Status != nil && e.Status.Code != 0 {
			continue
		}
		if e.Condition != "" && e.Condition != "ROUTE_EXISTS" {
			continue
		}
		secs, err := parseDurationSeconds(e.Duration)
		if err != nil {
			return nil, fmt.Errorf("compute matrix: %w: %v", ports.ErrMalformedResponse, err)
		}
		out[e.OriginIndex][e.DestinationIndex] = secs
	}

	return out, nil
}

func convertLeg(rl routeLeg, requested domain.TravelMode) (domain.Leg, error) {
	secs, err := parseDurationSeconds(rl.Duration)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("%w: %v", ports.ErrMalformedResponse, err)
	}

	leg := domain.Leg{
		Mode:            legMode(rl.Steps, requested),
		DistanceMeters:  rl.DistanceMeters,
		DurationSeconds: secs,
		Polyline:        rl.Polyline.EncodedPolyline,
	}
	if rl.StartLocation != nil {
		leg.Start = fromLatLng(rl.StartLocation.LatLng)
	}
	if rl.EndLocation != nil {
		leg.End = fromLatLng(rl.EndLocation.LatLng)
	}
	if leg.Mode == domain.TravelModeTransit {
		leg.TransitOption = transitOption(rl.Steps)
	}
	return leg, nil
}

// legMode reports the single travel mode shared by all steps, falling back to
// the requested mode when steps disagree or are missing.
func legMode(steps []step, requested domain.TravelMode) domain.TravelMode {
	if len(steps) == 0 {
		return requested
	}
	first := steps[0].TravelMode
	for _, s := range steps[1:] {
		if s.TravelMode != first {
			return requested
		}
	}
	if m, ok := fromAPITravelMode(first); ok {
		return m
	}
	return requested
}

// transitOption maps the vehicle types of a leg's transit steps to one option.
// Legs that mix kinds, or use none we know, have no option.
func transitOption(steps []step) domain.TransitOption {
	var found domain.TransitOption
	for _, s := range steps {
		if s.TransitDetails == nil {
			continue
		}
		opt, ok := vehicleOption(s.TransitDetails.TransitLine.Vehicle.Type)
		if !ok {
			return ""
		}
		if found != "" && found != opt {
			return ""
		}
		found = opt
	}
	return found
}

func vehicleOption(vehicle string) (domain.TransitOption, bool) {
	switch vehicle {
	case "BUS", "INTERCITY_BUS", "TROLLEYBUS", "SHARE_TAXI":
		return domain.TransitOptionBus, true
	case "SUBWAY", "TRAM", "RAIL", "HEAVY_RAIL", "COMMUTER_TRAIN", "METRO_RAIL",
		"MONORAIL", "HIGH_SPEED_TRAIN", "LONG_DISTANCE_TRAIN":
		return domain.TransitOptionRail, true
	case "FERRY":
		return domain.TransitOptionFerry, true
	}
	return "", false
}

func convertMoney(m money) (domain.Fare, bool) {
	unit, err := currency.ParseISO(m.CurrencyCode)
	if err != nil {
		return domain.Fare{}, false
	}
	units := int64(0)
	if m.Units != "" {
		units, err = strconv.ParseInt(m.Units, 10, 64)
		if err != nil {
			return domain.Fare{}, false
		}
	}
	amount := float64(units) + float64(m.Nanos)/1e9
	return domain.Fare{Amount: math.Round(amount*100) / 100, Currency: unit.String()}, true
}

// parseDurationSeconds parses a protobuf duration string like "123s" or "1.5s",
// rounding to whole seconds.
func parseDurationSeconds(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if !strings.HasSuffix(s, "s") {
		return 0, fmt.Errorf("expected duration ending in 's', got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return int(math.Round(v)), nil
}

func apiTravelMode(m domain.TravelMode) string {
	switch m {
	case domain.TravelModeWalking:
		return "WALK"
	case domain.TravelModeTransit:
		return "TRANSIT"
	default:
		return "DRIVE"
	}
}

func fromAPITravelMode(s string) (domain.TravelMode, bool) {
	switch s {
	case "DRIVE":
		return domain.TravelModeDriving, true
	case "WALK":
		return domain.TravelModeWalking, true
	case "TRANSIT":
		return domain.TravelModeTransit, true
	}
	return "", false
}

// Driving is traffic-aware; other modes reject a routing preference.
func routingPreference(m domain.TravelMode) string {
	if m == domain.TravelModeDriving {
		return "TRAFFIC_AWARE"
	}
	return ""
}

func toWaypoint(c domain.Coordinates) waypoint {
	return waypoint{Location: location{LatLng: latLng{Latitude: c.Lat, Longitude: c.Lon}}}
}

func fromLatLng(l latLng) domain.Coordinates {
	return domain.Coordinates{Lon: l.Longitude, Lat: l.Latitude}
}
