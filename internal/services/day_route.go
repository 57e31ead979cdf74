package services

import (
	"context"
	"errors"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"strings"
	"time"
)

type DayRouteRequest struct {
	Date     string
	Mode     string
	PlaceIDs []domain.PlaceID
}

type DayRouteResponse struct {
	Date     time.Time
	Mode     domain.TravelMode
	Segments []domain.RouteSegment
}

// DayRouteComputer validates a single day's request and turns provider legs
// into segments between consecutive places.
type DayRouteComputer struct {
	places   *PlaceLookup
	gateway  *Gateway
	fares    ports.FareRegistry
	location *time.Location
	now      func() time.Time
}

type DayRouteOption func(*DayRouteComputer)

// WithDayRouteClock overrides the clock that decides what "today" is.
func WithDayRouteClock(now func() time.Time) DayRouteOption {
	return func(c *DayRouteComputer) {
		c.now = now
	}
}

// WithFares registers fare estimators applied to driving legs.
func WithFares(fares ports.FareRegistry) DayRouteOption {
	return func(c *DayRouteComputer) {
		c.fares = fares
	}
}

func NewDayRouteComputer(places *PlaceLookup, gateway *Gateway, loc *time.Location, opts ...DayRouteOption) *DayRouteComputer {
	if loc == nil {
		loc = time.UTC
	}
	c := &DayRouteComputer{
		places:   places,
		gateway:  gateway,
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns one segment per consecutive pair of req.PlaceIDs.
//
// Checks run in a fixed order and the first failure wins: date format, date
// not before today, travel mode, at least two ids, every id known, one region.
// The provider is only contacted once all of them pass.
func (c *DayRouteComputer) Compute(ctx context.Context, req DayRouteRequest) (_ *DayRouteResponse, err error) {
	defer obs.Time(ctx, "dayroute.Compute")(&err)

	const op = "compute day route"

	date, ok := parseDate(req.Date, c.location)
	if !ok {
		return nil, &domain.Error{Kind: domain.KindInvalidDateFormat, Op: op, Value: req.Date}
	}

	today := startOfDay(c.now(), c.location)
	if date.Before(today) {
		return nil, &domain.Error{Kind: domain.KindInvalidDateRange, Op: op, Value: req.Date}
	}

	mode := domain.TravelModeTransit
	if strings.TrimSpace(req.Mode) != "" {
		mode, err = domain.ParseTravelMode(req.Mode)
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindInvalidTravelMode, Op: op, Value: req.Mode}
		}
	}

	ids, err := normalizeRouteIDs(req.PlaceIDs)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedPlaces, Op: op, PlaceIDs: req.PlaceIDs, Err: err}
	}

	places, err := c.places.resolveSameRegion(ctx, op, ids)
	if err != nil {
		return nil, err
	}

	coords := make([]domain.Coordinates, len(places))
	for i, p := range places {
		coords[i] = p.Location
	}

	legs, err := c.gateway.FetchLegs(ctx, mode, coords, date)
	if err != nil {
		return nil, err
	}

	var fareEst ports.FareEstimator
	if c.fares != nil {
		fareEst, _ = c.fares.ForRegion(places[0].Region.Normalize())
	}

	segments := make([]domain.RouteSegment, len(legs))
	for i, leg := range legs {
		if leg.Start == (domain.Coordinates{}) {
			leg.Start = coords[i]
		}
		if leg.End == (domain.Coordinates{}) {
			leg.End = coords[i+1]
		}
		if leg.Mode == "" {
			leg.Mode = mode
		}

		switch leg.Mode {
		case domain.TravelModeWalking:
			leg.Fare = nil
			leg.TransitOption = ""
		case domain.TravelModeDriving:
			leg.TransitOption = ""
			if leg.Fare == nil && fareEst != nil {
				if f, ok := fareEst.EstimateFare(leg); ok {
					leg.Fare = &f
				}
			}
		}

		segments[i] = domain.RouteSegment{
			OriginID:        ids[i],
			DestinationID:   ids[i+1],
			Mode:            leg.Mode,
			DistanceMeters:  leg.DistanceMeters,
			DurationSeconds: leg.DurationSeconds,
			Fare:            leg.Fare,
			TransitOption:   leg.TransitOption,
			Polyline:        leg.Polyline,
		}
	}

	return &DayRouteResponse{Date: date, Mode: mode, Segments: segments}, nil
}

// normalizeRouteIDs trims ids and rejects routes with fewer than two places
// or with blank entries. Repeated ids are allowed; a route may revisit a place.
func normalizeRouteIDs(in []domain.PlaceID) ([]domain.PlaceID, error) {
	if len(in) < 2 {
		return nil, errors.New("a route needs at least two places")
	}
	out := make([]domain.PlaceID, len(in))
	for i, id := range in {
		trimmed := domain.PlaceID(strings.TrimSpace(string(id)))
		if trimmed == "" {
			return nil, errors.New("place ids must not be blank")
		}
		out[i] = trimmed
	}
	return out, nil
}
