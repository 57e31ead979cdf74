package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Longest trip Plan accepts.
const maxDurationDays = 366

type PlanRequest struct {
	StartDate    string
	DurationDays int
	PlaceIDs     []domain.PlaceID
}

// Optimizer assigns places to the days of a trip and orders each day.
//
// The heuristic is deterministic: the same set of ids yields the same
// itinerary regardless of input order. It never contacts the routing provider
// unless provider costs are enabled, and a provider failure only degrades the
// cost model back to great-circle distance.
type Optimizer struct {
	places       *PlaceLookup
	gateway      *Gateway
	location     *time.Location
	providerCost bool
	costMode     domain.TravelMode
}

type OptimizerOption func(*Optimizer)

// WithProviderCost orders each day by provider durations for mode instead of
// great-circle distance. The gateway must be set.
func WithProviderCost(gateway *Gateway, mode domain.TravelMode) OptimizerOption {
	return func(o *Optimizer) {
		o.gateway = gateway
		o.costMode = mode
		o.providerCost = gateway != nil
	}
}

func NewOptimizer(places *PlaceLookup, loc *time.Location, opts ...OptimizerOption) *Optimizer {
	if loc == nil {
		loc = time.UTC
	}
	o := &Optimizer{places: places, location: loc, costMode: domain.TravelModeDriving}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan builds an itinerary of exactly req.DurationDays days.
func (o *Optimizer) Plan(ctx context.Context, req PlanRequest) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "optimizer.Plan")(&err)

	const op = "plan itinerary"

	start, ok := parseDate(req.StartDate, o.location)
	if !ok {
		return nil, &domain.Error{Kind: domain.KindInvalidDateFormat, Op: op, Value: req.StartDate}
	}
	if req.DurationDays < 1 || req.DurationDays > maxDurationDays {
		return nil, &domain.Error{Kind: domain.KindInvalidDuration, Op: op, Value: fmt.Sprint(req.DurationDays)}
	}

	it := domain.NewItinerary(start, req.DurationDays)

	ids := uniqueSortedIDs(req.PlaceIDs)
	if len(ids) == 0 {
		return it, nil
	}

	places, err := o.places.resolveSameRegion(ctx, op, ids)
	if err != nil {
		return nil, err
	}

	points := make([]orb.Point, len(places))
	for i, p := range places {
		points[i] = orb.Point{p.Location.Lon, p.Location.Lat}
	}

	buckets, err := partition(ctx, points, req.DurationDays)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: err}
	}

	for b, bucket := range buckets {
		cost, err := o.bucketCost(ctx, places, points, bucket)
		if err != nil {
			return nil, err
		}
		if buckets[b], err = sequence(ctx, bucket, cost); err != nil {
			return nil, &domain.Error{Kind: domain.KindCancelled, Op: op, Err: err}
		}
	}

	dayOf := matchBucketsToDays(places, buckets, it)
	for b, bucket := range buckets {
		dayIDs := make([]domain.PlaceID, len(bucket))
		for i, idx := range bucket {
			dayIDs[i] = places[idx].ID
		}
		it.Add(dayOf[b]+1, dayIDs...)
	}

	return it, nil
}

// bucketCost returns the cost model for one bucket. Only cancellation is
// reported as an error; any other provider failure falls back to distance.
func (o *Optimizer) bucketCost(ctx context.Context, places []*domain.Place, points []orb.Point, bucket []int) (costFunc, error) {
	haversine := func(i, j int) float64 {
		return geo.DistanceHaversine(points[i], points[j])
	}
	if !o.providerCost || len(bucket) < 3 {
		return haversine, nil
	}

	coords := make([]domain.Coordinates, len(bucket))
	pos := make(map[int]int, len(bucket))
	for k, idx := range bucket {
		coords[k] = places[idx].Location
		pos[idx] = k
	}

	m, err := o.gateway.EstimateMatrix(ctx, o.costMode, coords)
	if err != nil {
		if domain.KindOf(err) == domain.KindCancelled || ctx.Err() != nil {
			return nil, &domain.Error{Kind: domain.KindCancelled, Op: "plan itinerary", Err: errors.Join(err, ctx.Err())}
		}
		obs.Logf(ctx, "op=optimizer.bucketCost fallback=haversine err=%v", err)
		return haversine, nil
	}

	return func(i, j int) float64 {
		return float64(m[pos[i]][pos[j]])
	}, nil
}

// matchBucketsToDays maps bucket index to 0-based day index. Each day takes
// the unused bucket with the most places open on that weekday; ties go to the
// lower bucket index, so without opening hours bucket b lands on day b.
func matchBucketsToDays(places []*domain.Place, buckets [][]int, it *domain.Itinerary) []int {
	dayOf := make([]int, len(buckets))
	used := make([]bool, len(buckets))

	for d := range it.Days {
		weekday := it.Days[d].Date.Weekday()
		best, bestScore := -1, -1
		for b, bucket := range buckets {
			if used[b] {
				continue
			}
			score := 0
			for _, idx := range bucket {
				if places[idx].OpenOn(weekday) {
					score++
				}
			}
			if score > bestScore {
				best, bestScore = b, score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		dayOf[best] = d
	}

	return dayOf
}

// uniqueSortedIDs trims, drops blanks and duplicates, and sorts ids so the
// plan does not depend on input order.
func uniqueSortedIDs(in []domain.PlaceID) []domain.PlaceID {
	seen := make(map[domain.PlaceID]struct{}, len(in))
	out := make([]domain.PlaceID, 0, len(in))
	for _, id := range in {
		id = domain.PlaceID(strings.TrimSpace(string(id)))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
