package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"strings"
)

// PlaceLookup resolves place ids against the place store.
type PlaceLookup struct {
	Store ports.PlaceStore
}

func NewPlaceLookup(store ports.PlaceStore) *PlaceLookup {
	return &PlaceLookup{Store: store}
}

// Resolve returns the places for ids in the same order as ids.
// Any id missing from the store fails the whole call with KindPlaceNotFound;
// the error lists the missing ids in input order.
func (l *PlaceLookup) Resolve(ctx context.Context, ids []domain.PlaceID) (_ []*domain.Place, err error) {
	defer obs.Time(ctx, "places.Resolve")(&err)

	if l.Store == nil {
		return nil, errors.New("resolve places: store is nil")
	}
	if len(ids) == 0 {
		return []*domain.Place{}, nil
	}

	found, err := l.Store.GetPlaces(ctx, ids)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &domain.Error{Kind: domain.KindCancelled, Op: "resolve places", Err: ctxErr}
		}
		return nil, &domain.Error{Kind: domain.KindStoreUnavailable, Op: "resolve places", Err: err}
	}

	places := make([]*domain.Place, 0, len(ids))
	var missing []domain.PlaceID
	for _, id := range ids {
		p, ok := found[id]
		if !ok || p == nil {
			missing = append(missing, id)
			continue
		}
		places = append(places, p)
	}

	if len(missing) > 0 {
		return nil, &domain.Error{
			Kind:     domain.KindPlaceNotFound,
			Op:       "resolve places",
			PlaceIDs: missing,
		}
	}

	return places, nil
}

// AllSameRegion reports whether every place shares the first place's region,
// compared case-insensitively.
func AllSameRegion(places []*domain.Place) bool {
	if len(places) == 0 {
		return true
	}
	first := string(places[0].Region)
	for _, p := range places[1:] {
		if !strings.EqualFold(string(p.Region), first) {
			return false
		}
	}
	return true
}

// RegionsOf groups place ids by normalized region, preserving input order.
func RegionsOf(places []*domain.Place) map[domain.Region][]domain.PlaceID {
	out := make(map[domain.Region][]domain.PlaceID)
	for _, p := range places {
		r := p.Region.Normalize()
		out[r] = append(out[r], p.ID)
	}
	return out
}

// resolveSameRegion runs the existence and consistency checks shared by the
// day-route computer and the optimizer.
func (l *PlaceLookup) resolveSameRegion(ctx context.Context, op string, ids []domain.PlaceID) ([]*domain.Place, error) {
	places, err := l.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !AllSameRegion(places) {
		return nil, &domain.Error{
			Kind:    domain.KindRegionMismatch,
			Op:      op,
			Regions: RegionsOf(places),
		}
	}

	return places, nil
}
