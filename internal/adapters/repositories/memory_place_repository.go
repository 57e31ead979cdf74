package repositories

import (
	"context"
	"itinerary-route-service/internal/domain"
	"sort"
)

// In-memory PlaceStore, loaded once and read concurrently without locking.
type MemoryPlaceRepository struct {
	byID map[domain.PlaceID]*domain.Place
}

func NewMemoryPlaceRepository(places []*domain.Place) *MemoryPlaceRepository {
	byID := make(map[domain.PlaceID]*domain.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}
	return &MemoryPlaceRepository{byID: byID}
}

// Load a MemoryPlaceRepository from a places JSON file.
func LoadMemoryPlaceRepository(jsonPath string) (*MemoryPlaceRepository, error) {
	places, err := LoadPlaceSeeds(jsonPath)
	if err != nil {
		return nil, err
	}
	return NewMemoryPlaceRepository(places), nil
}

func (r *MemoryPlaceRepository) GetPlaces(ctx context.Context, ids []domain.PlaceID) (map[domain.PlaceID]*domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[domain.PlaceID]*domain.Place, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *MemoryPlaceRepository) ListPlaces(ctx context.Context, region domain.Region) ([]*domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region = region.Normalize()
	out := make([]*domain.Place, 0, len(r.byID))
	for _, p := range r.byID {
		if region == "" || p.Region.Normalize() == region {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
