package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Port: read-only boundary to the place store.
type PlaceStore interface {
	// Return the places found for ids, keyed by id. Unknown ids are simply absent.
	GetPlaces(ctx context.Context, ids []domain.PlaceID) (map[domain.PlaceID]*domain.Place, error)
	// Return all places, optionally filtered by region (empty region = all).
	ListPlaces(ctx context.Context, region domain.Region) ([]*domain.Place, error)
}
