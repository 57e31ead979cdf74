package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
	"time"
)

// Cache of provider legs keyed by an opaque query key.
type LegCache interface {
	// Return cached legs for key; ok is false on a miss or an expired entry.
	GetLegs(ctx context.Context, key string) (legs []domain.Leg, ok bool, err error)
	// Store legs under key for ttl.
	PutLegs(ctx context.Context, key string, legs []domain.Leg, ttl time.Duration) error
}
