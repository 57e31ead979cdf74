package ports

import "itinerary-route-service/internal/domain"

// Estimates the fare of a leg for one region. ok is false when no estimate applies.
type FareEstimator interface {
	EstimateFare(leg domain.Leg) (fare domain.Fare, ok bool)
}

// Looks up the estimator registered for a region.
type FareRegistry interface {
	ForRegion(region domain.Region) (FareEstimator, bool)
}
