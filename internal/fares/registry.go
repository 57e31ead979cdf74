// Package fares estimates leg prices for regions where the routing provider
// does not report one.
package fares

import (
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"sync"

	"golang.org/x/text/currency"
)

// Registry maps a region to its fare estimator.
type Registry struct {
	mu         sync.RWMutex
	estimators map[domain.Region]ports.FareEstimator
}

func NewRegistry() *Registry {
	return &Registry{estimators: make(map[domain.Region]ports.FareEstimator)}
}

// DefaultRegistry returns a registry with every built-in estimator.
// Hong Kong has no taxi estimator yet.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.RegionMacau, mustMacauEstimator())
	return r
}

func (r *Registry) Register(region domain.Region, est ports.FareEstimator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimators[region.Normalize()] = est
}

func (r *Registry) ForRegion(region domain.Region) (ports.FareEstimator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	est, ok := r.estimators[region.Normalize()]
	return est, ok
}

var regionCurrencies = map[domain.Region]currency.Unit{
	domain.RegionMacau:    mop,
	domain.RegionHongKong: currency.HKD,
}

// CurrencyFor returns the currency fares are quoted in for region.
func CurrencyFor(region domain.Region) (currency.Unit, bool) {
	u, ok := regionCurrencies[region.Normalize()]
	return u, ok
}
