package fares

import (
	"itinerary-route-service/internal/domain"
	"log"
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/text/currency"
)

// Macau taxi tariff.
const (
	baseFare        = 21.0
	baseDistanceM   = 1600.0
	stepFare        = 2.0
	stepDistanceM   = 220.0
	stopFare        = 2.0
	stopDurationS   = 55.0
	freeFlowSecPerM = 0.06 // 60 km/h

	surchargeTaipaColoane = 2.0
	surchargeMacauColoane = 5.0
	surchargePorts        = 8.0
	surchargeUniversity   = 5.0
)

var mop = currency.MustParseISO("MOP")

// MacauTaxiEstimator prices driving legs with the Macau taxi meter:
// a flag fall, distance steps, waiting time and zone surcharges.
type MacauTaxiEstimator struct {
	fences map[area]orb.Polygon
}

// NewMacauTaxiEstimator decodes the fare zones. It fails only if the
// embedded geofences are corrupt.
func NewMacauTaxiEstimator() (*MacauTaxiEstimator, error) {
	fences, err := loadGeofences()
	if err != nil {
		return nil, err
	}
	return &MacauTaxiEstimator{fences: fences}, nil
}

func (e *MacauTaxiEstimator) EstimateFare(leg domain.Leg) (domain.Fare, bool) {
	if leg.Mode != domain.TravelModeDriving || leg.DistanceMeters < 0 || leg.DurationSeconds < 0 {
		return domain.Fare{}, false
	}

	pickup := orb.Point{leg.Start.Lon, leg.Start.Lat}
	dropoff := orb.Point{leg.End.Lon, leg.End.Lat}

	fare := distanceFare(leg.DistanceMeters) +
		waitingFare(leg.DurationSeconds, leg.DistanceMeters) +
		e.surcharges(pickup, dropoff)

	return domain.Fare{Amount: fare, Currency: mop.String()}, true
}

func distanceFare(distanceM int) float64 {
	extra := math.Max(0, float64(distanceM)-baseDistanceM)
	return baseFare + math.Ceil(extra/stepDistanceM)*stepFare
}

// waitingFare charges for the time spent beyond a free-flowing trip of the same length.
func waitingFare(durationS, distanceM int) float64 {
	extra := math.Max(0, float64(durationS)-float64(distanceM)*freeFlowSecPerM)
	return math.Ceil(extra/stopDurationS) * stopFare
}

func (e *MacauTaxiEstimator) surcharges(pickup, dropoff orb.Point) float64 {
	var s float64
	if inArea(e.fences, dropoff, areaColoane) {
		switch {
		case inArea(e.fences, pickup, areaTaipa):
			s += surchargeTaipaColoane
		case inArea(e.fences, pickup, areaMacauPeninsula):
			s += surchargeMacauColoane
		}
	}
	if inArea(e.fences, pickup, areaHZMBPort, areaAirport, areaTaipaFerry, areaHengqinPort) {
		s += surchargePorts
	}
	if inArea(e.fences, pickup, areaUniversity) {
		s += surchargeUniversity
	}
	return s
}

func mustMacauEstimator() *MacauTaxiEstimator {
	e, err := NewMacauTaxiEstimator()
	if err != nil {
		log.Fatalf("fares: %v", err)
	}
	return e
}
