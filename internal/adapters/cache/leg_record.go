package cache

import (
	"encoding/json"
	"fmt"
	"itinerary-route-service/internal/domain"
)

// legRecord is the stored form of a domain.Leg. Field names are part of the
// cache format; renaming one invalidates existing entries.
type legRecord struct {
	Mode            string     `json:"mode"`
	DistanceMeters  int        `json:"distance_meters"`
	DurationSeconds int        `json:"duration_seconds"`
	Polyline        string     `json:"polyline,omitempty"`
	FareAmount      *float64   `json:"fare_amount,omitempty"`
	FareCurrency    string     `json:"fare_currency,omitempty"`
	TransitOption   string     `json:"transit_option,omitempty"`
	Start           [2]float64 `json:"start"`
	End             [2]float64 `json:"end"`
}

func encodeLegs(legs []domain.Leg) ([]byte, error) {
	recs := make([]legRecord, len(legs))
	for i, l := range legs {
		r := legRecord{
			Mode:            string(l.Mode),
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
			Polyline:        l.Polyline,
			TransitOption:   string(l.TransitOption),
			Start:           [2]float64{l.Start.Lon, l.Start.Lat},
			End:             [2]float64{l.End.Lon, l.End.Lat},
		}
		if l.Fare != nil {
			amount := l.Fare.Amount
			r.FareAmount = &amount
			r.FareCurrency = l.Fare.Currency
		}
		recs[i] = r
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode legs: %w", err)
	}
	return b, nil
}

func decodeLegs(b []byte) ([]domain.Leg, error) {
	var recs []legRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode legs: %w", err)
	}
	legs := make([]domain.Leg, len(recs))
	for i, r := range recs {
		l := domain.Leg{
			Mode:            domain.TravelMode(r.Mode),
			DistanceMeters:  r.DistanceMeters,
			DurationSeconds: r.DurationSeconds,
			Polyline:        r.Polyline,
			TransitOption:   domain.TransitOption(r.TransitOption),
			Start:           domain.Coordinates{Lon: r.Start[0], Lat: r.Start[1]},
			End:             domain.Coordinates{Lon: r.End[0], Lat: r.End[1]},
		}
		if r.FareAmount != nil {
			l.Fare = &domain.Fare{Amount: *r.FareAmount, Currency: r.FareCurrency}
		}
		legs[i] = l
	}
	return legs, nil
}
