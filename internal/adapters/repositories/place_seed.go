package repositories

import (
	"encoding/json"
	"fmt"
	"itinerary-route-service/internal/domain"
	"os"
	"strings"
)

type LocationSeed struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RegularHoursSeed struct {
	Day   int    `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type HoursSeed struct {
	Timezone string             `json:"timezone"`
	Regular  []RegularHoursSeed `json:"regular"`
}

// PlaceSeed is one entry of a places JSON file.
type PlaceSeed struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Region   string       `json:"region"`
	Category string       `json:"category"`
	Location LocationSeed `json:"location"`
	Hours    *HoursSeed   `json:"hours,omitempty"`
}

// LoadPlaceSeeds reads and validates a places JSON file.
func LoadPlaceSeeds(jsonPath string) ([]*domain.Place, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed places: parse json: %w", err)
	}

	return placesFromSeeds(data)
}

func placesFromSeeds(data []PlaceSeed) ([]*domain.Place, error) {
	seen := make(map[domain.PlaceID]struct{}, len(data))
	places := make([]*domain.Place, 0, len(data))
	for i, item := range data {
		id := domain.PlaceID(strings.TrimSpace(item.ID))
		if id == "" {
			return nil, fmt.Errorf("seed places: item at index %d: id cannot be empty", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seed places: duplicate id %q at index %d", id, i+1)
		}
		seen[id] = struct{}{}

		region := domain.Region(item.Region).Normalize()
		if region == "" {
			return nil, fmt.Errorf("seed places: id=%q: region cannot be empty", id)
		}

		loc := domain.Coordinates{Lon: item.Location.Longitude, Lat: item.Location.Latitude}
		if !loc.Valid() {
			return nil, fmt.Errorf("seed places: id=%q: invalid coordinates %v", id, loc.CoordsToList())
		}

		p := &domain.Place{
			ID:       id,
			Name:     strings.TrimSpace(item.Name),
			Region:   region,
			Category: strings.TrimSpace(item.Category),
			Address:  strings.TrimSpace(item.Location.Address),
			Location: loc,
		}
		if item.Hours != nil {
			p.Hours = hoursFromSeed(item.Hours)
		}
		places = append(places, p)
	}
	return places, nil
}

func hoursFromSeed(h *HoursSeed) *domain.OpeningHours {
	out := &domain.OpeningHours{Timezone: h.Timezone, Regular: make([]domain.RegularHours, len(h.Regular))}
	for i, r := range h.Regular {
		out.Regular[i] = domain.RegularHours{Day: r.Day, Open: r.Open, Close: r.Close}
	}
	return out
}

func hoursToSeed(h *domain.OpeningHours) *HoursSeed {
	if h == nil {
		return nil
	}
	out := &HoursSeed{Timezone: h.Timezone, Regular: make([]RegularHoursSeed, len(h.Regular))}
	for i, r := range h.Regular {
		out.Regular[i] = RegularHoursSeed{Day: r.Day, Open: r.Open, Close: r.Close}
	}
	return out
}
