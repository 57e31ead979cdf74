package domain

import (
	"strings"
	"time"
)

// Stable key of a place in the place store.
type PlaceID string

// Top-level grouping of places. It decides the routing partition and the
// currency used for fares.
type Region string

const (
	RegionHongKong Region = "hong-kong"
	RegionMacau    Region = "macau"
)

// Normalize lower-cases and trims a region so lookups are case-insensitive.
func (r Region) Normalize() Region {
	return Region(strings.ToLower(strings.TrimSpace(string(r))))
}

// One weekly opening window. Day follows time.Weekday (0 = Sunday).
type RegularHours struct {
	Day   int
	Open  string
	Close string
}

type OpeningHours struct {
	Timezone string
	Regular  []RegularHours
}

// Represents a point of interest a traveller can visit.
// Places are owned by the place store and treated as read-only records.
type Place struct {
	ID       PlaceID
	Name     string
	Region   Region
	Category string
	Address  string
	Location Coordinates
	Hours    *OpeningHours
}

// OpenOn reports whether the place opens at all on the given weekday.
// Places without published hours are treated as always open.
func (p *Place) OpenOn(day time.Weekday) bool {
	if p.Hours == nil || len(p.Hours.Regular) == 0 {
		return true
	}
	for _, h := range p.Hours.Regular {
		if time.Weekday(((h.Day%7)+7)%7) == day {
			return true
		}
	}
	return false
}
