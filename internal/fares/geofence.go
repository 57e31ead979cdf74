package fares

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	polyline "github.com/twpayne/go-polyline"
)

type area int

const (
	areaMacauPeninsula area = iota
	areaTaipa
	areaColoane
	areaUniversity
	areaHZMBPort
	areaTaipaFerry
	areaAirport
	areaHengqinPort
)

var (
	geofenceOnce sync.Once
	geofences    map[area]orb.Polygon
	geofenceErr  error
)

func loadGeofences() (map[area]orb.Polygon, error) {
	geofenceOnce.Do(func() {
		out := make(map[area]orb.Polygon, len(macauGeofences))
		for a, encoded := range macauGeofences {
			ring, err := decodeRing(encoded)
			if err != nil {
				geofenceErr = fmt.Errorf("decode geofence %d: %w", a, err)
				return
			}
			out[a] = orb.Polygon{ring}
		}
		geofences = out
	})
	return geofences, geofenceErr
}

// decodeRing turns an encoded polyline (lat/lng pairs) into a closed orb ring.
func decodeRing(encoded string) (orb.Ring, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes", len(rest))
	}
	if len(coords) < 3 {
		return nil, fmt.Errorf("ring has %d points, want at least 3", len(coords))
	}

	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, orb.Point{c[1], c[0]})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

// inArea reports whether p lies inside any of the given areas.
func inArea(fences map[area]orb.Polygon, p orb.Point, areas ...area) bool {
	for _, a := range areas {
		if poly, ok := fences[a]; ok && planar.PolygonContains(poly, p) {
			return true
		}
	}
	return false
}
