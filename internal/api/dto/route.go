package dto

type DayRouteRequest struct {
	Date     string   `json:"date"`
	Mode     string   `json:"mode"`
	PlaceIDs []string `json:"placeIds"`
}

type FareResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type SegmentResponse struct {
	OriginID        string        `json:"originId"`
	DestinationID   string        `json:"destinationId"`
	Mode            string        `json:"mode"`
	DistanceMeters  int           `json:"distanceMeters"`
	DurationSeconds int           `json:"durationSeconds"`
	Fare            *FareResponse `json:"fare,omitempty"`
	TransitOption   string        `json:"transitOption,omitempty"`
	Polyline        string        `json:"polyline,omitempty"`
}

type DayRouteResponse struct {
	Date     string            `json:"date"`
	Mode     string            `json:"mode"`
	Segments []SegmentResponse `json:"segments"`
}
