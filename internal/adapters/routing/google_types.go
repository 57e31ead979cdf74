package routing

// JSON shapes for the Google Routes API v2. Only the fields named in the
// field masks are decoded.

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type location struct {
	LatLng latLng `json:"latLng"`
}

type waypoint struct {
	Location location `json:"location"`
}

type computeRoutesRequest struct {
	Origin                   waypoint   `json:"origin"`
	Destination              waypoint   `json:"destination"`
	Intermediates            []waypoint `json:"intermediates,omitempty"`
	TravelMode               string     `json:"travelMode"`
	RoutingPreference        string     `json:"routingPreference,omitempty"`
	DepartureTime            string     `json:"departureTime,omitempty"`
	ComputeAlternativeRoutes bool       `json:"computeAlternativeRoutes"`
	LanguageCode             string     `json:"languageCode"`
	Units                    string     `json:"units"`
}

type computeRoutesResponse struct {
	Routes []route `json:"routes"`
}

type route struct {
	Legs           []routeLeg     `json:"legs"`
	TravelAdvisory travelAdvisory `json:"travelAdvisory"`
}

type travelAdvisory struct {
	TransitFare *money `json:"transitFare"`
}

// money follows google.type.Money; units is an int64 encoded as a string.
type money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        string `json:"units"`
	Nanos        int64  `json:"nanos"`
}

type routeLeg struct {
	DistanceMeters int       `json:"distanceMeters"`
	Duration       string    `json:"duration"`
	Polyline       polyline  `json:"polyline"`
	StartLocation  *location `json:"startLocation"`
	EndLocation    *location `json:"endLocation"`
	Steps          []step    `json:"steps"`
}

type polyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}

type step struct {
	TravelMode     string          `json:"travelMode"`
	TransitDetails *transitDetails `json:"transitDetails"`
}

type transitDetails struct {
	TransitLine struct {
		Vehicle struct {
			Type string `json:"type"`
		} `json:"vehicle"`
	} `json:"transitLine"`
}

type matrixEndpoint struct {
	Waypoint waypoint `json:"waypoint"`
}

type computeRouteMatrixRequest struct {
	Origins           []matrixEndpoint `json:"origins"`
	Destinations      []matrixEndpoint `json:"destinations"`
	TravelMode        string           `json:"travelMode"`
	RoutingPreference string           `json:"routingPreference,omitempty"`
	DepartureTime     string           `json:"departureTime,omitempty"`
}

type matrixElement struct {
	OriginIndex      int    `json:"originIndex"`
	DestinationIndex int    `json:"destinationIndex"`
	Duration         string `json:"duration"`
	Condition        string `json:"condition"`
	Status           *struct {
		Code int `json:"code"`
	} `json:"status"`
}
