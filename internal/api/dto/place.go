package dto

type LocationResponse struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RegularHoursResponse struct {
	Day   int    `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type HoursResponse struct {
	Timezone string                 `json:"timezone"`
	Regular  []RegularHoursResponse `json:"regular"`
}

type PlaceResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Region   string           `json:"region"`
	Category string           `json:"category,omitempty"`
	Location LocationResponse `json:"location"`
	Hours    *HoursResponse   `json:"hours,omitempty"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

type RegionResponse struct {
	ID       string `json:"id"`
	Currency string `json:"currency,omitempty"`
}

type ListRegionsResponse struct {
	Regions []RegionResponse `json:"regions"`
}
