package dto

type PlanRequest struct {
	StartDate    string   `json:"startDate"`
	DurationDays int      `json:"durationDays"`
	PlaceIDs     []string `json:"placeIds"`
}

type DailyPlanResponse struct {
	Day      int      `json:"day"`
	Date     string   `json:"date"`
	PlaceIDs []string `json:"placeIds"`
}

type PlanResponse struct {
	StartDate string              `json:"startDate"`
	Days      []DailyPlanResponse `json:"days"`
}
