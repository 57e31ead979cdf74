package domain

import "time"

// DateLayout is the wire format of calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Ordered visiting sequence for one calendar day of a trip.
type DailyPlan struct {
	Day      int
	Date     time.Time
	PlaceIDs []PlaceID
}

// Represents a trip plan: one DailyPlan per day of the trip, in calendar order.
// Every requested place appears in exactly one day.
type Itinerary struct {
	StartDate time.Time
	Days      []DailyPlan
}

// NewItinerary creates durationDays empty days starting at start.
func NewItinerary(start time.Time, durationDays int) *Itinerary {
	if durationDays < 1 {
		durationDays = 1
	}
	days := make([]DailyPlan, durationDays)
	for i := range days {
		days[i] = DailyPlan{
			Day:      i + 1,
			Date:     start.AddDate(0, 0, i),
			PlaceIDs: []PlaceID{},
		}
	}
	return &Itinerary{StartDate: start, Days: days}
}

// Add appends places to a day. Day indexes are 1-based and clamped into
// [1, len(Days)] so a bad index can never change the itinerary length.
func (it *Itinerary) Add(day int, ids ...PlaceID) {
	if day < 1 {
		day = 1
	}
	if day > len(it.Days) {
		day = len(it.Days)
	}
	it.Days[day-1].PlaceIDs = append(it.Days[day-1].PlaceIDs, ids...)
}

// PlaceCount returns the number of places assigned across all days.
func (it *Itinerary) PlaceCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.PlaceIDs)
	}
	return n
}
