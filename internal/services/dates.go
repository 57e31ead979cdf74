package services

import (
	"itinerary-route-service/internal/domain"
	"strings"
	"time"
)

const (
	// First and last departure of a planned day, local to the canonical timezone.
	dayStartHour = 9
	dayEndHour   = 18

	// Driving and walking departures must not lie in the past; they are pushed
	// forward by whole weeks so the weekday and time of day are kept.
	futureShiftStep   = 7 * 24 * time.Hour
	futureShiftBuffer = 5 * time.Minute
)

// parseDate parses a YYYY-MM-DD string as midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(domain.DateLayout) {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(domain.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// spreadDepartures returns n instants evenly spaced between start and stop,
// both inclusive. A single departure is placed halfway.
func spreadDepartures(start, stop time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []time.Time{start.Add(stop.Sub(start) / 2)}
	}
	step := stop.Sub(start) / time.Duration(n-1)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

// shiftToFuture moves dt forward in whole steps until it is not before now+offset.
func shiftToFuture(dt, now time.Time, step, offset time.Duration) time.Time {
	limit := now.Add(offset)
	if !dt.Before(limit) {
		return dt
	}
	steps := limit.Sub(dt)/step + 1
	return dt.Add(step * steps)
}

// departureTimes assigns one departure per provider query of a day.
func departureTimes(date time.Time, n int, mode domain.TravelMode, now time.Time, loc *time.Location) []time.Time {
	day := startOfDay(date, loc)
	start := day.Add(dayStartHour * time.Hour)
	stop := day.Add(dayEndHour * time.Hour)

	out := spreadDepartures(start, stop, n)
	if mode == domain.TravelModeTransit {
		return out
	}
	for i, dt := range out {
		out[i] = shiftToFuture(dt, now, futureShiftStep, futureShiftBuffer)
	}
	return out
}
