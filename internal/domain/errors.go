package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies every failure the planning engine can report.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidDateFormat
	KindInvalidDateRange
	KindInvalidDuration
	KindInvalidTravelMode
	KindMalformedPlaces
	KindPlaceNotFound
	KindRegionMismatch
	KindProviderTransient
	KindProviderFatal
	KindCancelled
	KindStoreUnavailable
)

var kindNames = map[ErrorKind]string{
	KindUnknown:           "unknown",
	KindInvalidDateFormat: "invalid_date_format",
	KindInvalidDateRange:  "invalid_date_range",
	KindInvalidDuration:   "invalid_duration",
	KindInvalidTravelMode: "invalid_travel_mode",
	KindMalformedPlaces:   "malformed_places",
	KindPlaceNotFound:     "place_not_found",
	KindRegionMismatch:    "region_mismatch",
	KindProviderTransient: "provider_transient",
	KindProviderFatal:     "provider_fatal",
	KindCancelled:         "cancelled",
	KindStoreUnavailable:  "store_unavailable",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the structured failure returned by the planning engine.
// It carries enough detail (offending value, ids, regions) for the presentation
// layer to build a localized message without parsing strings.
type Error struct {
	Kind     ErrorKind
	Op       string
	Value    string
	PlaceIDs []PlaceID
	Regions  map[Region][]PlaceID
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Value != "" {
		fmt.Fprintf(&b, " value=%q", e.Value)
	}
	if len(e.PlaceIDs) > 0 {
		ids := make([]string, len(e.PlaceIDs))
		for i, id := range e.PlaceIDs {
			ids[i] = string(id)
		}
		fmt.Fprintf(&b, " ids=%s", strings.Join(ids, ","))
	}
	if len(e.Regions) > 0 {
		regions := make([]string, 0, len(e.Regions))
		for r := range e.Regions {
			regions = append(regions, string(r))
		}
		sort.Strings(regions)
		fmt.Fprintf(&b, " regions=%s", strings.Join(regions, ","))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, ErrPlaceNotFound) works
// regardless of the detail carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidDateFormat = &Error{Kind: KindInvalidDateFormat}
	ErrInvalidDateRange  = &Error{Kind: KindInvalidDateRange}
	ErrInvalidDuration   = &Error{Kind: KindInvalidDuration}
	ErrInvalidTravelMode = &Error{Kind: KindInvalidTravelMode}
	ErrMalformedPlaces   = &Error{Kind: KindMalformedPlaces}
	ErrPlaceNotFound     = &Error{Kind: KindPlaceNotFound}
	ErrRegionMismatch    = &Error{Kind: KindRegionMismatch}
	ErrProviderTransient = &Error{Kind: KindProviderTransient}
	ErrProviderFatal     = &Error{Kind: KindProviderFatal}
	ErrCancelled         = &Error{Kind: KindCancelled}
	ErrStoreUnavailable  = &Error{Kind: KindStoreUnavailable}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

// KindOf returns the kind of the first *Error in err's chain. Context
// cancellation that escaped classification is reported as KindCancelled.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindUnknown
}
