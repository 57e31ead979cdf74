package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Non-standard status used when the caller went away before the answer was ready.
const StatusClientClosedRequest = 499

const (
	CodeBadRequest     = "bad_request"
	CodeInternal       = "internal"
	CodeRequestTimeout = "request_timeout"
	CodeBodyTooLarge   = "body_too_large"
)

// Largest request body decodeJSON reads.
const maxBodyBytes = 1 << 20

func WriteError(c *gin.Context, status int, code, msg string, details map[string]any) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: dto.ErrorBody{
		Code:    code,
		Message: msg,
		Details: details,
	}})
}

// decodeJSON reads exactly one JSON object of at most maxBodyBytes into v,
// rejecting unknown fields. It writes a 400 (413 when oversized) and returns
// false on failure.
func decodeJSON(c *gin.Context, v any) bool {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeDecodeError(c, err, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeDecodeError(c, err, "body must contain only one JSON object")
		return false
	}
	return true
}

func writeDecodeError(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "request body too large", nil)
		return
	}
	WriteError(c, http.StatusBadRequest, CodeBadRequest, msg, nil)
}

func statusForKind(k domain.ErrorKind) int {
	switch k {
	case domain.KindInvalidDateFormat,
		domain.KindInvalidDateRange,
		domain.KindInvalidDuration,
		domain.KindInvalidTravelMode,
		domain.KindMalformedPlaces,
		domain.KindRegionMismatch:
		return http.StatusUnprocessableEntity
	case domain.KindPlaceNotFound:
		return http.StatusNotFound
	case domain.KindProviderTransient, domain.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusBadGateway
	}
}

var kindMessages = map[domain.ErrorKind]string{
	domain.KindInvalidDateFormat: "date must be formatted as YYYY-MM-DD",
	domain.KindInvalidDateRange:  "date must not be in the past",
	domain.KindInvalidDuration:   "durationDays must be between 1 and 366",
	domain.KindInvalidTravelMode: "mode must be one of transit, driving, walking",
	domain.KindMalformedPlaces:   "placeIds must list at least two non-empty ids",
	domain.KindPlaceNotFound:     "one or more places do not exist",
	domain.KindRegionMismatch:    "places must all belong to one region",
	domain.KindProviderTransient: "routing provider is temporarily unavailable",
	domain.KindProviderFatal:     "routing provider rejected the request",
	domain.KindCancelled:         "request cancelled",
	domain.KindStoreUnavailable:  "place store is unavailable",
	domain.KindUnknown:           "unexpected upstream failure",
}

// writeDomainError maps a planning error onto the HTTP error envelope.
func writeDomainError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindCancelled && errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
		WriteError(c, http.StatusServiceUnavailable, CodeRequestTimeout, "request timed out", nil)
		return
	}
	status := statusForKind(kind)

	if status >= http.StatusInternalServerError {
		obs.Logf(c.Request.Context(), "handler=%s status=%d err=%v", c.FullPath(), status, err)
	}

	var details map[string]any
	var de *domain.Error
	if errors.As(err, &de) {
		details = errorDetails(de)
	}
	WriteError(c, status, kind.String(), kindMessages[kind], details)
}

func errorDetails(e *domain.Error) map[string]any {
	d := map[string]any{}
	if e.Value != "" {
		d["value"] = e.Value
	}
	if len(e.PlaceIDs) > 0 {
		d["placeIds"] = idStrings(e.PlaceIDs)
	}
	if len(e.Regions) > 0 {
		regions := make(map[string][]string, len(e.Regions))
		for r, ids := range e.Regions {
			regions[string(r)] = idStrings(ids)
		}
		d["regions"] = regions
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

func idStrings(ids []domain.PlaceID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func placeIDs(in []string) []domain.PlaceID {
	out := make([]domain.PlaceID, len(in))
	for i, s := range in {
		out[i] = domain.PlaceID(s)
	}
	return out
}

func sortedRegions(in []domain.Region) []domain.Region {
	out := append([]domain.Region(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
