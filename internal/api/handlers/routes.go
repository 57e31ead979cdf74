package handlers

import (
	"context"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DayRouter interface {
	Compute(ctx context.Context, req services.DayRouteRequest) (*services.DayRouteResponse, error)
}

type RouteHandler struct {
	Router DayRouter
}

// DayRoute handles POST /api/v1/routes/day
func (h *RouteHandler) DayRoute(c *gin.Context) {
	var req dto.DayRouteRequest
	if !decodeJSON(c, &req) {
		return
	}

	out, err := h.Router.Compute(c.Request.Context(), services.DayRouteRequest{
		Date:     req.Date,
		Mode:     req.Mode,
		PlaceIDs: placeIDs(req.PlaceIDs),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	res := dto.DayRouteResponse{
		Date:     out.Date.Format(domain.DateLayout),
		Mode:     string(out.Mode),
		Segments: make([]dto.SegmentResponse, 0, len(out.Segments)),
	}
	for _, s := range out.Segments {
		seg := dto.SegmentResponse{
			OriginID:        string(s.OriginID),
			DestinationID:   string(s.DestinationID),
			Mode:            string(s.Mode),
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			TransitOption:   string(s.TransitOption),
			Polyline:        s.Polyline,
		}
		if s.Fare != nil {
			seg.Fare = &dto.FareResponse{Amount: s.Fare.Amount, Currency: s.Fare.Currency}
		}
		res.Segments = append(res.Segments, seg)
	}

	c.JSON(http.StatusOK, res)
}
