package handlers

import (
	"context"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Planner interface {
	Plan(ctx context.Context, req services.PlanRequest) (*domain.Itinerary, error)
}

type PlanHandler struct {
	Planner Planner
}

// Plan handles POST /api/v1/itinerary/plan. It distributes the requested
// places over the trip days; per-day routes are requested separately.
func (h *PlanHandler) Plan(c *gin.Context) {
	var req dto.PlanRequest
	if !decodeJSON(c, &req) {
		return
	}

	it, err := h.Planner.Plan(c.Request.Context(), services.PlanRequest{
		StartDate:    req.StartDate,
		DurationDays: req.DurationDays,
		PlaceIDs:     placeIDs(req.PlaceIDs),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	res := dto.PlanResponse{
		StartDate: it.StartDate.Format(domain.DateLayout),
		Days:      make([]dto.DailyPlanResponse, 0, len(it.Days)),
	}
	for _, d := range it.Days {
		res.Days = append(res.Days, dto.DailyPlanResponse{
			Day:      d.Day,
			Date:     d.Date.Format(domain.DateLayout),
			PlaceIDs: idStrings(d.PlaceIDs),
		})
	}

	c.JSON(http.StatusOK, res)
}
