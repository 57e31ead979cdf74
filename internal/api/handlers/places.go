package handlers

import (
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/fares"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// PlaceHandler exposes read-only place retrieval endpoints.
type PlaceHandler struct {
	Store   ports.PlaceStore
	Regions []domain.Region
}

// List handles GET /api/v1/places?region=
func (h *PlaceHandler) List(c *gin.Context) {
	region := domain.Region(c.Query("region")).Normalize()
	if region != "" && !slices.Contains(h.Regions, region) {
		WriteError(c, http.StatusBadRequest, CodeBadRequest, "unknown region", map[string]any{
			"region":  string(region),
			"allowed": h.Regions,
		})
		return
	}

	places, err := h.Store.ListPlaces(c.Request.Context(), region)
	if err != nil {
		obs.Logf(c.Request.Context(), "list places failed: %v", err)
		WriteError(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
		return
	}

	res := dto.ListPlacesResponse{Places: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		if region == "" && !slices.Contains(h.Regions, p.Region.Normalize()) {
			continue
		}
		res.Places = append(res.Places, placeResponse(p))
	}

	c.JSON(http.StatusOK, res)
}

// Get handles GET /api/v1/places/:id
func (h *PlaceHandler) Get(c *gin.Context) {
	id := domain.PlaceID(strings.TrimSpace(c.Param("id")))

	found, err := h.Store.GetPlaces(c.Request.Context(), []domain.PlaceID{id})
	if err != nil {
		obs.Logf(c.Request.Context(), "get place failed: id=%s err=%v", id, err)
		WriteError(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
		return
	}
	p, ok := found[id]
	if !ok {
		writeDomainError(c, &domain.Error{Kind: domain.KindPlaceNotFound, Op: "get place", PlaceIDs: []domain.PlaceID{id}})
		return
	}

	c.JSON(http.StatusOK, placeResponse(p))
}

// ListRegions handles GET /api/v1/regions
func (h *PlaceHandler) ListRegions(c *gin.Context) {
	res := dto.ListRegionsResponse{Regions: make([]dto.RegionResponse, 0, len(h.Regions))}
	for _, r := range sortedRegions(h.Regions) {
		item := dto.RegionResponse{ID: string(r)}
		if u, ok := fares.CurrencyFor(r); ok {
			item.Currency = u.String()
		}
		res.Regions = append(res.Regions, item)
	}
	c.JSON(http.StatusOK, res)
}

func placeResponse(p *domain.Place) dto.PlaceResponse {
	res := dto.PlaceResponse{
		ID:       string(p.ID),
		Name:     p.Name,
		Region:   string(p.Region),
		Category: p.Category,
		Location: dto.LocationResponse{
			Address:   p.Address,
			Latitude:  p.Location.Lat,
			Longitude: p.Location.Lon,
		},
	}
	if p.Hours != nil {
		h := &dto.HoursResponse{Timezone: p.Hours.Timezone, Regular: make([]dto.RegularHoursResponse, len(p.Hours.Regular))}
		for i, r := range p.Hours.Regular {
			h.Regular[i] = dto.RegularHoursResponse{Day: r.Day, Open: r.Open, Close: r.Close}
		}
		res.Hours = h
	}
	return res
}
