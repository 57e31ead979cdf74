package api

import (
	"itinerary-route-service/internal/api/handlers"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"time"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Places         ports.PlaceStore
	DayRoutes      handlers.DayRouter
	Planner        handlers.Planner
	Regions        []domain.Region
	RequestTimeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns the gin engine.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog())
	r.Use(timeout(d.RequestTimeout))

	placeHandler := &handlers.PlaceHandler{Store: d.Places, Regions: d.Regions}
	routeHandler := &handlers.RouteHandler{Router: d.DayRoutes}
	planHandler := &handlers.PlanHandler{Planner: d.Planner}

	r.GET("/health", handlers.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/regions", placeHandler.ListRegions)
		v1.GET("/places", placeHandler.List)
		v1.GET("/places/:id", placeHandler.Get)
		v1.POST("/routes/day", routeHandler.DayRoute)
		v1.POST("/itinerary/plan", planHandler.Plan)
	}

	return r
}
