package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/venuekit/seating-chart/internal/handler" // handlers implement the endpoint logic
)

// RegisterRoutes registers routes that carry no middleware on the
// provided Echo instance. Currently it exposes only a health check that
// load balancers and monitoring systems can probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterChart registers the seating-chart endpoints. Write operations
// (ingest, filter, selection) are applied directly; the read endpoints
// additionally run through the supplied middleware chain, which in the
// default wiring is the Redis response cache and the rate limiter.
func RegisterChart(e *echo.Echo, h *handler.ChartHandler, readMW ...echo.MiddlewareFunc) {
	g := e.Group("/v1/charts/:hall")

	// Data supply: a full batch of flat records, or pre-grouped legacy
	// bookings that bypass normalization and filtering.
	g.POST("/records", h.IngestRecords)
	g.POST("/group-bookings", h.IngestGroupBookings)

	// Filter changes are debounced inside the engine; the endpoint
	// acknowledges scheduling, not application.
	g.PUT("/filter", h.SetFilter)

	// Selection is chart state, not client state, so it lives here too.
	g.POST("/selection", h.Select)
	g.DELETE("/selection", h.ClearSelection)

	// Read endpoints get the cache/rate-limit chain.
	read := e.Group("/v1/charts/:hall", readMW...)
	read.GET("/segments", h.GetSegments)
	read.GET("/selection", h.GetSelection)
}
