package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints. Guests can
// inspect the hall inventory and probe slot availability before signing
// up; no JWT or role middleware applies here. The optional mw chain
// (typically the Redis response cache) wraps every public GET.
func RegisterPublic(e *echo.Echo, h *handler.HallHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/halls", h.ListHalls, mw...)
	e.GET("/v1/halls/:id", h.GetHall, mw...)
	// Availability reflects pending and approved bookings so callers see
	// slots an admin has yet to decide on.
	e.GET("/v1/halls/:id/availability", h.Availability, mw...)
}
