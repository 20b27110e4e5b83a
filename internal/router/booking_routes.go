package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
	"github.com/iliyamo/hall-reservation/internal/handler"
	"github.com/iliyamo/hall-reservation/internal/middleware"
)

// RegisterBookings registers the booking lifecycle endpoints under /v1.
// All routes require a valid JWT; both FACULTY and ADMIN may request,
// edit and cancel bookings. Ownership checks run inside the core, so an
// admin passing the role gate can still only act within its powers.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(booking.RoleAdmin, booking.RoleFaculty),
	)
	g.POST("/bookings", h.Create)
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.PUT("/bookings/:id", h.Update)
	g.PATCH("/bookings/:id", h.Update)
	g.POST("/bookings/:id/cancel", h.Cancel)
}
