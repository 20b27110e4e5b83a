package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
	"github.com/iliyamo/hall-reservation/internal/handler"
	"github.com/iliyamo/hall-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1: hall
// management plus the approval workflow. All routes require a valid JWT
// and the ADMIN role.
func RegisterAdmin(e *echo.Echo, halls *handler.HallHandler, bookings *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(booking.RoleAdmin),
	)

	// ---- Halls ----
	g.POST("/halls", halls.CreateHall)
	g.PUT("/halls/:id", halls.UpdateHall)
	g.PATCH("/halls/:id", halls.UpdateHall)
	g.DELETE("/halls/:id", halls.DeleteHall)

	// ---- Approval workflow ----
	g.POST("/bookings/:id/approve", bookings.Approve)
	g.POST("/bookings/:id/reject", bookings.Reject)
	g.DELETE("/bookings/:id", bookings.Delete)

	// ---- Oversight ----
	g.GET("/admin/bookings", bookings.List)
}
