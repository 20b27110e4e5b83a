package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
	"github.com/iliyamo/hall-reservation/internal/repository"
)

// BookingHandler serves the faculty-facing booking endpoints.
type BookingHandler struct {
	Core     *booking.Service
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler and panics on nil deps.
func NewBookingHandler(core *booking.Service, bookings *repository.BookingRepo) *BookingHandler {
	if core == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Core: core, Bookings: bookings}
}

type createBookingReq struct {
	HallID            uint64  `json:"hall_id"`
	Date              string  `json:"date"`       // YYYY-MM-DD
	StartTime         string  `json:"start_time"` // HH:MM
	EndTime           string  `json:"end_time"`   // HH:MM
	Purpose           string  `json:"purpose"`
	ExpectedAttendees *uint32 `json:"expected_attendees"`
}

type updateBookingReq struct {
	HallID            *uint64 `json:"hall_id"`
	Date              *string `json:"date"`
	StartTime         *string `json:"start_time"`
	EndTime           *string `json:"end_time"`
	Purpose           *string `json:"purpose"`
	ExpectedAttendees *uint32 `json:"expected_attendees"`
}

// Create handles POST /v1/bookings. New bookings always start pending.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}
	b, err := h.Core.Create(c.Request().Context(), actor, booking.CreateInput{
		HallID:            req.HallID,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Purpose:           req.Purpose,
		ExpectedAttendees: req.ExpectedAttendees,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /v1/bookings and returns the caller's own bookings,
// optionally filtered by ?status= and ?date=.
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListDetails(c.Request().Context(), repository.DetailFilter{
		UserID: actor.ID,
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Get handles GET /v1/bookings/:id. Owners see their own bookings,
// admins see any.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	// Authorization runs in the core; the joined projection is only
	// fetched once access is settled.
	if _, err := h.Core.Get(ctx, actor, id); err != nil {
		return domainError(c, err)
	}
	detail, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PUT and PATCH /v1/bookings/:id. Fields left out of the
// body keep their current value; changing the slot resets the booking
// to pending.
func (h *BookingHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Core.Update(c.Request().Context(), actor, id, booking.UpdateInput{
		HallID:            req.HallID,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Purpose:           req.Purpose,
		ExpectedAttendees: req.ExpectedAttendees,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Core.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
