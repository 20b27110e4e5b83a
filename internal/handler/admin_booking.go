package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
	"github.com/iliyamo/hall-reservation/internal/queue"
	"github.com/iliyamo/hall-reservation/internal/repository"
	queuepub "github.com/iliyamo/hall-reservation/internal/service"
)

// AdminBookingHandler serves the admin approval workflow.
type AdminBookingHandler struct {
	Core     *booking.Service
	Bookings *repository.BookingRepo
}

// NewAdminBookingHandler constructs an AdminBookingHandler and panics
// on nil deps.
func NewAdminBookingHandler(core *booking.Service, bookings *repository.BookingRepo) *AdminBookingHandler {
	if core == nil || bookings == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Core: core, Bookings: bookings}
}

// Approve handles POST /v1/bookings/:id/approve. On success an event
// is published for downstream consumers; publish failures are logged
// and do not fail the request.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	b, err := h.Core.Approve(ctx, actor, id)
	if err != nil {
		return domainError(c, err)
	}
	h.publishApproved(b)
	return c.JSON(http.StatusOK, b)
}

// publishApproved enriches the booking with hall and requester info
// and hands it to the queue publisher in the background.
func (h *AdminBookingHandler) publishApproved(b *booking.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := h.Bookings.GetDetail(ctx, b.ID)
		if err != nil {
			log.Printf("approve event: load detail for booking %d failed: %v", b.ID, err)
			return
		}
		ev := queue.BookingApprovedEvent{
			BookingID:      d.ID,
			HallID:         d.HallID,
			HallName:       d.HallName,
			UserID:         d.UserID,
			RequesterEmail: d.RequesterEmail,
			Date:           d.Date,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			Purpose:        d.Purpose,
		}
		if d.ApprovedBy != nil {
			ev.ApprovedBy = *d.ApprovedBy
		}
		if d.ApprovedAt != nil {
			ev.ApprovedAt = d.ApprovedAt.UTC().Format(time.RFC3339)
		}
		if err := queuepub.PublishBookingApproved(ctx, ev); err != nil {
			log.Printf("approve event: publish for booking %d failed: %v", b.ID, err)
		}
	}()
}

// Reject handles POST /v1/bookings/:id/reject. The body must carry a
// non-empty reason.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Core.Reject(c.Request().Context(), actor, id, body.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /v1/bookings/:id.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Core.Delete(c.Request().Context(), actor, id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/admin/bookings with optional ?status=, ?hall_id=
// and ?date= filters across every user.
func (h *AdminBookingHandler) List(c echo.Context) error {
	var filter repository.DetailFilter
	filter.Status = c.QueryParam("status")
	filter.Date = c.QueryParam("date")
	if raw := c.QueryParam("hall_id"); raw != "" {
		hallID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall_id"})
		}
		filter.HallID = hallID
	}
	details, err := h.Bookings.ListDetails(c.Request().Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
