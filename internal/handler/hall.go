package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
	"github.com/iliyamo/hall-reservation/internal/repository"
)

// HallHandler bundles hall persistence and the booking core for hall
// management and public browsing.
type HallHandler struct {
	Halls *repository.HallRepo
	Core  *booking.Service
}

// NewHallHandler constructs a HallHandler and panics on nil deps.
func NewHallHandler(halls *repository.HallRepo, core *booking.Service) *HallHandler {
	if halls == nil || core == nil {
		panic("nil dependency passed to NewHallHandler")
	}
	return &HallHandler{Halls: halls, Core: core}
}

func parseIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// CreateHall handles POST /v1/halls (admin only).
func (h *HallHandler) CreateHall(c echo.Context) error {
	var body struct {
		Name        string  `json:"name"`
		HallType    string  `json:"hall_type"`
		Capacity    uint32  `json:"capacity"`
		IsAvailable *bool   `json:"is_available"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	hallType := strings.ToUpper(strings.TrimSpace(body.HallType))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !booking.ValidHallType(hallType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hall_type"})
	}
	if body.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	var desc *string
	if body.Description != nil && strings.TrimSpace(*body.Description) != "" {
		d := strings.TrimSpace(*body.Description)
		desc = &d
	}
	hall := &booking.Hall{
		Name:        name,
		HallType:    hallType,
		Capacity:    body.Capacity,
		IsAvailable: available,
		Description: desc,
	}
	if err := h.Halls.CreateHall(c.Request().Context(), hall); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

// UpdateHall handles PUT/PATCH /v1/halls/:id (admin only). Absent
// fields keep their current value.
func (h *HallHandler) UpdateHall(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        *string `json:"name"`
		HallType    *string `json:"hall_type"`
		Capacity    *uint32 `json:"capacity"`
		IsAvailable *bool   `json:"is_available"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hall, err := h.Halls.GetHall(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		hall.Name = name
	}
	if body.HallType != nil {
		ht := strings.ToUpper(strings.TrimSpace(*body.HallType))
		if !booking.ValidHallType(ht) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hall_type"})
		}
		hall.HallType = ht
	}
	if body.Capacity != nil {
		if *body.Capacity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
		}
		hall.Capacity = *body.Capacity
	}
	if body.IsAvailable != nil {
		hall.IsAvailable = *body.IsAvailable
	}
	if body.Description != nil {
		if d := strings.TrimSpace(*body.Description); d != "" {
			hall.Description = &d
		} else {
			hall.Description = nil
		}
	}
	if err := h.Halls.UpdateHall(c.Request().Context(), hall); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

// DeleteHall handles DELETE /v1/halls/:id (admin only). Deletion is
// refused with 409 while active bookings reference the hall.
func (h *HallHandler) DeleteHall(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Halls.DeleteHall(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListHalls handles GET /v1/halls. Guests can browse the inventory;
// ?type= filters by hall type and ?available=true hides halls switched
// off for maintenance.
func (h *HallHandler) ListHalls(c echo.Context) error {
	hallType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	if hallType != "" && !booking.ValidHallType(hallType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hall_type"})
	}
	onlyAvailable := c.QueryParam("available") == "true"
	halls, err := h.Halls.ListHalls(c.Request().Context(), hallType, onlyAvailable)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": halls})
}

// GetHall handles GET /v1/halls/:id.
func (h *HallHandler) GetHall(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hall, err := h.Halls.GetHall(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

// Availability handles GET /v1/halls/:id/availability?date=&start=&end=.
// It reports whether the slot overlaps any pending or approved booking
// on the hall. Pending bookings count as contention here so callers
// see slots an admin has yet to decide on.
func (h *HallHandler) Availability(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date := c.QueryParam("date")
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if date == "" || start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, start and end are required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetHall(ctx, id); err != nil {
		return domainError(c, err)
	}
	conflict, err := h.Core.HasConflict(ctx, id, date, start, end, 0)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hall_id":   id,
		"date":      date,
		"start":     start,
		"end":       end,
		"available": !conflict,
	})
}
