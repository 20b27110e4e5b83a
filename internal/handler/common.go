// Package handler defines the HTTP handlers of the API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64. JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actorFrom builds the domain Actor from the authenticated request
// context.
func actorFrom(c echo.Context) (booking.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return booking.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return booking.Actor{ID: id, Role: role}, nil
}

// domainError maps a domain error kind to its HTTP response. Every
// guard violation gets a distinct status so clients can tell a full
// slot from bad input from a denied action.
func domainError(c echo.Context, err error) error {
	var status int
	switch booking.KindOf(err) {
	case booking.KindNotFound:
		status = http.StatusNotFound
	case booking.KindForbidden:
		status = http.StatusForbidden
	case booking.KindValidation:
		status = http.StatusBadRequest
	case booking.KindConflict, booking.KindInvalidTransition:
		status = http.StatusConflict
	case booking.KindUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
