package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-reservation/internal/booking"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{booking.NotFound("x"), http.StatusNotFound},
		{booking.Forbidden("x"), http.StatusForbidden},
		{booking.Invalid("x"), http.StatusBadRequest},
		{booking.Conflict("x"), http.StatusConflict},
		{booking.InvalidTransition("x"), http.StatusConflict},
		{booking.Unavailable("x", errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		ctx, rec := newTestContext(t)
		if err := domainError(ctx, c.err); err != nil {
			t.Fatalf("domainError returned %v", err)
		}
		if rec.Code != c.want {
			t.Fatalf("error %v mapped to %d, want %d", c.err, rec.Code, c.want)
		}
	}
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		in   interface{}
		want uint64
		ok   bool
	}{
		{uint64(7), 7, true},
		{int(7), 7, true},
		{int64(7), 7, true},
		{float64(7), 7, true}, // MapClaims numbers decode as float64
		{"7", 7, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		ctx, _ := newTestContext(t)
		if c.in != nil {
			ctx.Set("user_id", c.in)
		}
		got, err := getUserID(ctx)
		if c.ok {
			if err != nil || got != c.want {
				t.Fatalf("getUserID(%v) = %d, %v; want %d", c.in, got, err, c.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("getUserID(%v): expected error, got %d", c.in, got)
		}
	}
}
