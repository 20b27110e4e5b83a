package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRole(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRole(t *testing.T) {
	if rec := runRole(t, "ADMIN", "ADMIN"); rec.Code != http.StatusOK {
		t.Fatalf("allowed role: status = %d, want 200", rec.Code)
	}
	if rec := runRole(t, "FACULTY", "ADMIN", "FACULTY"); rec.Code != http.StatusOK {
		t.Fatalf("second allowed role: status = %d, want 200", rec.Code)
	}
	if rec := runRole(t, "FACULTY", "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: status = %d, want 403", rec.Code)
	}
	if rec := runRole(t, nil, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("missing role: status = %d, want 403", rec.Code)
	}
	if rec := runRole(t, 7, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-string role: status = %d, want 403", rec.Code)
	}
}
