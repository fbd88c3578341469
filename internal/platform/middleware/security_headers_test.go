package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveWithHeaders(t *testing.T, hsts bool, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cohort/stats", nil)
	rec := httptest.NewRecorder()
	err := SecurityHeaders(hsts)(handler)(e.NewContext(req, rec))
	return rec, err
}

func TestSecurityHeaders_SetsAPIHeaders(t *testing.T) {
	rec, err := serveWithHeaders(t, false, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int{"totalPatients": 50})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for header, want := range apiHeaders {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("header %s: got %q, want %q", header, got, want)
		}
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("expected no HSTS without TLS deployment, got %q", got)
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	rec, _ := serveWithHeaders(t, true, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if got := rec.Header().Get("Strict-Transport-Security"); got != hstsValue {
		t.Errorf("expected HSTS %q, got %q", hstsValue, got)
	}
}

func TestSecurityHeaders_PropagatesHandlerError(t *testing.T) {
	rec, err := serveWithHeaders(t, false, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 to pass through, got %v", err)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected headers on error responses too")
	}
}
