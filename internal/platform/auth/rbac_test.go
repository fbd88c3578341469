package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRequireRole(t *testing.T, userRoles []string, required ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userRoles != nil {
		req = req.WithContext(WithUser(req.Context(), "u1", userRoles))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole(required...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return rec, h(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	rec, err := runRequireRole(t, []string{"physician"}, "physician", "nurse")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_AdminPassesEverything(t *testing.T) {
	if _, err := runRequireRole(t, []string{RoleAdmin}, "nurse"); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	_, err := runRequireRole(t, []string{"viewer"}, RoleAdmin)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_NoUser(t *testing.T) {
	_, err := runRequireRole(t, nil, RoleAdmin)
	expectStatus(t, err, http.StatusUnauthorized)
}
