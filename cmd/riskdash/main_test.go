package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ehr/riskdash/internal/config"
	"github.com/ehr/riskdash/internal/domain/cohort"
	"github.com/ehr/riskdash/internal/platform/auth"
	"github.com/ehr/riskdash/internal/platform/metrics"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "development",
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CohortSize:     50,
		CohortSeed:     42,
		RequestTimeout: 5 * time.Second,
		TableCacheSize: 8,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *server {
	t.Helper()
	reg := prometheus.NewRegistry()
	srv, err := newServer(context.Background(), cfg, zerolog.Nop(), nil, metrics.NewWithRegistry(reg, reg))
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return srv
}

func do(srv *server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, roles ...string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, testConfig())
	rec := do(srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id on the response")
	}
}

func TestServer_DevPatients(t *testing.T) {
	srv := newTestServer(t, testConfig())
	rec := do(srv, http.MethodGet, "/api/v1/patients?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Data) != 5 || resp.Total != 50 {
		t.Errorf("expected 5 of 50 rows, got %d of %d", len(resp.Data), resp.Total)
	}
}

func TestServer_DevAdmin(t *testing.T) {
	srv := newTestServer(t, testConfig())
	rec := do(srv, http.MethodGet, "/api/v1/admin/users", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected dev user to reach admin routes, got %d", rec.Code)
	}
}

func TestServer_MetricsObserveCohort(t *testing.T) {
	srv := newTestServer(t, testConfig())
	do(srv, http.MethodGet, "/api/v1/cohort/stats", "")

	rec := do(srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"http_requests_total", "cohort_generations_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestServer_JWTRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.AuthSigningKey = testSigningKey
	srv := newTestServer(t, cfg)

	if rec := do(srv, http.MethodGet, "/api/v1/patients", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("expected health to stay public, got %d", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/patients", signToken(t, auth.RoleNurse)); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/admin/users", signToken(t, auth.RoleNurse)); rec.Code != http.StatusForbidden {
		t.Errorf("expected nurse to be denied admin routes, got %d", rec.Code)
	}
	if rec := do(srv, http.MethodPost, "/api/v1/cohort/regenerate", signToken(t, auth.RoleViewer)); rec.Code != http.StatusForbidden {
		t.Errorf("expected viewer to be denied regeneration, got %d", rec.Code)
	}
	if rec := do(srv, http.MethodPost, "/api/v1/cohort/regenerate", signToken(t, auth.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Errorf("expected admin regeneration to succeed, got %d", rec.Code)
	}
}

func TestServer_InitialSeed(t *testing.T) {
	a := newTestServer(t, testConfig())
	b := newTestServer(t, testConfig())
	pa, pb := a.patients.Current().Patients, b.patients.Current().Patients
	for i := range pa {
		if pa[i].Name != pb[i].Name || pa[i].RiskScore != pb[i].RiskScore {
			t.Fatalf("patient %d differs for the same COHORT_SEED", i)
		}
	}
}

func TestWriteCohort(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)
	if err := writeCohort(&buf, 5, 12, now); err != nil {
		t.Fatalf("writeCohort: %v", err)
	}
	var out struct {
		Seed     int64             `json:"seed"`
		Stats    cohort.Stats      `json:"stats"`
		Patients []json.RawMessage `json:"patients"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Seed != 5 || len(out.Patients) != 12 || out.Stats.TotalPatients != 12 {
		t.Errorf("unexpected output seed=%d patients=%d total=%d", out.Seed, len(out.Patients), out.Stats.TotalPatients)
	}
}

func TestMigrationsFS_Embedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS(""), "*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) < 2 {
		t.Errorf("expected embedded migrations, got %v", files)
	}
}

func TestServer_CancelledLoadAnswers499(t *testing.T) {
	cfg := testConfig()
	cfg.LoadDelay = 300 * time.Millisecond
	srv := newTestServer(t, cfg)

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cohort/stats", nil)
		ctx, cancel := context.WithCancel(req.Context())
		timer := time.AfterFunc(20*time.Millisecond, cancel)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req.WithContext(ctx))
		timer.Stop()
		cancel()
		codes[rec.Code]++
	}
	if codes[499] != 5 {
		t.Fatalf("expected every cancelled load to answer 499, got %v", codes)
	}

	body := do(srv, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(body, `status="499"`) {
		t.Error("expected cancelled requests recorded with status 499")
	}
	if strings.Contains(body, `status="500"`) {
		t.Error("cancelled loads must not be recorded as 500")
	}
	if !strings.Contains(body, "riskdash_loads_cancelled_total 5") {
		t.Error("expected five cancelled loads counted")
	}
}

func TestServer_LoadPastRequestTimeoutAnswers504(t *testing.T) {
	cfg := testConfig()
	cfg.LoadDelay = 300 * time.Millisecond
	cfg.RequestTimeout = 30 * time.Millisecond
	srv := newTestServer(t, cfg)

	rec := do(srv, http.MethodGet, "/api/v1/cohort/heatmap", "")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}
