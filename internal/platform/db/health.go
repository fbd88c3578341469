package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// healthTimeout bounds the ping issued by /health/db.
const healthTimeout = 2 * time.Second

// PoolStats is the connection pool view reported by /health/db.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReport is the body of /health/db.
type HealthReport struct {
	Status  string     `json:"status"`
	Error   string     `json:"error,omitempty"`
	Latency string     `json:"latency"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

func (r HealthReport) Healthy() bool {
	return r.Status == "healthy"
}

// Check pings the snapshot store within healthTimeout.
func Check(ctx context.Context, p Pinger) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	report := HealthReport{Status: "healthy", Latency: time.Since(start).String()}
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
	}
	return report
}

// HealthHandler serves /health/db: 200 when the pool answers a ping,
// 503 otherwise.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		report := Check(c.Request().Context(), pool)
		report.Pool = GetPoolStats(pool)
		return c.JSON(healthStatus(report), report)
	}
}

func healthStatus(r HealthReport) int {
	if r.Healthy() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
