// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the cohort currently being served.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskdash"

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	cohortPatients      *prometheus.GaugeVec
	cohortCritical      prometheus.Gauge
	cohortAverageRisk   prometheus.Gauge
	cohortGenerations   prometheus.Counter
	cohortGeneratedAt   prometheus.Gauge
	loadsCancelledTotal prometheus.Counter
}

// New registers all collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		httpRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		cohortPatients: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cohort_patients",
				Help:      "Patients in the current cohort by risk level",
			},
			[]string{"risk_level"},
		),
		cohortCritical: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cohort_critical_patients",
				Help:      "Patients in the current cohort with Critical status",
			},
		),
		cohortAverageRisk: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cohort_average_risk_score",
				Help:      "Rounded mean risk score of the current cohort",
			},
		),
		cohortGenerations: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cohort_generations_total",
				Help:      "Number of cohorts generated since start",
			},
		),
		cohortGeneratedAt: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cohort_generated_timestamp_seconds",
				Help:      "Unix time the current cohort was generated",
			},
		),
		loadsCancelledTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_cancelled_total",
				Help:      "Dashboard loads discarded because the client went away",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per matched route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.httpRequestsInFlight.Inc()
			defer m.httpRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// CohortSummary is what ObserveCohort records about a generated cohort.
type CohortSummary struct {
	High, Medium, Low int
	Critical          int
	AverageRiskScore  int
	GeneratedAt       time.Time
}

// ObserveCohort replaces the cohort gauges with s.
func (m *Metrics) ObserveCohort(s CohortSummary) {
	m.cohortPatients.WithLabelValues("high").Set(float64(s.High))
	m.cohortPatients.WithLabelValues("medium").Set(float64(s.Medium))
	m.cohortPatients.WithLabelValues("low").Set(float64(s.Low))
	m.cohortCritical.Set(float64(s.Critical))
	m.cohortAverageRisk.Set(float64(s.AverageRiskScore))
	m.cohortGeneratedAt.Set(float64(s.GeneratedAt.Unix()))
	m.cohortGenerations.Inc()
}

// LoadCancelled counts a dashboard load abandoned before completion.
func (m *Metrics) LoadCancelled() {
	m.loadsCancelledTotal.Inc()
}
