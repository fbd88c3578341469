// Package dashboard serves the patient risk dashboard read endpoints and
// cohort regeneration.
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/riskdash/internal/domain/analytics"
	"github.com/ehr/riskdash/internal/domain/cohort"
	"github.com/ehr/riskdash/internal/domain/patient"
	"github.com/ehr/riskdash/internal/domain/table"
	"github.com/ehr/riskdash/internal/platform/auth"
	"github.com/ehr/riskdash/internal/platform/loader"
	"github.com/ehr/riskdash/internal/platform/middleware"
	"github.com/ehr/riskdash/pkg/pagination"
)

// StatusClientClosedRequest answers a load abandoned because the client
// went away.
const StatusClientClosedRequest = middleware.StatusClientClosedRequest

type Handler struct {
	patients  *patient.Service
	views     *table.Controller
	loadDelay time.Duration
	now       func() time.Time
	onCancel  func()
}

func NewHandler(patients *patient.Service, views *table.Controller, loadDelay time.Duration) *Handler {
	return &Handler{
		patients:  patients,
		views:     views,
		loadDelay: loadDelay,
		now:       time.Now,
		onCancel:  func() {},
	}
}

// OnCancel registers fn to be called whenever a load is abandoned.
func (h *Handler) OnCancel(fn func()) {
	h.onCancel = fn
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	p := api.Group("/patients")
	p.GET("", h.ListPatients)
	p.GET("/:id", h.GetPatient)
	p.GET("/:id/history", h.GetPatientHistory)

	c := api.Group("/cohort")
	c.GET("/stats", h.GetStats)
	c.GET("/heatmap", h.GetHeatmap)
	c.GET("/snapshots", h.ListSnapshots)
	c.GET("/snapshots/:id", h.GetSnapshot)
	c.POST("/regenerate", h.Regenerate, auth.RequireRole("admin"))

	api.GET("/analytics/model-performance", h.GetModelPerformance)
}

// load runs fn behind the configured delay, bound to the request context.
func load[T any](c echo.Context, h *Handler, fn func() (T, error)) (T, error) {
	v, err := loader.Run(c.Request().Context(), h.loadDelay, fn)
	if err != nil {
		return v, h.loadError(c, err)
	}
	return v, nil
}

func (h *Handler) loadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		h.onCancel()
		zerolog.Ctx(c.Request().Context()).Debug().Msg("load cancelled by client")
		return echo.NewHTTPError(StatusClientClosedRequest, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		h.onCancel()
		return echo.NewHTTPError(http.StatusGatewayTimeout, "load timed out")
	}
	return err
}

func (h *Handler) current() (*patient.Snapshot, error) {
	snap := h.patients.Current()
	if snap == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "cohort not generated yet")
	}
	return snap, nil
}

// -- Patient Handlers --

func (h *Handler) ListPatients(c echo.Context) error {
	state, err := table.ParseState(
		c.QueryParam("sort"),
		c.QueryParam("dir"),
		c.QueryParam("search"),
		c.QueryParam("risk"),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := pagination.FromContext(c)

	rows, err := load(c, h, func() ([]*patient.Patient, error) {
		snap, err := h.current()
		if err != nil {
			return nil, err
		}
		return h.views.View(snap, state), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Page(rows, p), len(rows), p.Limit, p.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	pt, err := load(c, h, func() (*patient.Patient, error) {
		return h.findPatient(c.Param("id"))
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pt)
}

func (h *Handler) GetPatientHistory(c echo.Context) error {
	pt, err := load(c, h, func() (*patient.Patient, error) {
		return h.findPatient(c.Param("id"))
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pt.HistoricalData)
}

func (h *Handler) findPatient(id string) (*patient.Patient, error) {
	if _, err := h.current(); err != nil {
		return nil, err
	}
	pt, err := h.patients.FindByID(id)
	if errors.Is(err, patient.ErrPatientNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return pt, err
}

// -- Cohort Handlers --

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := load(c, h, func() (cohort.Stats, error) {
		snap, err := h.current()
		if err != nil {
			return cohort.Stats{}, err
		}
		return cohort.Aggregate(snap.Patients, h.now()), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetHeatmap(c echo.Context) error {
	buckets, err := load(c, h, func() ([]cohort.Bucket, error) {
		snap, err := h.current()
		if err != nil {
			return nil, err
		}
		return cohort.Heatmap(snap.Patients), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

func (h *Handler) ListSnapshots(c echo.Context) error {
	p := pagination.FromContext(c)
	snaps, total, err := h.patients.ListSnapshots(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(snaps, total, p.Limit, p.Offset))
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	snap, err := h.patients.Snapshot(c.Request().Context(), id)
	if errors.Is(err, patient.ErrSnapshotNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "snapshot not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}

type regenerateRequest struct {
	Seed int64 `json:"seed"`
}

func (h *Handler) Regenerate(c echo.Context) error {
	var req regenerateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	snap, err := h.patients.Regenerate(c.Request().Context(), req.Seed)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, snap.Summary())
}

// -- Analytics Handlers --

func (h *Handler) GetModelPerformance(c echo.Context) error {
	report, err := load(c, h, func() (analytics.ModelPerformance, error) {
		return analytics.Report(), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
