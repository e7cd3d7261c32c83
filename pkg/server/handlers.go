// Package server exposes the diagnostic engine over HTTP.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helmcode/wifi-doctor/pkg/engine"
	"github.com/helmcode/wifi-doctor/pkg/parser"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

// MaxBodyBytes caps a diagnose request body.
const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string   `json:"error"`
	Section string   `json:"section,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Handlers struct {
	engine  *engine.Engine
	logger  *slog.Logger
	version string
}

func NewHandlers(e *engine.Engine, logger *slog.Logger, version string) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{engine: e, logger: logger, version: version}
}

// RegisterRoutes mounts the API on r. metrics may be nil.
func RegisterRoutes(r gin.IRouter, h *Handlers, metrics http.Handler) {
	r.GET("/healthz", h.HandleHealth)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	v1 := r.Group("/v1")
	v1.POST("/diagnose", h.HandleDiagnose)
	v1.GET("/phy-rate", h.HandlePhyRate)
}

func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// HandleDiagnose accepts a JSON or YAML snapshot and answers with the
// report. Undecodable bodies are 400; missing or out-of-range telemetry is
// 422.
func (h *Handlers) HandleDiagnose(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	snap, err := parser.ParseSnapshot(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.engine.Analyze(snap)
	var (
		missing *engine.MissingTelemetryError
		invalid *engine.InvalidTelemetryError
	)
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Section: missing.Section})
		return
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid telemetry", Fields: invalid.Fields()})
		return
	case err != nil:
		h.logger.Error("diagnose failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	h.logger.Debug("diagnose served",
		"scope", report.Scope.ID,
		"score", report.Summary.Score,
		"primary", report.Summary.PrimaryBottleneck.Type)
	c.JSON(http.StatusOK, report)
}

// PhyRateQuery binds GET /v1/phy-rate parameters.
type PhyRateQuery struct {
	MCS        int    `form:"mcs" binding:"min=0,max=13"`
	Streams    int    `form:"streams,default=1" binding:"min=1,max=8"`
	Width      int    `form:"width,default=20" binding:"oneof=20 40 80 160 320"`
	GI         int    `form:"gi,default=800" binding:"oneof=400 800 1600 3200"`
	Generation string `form:"generation,default=6"`
}

func (h *Handlers) HandlePhyRate(c *gin.Context) {
	var q PhyRateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	gen, err := phy.ParseGeneration(q.Generation)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	lookup, err := phy.Query(q.MCS, q.Streams, q.Width, phy.GuardInterval(q.GI), gen)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, lookup)
		return
	}
	c.JSON(http.StatusOK, lookup)
}
