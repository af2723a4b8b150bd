// Package server exposes the planner over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/confplanner/config"
	"github.com/mohammad-safakhou/confplanner/internal/agent"
	"github.com/mohammad-safakhou/confplanner/internal/search"
	"github.com/mohammad-safakhou/confplanner/internal/telemetry"
	"github.com/mohammad-safakhou/confplanner/internal/timeline"
	"github.com/mohammad-safakhou/confplanner/internal/tools"
)

// PlanRequest is the body of POST /generate-plan.
type PlanRequest struct {
	Objective string `json:"objective"`
}

// Planner produces a plan for an objective.
type Planner interface {
	Plan(ctx context.Context, objective string) (string, error)
}

// Server holds the request handlers and their dependencies.
type Server struct {
	planner  Planner
	registry *tools.Registry
	tele     *telemetry.Telemetry
	logger   *log.Logger
}

// New builds a Server around an already-wired planner and registry.
func New(planner Planner, registry *tools.Registry, tele *telemetry.Telemetry, logger *log.Logger) *Server {
	return &Server{planner: planner, registry: registry, tele: tele, logger: logger}
}

// Register mounts the handlers on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/tools", s.listTools)
	e.POST("/generate-plan", s.generatePlan)
}

func (s *Server) listTools(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.List())
}

// generatePlan keeps the legacy boundary contract: every outcome is an
// HTTP 200 with plain text, failures prefixed with "Error: ". The
// planner and search errors are typed, so mapping them onto status
// codes later is a handler-only change.
func (s *Server) generatePlan(c echo.Context) error {
	start := time.Now()
	reqID := uuid.NewString()

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		s.tele.ObservePlan("bad_request", time.Since(start))
		return c.String(http.StatusOK, "Error: invalid request body")
	}
	if strings.TrimSpace(req.Objective) == "" {
		s.tele.ObservePlan("bad_request", time.Since(start))
		return c.String(http.StatusOK, "Error: objective is required")
	}

	s.logger.Printf("[%s] planning request for objective: %s", reqID, req.Objective)

	plan, err := s.planner.Plan(c.Request().Context(), req.Objective)
	if err != nil {
		s.logger.Printf("[%s] planning failed after %s: %v", reqID, time.Since(start).Round(time.Millisecond), err)
		s.tele.ObservePlan("error", time.Since(start))
		return c.String(http.StatusOK, fmt.Sprintf("Error: Failed to generate plan - %v", err))
	}

	s.logger.Printf("[%s] plan generated in %s, response length: %d chars",
		reqID, time.Since(start).Round(time.Millisecond), len(plan))
	s.tele.ObservePlan("ok", time.Since(start))
	return c.String(http.StatusOK, plan)
}

// Run wires every component from config and serves until the listener
// fails. Config validation has already rejected unusable setups.
func Run(cfg *config.Config) error {
	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	reference := cfg.Conference.ReferenceTime()
	searchClient := search.NewClient(cfg.Conference.SearchURL, cfg.Conference.SearchTimeout)
	registry := tools.NewRegistry(
		tools.NewSearchTool(searchClient, cfg.Conference.Name),
		tools.NewTimelinessTool(timeline.Extractor{Year: cfg.Conference.Year}, reference),
	)
	tele := telemetry.New(prometheus.DefaultRegisterer)
	planner := agent.NewPlanner(cfg, registry, tele, log.New(log.Writer(), "[AGENT] ", log.LstdFlags))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		httpLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	New(planner, registry, tele, httpLogger).Register(e)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	httpLogger.Printf("listening on %s (reference date %s)", addr, reference.Format("2006-01-02"))
	return e.Start(addr)
}
