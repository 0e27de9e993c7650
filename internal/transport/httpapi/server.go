// Package httpapi is the thin HTTP facade over the triage service. It does
// no clinical work itself: requests are decoded, handed to the service and
// the dual-view result is returned as JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/explain"
	"github.com/sandevgo/matria/internal/service/triage"
	"github.com/sandevgo/matria/pkg/log"
)

type TriageService interface {
	HandleMessage(ctx context.Context, sessionID, userID string, role core.Role, message string) (triage.Turn, error)
	Assess(ctx context.Context, in core.DiagnosticInput, role core.Role) (core.DiagnosticResult, explain.Explanation)
	EndSession(sessionID string)
}

type Server struct {
	cfg *config.ServerConfig
	svc TriageService
	e   *echo.Echo
}

func NewServer(cfg *config.ServerConfig, svc TriageService) *Server {
	s := &Server{cfg: cfg, svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	e.GET("/healthz", s.health)
	v1 := e.Group("/v1")
	v1.POST("/messages", s.postMessage)
	v1.POST("/assessments", s.postAssessment)
	v1.DELETE("/sessions/:id", s.deleteSession)

	s.e = e
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("http api listening")
	if err := s.e.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	grace := time.Duration(s.cfg.ShutdownGraceSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
}

func (s *Server) postMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	role := core.Role(req.Role)
	if role == "" {
		role = core.RolePatient
	}

	turn, err := s.svc.HandleMessage(c.Request().Context(), req.SessionID, req.UserID, role, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process message")
	}
	return c.JSON(http.StatusOK, turn)
}

type assessmentRequest struct {
	Role  string               `json:"role"`
	Input core.DiagnosticInput `json:"input"`
}

type assessmentResponse struct {
	Result      core.DiagnosticResult `json:"result"`
	Explanation explain.Explanation   `json:"explanation"`
}

func (s *Server) postAssessment(c echo.Context) error {
	var req assessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Input.Symptoms) == 0 && req.Input.Vitals == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one symptom or vital sign is required")
	}

	role := core.Role(req.Role)
	if role == "" {
		role = core.RoleClinician
	}

	res, exp := s.svc.Assess(c.Request().Context(), req.Input, role)
	return c.JSON(http.StatusOK, assessmentResponse{Result: res, Explanation: exp})
}

func (s *Server) deleteSession(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session id is required")
	}
	s.svc.EndSession(id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": core.MatriaName,
		"version": core.MatriaVersion,
	})
}
