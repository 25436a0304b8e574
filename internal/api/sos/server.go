package sos

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/geo"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/manager"
)

// Server is the HTTP face of the alert orchestrator.
type Server struct {
	// manager owns the alert lifecycle.
	manager *manager.Manager
	// locations receives device position reports.
	locations *geo.Cache
	// echo is the underlying HTTP server.
	echo *echo.Echo
}

// NewServer creates the orchestrator HTTP server and registers its routes.
func NewServer(mgr *manager.Manager, locations *geo.Cache) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{manager: mgr, locations: locations, echo: e}

	e.GET("/health", s.handleHealth)
	e.POST("/api/alerts", s.handleTrigger)
	e.GET("/api/alerts/:id", s.handleGet)
	e.POST("/api/alerts/:id/cancel", s.handleCancel)
	e.POST("/api/alerts/:id/resolve", s.handleResolve)
	e.PUT("/api/users/:ownerId/location", s.handleLocationReport)

	return s
}

// Start serves on the given address until Shutdown or a listener error.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be mounted as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrigger(c echo.Context) error {
	var req TriggerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	if req.OwnerID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ownerId is required"})
	}

	channels, err := parseChannels(req.Channels)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	result, err := s.manager.Trigger(
		c.Request().Context(), req.OwnerID, req.UserEmail, toContacts(req.Contacts), channels)
	if err != nil {
		return s.writeError(c, err)
	}

	outcomes := make(map[string]OutcomePayload, len(result.Outcomes))
	for kind, outcome := range result.Outcomes {
		outcomes[string(kind)] = toOutcomePayload(outcome)
	}

	return c.JSON(http.StatusCreated, TriggerResponse{
		Alert:    toAlertPayload(result.Alert),
		Outcomes: outcomes,
	})
}

func (s *Server) handleGet(c echo.Context) error {
	a, positions, err := s.manager.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	resp := AlertResponse{
		Alert:     toAlertPayload(a),
		Positions: make([]PositionPayload, 0, len(positions)),
	}

	for _, pos := range positions {
		resp.Positions = append(resp.Positions, toPositionPayload(pos))
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCancel(c echo.Context) error {
	return s.handleClose(c, s.manager.Cancel)
}

func (s *Server) handleResolve(c echo.Context) error {
	return s.handleClose(c, s.manager.Resolve)
}

// handleClose runs one terminal transition and returns the updated record.
func (s *Server) handleClose(c echo.Context, transition func(ctx context.Context, id string) error) error {
	id := c.Param("id")

	if err := transition(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}

	a, _, err := s.manager.Get(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toAlertPayload(a))
}

func (s *Server) handleLocationReport(c echo.Context) error {
	var report LocationReport
	if err := c.Bind(&report); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	if report.Lat == nil || report.Lng == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required"})
	}

	if *report.Lat < -90 || *report.Lat > 90 || *report.Lng < -180 || *report.Lng > 180 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "coordinates out of range"})
	}

	s.locations.Report(c.Param("ownerId"), domain.Position{
		Lat: *report.Lat,
		Lng: *report.Lng,
	})

	return c.NoContent(http.StatusNoContent)
}

// writeError maps lifecycle errors to their HTTP status.
func (s *Server) writeError(c echo.Context, err error) error {
	var status int

	switch {
	case errors.Is(err, manager.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, manager.ErrNoContacts):
		status = http.StatusBadRequest
	case errors.Is(err, manager.ErrAlreadyActive),
		errors.Is(err, manager.ErrAlreadyTerminal):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError

		logger.ErrorKV(c.Request().Context(), "Request failed",
			"path", c.Path(), "error", err)
	}

	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

// parseChannels validates the requested channel names.
func parseChannels(names []string) ([]domain.ChannelKind, error) {
	if len(names) == 0 {
		return nil, nil
	}

	known := make(map[domain.ChannelKind]struct{}, len(domain.AllChannels()))
	for _, kind := range domain.AllChannels() {
		known[kind] = struct{}{}
	}

	channels := make([]domain.ChannelKind, 0, len(names))

	for _, name := range names {
		kind := domain.ChannelKind(name)
		if _, ok := known[kind]; !ok {
			return nil, fmt.Errorf("unknown channel %q", name)
		}

		channels = append(channels, kind)
	}

	return channels, nil
}
