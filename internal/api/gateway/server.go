package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	contract "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	gatewaysvc "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gateway"
)

// Server is the HTTP face of the delivery gateway.
type Server struct {
	// svc implements the delivery logic.
	svc *gatewaysvc.Service
	// echo is the underlying HTTP server.
	echo *echo.Echo
}

// NewServer creates the gateway HTTP server and registers its routes.
func NewServer(svc *gatewaysvc.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{svc: svc, echo: e}

	e.GET("/", s.handleHealth)
	e.POST("/send-sms", s.handleSendSMS)
	e.POST("/make-call", s.handleMakeCall)

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
	return c.JSON(http.StatusOK, contract.HealthResponse{
		Status:           "ok",
		TwilioConfigured: s.svc.Configured(),
	})
}

func (s *Server) handleSendSMS(c echo.Context) error {
	return s.handleSend(c, s.svc.SendSMS)
}

func (s *Server) handleMakeCall(c echo.Context) error {
	return s.handleSend(c, s.svc.MakeCall)
}

// handleSend binds the request, runs one delivery operation and translates
// its outcome to the wire contract.
func (s *Server) handleSend(
	c echo.Context,
	deliver func(ctx context.Context, req *contract.SendRequest) ([]contract.SendResult, error),
) error {
	// The configuration check comes before body validation, matching the
	// order callers rely on to classify a dead gateway.
	if !s.svc.Configured() {
		return c.JSON(http.StatusInternalServerError, contract.SendResponse{
			Error: contract.NotConfiguredMessage,
		})
	}

	var req contract.SendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, contract.SendResponse{Error: "invalid JSON body"})
	}

	results, err := deliver(c.Request().Context(), &req)

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, contract.SendResponse{OK: true, Results: results})
	case errors.Is(err, gatewaysvc.ErrNoContacts):
		return c.JSON(http.StatusBadRequest, contract.SendResponse{Error: contract.NoContactsMessage})
	default:
		logger.ErrorKV(c.Request().Context(), "Delivery batch failed",
			"path", c.Path(), "error", err)

		return c.JSON(http.StatusInternalServerError, contract.SendResponse{Error: err.Error()})
	}
}
