// Package gatewaycmd wires the delivery gateway process together: it loads
// configuration, builds the gateway service and runs its HTTP server.
package gatewaycmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	api "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/api/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	gatewaysvc "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gateway"
)

// Options controls the sos-gateway process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
}

// ErrNoGatewayAddress indicates missing gateway listen configuration.
var ErrNoGatewayAddress = errors.New("no gateway address configured")

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run starts the delivery gateway and blocks until the context is canceled
// or the server stops. Missing Twilio credentials are not fatal: the gateway
// serves health and reports itself unconfigured, matching what callers probe.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sos-gateway")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	listenAddress, err := resolveListenAddress(settings.GatewayAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	var messenger gatewaysvc.Messenger

	if settings.TwilioAccountSID != "" && settings.TwilioAuthToken != "" {
		messenger = gatewaysvc.NewTwilioMessenger(
			settings.TwilioAccountSID, settings.TwilioAuthToken, settings.TwilioFromNumber)

		logger.Info(ctx, "Twilio client configured")
	} else {
		logger.Warn(ctx, "Twilio credentials missing, SMS and calls disabled")
	}

	server := api.NewServer(gatewaysvc.NewService(messenger))

	logger.InfoKV(ctx, "SOS gateway listening",
		"listen_address", listenAddress, "twilio_configured", messenger != nil)

	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WarnKV(ctx, "Shutdown did not finish cleanly", "error", err)
		}

		close(done)
	}()

	if err := server.Start(listenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the HTTP server.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoGatewayAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid gateway address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
