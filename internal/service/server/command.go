package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	api "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/api/sos"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/channel"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/dispatch"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/geo"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	repository "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/repository/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/manager"
)

// Options controls the sos-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// DatabaseFile specifies the path to the SQLite alert store.
	DatabaseFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run starts the orchestrator HTTP server and blocks until the context is
// canceled or the server stops. Loads configuration first, then assembles
// the store, the notification channels and the alert manager around it.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sos-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Use DatabaseFile from config unless overridden by command line option.
	databaseFile := settings.DatabaseFile
	if opts.DatabaseFile != "" {
		databaseFile = opts.DatabaseFile
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repo, err := repository.NewSQLiteRepository(databaseFile)
	if err != nil {
		return fmt.Errorf("open alert store: %w", err)
	}
	defer repo.Close()

	dispatcher, err := buildDispatcher(settings)
	if err != nil {
		return err
	}

	locations := geo.NewCache()

	mgr := manager.New(repo, dispatcher, locations,
		manager.WithTrackingInterval(settings.TrackingInterval),
		manager.WithReadTimeout(settings.Timeout))
	defer mgr.Close()

	server := api.NewServer(mgr, locations)

	logger.InfoKV(ctx, "SOS server listening",
		"listen_address", listenAddress, "database_file", databaseFile)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests drain before returning.
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

// buildDispatcher assembles the notification channels from the settings.
// Channels whose provider is not configured stay registered and report
// themselves skipped at dispatch time.
func buildDispatcher(settings *config.Config) (*dispatch.Dispatcher, error) {
	var sender channel.GatewaySender

	if settings.GatewayURL != "" {
		client, err := gateway.NewClient(settings.GatewayURL,
			gateway.WithCallTimeout(settings.Timeout))
		if err != nil {
			return nil, fmt.Errorf("create gateway client: %w", err)
		}

		sender = client
	}

	return dispatch.New(
		channel.NewEmail(channel.EmailConfig{
			ServiceURL: settings.EmailServiceURL,
			ServiceID:  settings.EmailServiceID,
			TemplateID: settings.EmailTemplateID,
			UserID:     settings.EmailUserID,
		}, channel.WithEmailTimeout(settings.Timeout)),
		channel.NewWhatsApp(settings.DefaultCountryCode,
			channel.WithStagger(settings.LinkStagger)),
		channel.NewSMS(sender, settings.DefaultCountryCode),
		channel.NewCall(sender, settings.DefaultCountryCode),
	), nil
}

// resolveListenAddress determines the listen address for the HTTP server.
// If override is provided, uses it directly. Otherwise extracts the port
// from configAddr and binds on all interfaces.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
