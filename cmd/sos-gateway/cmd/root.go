package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gatewaycmd"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the delivery gateway.
	rootCmd = &cobra.Command{
		Use:   "sos-gateway [listen-address]",
		Short: "Run the SMS and voice-call delivery gateway.",
		Long: `Starts the HTTP gateway that delivers alert messages through Twilio.

The gateway listens on the specified address or uses settings from configuration file.
Only the port from GatewayAddress config is used for listening (e.g., :3000).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:3000).
Twilio credentials come from the settings file or the TWILIO_SID,
TWILIO_TOKEN and TWILIO_FROM environment variables; without them
the gateway still serves and reports itself unconfigured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &gatewaycmd.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			}

			return gatewaycmd.Run(ctx, options)
		},
	}
)

// Execute runs the sos-gateway CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
