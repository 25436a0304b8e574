package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/server"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// databaseFile path where alert records are persisted.
	databaseFile string

	// rootCmd represents the base command for running the alert orchestrator.
	rootCmd = &cobra.Command{
		Use:   "sos-server [listen-address]",
		Short: "Run the SOS alert orchestrator.",
		Long: `Starts the HTTP server that manages emergency alerts: triggering,
multi-channel dispatch, location tracking and lifecycle transitions.

The server listens on the specified address or uses settings from configuration file.
Only the port from ServerAddress config is used for listening (e.g., :8080).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Alert records and location histories are persisted to a SQLite file.`,
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

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				DatabaseFile:  databaseFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the sos-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&databaseFile, "database-file", "d", config.DefaultDatabaseFilename, "path to the alert database")
}
