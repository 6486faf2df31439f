// Package cli contains all authgate commands
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"authgate/config"
	applog "authgate/utils/logger"
	otelutil "authgate/utils/otel"
)

var (
	apiURL       string
	verbose      bool
	cfg          *config.Config
	logger       *slog.Logger
	otelShutdown otelutil.ShutdownFunc
	version      = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "authgate",
	Short: "Session and access-control client for the platform API",
	Long: `authgate manages an authenticated session against the platform API:
login, identity inspection, tenant switching, and account administration.

The bearer credential persists across invocations, so a login survives
until it expires, is refreshed, or is explicitly cleared.

Example usage:
  authgate login --email you@example.com   # Authenticate
  authgate whoami                          # Show the active identity
  authgate tenants switch <tenant-id>      # Re-scope to another tenant
  authgate logout                          # Drop the session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		shutdownTelemetry()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend API base URL (default $AUTHGATE_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.SetEnvPrefix("AUTHGATE")
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindEnv("api_url")
}

// initConfig reads in config from the environment and flags, then installs
// the logger and tracer provider so gateway spans export when a collector is
// configured (OTEL_ENABLED=false turns exporting off).
func initConfig() error {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(applog.NewTraceContextHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	slog.SetDefault(logger)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if v := viper.GetString("api_url"); v != "" {
		cfg.APIBaseURL = v
	}

	otelShutdown, err = otelutil.InitProvider(context.Background(), otelutil.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	logger.Debug("configuration loaded",
		"api_url", cfg.APIBaseURL,
		"credential_path", cfg.CredentialPath,
	)

	return nil
}

// shutdownTelemetry flushes pending spans. A missing collector is not a
// command failure; the flush error only surfaces in verbose output.
func shutdownTelemetry() {
	if otelShutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := otelShutdown(ctx); err != nil {
		logger.Debug("telemetry shutdown", "error", err)
	}
	otelShutdown = nil
}
