package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdns-tools/pdnsctl/config"
	"github.com/pdns-tools/pdnsctl/pdns"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *pdns.Client

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pdnsctl",
	Short: "A CLI for the PowerDNS Authoritative server API",
	Long: `pdnsctl talks to the HTTP management API of a PowerDNS Authoritative
server. It can list and edit zones and records, inspect and change server
configuration, flush the packet cache, search zone data and manage query
tracing.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build version for the version and selfupdate
// commands.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "server instance ID (default from config, usually \"localhost\")")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override server ID from command line if specified
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.PowerDNS.ServerID = server
	}

	// Create PowerDNS client
	client, err = pdns.NewClient(cfg.PowerDNS.URL, cfg.PowerDNS.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create PowerDNS client: %w", err)
	}

	return nil
}

// server returns the proxy for the configured server instance.
func server() *pdns.Server {
	return client.Server(cfg.PowerDNS.ServerID)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; disable color when not attached to a terminal
	noColor := !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
