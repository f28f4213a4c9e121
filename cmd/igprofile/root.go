package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igprofile/pkg/config"
	"igprofile/pkg/logger"
	"igprofile/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	verbose    bool
	quiet      bool

	// Effective configuration, built in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igprofile",
	Short: "Scrape public Instagram profiles and posts without logging in",
	Long: `igprofile retrieves public profile and post data from Instagram using
plain unauthenticated HTTP requests: no browser automation, no cookies to
copy, no credentials.

The session is bootstrapped automatically (token discovery from the
homepage), every response is classified for defensive blocks, and failed
requests are retried with per-class exponential backoff. Pagination is
cursor-driven, de-duplicated and resumable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if quiet {
			cfg.Logging.Level = "error"
			ui.SetQuietMode(true)
		}

		if err := logger.Initialize(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress status output")
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
