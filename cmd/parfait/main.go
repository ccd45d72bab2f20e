package main

import (
	"fmt"
	"os"
	"time"

	"parfait/internal/config"
	"parfait/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "parfait",
	Short: "parfait - page-object test automation",
	Long: `parfait describes a web application as pages, regions, and controls,
and drives it through a browser with logged, verifiable directives.

Page maps are YAML files that bind controls to selectors. Use "probe" to
check which pages of a map a live or saved page currently satisfies.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Named(logger, cfg.Logging, logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.String("page_map", cfg.PageMap))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pagemapCmd)
	rootCmd.AddCommand(browserCmd)
	rootCmd.AddCommand(probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
