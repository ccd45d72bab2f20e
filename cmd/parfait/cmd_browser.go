package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"parfait/pkg/browser"
	"parfait/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// browserCmd manages the shared Chrome instance
var browserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Browser commands",
}

var browserLaunchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch Chrome and print its DevTools URL until interrupted",
	Long: `Launches Chrome with the configured flags and keeps it running. Export
the printed URL as PARFAIT_DEBUGGER_URL so later probes reuse this instance.`,
	RunE: browserLaunch,
}

func init() {
	browserCmd.AddCommand(browserLaunchCmd)
}

func browserLaunch(cmd *cobra.Command, args []string) error {
	log := logging.Named(logger, cfg.Logging, logging.CategoryBrowser)
	log.Info("Launching browser", zap.Bool("headless", cfg.Browser.Headless))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.Launch(ctx, cfg.Browser, log)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := session.Shutdown(context.Background()); err != nil {
			log.Warn("Shutdown error", zap.Error(err))
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "PARFAIT_DEBUGGER_URL=%s\n", session.ControlURL())
	<-ctx.Done()
	log.Info("Received shutdown signal")
	return nil
}
