package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"parfait/pkg/browser"
	"parfait/pkg/logging"
	"parfait/pkg/pagemap"
	"parfait/pkg/parfait"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	probeHTML  string
	probePages []string
)

var probeCmd = &cobra.Command{
	Use:   "probe [url]",
	Short: "Report which pages of the page map are present",
	Long: `Opens the target once per page and runs that page's presence test.

The target is the given URL, or base_url from the config. With --html the
pages are tested against a saved HTML file and no browser is launched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().StringVar(&probeHTML, "html", "", "Probe a saved HTML file instead of a live page")
	probeCmd.Flags().StringSliceVarP(&probePages, "page", "p", nil, "Page names to probe (default: all)")
}

type probeResult struct {
	present bool
	err     error
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	boot := logging.Named(logger, cfg.Logging, logging.CategoryBoot)
	m, err := pagemap.Load(cfg.PageMap)
	if err != nil {
		return err
	}
	app, err := pagemap.Build(m, cfg.ApplicationOptions()...)
	if err != nil {
		return fmt.Errorf("build %s: %w", cfg.PageMap, err)
	}
	boot.Info("Page map loaded", zap.String("application", app.Name()), zap.Int("pages", len(app.Pages())))

	names := probePages
	if len(names) == 0 {
		for _, p := range app.Pages() {
			names = append(names, p.Name())
		}
	}

	opener, closeBrowser, err := probeOpener(ctx, args)
	if err != nil {
		return err
	}
	defer closeBrowser()

	var mu sync.Mutex
	results := make(map[string]probeResult, len(names))
	units := make([]parfait.Unit, len(names))
	for i, name := range names {
		units[i] = func(ctx context.Context) error {
			ok, err := app.Confirm(ctx, parfait.Request{OnPage: name})
			mu.Lock()
			results[name] = probeResult{present: ok, err: err}
			mu.Unlock()
			// Unknown pages abort the run, the rest are reported.
			if errors.Is(err, parfait.ErrNotFound) {
				return err
			}
			return nil
		}
	}

	err = parfait.Run(ctx, app, parfait.RunConfig{
		Limit:   cfg.Run.MaxParallel,
		Browser: opener,
		LogSink: logging.Sink(logger, cfg.Logging),
	}, units...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		r := results[name]
		switch {
		case r.err != nil:
			fmt.Fprintf(out, "%s: error: %v\n", name, r.err)
		case r.present:
			fmt.Fprintf(out, "%s: present\n", name)
		default:
			fmt.Fprintf(out, "%s: absent\n", name)
		}
	}
	return nil
}

// probeOpener returns the per-unit browser opener and a func that releases
// whatever it holds.
func probeOpener(ctx context.Context, args []string) (func(context.Context) (any, func(), error), func(), error) {
	if probeHTML != "" {
		data, err := os.ReadFile(probeHTML)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", probeHTML, err)
		}
		// Every unit parses its own copy so directives never share a tree.
		opener := func(context.Context) (any, func(), error) {
			doc, err := browser.ParseHTMLString(string(data))
			if err != nil {
				return nil, nil, err
			}
			return doc.Root(), nil, nil
		}
		return opener, func() {}, nil
	}

	url := cfg.BaseURL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return nil, nil, fmt.Errorf("%w: no URL given and base_url is not set", parfait.ErrMissingRequiredField)
	}

	log := logging.Named(logger, cfg.Logging, logging.CategoryBrowser)
	session, err := browser.Launch(ctx, cfg.Browser, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	shutdown := func() {
		if err := session.Shutdown(context.Background()); err != nil {
			log.Warn("Shutdown error", zap.Error(err))
		}
	}
	return session.Opener(url), shutdown, nil
}
