package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"parfait/pkg/parfait"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `yaml:"debugger_url" json:"debugger_url"`
	Launch              []string `yaml:"launch,omitempty" json:"launch"`
	Headless            bool     `yaml:"headless" json:"headless"`
	ViewportWidth       int      `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms" json:"navigation_timeout_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Session owns one Chrome instance. Every execution unit gets its own
// incognito page from NewUnit, so units never share cookies or storage.
type Session struct {
	cfg    Config
	logger *zap.Logger

	mu         sync.RWMutex
	browser    *rod.Browser
	controlURL string
}

// Launch connects to cfg.DebuggerURL, or launches Chrome when it is empty.
func Launch(ctx context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	controlURL, err := resolveControlURL(cfg, logger)
	if err != nil {
		return nil, err
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	logger.Debug("browser connected", zap.String("control_url", controlURL))
	return &Session{cfg: cfg, logger: logger, browser: b, controlURL: controlURL}, nil
}

func resolveControlURL(cfg Config, logger *zap.Logger) (string, error) {
	if cfg.DebuggerURL != "" {
		return cfg.DebuggerURL, nil
	}
	l := launcher.New().Headless(cfg.Headless)
	if len(cfg.Launch) > 0 {
		l = l.Bin(cfg.Launch[0])
		for _, rawFlag := range cfg.Launch[1:] {
			name, val, hasVal := strings.Cut(strings.TrimLeft(rawFlag, "-"), "=")
			if hasVal {
				l = l.Set(flags.Flag(name), val)
			} else {
				l = l.Set(flags.Flag(name))
			}
		}
	}
	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch chrome: %w", err)
	}
	logger.Debug("browser launched", zap.Bool("headless", cfg.Headless))
	return u, nil
}

// ControlURL returns the WebSocket debugger URL.
func (s *Session) ControlURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controlURL
}

// Shutdown closes the browser.
func (s *Session) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.controlURL = ""
	s.logger.Debug("browser shut down")
	return err
}

// Unit is one isolated browser context with a single page.
type Unit struct {
	incognito *rod.Browser
	page      *rod.Page
}

// Root returns the View of the unit's page.
func (u *Unit) Root() View {
	return &rodView{page: u.page}
}

// Close discards the unit's page and browser context.
func (u *Unit) Close() error {
	return errors.Join(u.page.Close(), u.incognito.Close())
}

// NewUnit opens an incognito page at url.
func (s *Session) NewUnit(ctx context.Context, url string) (*Unit, error) {
	s.mu.RLock()
	b := s.browser
	s.mu.RUnlock()
	if b == nil {
		return nil, parfait.ErrBrowserUndefined
	}

	incognito, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.GetViewportWidth(),
		Height:            s.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
	}).Call(page); err != nil {
		s.logger.Warn("failed to set viewport", zap.Error(err))
	}

	unit := &Unit{incognito: incognito, page: page}
	if url != "" {
		p := page.Context(ctx).Timeout(s.cfg.NavigationTimeout())
		if err := p.Navigate(url); err != nil {
			_ = unit.Close()
			return nil, fmt.Errorf("navigate to %s: %w", url, err)
		}
		if err := p.WaitLoad(); err != nil {
			_ = unit.Close()
			return nil, fmt.Errorf("wait for %s: %w", url, err)
		}
	}
	s.logger.Debug("unit opened", zap.String("url", url), zap.String("target", string(page.TargetID)))
	return unit, nil
}

// Opener returns a parfait.RunConfig Browser func that opens a fresh unit at
// url for every execution unit and closes it afterwards.
func (s *Session) Opener(url string) func(ctx context.Context) (any, func(), error) {
	return func(ctx context.Context) (any, func(), error) {
		unit, err := s.NewUnit(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if err := unit.Close(); err != nil {
				s.logger.Warn("close unit", zap.Error(err))
			}
		}
		return unit.Root(), release, nil
	}
}

// rodView is a page (el == nil) or one of its elements.
type rodView struct {
	page *rod.Page
	el   *rod.Element
}

func (v *rodView) wrap(els rod.Elements) []View {
	out := make([]View, len(els))
	for i, el := range els {
		out[i] = &rodView{page: v.page, el: el}
	}
	return out
}

func (v *rodView) Element(ctx context.Context, selector string) (View, error) {
	var (
		ok  bool
		el  *rod.Element
		err error
	)
	if v.el == nil {
		ok, el, err = v.page.Context(ctx).Has(selector)
	} else {
		ok, el, err = v.el.Context(ctx).Has(selector)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: element %q", parfait.ErrNotFound, selector)
	}
	return &rodView{page: v.page, el: el}, nil
}

func (v *rodView) Elements(ctx context.Context, selector string) ([]View, error) {
	var (
		els rod.Elements
		err error
	)
	if v.el == nil {
		els, err = v.page.Context(ctx).Elements(selector)
	} else {
		els, err = v.el.Context(ctx).Elements(selector)
	}
	if err != nil {
		return nil, err
	}
	return v.wrap(els), nil
}

func (v *rodView) Has(ctx context.Context, selector string) (bool, error) {
	if v.el == nil {
		ok, _, err := v.page.Context(ctx).Has(selector)
		return ok, err
	}
	ok, _, err := v.el.Context(ctx).Has(selector)
	return ok, err
}

// element returns the receiver's element, or the page body for a page view.
func (v *rodView) element(ctx context.Context) (*rod.Element, error) {
	if v.el != nil {
		return v.el.Context(ctx), nil
	}
	return v.page.Context(ctx).Element("body")
}

func (v *rodView) Text(ctx context.Context) (string, error) {
	el, err := v.element(ctx)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (v *rodView) Value(ctx context.Context) (string, error) {
	if v.el == nil {
		return "", ErrNotElement
	}
	prop, err := v.el.Context(ctx).Property("value")
	if err != nil {
		return "", err
	}
	if prop.Nil() {
		return "", nil
	}
	return prop.Str(), nil
}

func (v *rodView) Checked(ctx context.Context) (bool, error) {
	if v.el == nil {
		return false, ErrNotElement
	}
	prop, err := v.el.Context(ctx).Property("checked")
	if err != nil {
		return false, err
	}
	return prop.Bool(), nil
}

func (v *rodView) Visible(ctx context.Context) (bool, error) {
	el, err := v.element(ctx)
	if err != nil {
		return false, err
	}
	return el.Visible()
}

func (v *rodView) Input(ctx context.Context, text string) error {
	if v.el == nil {
		return ErrNotElement
	}
	el := v.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text: %w", err)
	}
	if text == "" {
		_, err := el.Eval(`() => { this.value = ""; this.dispatchEvent(new Event("input", {bubbles: true})) }`)
		return err
	}
	return el.Input(text)
}

func (v *rodView) SetChecked(ctx context.Context, checked bool) error {
	on, err := v.Checked(ctx)
	if err != nil {
		return err
	}
	if on == checked {
		return nil
	}
	return v.Click(ctx)
}

func (v *rodView) Click(ctx context.Context) error {
	if v.el == nil {
		return ErrNotElement
	}
	return v.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}
