package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"parfait/pkg/browser"
	"parfait/pkg/logging"
	"parfait/pkg/parfait"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration.
const DefaultPath = "parfait.yaml"

// Config holds all parfait configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	PageMap string `yaml:"page_map"`

	// BaseURL is the page every execution unit opens first.
	BaseURL string `yaml:"base_url"`

	Browser    browser.Config   `yaml:"browser"`
	Logging    logging.Config   `yaml:"logging"`
	Navigation NavigationConfig `yaml:"navigation"`
	Run        RunConfig        `yaml:"run"`
}

// NavigationConfig configures the Navigate facade.
type NavigationConfig struct {
	// FallbackPage is used when a navigate request names no page. Unset
	// leaves the page map's choice alone; empty makes the page mandatory.
	FallbackPage *string `yaml:"fallback_page,omitempty"`
}

// RunConfig configures the runner.
type RunConfig struct {
	MaxParallel int `yaml:"max_parallel"` // 0 = unlimited
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "parfait",
		PageMap: "pagemap.yaml",
		Browser: browser.DefaultConfig(),
		Logging: logging.DefaultConfig(),
		Run:     RunConfig{MaxParallel: 4},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if url := os.Getenv("PARFAIT_DEBUGGER_URL"); url != "" {
		c.Browser.DebuggerURL = url
	}
	if v := os.Getenv("PARFAIT_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PARFAIT_HEADLESS: %w", err)
		}
		c.Browser.Headless = headless
	}
	if level := os.Getenv("PARFAIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("PARFAIT_PAGE_MAP"); path != "" {
		c.PageMap = path
	}
	if url := os.Getenv("PARFAIT_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	return nil
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name", parfait.ErrMissingRequiredField)
	}
	if c.PageMap == "" {
		return fmt.Errorf("%w: page_map", parfait.ErrMissingRequiredField)
	}
	if c.Run.MaxParallel < 0 {
		return fmt.Errorf("invalid run.max_parallel: %d", c.Run.MaxParallel)
	}
	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("invalid viewport: %dx%d", c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}

	validLevel := c.Logging.Level == ""
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// ApplicationOptions returns the parfait options the configuration sets
// explicitly. Append them after a page map's own options so they win.
func (c *Config) ApplicationOptions() []parfait.ApplicationOption {
	var opts []parfait.ApplicationOption
	if c.Navigation.FallbackPage != nil {
		opts = append(opts, parfait.WithNavigateFallback(*c.Navigation.FallbackPage))
	}
	return opts
}
