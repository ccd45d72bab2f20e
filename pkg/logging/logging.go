// Package logging builds the zap loggers used by the parfait CLI and turns
// them into parfait log sinks. Messages are routed to a named child logger
// per category, and categories can be switched off in config.
package logging

import (
	"fmt"
	"sort"

	"parfait/pkg/parfait"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // CLI startup, config and page map loading
	CategoryBrowser    Category = "browser"    // Browser launch, units, shutdown
	CategoryNavigation Category = "navigation" // Page and region traversal
	CategoryDirective  Category = "directive"  // Control directive messages
	CategoryPresence   Category = "presence"   // Page tests and presence checks
)

// Config configures logging.
type Config struct {
	Level      string          `yaml:"level" json:"level,omitempty"`                     // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`                   // json, console
	Categories map[string]bool `yaml:"categories,omitempty" json:"categories,omitempty"` // Per-category toggles
}

// DefaultConfig logs everything at info in JSON.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c Config) IsCategoryEnabled(category Category) bool {
	enabled, exists := c.Categories[string(category)]
	return !exists || enabled
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: json, console)", cfg.Format)
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

// Named returns the child logger for category, or a no-op logger when the
// category is disabled.
func Named(logger *zap.Logger, cfg Config, category Category) *zap.Logger {
	if !cfg.IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	return logger.Named(string(category))
}

// Sink adapts logger to a parfait log sink. The "category" metadata key
// selects the child logger, defaulting to navigation; the remaining keys
// become fields in sorted order.
func Sink(logger *zap.Logger, cfg Config) parfait.LogSink {
	children := make(map[Category]*zap.Logger)
	for _, c := range []Category{CategoryBoot, CategoryBrowser, CategoryNavigation, CategoryDirective, CategoryPresence} {
		children[c] = Named(logger, cfg, c)
	}
	return func(message string, metadata map[string]any) {
		category := CategoryNavigation
		if c, ok := metadata["category"].(string); ok && c != "" {
			category = Category(c)
		}
		l, ok := children[category]
		if !ok {
			l = Named(logger, cfg, category)
		}
		l.Info(message, fields(metadata)...)
	}
}

func fields(metadata map[string]any) []zap.Field {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		if k != "category" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]zap.Field, len(keys))
	for i, k := range keys {
		out[i] = zap.Any(k, metadata[k])
	}
	return out
}
