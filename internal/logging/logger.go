// Package logging builds the zap logger used across fdk and splits it into
// named categories that can be switched off individually in config.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"flutterdeploy/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config resolution
	CategoryConfig    Category = "config"    // Config loading and validation
	CategoryExtract   Category = "extract"   // Local version extraction
	CategoryStore     Category = "store"     // Store lookups and the advisory cache
	CategoryReconcile Category = "reconcile" // Classification and decisions
	CategoryWrite     Category = "write"     // Version writes and rollback
	CategoryRelease   Category = "release"   // Release tagging
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryBoot, CategoryConfig, CategoryExtract, CategoryStore,
	CategoryReconcile, CategoryWrite, CategoryRelease,
}

// New builds a logger from cfg. Logs always go to stderr, and additionally
// to cfg.File when set.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format != "json" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}

	disabled := make(map[string]bool)
	for name := range cfg.Categories {
		if !cfg.IsCategoryEnabled(name) {
			disabled[name] = true
		}
	}

	logger, err := zc.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return FilterCategories(core, disabled)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// For returns the child logger for category. A nil logger yields a no-op.
func For(logger *zap.Logger, category Category) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(string(category))
}

// FilterCategories wraps core so that entries from disabled categories are
// dropped. The category is the first segment of the logger name.
func FilterCategories(core zapcore.Core, disabled map[string]bool) zapcore.Core {
	if len(disabled) == 0 {
		return core
	}
	return &categoryCore{Core: core, disabled: disabled}
}

type categoryCore struct {
	zapcore.Core
	disabled map[string]bool
}

func (c *categoryCore) With(fields []zapcore.Field) zapcore.Core {
	return &categoryCore{Core: c.Core.With(fields), disabled: c.disabled}
}

func (c *categoryCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	name, _, _ := strings.Cut(ent.LoggerName, ".")
	if c.disabled[name] {
		return ce
	}
	return c.Core.Check(ent, ce)
}
