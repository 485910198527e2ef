package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"flutterdeploy/internal/config"
)

func TestFor_NamesCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	For(logger, CategoryStore).Info("fetched")
	For(For(logger, CategoryWrite), "rollback").Warn("restored")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Equal(t, "write.rollback", entries[1].LoggerName)
}

func TestFor_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		For(nil, CategoryBoot).Info("ignored")
	})
}

func TestFilterCategories(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(FilterCategories(core, map[string]bool{"store": true}))

	For(logger, CategoryStore).Info("dropped")
	For(logger, CategoryStore).With(zap.String("k", "v")).Info("dropped too")
	For(logger, CategoryReconcile).Info("kept")
	logger.Info("root kept")

	var msgs []string
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"kept", "root kept"}, msgs)
}

func TestFilterCategories_NoneDisabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.Same(t, core, FilterCategories(core, nil))
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdk.log")
	logger, err := New(config.LoggingConfig{
		Level:      "debug",
		Format:     "json",
		File:       path,
		Categories: map[string]bool{"store": false, "write": true},
	})
	require.NoError(t, err)

	For(logger, CategoryWrite).Debug("version written", zap.String("source", "pubspec"))
	For(logger, CategoryStore).Info("store skipped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"version written"`)
	assert.Contains(t, string(data), `"logger":"write"`)
	assert.NotContains(t, string(data), "store skipped")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}
