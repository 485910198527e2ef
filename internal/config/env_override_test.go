package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Stores(t *testing.T) {
	clearEnv(t)
	t.Setenv("FDK_ANDROID_PACKAGE", "com.env.android")
	t.Setenv("FDK_IOS_BUNDLE_ID", "com.env.ios")
	t.Setenv("FDK_APPSTORE_COUNTRY", "de")
	t.Setenv("FDK_STORE_TIMEOUT", "4s")

	cfg := DefaultConfig()
	cfg.Stores.GooglePlay.PackageID = "com.file.android"
	cfg.applyEnvOverrides()

	assert.Equal(t, "com.env.android", cfg.Stores.GooglePlay.PackageID)
	assert.Equal(t, "com.env.ios", cfg.Stores.AppStore.BundleID)
	assert.Equal(t, "de", cfg.Stores.AppStore.Country)
	assert.Equal(t, 4*time.Second, cfg.StoreTimeout())
}

func TestEnvOverrides_EmptyLeavesFileValues(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Stores.AppStore.BundleID = "com.file.ios"
	cfg.Logging.Level = "warn"
	cfg.applyEnvOverrides()

	assert.Equal(t, "com.file.ios", cfg.Stores.AppStore.BundleID)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ModeInteractive, cfg.Reconcile.Mode)
}

func TestEnvOverrides_CI(t *testing.T) {
	tests := []struct {
		value string
		auto  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"false", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run("CI="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CI", tt.value)

			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			assert.Equal(t, tt.auto, cfg.IsAuto())
		})
	}
}

func TestEnvOverrides_LogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("FDK_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}
