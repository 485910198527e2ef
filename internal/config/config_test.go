package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"flutterdeploy/internal/source"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FDK_ANDROID_PACKAGE", "FDK_IOS_BUNDLE_ID", "FDK_APPSTORE_COUNTRY",
		"FDK_STORE_TIMEOUT", "FDK_LOG_LEVEL", "CI",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Reconcile.Mode != ModeInteractive {
		t.Errorf("expected Mode=interactive, got %s", cfg.Reconcile.Mode)
	}
	if !cfg.Stores.GooglePlay.Enabled || !cfg.Stores.AppStore.Enabled {
		t.Error("expected both stores enabled by default")
	}
	if cfg.StoreTimeout() != 10*time.Second {
		t.Errorf("expected StoreTimeout=10s, got %v", cfg.StoreTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Release.Remote != "origin" {
		t.Errorf("expected Remote=origin, got %s", cfg.Release.Remote)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), Dir, name)

			cfg := DefaultConfig()
			cfg.Stores.GooglePlay.PackageID = "com.example.demo"
			cfg.Stores.AppStore.Country = "gb"
			cfg.Reconcile.Mode = ModeAuto
			cfg.Reconcile.Rollback = true
			cfg.Logging.Categories = map[string]bool{"store": false}

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Stores.GooglePlay.PackageID != "com.example.demo" {
				t.Errorf("expected PackageID=com.example.demo, got %s", loaded.Stores.GooglePlay.PackageID)
			}
			if loaded.Stores.AppStore.Country != "gb" {
				t.Errorf("expected Country=gb, got %s", loaded.Stores.AppStore.Country)
			}
			if !loaded.IsAuto() || !loaded.Reconcile.Rollback {
				t.Errorf("reconcile settings lost: %+v", loaded.Reconcile)
			}
			if loaded.Logging.IsCategoryEnabled("store") {
				t.Error("expected store category disabled")
			}
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("stores:\n  app_store:\n    bundle_id: com.example.ios\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Stores.AppStore.BundleID != "com.example.ios" {
		t.Errorf("expected BundleID=com.example.ios, got %s", cfg.Stores.AppStore.BundleID)
	}
	if cfg.Stores.AppStore.Country != "us" {
		t.Errorf("expected default Country=us, got %s", cfg.Stores.AppStore.Country)
	}
	if cfg.Project.Manifest != "pubspec.yaml" {
		t.Errorf("expected default manifest path, got %s", cfg.Project.Manifest)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"config.yaml": "stores: [\n",
		"config.toml": "stores = \n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	if got := Find(root); got != DefaultPath(root) {
		t.Errorf("Find=%q, want default %q", got, DefaultPath(root))
	}

	tomlPath := filepath.Join(root, Dir, "config.toml")
	if err := os.MkdirAll(filepath.Dir(tomlPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(tomlPath, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := Find(root); got != tomlPath {
		t.Errorf("Find=%q, want %q", got, tomlPath)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Reconcile.Mode = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown mode")
	}

	cfg = DefaultConfig()
	cfg.Stores.Timeout = "-1s"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative timeout")
	}

	cfg = DefaultConfig()
	cfg.Stores.Timeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unparsable timeout")
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown log format")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stores.Timeout = "garbage"
	if cfg.StoreTimeout() != 10*time.Second {
		t.Error("StoreTimeout should fall back to 10s")
	}
	cfg.Stores.Timeout = "3s"
	if cfg.StoreTimeout() != 3*time.Second {
		t.Errorf("StoreTimeout=%v, want 3s", cfg.StoreTimeout())
	}
}

func TestProjectConfig_Layout(t *testing.T) {
	p := DefaultProjectConfig()
	p.IOSPlist = filepath.Join("ios", "App", "Info.plist")
	p.AndroidGroovy = ""

	l := p.Layout("/work/app")
	if l.Root != "/work/app" {
		t.Errorf("Root=%q", l.Root)
	}
	if l.IOSPlist != filepath.Join("ios", "App", "Info.plist") {
		t.Errorf("IOSPlist=%q", l.IOSPlist)
	}
	if want := source.DefaultLayout("").AndroidGroovy; l.AndroidGroovy != want {
		t.Errorf("empty override should keep %q, got %q", want, l.AndroidGroovy)
	}
}

func TestProjectConfig_LocalSources(t *testing.T) {
	p := ProjectConfig{Sources: []string{"android", "plist"}}
	got, err := p.LocalSources()
	if err != nil {
		t.Fatalf("LocalSources: %v", err)
	}
	if len(got) != 2 || got[0] != source.AndroidBuildDescriptor || got[1] != source.IOSPropertyList {
		t.Errorf("LocalSources=%v", got)
	}

	p.Sources = []string{"google-play"}
	if _, err := p.LocalSources(); err == nil {
		t.Error("expected error for store source")
	}
	p.Sources = []string{"windows"}
	if _, err := p.LocalSources(); err == nil {
		t.Error("expected error for unknown source")
	}
}
