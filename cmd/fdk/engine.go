package main

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"flutterdeploy/internal/config"
	"flutterdeploy/internal/logging"
	"flutterdeploy/internal/reconcile"
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/store"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmer is the interactive prompt used in Interactive mode.
var confirmer reconcile.Confirmer = teaConfirmer{}

func reconcileMode() reconcile.Mode {
	if autoMode || cfg.IsAuto() || !stdinIsTerminal() {
		return reconcile.Automated
	}
	return reconcile.Interactive
}

func cacheDir() string {
	dir := cfg.Stores.CacheDir
	if dir == "" {
		return filepath.Join(workspace, config.Dir, "cache")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, dir)
	}
	return dir
}

// newEngine builds an engine over the workspace that consults the given
// stores. Stores disabled in config are left out.
func newEngine(stores ...source.Source) (*reconcile.Engine, error) {
	layout := cfg.Project.Layout(workspace)
	locals, err := cfg.Project.LocalSources()
	if err != nil {
		return nil, err
	}

	storeLog := logging.For(logger, logging.CategoryStore)
	cache := store.NewCache(cacheDir(), storeLog)
	storeTimeout := cfg.StoreTimeout()
	if timeout > 0 {
		storeTimeout = timeout
	}

	var ids source.Identifiers
	if len(stores) > 0 {
		ids = source.DetectIdentifiers(layout)
	}

	var fetchers []store.Fetcher
	for _, s := range stores {
		opts := store.Options{Timeout: storeTimeout, Cache: cache, Logger: storeLog}
		switch s {
		case source.GooglePlayStore:
			play := cfg.Stores.GooglePlay
			if !play.Enabled {
				continue
			}
			pkg := play.PackageID
			if pkg == "" {
				pkg = ids.AndroidPackage
			}
			opts.BaseURL = play.BaseURL
			fetchers = append(fetchers, store.NewPlayStore(pkg, opts))
		case source.AppStore:
			apple := cfg.Stores.AppStore
			if !apple.Enabled {
				continue
			}
			bundle := apple.BundleID
			if bundle == "" {
				bundle = ids.IOSBundleID
			}
			opts.BaseURL = apple.BaseURL
			fetchers = append(fetchers, store.NewAppStore(bundle, apple.Country, opts))
		}
	}

	return &reconcile.Engine{
		Layout:        layout,
		Locals:        locals,
		Fetchers:      fetchers,
		Cache:         cache,
		Mode:          reconcileMode(),
		Confirmer:     confirmer,
		Rollback:      rollback || cfg.Reconcile.Rollback,
		DryRun:        dryRun,
		Logger:        logging.For(logger, logging.CategoryReconcile),
		ExtractLogger: logging.For(logger, logging.CategoryExtract),
	}, nil
}
