package main

import (
	"errors"

	"github.com/spf13/cobra"

	"flutterdeploy/internal/reconcile"
	"flutterdeploy/internal/source"
)

// compareCmd reconciles against the App Store
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare with the App Store and fix the local version if it is behind",
	Args:  cobra.NoArgs,
	RunE:  compareWith(source.AppStore),
}

// compareAndroidCmd reconciles against Google Play
var compareAndroidCmd = &cobra.Command{
	Use:   "compare-android",
	Short: "Compare with Google Play and fix the local version if it is behind",
	Args:  cobra.NoArgs,
	RunE:  compareWith(source.GooglePlayStore),
}

// compareAllCmd reconciles against both stores
var compareAllCmd = &cobra.Command{
	Use:   "compare-all",
	Short: "Compare with both stores and fix the local version if it is behind",
	Long: `Reads every local source and both stores, classifies the pubspec version
against the highest published version and, when it is behind, updates every
local source to one build above the store. Equal versions are reported with a
recommendation but not changed.

Unreachable stores are reported and skipped; they never fail the command.`,
	Args: cobra.NoArgs,
	RunE: compareWith(source.GooglePlayStore, source.AppStore),
}

func compareWith(stores ...source.Source) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(stores...)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := engine.Reconcile(ctx)
		if report != nil && !errors.Is(err, reconcile.ErrManifestUnavailable) {
			renderReport(cmd.OutOrStdout(), report)
		}
		return err
	}
}
