package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flutterdeploy/internal/logging"
	"flutterdeploy/internal/reconcile"
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

// currentCmd prints the version declared by each local source
var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the version declared by each local source",
	Args:  cobra.NoArgs,
	RunE:  runCurrent,
}

// nextCmd previews a bump without writing
var nextCmd = &cobra.Command{
	Use:   "next <build|patch|minor|major>",
	Short: "Print the version a bump would produce",
	Args:  cobra.ExactArgs(1),
	RunE:  runNext,
}

// bumpCmd applies a bump to every local source
var bumpCmd = &cobra.Command{
	Use:   "bump <build|patch|minor|major>",
	Short: "Bump the version in every local source",
	Long: `Bumps the pubspec version and writes the result to every local source.

  build  1.2.3+4 -> 1.2.3+5
  patch  1.2.3+4 -> 1.2.4+5
  minor  1.2.3+4 -> 1.3.0+5
  major  1.2.3+4 -> 2.0.0+5`,
	Args: cobra.ExactArgs(1),
	RunE: runBump,
}

// smartBumpCmd bumps past both the local and the published versions
var smartBumpCmd = &cobra.Command{
	Use:   "smart-bump",
	Short: "Bump to the next version above both local and store versions",
	Args:  cobra.NoArgs,
	RunE:  runSmartBump,
}

// setCmd writes an explicit version
var setCmd = &cobra.Command{
	Use:     "set <MAJOR.MINOR.PATCH+BUILD>",
	Short:   "Write an explicit version to every local source",
	Example: "  fdk set 1.4.0+12",
	Args:    cobra.ExactArgs(1),
	RunE:    runSet,
}

// syncCmd copies the pubspec version into the other sources
var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Write the pubspec version to the other local sources",
	Long: `Writes the canonical pubspec version to every local source that declares a
literal version, or only to the named source (android, ios-plist, ios-project).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

// checkLocal runs a store-less check, which reads every local source.
func checkLocal(cmd *cobra.Command) (*reconcile.Engine, *reconcile.Report, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	report, err := engine.Check(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine, report, nil
}

func runCurrent(cmd *cobra.Command, args []string) error {
	_, report, err := checkLocal(cmd)
	if err != nil {
		return err
	}
	renderLocal(cmd.OutOrStdout(), newStyles(), report)
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	kind, err := version.ParseBumpKind(args[0])
	if err != nil {
		return err
	}
	_, report, err := checkLocal(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), version.Next(report.Canonical, kind))
	return nil
}

func runBump(cmd *cobra.Command, args []string) error {
	kind, err := version.ParseBumpKind(args[0])
	if err != nil {
		return err
	}
	engine, report, err := checkLocal(cmd)
	if err != nil {
		return err
	}
	return applyVersion(cmd, engine, version.Next(report.Canonical, kind))
}

func runSmartBump(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(source.GooglePlayStore, source.AppStore)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	report, err := engine.Check(ctx)
	if err != nil {
		return err
	}
	if len(report.Stores) > 0 {
		renderResults(cmd.OutOrStdout(), newStyles(), "Store versions", report.Stores, report.LastSeen)
	}
	return applyVersion(cmd, engine, reconcile.SmartTarget(report))
}

func runSet(cmd *cobra.Command, args []string) error {
	target, err := version.Parse(args[0])
	if err != nil {
		return err
	}
	engine, _, err := checkLocal(cmd)
	if err != nil {
		return err
	}
	return applyVersion(cmd, engine, target)
}

func runSync(cmd *cobra.Command, args []string) error {
	engine, report, err := checkLocal(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return applyVersion(cmd, engine, report.Canonical)
	}

	src, err := source.ParseSource(args[0])
	if err != nil {
		return err
	}
	if !src.IsLocal() {
		return fmt.Errorf("%s is a store, not a local source", src)
	}
	if engine.DryRun {
		changes, err := engine.PreviewTo(report.Canonical, []source.Source{src})
		renderPreview(cmd.OutOrStdout(), newStyles(), report.Canonical, changes, nil)
		return err
	}
	result, err := engine.ApplyTo(report.Canonical, []source.Source{src})
	renderApplied(cmd.OutOrStdout(), newStyles(), result)
	return err
}

func applyVersion(cmd *cobra.Command, engine *reconcile.Engine, target version.Tuple) error {
	if engine.DryRun {
		changes, skipped, err := engine.Preview(target)
		renderPreview(cmd.OutOrStdout(), newStyles(), target, changes, skipped)
		return err
	}
	logging.For(logger, logging.CategoryWrite).Info("Applying version", zap.Stringer("target", target))
	result, err := engine.Apply(target)
	renderApplied(cmd.OutOrStdout(), newStyles(), result)
	return err
}
