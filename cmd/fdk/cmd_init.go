package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flutterdeploy/internal/config"
	"flutterdeploy/internal/logging"
	"flutterdeploy/internal/source"
)

var initForce bool

// initCmd writes a starter config for the project
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .fdk/config.yaml with the detected store identifiers",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath(workspace)
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	ids := source.DetectIdentifiers(cfg.Project.Layout(workspace))
	out := *cfg
	if out.Stores.GooglePlay.PackageID == "" {
		out.Stores.GooglePlay.PackageID = ids.AndroidPackage
	}
	if out.Stores.AppStore.BundleID == "" {
		out.Stores.AppStore.BundleID = ids.IOSBundleID
	}

	if err := out.Save(path); err != nil {
		return err
	}
	logging.For(logger, logging.CategoryConfig).Info("Config written",
		zap.String("path", path),
		zap.String("package_id", out.Stores.GooglePlay.PackageID),
		zap.String("bundle_id", out.Stores.AppStore.BundleID))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
