package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flutterdeploy/internal/config"
	"flutterdeploy/internal/logging"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	autoMode   bool
	rollback   bool
	dryRun     bool
	timeout    time.Duration

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fdk",
	Short: "fdk - keep Flutter app versions ahead of the stores",
	Long: `fdk reads the version declared in pubspec.yaml, the Android build files and
the iOS project, compares it with what Google Play and the App Store publish,
and moves every local declaration to the next version that will not be
rejected as a duplicate.

Versions are written as MAJOR.MINOR.PATCH+BUILD.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Flutter project root (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .fdk/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&autoMode, "auto", false, "Apply corrective updates without confirmation")
	rootCmd.PersistentFlags().BoolVar(&rollback, "rollback", false, "Restore all files if any write fails")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show the changes as a diff without writing")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-store lookup timeout (default: from config)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(smartBumpCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(compareAndroidCmd)
	rootCmd.AddCommand(compareAllCmd)
	rootCmd.AddCommand(tagCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup resolves the workspace, loads config and builds the logger.
func setup() error {
	root := workspace
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}
	workspace = root

	path := configPath
	if path == "" {
		path = config.Find(root)
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg = c

	logger, err = logging.New(c.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.For(logger, logging.CategoryBoot).Debug("Workspace resolved",
		zap.String("workspace", root),
		zap.String("config", path),
		zap.String("mode", c.Reconcile.Mode))
	return nil
}

// commandContext cancels on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
