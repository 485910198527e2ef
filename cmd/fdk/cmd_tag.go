package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flutterdeploy/internal/logging"
	"flutterdeploy/internal/release"
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

var (
	tagPush bool

	// newTagSink is replaced in tests.
	newTagSink = func() release.TagSink {
		return &release.GitSink{
			Dir:    workspace,
			Remote: cfg.Release.Remote,
			Logger: logging.For(logger, logging.CategoryRelease),
		}
	}
)

// tagCmd records the released versions as a git tag
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Create a release tag from the Android and iOS versions",
	Long: `Creates an annotated git tag named after the Android and iOS versions:

  live_android-v1.2.0(5)_ios-v1.2.0(5)

The iOS version is read from Info.plist, falling back to the Xcode project.
A platform whose files only forward the pubspec version uses the pubspec.`,
	Args: cobra.NoArgs,
	RunE: runTag,
}

func init() {
	tagCmd.Flags().BoolVar(&tagPush, "push", false, "Push the tag to the configured remote")
}

// platformVersion returns res's version, or the manifest version when the
// platform file exists but forwards the pubspec version instead of declaring
// a literal.
func platformVersion(layout source.Layout, res source.ExtractionResult) (version.Tuple, error) {
	if res.OK() {
		return *res.Parsed, nil
	}
	manifest := source.Extract(layout, source.ProjectManifest)
	if res.Err == source.SourceUnparsable && !res.Malformed && manifest.OK() {
		logging.For(logger, logging.CategoryRelease).Debug("Using pubspec version for platform",
			zap.Stringer("source", res.Source), zap.String("reason", res.Reason))
		return *manifest.Parsed, nil
	}
	return version.Tuple{}, fmt.Errorf("%s version %s", res.Source, res.Describe())
}

func runTag(cmd *cobra.Command, args []string) error {
	layout := cfg.Project.Layout(workspace)

	android, err := platformVersion(layout, source.Extract(layout, source.AndroidBuildDescriptor))
	if err != nil {
		return err
	}
	ios, err := platformVersion(layout, source.IOSVersion(layout))
	if err != nil {
		return err
	}

	name := release.TagName(android, ios)
	fmt.Fprintln(cmd.OutOrStdout(), name)
	if dryRun {
		return nil
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	sink := newTagSink()
	if err := sink.Tag(ctx, name, release.TagMessage(android, ios)); err != nil {
		return err
	}
	if tagPush {
		return sink.Push(ctx, name)
	}
	return nil
}
