// Package source reads and rewrites the version declarations of a Flutter
// project: pubspec.yaml, the Android Gradle/properties descriptors, the iOS
// Info.plist and the Xcode project file.
//
// Extraction never fails the caller. Missing files, absent keys and values
// that still carry build-tool placeholders all surface as an ExtractionResult
// without a parsed tuple and with an ErrorKind explaining why. Writing is the
// inverse operation and is the one place a local error is fatal: every write
// is re-read and verified.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"flutterdeploy/internal/version"
)

// Source identifies where a version was read from.
type Source int

const (
	ProjectManifest Source = iota
	AndroidBuildDescriptor
	IOSPropertyList
	IOSProjectDescriptor
	GooglePlayStore
	AppStore
)

// Locals lists the project-owned sources in write order.
var Locals = []Source{ProjectManifest, AndroidBuildDescriptor, IOSPropertyList, IOSProjectDescriptor}

var sourceNames = map[Source]string{
	ProjectManifest:        "pubspec",
	AndroidBuildDescriptor: "android",
	IOSPropertyList:        "ios-plist",
	IOSProjectDescriptor:   "ios-project",
	GooglePlayStore:        "google-play",
	AppStore:               "app-store",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// IsLocal reports whether the source lives in the project tree.
func (s Source) IsLocal() bool {
	return s >= ProjectManifest && s <= IOSProjectDescriptor
}

// ParseSource resolves a CLI name such as "android" or "ios-plist".
func ParseSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for src, n := range sourceNames {
		if n == name {
			return src, nil
		}
	}
	switch name {
	case "manifest", "pubspec.yaml":
		return ProjectManifest, nil
	case "ios", "plist":
		return IOSPropertyList, nil
	case "pbxproj", "xcode":
		return IOSProjectDescriptor, nil
	}
	return 0, fmt.Errorf("unknown source %q", name)
}

// ErrorKind classifies a non-fatal extraction or fetch failure.
type ErrorKind int

const (
	NoError ErrorKind = iota
	SourceMissing
	SourceUnparsable
	NetworkUnavailable
	RemoteParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case SourceMissing:
		return "source missing"
	case SourceUnparsable:
		return "source unparsable"
	case NetworkUnavailable:
		return "network unavailable"
	case RemoteParseFailure:
		return "remote parse failure"
	default:
		return "ok"
	}
}

// ExtractionResult is the outcome of reading one source. Parsed is nil
// whenever Err is set; such results are excluded from comparison.
type ExtractionResult struct {
	Source Source
	Path   string
	Raw    *string
	Parsed *version.Tuple
	Err    ErrorKind
	Reason string
	// Malformed marks a SourceUnparsable result whose file does declare a
	// literal version, just not a valid one. Write can still replace it.
	Malformed bool
}

// OK reports whether a version was parsed.
func (r ExtractionResult) OK() bool {
	return r.Parsed != nil && r.Err == NoError
}

// Describe renders the result for status output.
func (r ExtractionResult) Describe() string {
	if r.OK() {
		return r.Parsed.String()
	}
	if r.Reason != "" {
		return fmt.Sprintf("unavailable (%s: %s)", r.Err, r.Reason)
	}
	return fmt.Sprintf("unavailable (%s)", r.Err)
}

func found(src Source, path, raw string, v version.Tuple) ExtractionResult {
	return ExtractionResult{Source: src, Path: path, Raw: &raw, Parsed: &v}
}

func failed(src Source, path string, kind ErrorKind, format string, args ...any) ExtractionResult {
	return ExtractionResult{Source: src, Path: path, Err: kind, Reason: fmt.Sprintf(format, args...)}
}

func malformed(src Source, path string, err error) ExtractionResult {
	res := failed(src, path, SourceUnparsable, "%v", err)
	res.Malformed = true
	return res
}

// Layout locates each declaration file relative to a project root.
type Layout struct {
	Root              string
	Manifest          string
	AndroidGroovy     string
	AndroidKotlin     string
	AndroidProperties string
	IOSPlist          string
	IOSProject        string
}

// DefaultLayout returns the standard `flutter create` layout rooted at root.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:              root,
		Manifest:          "pubspec.yaml",
		AndroidGroovy:     filepath.Join("android", "app", "build.gradle"),
		AndroidKotlin:     filepath.Join("android", "app", "build.gradle.kts"),
		AndroidProperties: filepath.Join("android", "local.properties"),
		IOSPlist:          filepath.Join("ios", "Runner", "Info.plist"),
		IOSProject:        filepath.Join("ios", "Runner.xcodeproj", "project.pbxproj"),
	}
}

func (l Layout) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(l.Root, rel)
}
