package source

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
)

// placeholderPattern matches build-tool variables that were never expanded,
// e.g. $(FLUTTER_BUILD_NAME) or ${flutterVersionCode}.
var placeholderPattern = regexp.MustCompile(`\$[({]?[A-Za-z_]`)

func hasPlaceholder(s string) bool {
	return placeholderPattern.MatchString(s)
}

// readSource loads a declaration file, converting a read failure into the
// matching ExtractionResult.
func readSource(src Source, path string) ([]byte, ExtractionResult, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failed(src, path, SourceMissing, "%s not found", path), false
		}
		return nil, failed(src, path, SourceUnparsable, "read %s: %v", path, err), false
	}
	return data, ExtractionResult{}, true
}

// Extract reads the version declared by one local source.
func Extract(l Layout, src Source) ExtractionResult {
	switch src {
	case ProjectManifest:
		return extractManifest(l)
	case AndroidBuildDescriptor:
		return extractAndroid(l)
	case IOSPropertyList:
		return extractPlist(l)
	case IOSProjectDescriptor:
		return extractXcodeProject(l)
	}
	return failed(src, "", SourceUnparsable, "%s is not a local source", src)
}

// ExtractAll reads each source in order.
func ExtractAll(l Layout, sources []Source) []ExtractionResult {
	results := make([]ExtractionResult, len(sources))
	for i, src := range sources {
		results[i] = Extract(l, src)
	}
	return results
}

// IOSVersion returns the iOS version, preferring Info.plist and falling back
// to the Xcode project when the plist only carries placeholders. When neither
// yields a version the plist result is returned unless the plist is missing.
func IOSVersion(l Layout) ExtractionResult {
	plist := Extract(l, IOSPropertyList)
	if plist.OK() {
		return plist
	}
	project := Extract(l, IOSProjectDescriptor)
	if project.OK() || plist.Err == SourceMissing {
		return project
	}
	return plist
}
