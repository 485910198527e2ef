// Package release names the release tag for a pair of platform versions and
// records it in version control.
package release

import (
	"fmt"

	"flutterdeploy/internal/version"
)

// TagName builds the release tag for the given Android and iOS versions, for
// example live_android-v1.2.0(5)_ios-v1.2.0(5).
func TagName(android, ios version.Tuple) string {
	return fmt.Sprintf("live_android-v%s(%d)_ios-v%s(%d)",
		android.Name(), android.Build, ios.Name(), ios.Build)
}

// TagMessage is the annotation recorded with a release tag.
func TagMessage(android, ios version.Tuple) string {
	return fmt.Sprintf("Release Android %s, iOS %s", android, ios)
}
