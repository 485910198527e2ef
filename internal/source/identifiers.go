package source

import (
	"os"
	"regexp"
	"strings"
)

var (
	gradleApplicationID = regexp.MustCompile(`(?m)^[ \t]*applicationId[ \t]*=?[ \t]*["']([^"'\n]+)["']`)
	pbxBundleID         = regexp.MustCompile(`PRODUCT_BUNDLE_IDENTIFIER[ \t]*=[ \t]*"?([^;"\n]+)"?;`)
)

// Identifiers are the store lookup keys declared by the project itself.
type Identifiers struct {
	AndroidPackage string
	IOSBundleID    string
}

// DetectIdentifiers reads the Android applicationId and the iOS bundle
// identifier of the app target. Missing values are left empty.
func DetectIdentifiers(l Layout) Identifiers {
	var ids Identifiers
	for _, rel := range []string{l.AndroidGroovy, l.AndroidKotlin} {
		data, err := os.ReadFile(l.abs(rel))
		if err != nil {
			continue
		}
		if m := gradleApplicationID.FindSubmatch(data); m != nil && !hasPlaceholder(string(m[1])) {
			ids.AndroidPackage = string(m[1])
			break
		}
	}

	if data, err := os.ReadFile(l.abs(l.IOSProject)); err == nil {
		for _, m := range pbxBundleID.FindAllSubmatch(data, -1) {
			id := strings.TrimSpace(string(m[1]))
			if hasPlaceholder(id) || strings.HasSuffix(id, "Tests") {
				continue
			}
			ids.IOSBundleID = id
			break
		}
	}
	return ids
}
