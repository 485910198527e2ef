package source

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"flutterdeploy/internal/version"
)

// manifestVersionLine matches the top-level version key and its scalar value,
// leaving any trailing comment untouched.
var manifestVersionLine = regexp.MustCompile(`(?m)^version:[ \t]*("[^"\n]*"|'[^'\n]*'|[^\s#]*)`)

func extractManifest(l Layout) ExtractionResult {
	path := l.abs(l.Manifest)
	data, res, ok := readSource(ProjectManifest, path)
	if !ok {
		return res
	}

	raw, err := manifestVersion(data)
	if err != nil {
		return failed(ProjectManifest, path, SourceUnparsable, "%v", err)
	}
	if hasPlaceholder(raw) {
		return failed(ProjectManifest, path, SourceUnparsable, "unexpanded placeholder in %q", raw)
	}
	v, err := version.ParseLoose(raw)
	if err != nil {
		return failed(ProjectManifest, path, SourceUnparsable, "%v", err)
	}
	return found(ProjectManifest, path, raw, v)
}

// manifestVersion returns the first top-level version value. The YAML tree is
// authoritative; a document YAML cannot load falls back to a line scan so one
// bad block elsewhere in pubspec.yaml does not hide the version.
func manifestVersion(data []byte) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil {
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
			root := doc.Content[0]
			for i := 0; i+1 < len(root.Content); i += 2 {
				if root.Content[i].Value == "version" {
					return strings.TrimSpace(root.Content[i+1].Value), nil
				}
			}
			return "", fmt.Errorf("no top-level version key")
		}
	}

	m := manifestVersionLine.FindSubmatch(data)
	if m == nil {
		return "", fmt.Errorf("no top-level version key")
	}
	return strings.Trim(string(m[1]), `"'`), nil
}

func rewriteManifest(content string, v version.Tuple) (string, error) {
	loc := manifestVersionLine.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", fmt.Errorf("no top-level version key to rewrite")
	}
	return content[:loc[0]] + "version: " + v.String() + content[loc[1]:], nil
}
