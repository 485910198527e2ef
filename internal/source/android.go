package source

import (
	"fmt"
	"regexp"
	"strings"

	"flutterdeploy/internal/version"
)

// Gradle script syntax. Groovy allows `versionName "1.0.0"`, Kotlin script
// requires `versionName = "1.0.0"`; the optional `=` covers both.
var (
	gradleVersionName = regexp.MustCompile(`(?m)^[ \t]*versionName[ \t]*=?[ \t]*["']([^"'\n]*)["']`)
	gradleVersionCode = regexp.MustCompile(`(?m)^[ \t]*versionCode[ \t]*=?[ \t]*([^\s/;]+)`)
)

// Properties syntax written by the Flutter tool into local.properties.
var (
	propsVersionName = regexp.MustCompile(`(?m)^flutter\.versionName[ \t]*=[ \t]*(.*?)[ \t\r]*$`)
	propsVersionCode = regexp.MustCompile(`(?m)^flutter\.versionCode[ \t]*=[ \t]*(.*?)[ \t\r]*$`)
)

// androidStrategy is one supported descriptor syntax. Strategies are tried in
// order and the first that parses wins.
type androidStrategy struct {
	name    string
	path    func(Layout) string
	parse   func(content string) (name, code string, err error)
	rewrite func(content string, v version.Tuple) (string, error)
}

var androidStrategies = []androidStrategy{
	{
		name:    "groovy",
		path:    func(l Layout) string { return l.abs(l.AndroidGroovy) },
		parse:   parseGradleScript,
		rewrite: rewriteGradleScript,
	},
	{
		name:    "kotlin",
		path:    func(l Layout) string { return l.abs(l.AndroidKotlin) },
		parse:   parseGradleScript,
		rewrite: rewriteGradleScript,
	},
	{
		name:    "properties",
		path:    func(l Layout) string { return l.abs(l.AndroidProperties) },
		parse:   parseProperties,
		rewrite: rewriteProperties,
	},
}

func parseGradleScript(content string) (string, string, error) {
	name := gradleVersionName.FindStringSubmatch(content)
	if name == nil {
		return "", "", fmt.Errorf("no literal versionName")
	}
	code := gradleVersionCode.FindStringSubmatch(content)
	if code == nil {
		return "", "", fmt.Errorf("no versionCode")
	}
	return name[1], code[1], nil
}

func parseProperties(content string) (string, string, error) {
	name := propsVersionName.FindStringSubmatch(content)
	if name == nil {
		return "", "", fmt.Errorf("no flutter.versionName")
	}
	code := propsVersionCode.FindStringSubmatch(content)
	if code == nil {
		return "", "", fmt.Errorf("no flutter.versionCode")
	}
	return name[1], code[1], nil
}

func rewriteGradleScript(content string, v version.Tuple) (string, error) {
	out, ok := replaceFirstGroup(gradleVersionName, content, v.Name())
	if !ok {
		return "", fmt.Errorf("no literal versionName to rewrite")
	}
	out, ok = replaceFirstGroup(gradleVersionCode, out, v.Code())
	if !ok {
		return "", fmt.Errorf("no versionCode to rewrite")
	}
	return out, nil
}

func rewriteProperties(content string, v version.Tuple) (string, error) {
	out := content
	var ok bool
	if out, ok = replaceFirstGroup(propsVersionName, out, v.Name()); !ok {
		out = appendLine(out, "flutter.versionName="+v.Name())
	}
	if out, ok = replaceFirstGroup(propsVersionCode, out, v.Code()); !ok {
		out = appendLine(out, "flutter.versionCode="+v.Code())
	}
	return out, nil
}

// resolveAndroid walks the strategy chain and returns the first strategy that
// yields a version, along with its result. When none parses, the first
// strategy holding a malformed literal is returned instead; failing that the
// strategy is nil and the result carries the most specific failure seen.
func resolveAndroid(l Layout) (*androidStrategy, ExtractionResult) {
	best := failed(AndroidBuildDescriptor, l.abs(l.AndroidGroovy), SourceMissing, "no Android build descriptor found")
	var literal *androidStrategy
	for i := range androidStrategies {
		st := &androidStrategies[i]
		res := extractAndroidWith(st, st.path(l))
		if res.OK() {
			return st, res
		}
		if literal != nil {
			continue
		}
		if res.Malformed {
			literal, best = st, res
			continue
		}
		if res.Err > best.Err {
			best = res
		}
	}
	return literal, best
}

func extractAndroidWith(st *androidStrategy, path string) ExtractionResult {
	data, res, ok := readSource(AndroidBuildDescriptor, path)
	if !ok {
		return res
	}
	name, code, err := st.parse(string(data))
	if err != nil {
		return failed(AndroidBuildDescriptor, path, SourceUnparsable, "%s: %v", st.name, err)
	}
	raw := name + "+" + code
	if hasPlaceholder(name) || hasPlaceholder(code) {
		return failed(AndroidBuildDescriptor, path, SourceUnparsable, "%s: unexpanded placeholder in %q", st.name, raw)
	}
	v, err := version.FromParts(name, code)
	if err != nil {
		return malformed(AndroidBuildDescriptor, path, fmt.Errorf("%s: %w", st.name, err))
	}
	return found(AndroidBuildDescriptor, path, raw, v)
}

func extractAndroid(l Layout) ExtractionResult {
	_, res := resolveAndroid(l)
	return res
}

// androidWriteTarget picks the file a write lands in: the descriptor that
// currently resolves or holds a malformed literal, otherwise the properties
// file the Flutter tool feeds into Gradle.
func androidWriteTarget(l Layout) (string, func(string, version.Tuple) (string, error)) {
	if st, _ := resolveAndroid(l); st != nil {
		return st.path(l), st.rewrite
	}
	props := &androidStrategies[len(androidStrategies)-1]
	return props.path(l), props.rewrite
}

// replaceFirstGroup replaces capture group 1 of the first match of re.
func replaceFirstGroup(re *regexp.Regexp, content, value string) (string, bool) {
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil || loc[2] < 0 {
		return content, false
	}
	return content[:loc[2]] + value + content[loc[3]:], true
}

func appendLine(content, line string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n"
}
