package source

import (
	"fmt"
	"regexp"
	"strings"

	"flutterdeploy/internal/version"
)

var (
	plistShortVersion  = plistStringKey("CFBundleShortVersionString")
	plistBundleVersion = plistStringKey("CFBundleVersion")

	pbxMarketingVersion = regexp.MustCompile(`(MARKETING_VERSION[ \t]*=[ \t]*)("?[^;\n"]*"?)(;)`)
	pbxProjectVersion   = regexp.MustCompile(`(CURRENT_PROJECT_VERSION[ \t]*=[ \t]*)("?[^;\n"]*"?)(;)`)
)

func plistStringKey(key string) *regexp.Regexp {
	return regexp.MustCompile(`<key>` + regexp.QuoteMeta(key) + `</key>\s*<string>([^<]*)</string>`)
}

func extractPlist(l Layout) ExtractionResult {
	path := l.abs(l.IOSPlist)
	data, res, ok := readSource(IOSPropertyList, path)
	if !ok {
		return res
	}
	content := string(data)

	short := plistShortVersion.FindStringSubmatch(content)
	if short == nil {
		return failed(IOSPropertyList, path, SourceUnparsable, "no CFBundleShortVersionString")
	}
	build := plistBundleVersion.FindStringSubmatch(content)
	if build == nil {
		return failed(IOSPropertyList, path, SourceUnparsable, "no CFBundleVersion")
	}
	return parseIOSPair(IOSPropertyList, path, short[1], build[1])
}

func rewritePlist(content string, v version.Tuple) (string, error) {
	out, ok := replaceFirstGroup(plistShortVersion, content, v.Name())
	if !ok {
		return "", fmt.Errorf("no CFBundleShortVersionString to rewrite")
	}
	out, ok = replaceFirstGroup(plistBundleVersion, out, v.Code())
	if !ok {
		return "", fmt.Errorf("no CFBundleVersion to rewrite")
	}
	return out, nil
}

func extractXcodeProject(l Layout) ExtractionResult {
	path := l.abs(l.IOSProject)
	data, res, ok := readSource(IOSProjectDescriptor, path)
	if !ok {
		return res
	}
	content := string(data)

	marketing := pbxMarketingVersion.FindStringSubmatch(content)
	if marketing == nil {
		return failed(IOSProjectDescriptor, path, SourceUnparsable, "no MARKETING_VERSION")
	}
	project := pbxProjectVersion.FindStringSubmatch(content)
	if project == nil {
		return failed(IOSProjectDescriptor, path, SourceUnparsable, "no CURRENT_PROJECT_VERSION")
	}
	return parseIOSPair(IOSProjectDescriptor, path, unquote(marketing[2]), unquote(project[2]))
}

// rewriteXcodeProject updates every build configuration that declares a
// literal, not just the first, so Debug, Release and Profile never disagree
// after a write. Configurations forwarding a build setting keep it.
func rewriteXcodeProject(content string, v version.Tuple) (string, error) {
	if !pbxMarketingVersion.MatchString(content) {
		return "", fmt.Errorf("no MARKETING_VERSION to rewrite")
	}
	if !pbxProjectVersion.MatchString(content) {
		return "", fmt.Errorf("no CURRENT_PROJECT_VERSION to rewrite")
	}
	out := replaceLiterals(pbxMarketingVersion, content, v.Name())
	out = replaceLiterals(pbxProjectVersion, out, v.Code())
	return out, nil
}

// replaceLiterals sets group 2 of every match of re to value, skipping
// matches whose current value is a placeholder.
func replaceLiterals(re *regexp.Regexp, content, value string) string {
	return re.ReplaceAllStringFunc(content, func(match string) string {
		m := re.FindStringSubmatch(match)
		if hasPlaceholder(unquote(m[2])) {
			return match
		}
		return m[1] + value + m[3]
	})
}

func parseIOSPair(src Source, path, name, code string) ExtractionResult {
	name, code = strings.TrimSpace(name), strings.TrimSpace(code)
	raw := name + "+" + code
	if hasPlaceholder(name) || hasPlaceholder(code) {
		return failed(src, path, SourceUnparsable, "unexpanded placeholder in %q", raw)
	}
	v, err := version.FromParts(name, code)
	if err != nil {
		return malformed(src, path, err)
	}
	return found(src, path, raw, v)
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
