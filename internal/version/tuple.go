// Package version holds the four-field version tuple shared by every Flutter
// artifact and app store, plus the ordering and bump arithmetic over it.
package version

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBuild is the build number assumed when a source only supplies
// major.minor.patch. Stores never expose a build counter, so the same value
// is used for local and remote inputs.
const DefaultBuild uint64 = 1

// MaxBuild is the largest accepted build number. One value is kept free so
// the next build is always representable.
const MaxBuild uint64 = math.MaxUint64 - 1

// ErrInvalidFormat is returned when a user supplied version does not match X.Y.Z+B.
var ErrInvalidFormat = errors.New("invalid version format")

var (
	strictPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\+(\d+)$`)
	loosePattern  = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:\+(\d+))?$`)
	namePattern   = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)
)

// Tuple is an ordered (major, minor, patch, build) version.
type Tuple struct {
	Major uint64 `json:"major" yaml:"major"`
	Minor uint64 `json:"minor" yaml:"minor"`
	Patch uint64 `json:"patch" yaml:"patch"`
	Build uint64 `json:"build" yaml:"build"`
}

// New builds a tuple from its four fields.
func New(major, minor, patch, build uint64) Tuple {
	return Tuple{Major: major, Minor: minor, Patch: patch, Build: build}
}

// String renders the tuple in pubspec form: X.Y.Z+B.
func (t Tuple) String() string {
	return fmt.Sprintf("%d.%d.%d+%d", t.Major, t.Minor, t.Patch, t.Build)
}

// Name returns the marketing part X.Y.Z (Android versionName, iOS short version).
func (t Tuple) Name() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Code returns the build counter as a decimal string.
func (t Tuple) Code() string {
	return strconv.FormatUint(t.Build, 10)
}

// IsZero reports whether every field is zero.
func (t Tuple) IsZero() bool {
	return t == Tuple{}
}

// Parse parses the strict X.Y.Z+B form accepted by `fdk set`.
func Parse(s string) (Tuple, error) {
	m := strictPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Tuple{}, fmt.Errorf("%w: %q (expected X.Y.Z+B)", ErrInvalidFormat, s)
	}
	return fromMatch(s, m[1], m[2], m[3], m[4])
}

// ParseLoose parses X.Y.Z or X.Y.Z+B, tolerating a leading "v".
// A missing build number becomes DefaultBuild.
func ParseLoose(s string) (Tuple, error) {
	m := loosePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Tuple{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return fromMatch(s, m[1], m[2], m[3], m[4])
}

// FromParts combines a marketing name (X.Y.Z) and a separate build counter,
// the way Android (versionName/versionCode) and iOS (short version/bundle
// version) declare them. An empty code becomes DefaultBuild.
func FromParts(name, code string) (Tuple, error) {
	m := namePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return Tuple{}, fmt.Errorf("%w: version name %q", ErrInvalidFormat, name)
	}
	code = strings.TrimSpace(code)
	if code != "" {
		if _, err := strconv.ParseUint(code, 10, 64); err != nil {
			return Tuple{}, fmt.Errorf("%w: build number %q", ErrInvalidFormat, code)
		}
	}
	return fromMatch(name, m[1], m[2], m[3], code)
}

func fromMatch(raw, major, minor, patch, build string) (Tuple, error) {
	var t Tuple
	fields := []struct {
		dst *uint64
		src string
	}{{&t.Major, major}, {&t.Minor, minor}, {&t.Patch, patch}}
	for _, f := range fields {
		n, err := strconv.ParseUint(f.src, 10, 64)
		if err != nil {
			return Tuple{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, raw, err)
		}
		*f.dst = n
	}
	t.Build = DefaultBuild
	if build != "" {
		n, err := strconv.ParseUint(build, 10, 64)
		if err != nil {
			return Tuple{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, raw, err)
		}
		if n > MaxBuild {
			return Tuple{}, fmt.Errorf("%w: %q: build number above %d", ErrInvalidFormat, raw, MaxBuild)
		}
		t.Build = n
	}
	return t, nil
}
