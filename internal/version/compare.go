package version

import (
	"fmt"
	"strings"
)

// Classification is the result of comparing the local version against a store.
type Classification int

const (
	// Unclassified means no store version was available to compare against.
	Unclassified Classification = iota
	Lower
	Equal
	Higher
)

func (c Classification) String() string {
	switch c {
	case Lower:
		return "lower"
	case Equal:
		return "equal"
	case Higher:
		return "higher"
	default:
		return "unclassified"
	}
}

// BumpKind selects which field Next increments.
type BumpKind int

const (
	Build BumpKind = iota
	Patch
	Minor
	Major
)

func (k BumpKind) String() string {
	switch k {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "build"
	}
}

// ParseBumpKind maps a CLI argument onto a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	case "build":
		return Build, nil
	}
	return Build, fmt.Errorf("unknown bump kind %q (valid: major, minor, patch, build)", s)
}

// Compare orders a against b lexicographically over (major, minor, patch, build).
// The result describes a: Higher means a > b.
func Compare(a, b Tuple) Classification {
	pairs := [4][2]uint64{
		{a.Major, b.Major},
		{a.Minor, b.Minor},
		{a.Patch, b.Patch},
		{a.Build, b.Build},
	}
	for _, p := range pairs {
		switch {
		case p[0] > p[1]:
			return Higher
		case p[0] < p[1]:
			return Lower
		}
	}
	return Equal
}

// Next returns the version after current for the given bump.
// Major/minor/patch bumps zero the lower-order fields and still advance the
// build counter, because stores require the build number to grow monotonically.
func Next(current Tuple, kind BumpKind) Tuple {
	next := current
	switch kind {
	case Major:
		next.Major++
		next.Minor, next.Patch = 0, 0
	case Minor:
		next.Minor++
		next.Patch = 0
	case Patch:
		next.Patch++
	}
	next.Build++
	return next
}

// NextFromStore keeps the store's major.minor.patch and advances only its build.
// This is the conflict resolution rule whenever local is equal to or behind the store.
func NextFromStore(store Tuple) Tuple {
	store.Build++
	return store
}

// HighestOf returns the greatest tuple in vs. Callers filter out missing
// results first; an empty slice is a programming error.
func HighestOf(vs []Tuple) Tuple {
	if len(vs) == 0 {
		panic("version: HighestOf called with no versions")
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if Compare(v, best) == Higher {
			best = v
		}
	}
	return best
}

// Max returns the greater of a and b.
func Max(a, b Tuple) Tuple {
	if Compare(b, a) == Higher {
		return b
	}
	return a
}
