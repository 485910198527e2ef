// Package diff renders the change a version write would make to a file as a
// unified diff, using the sergi/go-diff line mode.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

func (t LineType) prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Line represents a single line in the diff
type Line struct {
	Content string
	Type    LineType
}

// Hunk represents a group of changes
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff represents changes to a single file
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// Empty reports whether the file is unchanged.
func (d *FileDiff) Empty() bool {
	return len(d.Hunks) == 0
}

// op is one line of the full line-by-line comparison. oldPos and newPos are
// the 1-based positions the line occupies (or would be inserted at).
type op struct {
	line           Line
	oldPos, newPos int
}

// Compute diffs oldContent against newContent line by line.
func Compute(path, oldContent, newContent string, context int) *FileDiff {
	d := &FileDiff{Path: path}
	if oldContent == newContent {
		return d
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	d.Hunks = group(toOps(diffs), context)
	return d
}

func toOps(diffs []diffmatchpatch.Diff) []op {
	var ops []op
	oldPos, newPos := 1, 1
	for _, df := range diffs {
		text := strings.TrimSuffix(df.Text, "\n")
		for _, content := range strings.Split(text, "\n") {
			o := op{oldPos: oldPos, newPos: newPos, line: Line{Content: content}}
			switch df.Type {
			case diffmatchpatch.DiffEqual:
				o.line.Type = LineContext
				oldPos++
				newPos++
			case diffmatchpatch.DiffDelete:
				o.line.Type = LineRemoved
				oldPos++
			case diffmatchpatch.DiffInsert:
				o.line.Type = LineAdded
				newPos++
			}
			ops = append(ops, o)
		}
	}
	return ops
}

// group collects changed lines into hunks, merging changes whose context
// would overlap.
func group(ops []op, context int) []Hunk {
	var hunks []Hunk
	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		h := Hunk{OldStart: ops[start].oldPos, NewStart: ops[start].newPos}
		for _, o := range ops[start:end] {
			h.Lines = append(h.Lines, o.line)
			if o.line.Type != LineAdded {
				h.OldCount++
			}
			if o.line.Type != LineRemoved {
				h.NewCount++
			}
		}
		hunks = append(hunks, h)
	}

	for i, o := range ops {
		if o.line.Type == LineContext {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(ops), i+context+1)
		if start >= 0 && lo <= end {
			end = hi
			continue
		}
		flush()
		start, end = lo, hi
	}
	flush()
	return hunks
}

// Unified renders d in unified diff format. An unchanged file renders as "".
func (d *FileDiff) Unified() string {
	if d.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", d.Path, d.Path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			b.WriteString(l.Type.prefix())
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
