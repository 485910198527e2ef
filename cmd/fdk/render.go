package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flutterdeploy/internal/reconcile"
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#7a8599")
	colorTitle   = lipgloss.Color("#2196F3")
)

type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
	label lipgloss.Style
}

// newStyles returns the report styles, or unstyled text when NO_COLOR is set.
func newStyles() styles {
	if os.Getenv("NO_COLOR") != "" {
		plain := lipgloss.NewStyle()
		return styles{title: plain, ok: plain, warn: plain, err: plain, muted: plain, label: plain.Width(14)}
	}
	return styles{
		title: lipgloss.NewStyle().Foreground(colorTitle).Bold(true),
		ok:    lipgloss.NewStyle().Foreground(colorSuccess),
		warn:  lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		err:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		muted: lipgloss.NewStyle().Foreground(colorMuted),
		label: lipgloss.NewStyle().Width(14),
	}
}

func renderResults(w io.Writer, s styles, title string, results []source.ExtractionResult, lastSeen map[source.Source]string) {
	fmt.Fprintln(w, s.title.Render(title))
	for _, res := range results {
		value := s.ok.Render(res.Describe())
		if !res.OK() {
			value = s.muted.Render(res.Describe())
			if seen, ok := lastSeen[res.Source]; ok {
				value += s.muted.Render(fmt.Sprintf(" (last seen %s)", seen))
			}
		}
		fmt.Fprintf(w, "  %s%s\n", s.label.Render(res.Source.String()), value)
	}
}

func renderLocal(w io.Writer, s styles, report *reconcile.Report) {
	renderResults(w, s, "Local versions", report.Local, nil)
	fmt.Fprintf(w, "  %s%s\n", s.label.Render("canonical"), s.ok.Render(report.Canonical.String()))
	if drifted := report.Drifted(); len(drifted) > 0 {
		fmt.Fprintln(w, s.warn.Render("  Out of sync with pubspec: "+joinSources(drifted)))
	}
}

// renderReport prints a full reconciliation report.
func renderReport(w io.Writer, report *reconcile.Report) {
	s := newStyles()
	renderLocal(w, s, report)
	if len(report.Stores) > 0 {
		renderResults(w, s, "Store versions", report.Stores, report.LastSeen)
	}

	fmt.Fprintln(w)
	switch report.Classification {
	case version.Unclassified:
		fmt.Fprintln(w, s.muted.Render("No store version available; nothing compared."))
	case version.Higher:
		fmt.Fprintln(w, s.ok.Render(fmt.Sprintf("Local %s is ahead of the store (%s).", report.Canonical, report.HighestStore)))
	case version.Equal:
		fmt.Fprintln(w, s.warn.Render(fmt.Sprintf("Local %s matches the store. Bump before uploading; recommended %s.",
			report.Canonical, report.Recommended)))
	case version.Lower:
		fmt.Fprintln(w, s.err.Render(fmt.Sprintf("Local %s is behind the store (%s); recommended %s.",
			report.Canonical, report.HighestStore, report.Recommended)))
	}

	if report.Declined {
		fmt.Fprintln(w, s.muted.Render("Update declined; no files changed."))
	}
	if report.Applied != nil {
		renderApplied(w, s, report.Applied)
	}
	if report.Preview != nil {
		renderPreview(w, s, *report.Recommended, report.Preview, nil)
	}
}

// renderPreview prints the diffs a write to target would make.
func renderPreview(w io.Writer, s styles, target version.Tuple, changes []reconcile.Change, skipped []reconcile.Skipped) {
	fmt.Fprintln(w, s.title.Render(fmt.Sprintf("Dry run: changes for %s", target)))
	unchanged := 0
	for _, c := range changes {
		if c.Diff.Empty() {
			unchanged++
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(c.Diff.Unified(), "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
				line = s.muted.Render(line)
			case strings.HasPrefix(line, "+"):
				line = s.ok.Render(line)
			case strings.HasPrefix(line, "-"):
				line = s.err.Render(line)
			}
			fmt.Fprintln(w, line)
		}
	}
	if unchanged > 0 {
		fmt.Fprintln(w, s.muted.Render(fmt.Sprintf("%d source(s) already at %s", unchanged, target)))
	}
	for _, sk := range skipped {
		fmt.Fprintf(w, "  %s%s\n", s.label.Render(sk.Source.String()), s.muted.Render("skipped, "+sk.Reason))
	}
}

func renderApplied(w io.Writer, s styles, res *reconcile.ApplyResult) {
	if len(res.Succeeded) > 0 {
		fmt.Fprintln(w, s.ok.Render(fmt.Sprintf("Updated to %s: %s", res.Target, joinSources(res.Succeeded))))
	}
	for _, sk := range res.Skipped {
		fmt.Fprintf(w, "  %s%s\n", s.label.Render(sk.Source.String()), s.muted.Render("skipped, "+sk.Reason))
	}
	if res.Failed != nil {
		msg := "Write failed: " + res.Failed.String()
		if res.RolledBack {
			msg += " (all changes rolled back)"
		}
		fmt.Fprintln(w, s.err.Render(msg))
	}
}

func joinSources(srcs []source.Source) string {
	names := make([]string, len(srcs))
	for i, src := range srcs {
		names[i] = src.String()
	}
	return strings.Join(names, ", ")
}
