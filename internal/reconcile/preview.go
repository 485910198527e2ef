package reconcile

import (
	"path/filepath"

	"flutterdeploy/internal/diff"
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

// Change is the pending edit Apply would make to one source.
type Change struct {
	Source source.Source
	Diff   *diff.FileDiff
}

// Preview computes the edits Apply(target) would make without writing.
// Sources that are already at target yield an empty diff.
func (e *Engine) Preview(target version.Tuple) ([]Change, []Skipped, error) {
	targets, skipped := e.Targets()
	changes, err := e.PreviewTo(target, targets)
	return changes, skipped, err
}

// PreviewTo computes the edits ApplyTo(target, sources) would make.
func (e *Engine) PreviewTo(target version.Tuple, sources []source.Source) ([]Change, error) {
	changes := make([]Change, 0, len(sources))
	for _, src := range sources {
		path, before, after, err := source.Rewrite(e.Layout, src, target)
		if err != nil {
			return changes, err
		}
		rel, err := filepath.Rel(e.Layout.Root, path)
		if err != nil {
			rel = path
		}
		changes = append(changes, Change{
			Source: src,
			Diff:   diff.Compute(filepath.ToSlash(rel), before, after, diff.DefaultContext),
		})
	}
	return changes, nil
}
