package reconcile

import (
	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

// Report is the outcome of one reconciliation run. It is never persisted.
type Report struct {
	RunID  string
	Local  []source.ExtractionResult
	Stores []source.ExtractionResult

	// Canonical is the manifest version; the other local sources mirror it.
	Canonical      version.Tuple
	HighestStore   *version.Tuple
	Classification version.Classification
	// Recommended is set for Equal and Lower classifications.
	Recommended *version.Tuple

	// LastSeen holds advisory cached values for stores whose fetch failed.
	LastSeen map[source.Source]string

	Applied  *ApplyResult
	Preview  []Change
	Declined bool
}

// LocalResult returns the extraction result for src, if it was read.
func (r *Report) LocalResult(src source.Source) (source.ExtractionResult, bool) {
	for _, res := range r.Local {
		if res.Source == src {
			return res, true
		}
	}
	return source.ExtractionResult{}, false
}

// Drifted lists local sources whose version differs from the manifest.
func (r *Report) Drifted() []source.Source {
	var out []source.Source
	for _, res := range r.Local {
		if res.Source == source.ProjectManifest || !res.OK() {
			continue
		}
		if *res.Parsed != r.Canonical {
			out = append(out, res.Source)
		}
	}
	return out
}
