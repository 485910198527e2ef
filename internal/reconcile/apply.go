package reconcile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"

	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

// Skipped records a local source that was left alone by Apply.
type Skipped struct {
	Source source.Source
	Reason string
}

// ApplyResult summarizes a multi-file write.
type ApplyResult struct {
	Target     version.Tuple
	Succeeded  []source.Source
	Skipped    []Skipped
	Failed     *source.Source
	RolledBack bool
}

// WriteError is the fatal outcome of Apply. Files listed in Succeeded hold
// the new version unless RolledBack is set.
type WriteError struct {
	Succeeded  []source.Source
	Failed     source.Source
	RolledBack bool
	Err        error
}

func (e *WriteError) Error() string {
	done := make([]string, len(e.Succeeded))
	for i, s := range e.Succeeded {
		done[i] = s.String()
	}
	state := "updated"
	if e.RolledBack {
		state = "restored"
	}
	return fmt.Sprintf("writing %s failed (%s: [%s]): %v", e.Failed, state, strings.Join(done, ", "), e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Targets splits the local sources into those Apply writes and those it
// skips. The manifest is always written. Other sources are written when they
// declare a literal version, valid or malformed: a missing file has nothing
// to update, and a placeholder is resolved from the manifest at build time.
func (e *Engine) Targets() ([]source.Source, []Skipped) {
	var targets []source.Source
	var skipped []Skipped
	for _, src := range e.locals() {
		if src == source.ProjectManifest {
			targets = append(targets, src)
			continue
		}
		res := source.Extract(e.Layout, src)
		if res.OK() || res.Malformed {
			targets = append(targets, src)
			continue
		}
		skipped = append(skipped, Skipped{Source: src, Reason: res.Describe()})
	}
	return targets, skipped
}

// Apply writes target into every source returned by Targets.
func (e *Engine) Apply(target version.Tuple) (*ApplyResult, error) {
	targets, skipped := e.Targets()
	result, err := e.ApplyTo(target, targets)
	result.Skipped = skipped
	return result, err
}

type snapshot struct {
	path string
	data []byte
	mode os.FileMode
}

// ApplyTo writes target into each source in order, verifying each write. The
// first failure stops the remaining writes. Without Rollback, sources already
// written keep the new version; with Rollback they are restored.
func (e *Engine) ApplyTo(target version.Tuple, sources []source.Source) (*ApplyResult, error) {
	log := e.logger().With(zap.Stringer("target", target))
	result := &ApplyResult{Target: target}
	var snapshots []snapshot

	for _, src := range sources {
		if e.Rollback {
			if snap, err := takeSnapshot(e.Layout, src); err == nil {
				snapshots = append(snapshots, snap)
			}
		}

		if err := source.Write(e.Layout, src, target); err != nil {
			failed := src
			result.Failed = &failed
			log.Error("Version write failed", zap.Stringer("source", src), zap.Error(err))
			if e.Rollback {
				result.RolledBack = restore(snapshots, log)
			}
			return result, &WriteError{
				Succeeded:  result.Succeeded,
				Failed:     src,
				RolledBack: result.RolledBack,
				Err:        err,
			}
		}
		log.Info("Version written", zap.Stringer("source", src))
		result.Succeeded = append(result.Succeeded, src)
	}
	return result, nil
}

func takeSnapshot(l source.Layout, src source.Source) (snapshot, error) {
	path, err := source.TargetPath(l, src)
	if err != nil {
		return snapshot{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{path: path, data: data, mode: info.Mode().Perm()}, nil
}

// restore writes snapshots back in reverse order and reports whether every
// file was restored.
func restore(snapshots []snapshot, log *zap.Logger) bool {
	var errs []error
	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		if err := atomicwriter.WriteFile(s.path, s.data, s.mode); err != nil {
			errs = append(errs, err)
			log.Error("Rollback failed", zap.String("path", s.path), zap.Error(err))
		}
	}
	return errors.Join(errs...) == nil
}
