// Package reconcile compares the version declared by a Flutter project with
// the versions published on the app stores and, when the project is at or
// behind a store, moves every local declaration to the next conflict-free
// version.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"flutterdeploy/internal/source"
	"flutterdeploy/internal/store"
	"flutterdeploy/internal/version"
)

// ErrManifestUnavailable is returned when pubspec.yaml is missing or has no
// usable version; nothing can be reconciled without it.
var ErrManifestUnavailable = errors.New("project manifest version unavailable")

// Mode selects whether corrective writes need confirmation.
type Mode int

const (
	Interactive Mode = iota
	Automated
)

func (m Mode) String() string {
	if m == Automated {
		return "auto"
	}
	return "interactive"
}

// Confirmer asks the operator to approve a write in interactive mode.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Engine runs one reconciliation over a project.
type Engine struct {
	Layout    source.Layout
	Locals    []source.Source
	Fetchers  []store.Fetcher
	Cache     *store.Cache
	Mode      Mode
	Confirmer Confirmer
	// Rollback restores every file touched by Apply when a later write fails.
	Rollback bool
	// DryRun makes Reconcile compute a Preview instead of writing.
	DryRun bool
	Logger *zap.Logger
	// ExtractLogger receives local extraction outcomes; Logger when nil.
	ExtractLogger *zap.Logger
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

func (e *Engine) extractLogger() *zap.Logger {
	if e.ExtractLogger != nil {
		return e.ExtractLogger
	}
	return e.logger()
}

// locals returns the configured local sources, always led by the manifest.
func (e *Engine) locals() []source.Source {
	srcs := e.Locals
	if len(srcs) == 0 {
		srcs = source.Locals
	}
	out := []source.Source{source.ProjectManifest}
	for _, s := range srcs {
		if s != source.ProjectManifest && s.IsLocal() {
			out = append(out, s)
		}
	}
	return out
}

// Check reads every local source and fetches every store concurrently, then
// classifies the manifest version against the highest published version.
// It never writes.
func (e *Engine) Check(ctx context.Context) (*Report, error) {
	locals := e.locals()
	report := &Report{
		RunID:  uuid.NewString(),
		Local:  make([]source.ExtractionResult, len(locals)),
		Stores: make([]source.ExtractionResult, len(e.Fetchers)),
	}
	log := e.logger().With(zap.String("run_id", report.RunID))

	// Each goroutine owns one result slot; nothing else is shared.
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range locals {
		g.Go(func() error {
			report.Local[i] = source.Extract(e.Layout, src)
			return nil
		})
	}
	for i, f := range e.Fetchers {
		g.Go(func() error {
			report.Stores[i] = f.Fetch(gctx)
			return nil
		})
	}
	_ = g.Wait()

	extractLog := e.extractLogger().With(zap.String("run_id", report.RunID))
	for _, res := range report.Local {
		if !res.OK() {
			extractLog.Debug("Local source excluded", zap.Stringer("source", res.Source),
				zap.Stringer("kind", res.Err), zap.String("reason", res.Reason))
		}
	}

	manifest := report.Local[0]
	if !manifest.OK() {
		return report, fmt.Errorf("%w: %s", ErrManifestUnavailable, manifest.Describe())
	}
	report.Canonical = *manifest.Parsed

	var published []version.Tuple
	for i, res := range report.Stores {
		if res.OK() {
			published = append(published, *res.Parsed)
			continue
		}
		if raw, ok := e.Cache.Get(e.Fetchers[i].Source(), e.Fetchers[i].Identifier()); ok {
			if report.LastSeen == nil {
				report.LastSeen = make(map[source.Source]string)
			}
			report.LastSeen[res.Source] = raw
		}
	}

	if len(published) == 0 {
		log.Info("No store version available, reporting local versions only",
			zap.Stringer("current", report.Canonical))
		return report, nil
	}

	highest := version.HighestOf(published)
	report.HighestStore = &highest
	report.Classification = version.Compare(report.Canonical, highest)
	if report.Classification != version.Higher {
		next := version.NextFromStore(highest)
		report.Recommended = &next
	}

	log.Info("Version check complete",
		zap.Stringer("current", report.Canonical),
		zap.Stringer("store", highest),
		zap.Stringer("classification", report.Classification))
	return report, nil
}

// Reconcile runs Check and acts on the result. Only a Lower classification
// writes: immediately in Automated mode, after confirmation in Interactive
// mode. Equal reports a recommendation without writing.
func (e *Engine) Reconcile(ctx context.Context) (*Report, error) {
	report, err := e.Check(ctx)
	if err != nil {
		return report, err
	}
	if report.Classification != version.Lower {
		return report, nil
	}

	target := *report.Recommended
	if e.DryRun {
		report.Preview, _, err = e.Preview(target)
		return report, err
	}
	if e.Mode == Interactive {
		if e.Confirmer == nil {
			report.Declined = true
			return report, nil
		}
		prompt := fmt.Sprintf("Local version %s is behind the store (%s). Update all sources to %s?",
			report.Canonical, report.HighestStore, target)
		ok, err := e.Confirmer.Confirm(ctx, prompt)
		if err != nil {
			return report, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			report.Declined = true
			e.logger().Info("Version update declined", zap.Stringer("target", target))
			return report, nil
		}
	}

	applied, err := e.Apply(target)
	report.Applied = applied
	return report, err
}

// SmartTarget is the smallest version strictly above both the manifest and
// every store version seen in report.
func SmartTarget(report *Report) version.Tuple {
	target := version.Next(report.Canonical, version.Build)
	if report.HighestStore != nil {
		target = version.Max(target, version.NextFromStore(*report.HighestStore))
	}
	return target
}
