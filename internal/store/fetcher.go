// Package store reads the version currently published on Google Play and the
// App Store. Fetches are single-attempt and bounded by a short timeout; every
// failure degrades to an ExtractionResult without a parsed version.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"flutterdeploy/internal/source"
	"flutterdeploy/internal/version"
)

// DefaultTimeout bounds a single store lookup.
const DefaultTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (compatible; fdk/1.0; +https://flutter.dev)"

// Fetcher retrieves the published version from one store backend.
type Fetcher interface {
	Source() source.Source
	Identifier() string
	Fetch(ctx context.Context) source.ExtractionResult
}

// Options are shared by every fetcher.
type Options struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
	Cache   *Cache
	Logger  *zap.Logger
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// get issues one GET request. A transport error (including the timeout) is
// reported as NetworkUnavailable; a non-2xx status as RemoteParseFailure.
func (o Options) get(ctx context.Context, src source.Source, url, accept string) (*http.Response, *source.ExtractionResult) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res := fail(src, url, source.NetworkUnavailable, "build request: %v", err)
		return nil, &res
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := o.client().Do(req)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", o.timeout())
		}
		res := fail(src, url, source.NetworkUnavailable, "%s", reason)
		return nil, &res
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		res := fail(src, url, source.RemoteParseFailure, "HTTP %d", resp.StatusCode)
		return nil, &res
	}
	return resp, nil
}

// parsePublished validates a store version string and converts it to a tuple.
// Stores do not expose a build counter, so a bare X.Y.Z gets the default build;
// numeric build metadata (X.Y.Z+B) is honoured when present.
func parsePublished(raw string) (version.Tuple, error) {
	sv, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return version.Tuple{}, fmt.Errorf("%q is not a semantic version: %w", raw, err)
	}
	t := version.New(sv.Major(), sv.Minor(), sv.Patch(), version.DefaultBuild)
	if meta := sv.Metadata(); meta != "" {
		b, err := strconv.ParseUint(meta, 10, 64)
		if err != nil {
			return version.Tuple{}, fmt.Errorf("%q has non-numeric build metadata", raw)
		}
		if b > version.MaxBuild {
			return version.Tuple{}, fmt.Errorf("%q has a build number above %d", raw, version.MaxBuild)
		}
		t.Build = b
	}
	return t, nil
}

func published(src source.Source, url, raw string) source.ExtractionResult {
	v, err := parsePublished(raw)
	if err != nil {
		return fail(src, url, source.RemoteParseFailure, "%v", err)
	}
	return source.ExtractionResult{Source: src, Path: url, Raw: &raw, Parsed: &v}
}

func fail(src source.Source, url string, kind source.ErrorKind, format string, args ...any) source.ExtractionResult {
	return source.ExtractionResult{Source: src, Path: url, Err: kind, Reason: fmt.Sprintf(format, args...)}
}

// record logs the outcome and, on success, refreshes the advisory cache.
func (o Options) record(f Fetcher, res source.ExtractionResult) source.ExtractionResult {
	log := o.logger().With(zap.String("store", f.Source().String()), zap.String("id", f.Identifier()))
	if !res.OK() {
		log.Warn("Store version unavailable", zap.Stringer("kind", res.Err), zap.String("reason", res.Reason))
		return res
	}
	log.Debug("Store version fetched", zap.String("raw", *res.Raw), zap.Stringer("version", res.Parsed))
	o.Cache.Put(f.Source(), f.Identifier(), *res.Raw)
	return res
}
