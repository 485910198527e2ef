package store

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"flutterdeploy/internal/source"
)

// DefaultAppStoreBaseURL is the public iTunes lookup API.
const DefaultAppStoreBaseURL = "https://itunes.apple.com"

// AppStore queries the iTunes lookup API by bundle identifier.
type AppStore struct {
	Options
	BundleID string
	Country  string
}

// NewAppStore returns an App Store fetcher for bundleID. country may be
// empty, in which case the API default storefront is used.
func NewAppStore(bundleID, country string, opts Options) *AppStore {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAppStoreBaseURL
	}
	return &AppStore{Options: opts, BundleID: bundleID, Country: country}
}

func (a *AppStore) Source() source.Source { return source.AppStore }

func (a *AppStore) Identifier() string { return a.BundleID }

type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		Version  string `json:"version"`
		BundleID string `json:"bundleId"`
	} `json:"results"`
}

func (a *AppStore) lookupURL() string {
	q := url.Values{}
	q.Set("bundleId", a.BundleID)
	if a.Country != "" {
		q.Set("country", a.Country)
	}
	return strings.TrimRight(a.BaseURL, "/") + "/lookup?" + q.Encode()
}

// Fetch reads the version field of the first lookup result.
func (a *AppStore) Fetch(ctx context.Context) source.ExtractionResult {
	u := a.lookupURL()
	if a.BundleID == "" {
		return a.record(a, fail(source.AppStore, u, source.RemoteParseFailure, "no bundle id configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	resp, failure := a.get(ctx, source.AppStore, u, "application/json")
	if failure != nil {
		return a.record(a, *failure)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return a.record(a, fail(source.AppStore, u, source.NetworkUnavailable, "read lookup response: %v", err))
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return a.record(a, fail(source.AppStore, u, source.RemoteParseFailure, "decode lookup response: %v", err))
	}
	if len(lr.Results) == 0 {
		return a.record(a, fail(source.AppStore, u, source.RemoteParseFailure, "no results for %s", a.BundleID))
	}
	raw := strings.TrimSpace(lr.Results[0].Version)
	if raw == "" {
		return a.record(a, fail(source.AppStore, u, source.RemoteParseFailure, "first result has no version"))
	}
	return a.record(a, published(source.AppStore, u, raw))
}
