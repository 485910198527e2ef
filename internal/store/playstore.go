package store

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"flutterdeploy/internal/source"
)

// DefaultPlayBaseURL is the public Google Play web front end.
const DefaultPlayBaseURL = "https://play.google.com"

var (
	ldSoftwareVersion = regexp.MustCompile(`"softwareVersion"\s*:\s*"([^"]+)"`)
	initDataVersion   = regexp.MustCompile(`\[\[\["(\d+\.\d+(?:\.\d+)?(?:\+\d+)?)"\]\]`)
)

// PlayStore scrapes the public listing page of an Android package.
type PlayStore struct {
	Options
	PackageID string
}

// NewPlayStore returns a Google Play fetcher for packageID.
func NewPlayStore(packageID string, opts Options) *PlayStore {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultPlayBaseURL
	}
	return &PlayStore{Options: opts, PackageID: packageID}
}

func (p *PlayStore) Source() source.Source { return source.GooglePlayStore }

func (p *PlayStore) Identifier() string { return p.PackageID }

func (p *PlayStore) listingURL() string {
	q := url.Values{}
	q.Set("id", p.PackageID)
	q.Set("hl", "en")
	q.Set("gl", "US")
	return strings.TrimRight(p.BaseURL, "/") + "/store/apps/details?" + q.Encode()
}

// Fetch downloads the listing and returns the first version found by the
// ordered candidate locations.
func (p *PlayStore) Fetch(ctx context.Context) source.ExtractionResult {
	u := p.listingURL()
	if p.PackageID == "" {
		return p.record(p, fail(source.GooglePlayStore, u, source.RemoteParseFailure, "no package id configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	resp, failure := p.get(ctx, source.GooglePlayStore, u, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if failure != nil {
		return p.record(p, *failure)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return p.record(p, fail(source.GooglePlayStore, u, source.NetworkUnavailable, "read listing: %v", err))
	}

	for _, loc := range playLocations {
		raw, ok := loc.find(doc)
		if !ok {
			continue
		}
		res := published(source.GooglePlayStore, u, raw)
		if res.OK() {
			p.logger().Debug("Play listing matched", zap.String("location", loc.name))
			return p.record(p, res)
		}
	}
	return p.record(p, fail(source.GooglePlayStore, u, source.RemoteParseFailure, "no version found in listing"))
}

// playLocation is one place the listing markup has carried the current version.
type playLocation struct {
	name string
	find func(doc *goquery.Document) (string, bool)
}

var playLocations = []playLocation{
	{name: "itemprop", find: findItemprop},
	{name: "json-ld", find: findJSONLD},
	{name: "current-version-label", find: findCurrentVersionLabel},
	{name: "init-data", find: findInitData},
}

func findItemprop(doc *goquery.Document) (string, bool) {
	text := strings.TrimSpace(doc.Find(`[itemprop="softwareVersion"]`).First().Text())
	return text, text != ""
}

func findJSONLD(doc *goquery.Document) (string, bool) {
	var raw string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := ldSoftwareVersion.FindStringSubmatch(s.Text()); m != nil {
			raw = m[1]
			return false
		}
		return true
	})
	return raw, raw != ""
}

func findCurrentVersionLabel(doc *goquery.Document) (string, bool) {
	var raw string
	doc.Find("div, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "Current Version" {
			return true
		}
		raw = strings.TrimSpace(s.Next().Text())
		return raw == ""
	})
	return raw, raw != ""
}

// findInitData scans the inline AF_initDataCallback payloads, which carry the
// version as the first element of a triple-nested array.
func findInitData(doc *goquery.Document) (string, bool) {
	for _, n := range doc.Find("script").Nodes {
		if m := initDataVersion.FindStringSubmatch(scriptText(n)); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func scriptText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
