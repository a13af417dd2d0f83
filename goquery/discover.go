package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/slokaweb/versefetch"
	"github.com/slokaweb/versefetch/bloom"
)

// expectedChapters sizes the dedup filter; the largest collection in the
// corpus has a few hundred sargas.
const expectedChapters = 1024

// Ensure Discoverer implements versefetch.ChapterDiscoverer at compile time.
var _ versefetch.ChapterDiscoverer = (*Discoverer)(nil)

// Discoverer parses a table-of-contents page into an ordered chapter list.
// A table row qualifies when it has at least two cells and its second cell
// contains an anchor with an href; the title comes from the first cell.
// Contents pages on this corpus list some chapters twice, so duplicate
// URLs are dropped, keeping the first occurrence.
type Discoverer struct{}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover returns chapter links in source-table row order. Relative hrefs
// are resolved against baseURL; titles are sanitized for filename use.
func (d *Discoverer) Discover(rawHTML string, baseURL string) ([]versefetch.ChapterLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, versefetch.Errorf(versefetch.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, versefetch.Errorf(versefetch.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := bloom.NewFilter(expectedChapters, 0.001)
	var links []versefetch.ChapterLink

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		anchor := cells.Eq(1).Find("a[href]").First()
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}

		resolved := resolveHref(base, href)
		if resolved == "" || seen.Test(resolved) {
			return
		}
		seen.Add(resolved)

		titleCell := cells.Eq(0)
		title := titleCell.Find("a").First().Text()
		if title == "" {
			title = titleCell.Text()
		}

		links = append(links, versefetch.ChapterLink{
			URL:   resolved,
			Title: versefetch.SanitizeTitle(strings.TrimSpace(title)),
		})
	})

	return links, nil
}

// resolveHref resolves a possibly relative href against the base URL.
// Returns empty string if the href cannot be parsed.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}
	return base.ResolveReference(ref).String()
}
