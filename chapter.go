package versefetch

import (
	"regexp"
	"strings"
)

// ChapterLink is one entry from a collection's contents page.
type ChapterLink struct {
	// URL is absolute.
	URL string

	// Title is sanitized for use in filenames: unicode word characters,
	// underscores for spaces, and hyphens only, at most 50 runes, with any
	// leading ordinal numbering stripped.
	Title string
}

// ChapterDiscoverer parses a table-of-contents document into an ordered
// list of chapter links. Order follows the source table and becomes the
// chapter numbering basis downstream.
type ChapterDiscoverer interface {
	Discover(html string, baseURL string) ([]ChapterLink, error)
}

var (
	leadingOrdinalRE = regexp.MustCompile(`^\d+\.?\s*`)
	nonWordRE        = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spaceRunRE       = regexp.MustCompile(`\s+`)
)

// SanitizeTitle converts a raw chapter heading into a filename-safe title.
// It strips a leading ordinal prefix ("12. "), drops characters outside
// word characters, whitespace, and hyphens, collapses whitespace runs to
// single underscores, and truncates to 50 runes.
func SanitizeTitle(raw string) string {
	s := leadingOrdinalRE.ReplaceAllString(raw, "")
	s = nonWordRE.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = spaceRunRE.ReplaceAllString(s, "_")
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s
}
