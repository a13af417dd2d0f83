package mock

import "github.com/slokaweb/versefetch"

var _ versefetch.ChapterDiscoverer = (*ChapterDiscoverer)(nil)

// ChapterDiscoverer is a mock implementation of versefetch.ChapterDiscoverer.
type ChapterDiscoverer struct {
	DiscoverFn func(html string, baseURL string) ([]versefetch.ChapterLink, error)
}

func (d *ChapterDiscoverer) Discover(html string, baseURL string) ([]versefetch.ChapterLink, error) {
	return d.DiscoverFn(html, baseURL)
}
