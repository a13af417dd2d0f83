// Package robotstxt implements the site-policy permission gate backed by
// the robots exclusion protocol.
package robotstxt

import (
	"context"
	"net/url"
	"sync"

	"github.com/slokaweb/versefetch"
	"github.com/temoto/robotstxt"
)

// Ensure Gate implements versefetch.PermissionChecker at compile time.
var _ versefetch.PermissionChecker = (*Gate)(nil)

// Gate checks a URL against its origin's robots.txt before any fetch of
// that URL. Parsed policies are cached per origin, so re-checking frames
// and chapters on the same host costs one fetch total. Read failures are
// cached too: an unreachable policy file is probed once per run.
//
// Gate reports read and parse failures to the caller instead of deciding
// fail-open itself; the orchestrator owns that policy.
type Gate struct {
	fetcher   versefetch.Fetcher
	userAgent string

	mu    sync.Mutex
	cache map[string]*policy
}

type policy struct {
	data *robotstxt.RobotsData
	err  error
}

// NewGate creates a Gate that fetches policy files through the given
// fetcher and evaluates rules for the given user agent. The fetcher should
// be the same one used for page fetches so the site sees one identity.
func NewGate(fetcher versefetch.Fetcher, userAgent string) *Gate {
	return &Gate{
		fetcher:   fetcher,
		userAgent: userAgent,
		cache:     make(map[string]*policy),
	}
}

// Allowed reports whether site policy permits fetching the URL.
// A robots.txt read or parse failure returns (false, err); an explicit
// disallow rule returns (false, nil).
func (g *Gate) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, versefetch.Errorf(versefetch.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return false, versefetch.Errorf(versefetch.EINVALID, "URL %q has no scheme or host", rawURL)
	}

	p := g.originPolicy(ctx, u.Scheme+"://"+u.Host)
	if p.err != nil {
		return false, p.err
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.data.TestAgent(path, g.userAgent), nil
}

func (g *Gate) originPolicy(ctx context.Context, origin string) *policy {
	g.mu.Lock()
	p, ok := g.cache[origin]
	g.mu.Unlock()
	if ok {
		return p
	}

	p = &policy{}
	body, err := g.fetcher.Fetch(ctx, origin+"/robots.txt")
	if err != nil {
		p.err = versefetch.Errorf(versefetch.EUNAVAILABLE, "read %s/robots.txt: %s", origin, versefetch.ErrorMessage(err))
	} else if p.data, err = robotstxt.FromString(body); err != nil {
		p.err = versefetch.Errorf(versefetch.EINVALID, "parse %s/robots.txt: %v", origin, err)
	}

	g.mu.Lock()
	g.cache[origin] = p
	g.mu.Unlock()
	return p
}
