// Package crawl orchestrates the scraping pipeline: permission-gated
// fetching, frame resolution, verse extraction, encoding repair, and batch
// processing with a per-chapter failure tally. Everything is sequential
// with blocking I/O; the only suspension points are network calls and the
// explicit politeness delays.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/slokaweb/versefetch"
	"github.com/slokaweb/versefetch/goquery"
)

// Scraper drives the extraction pipeline. Collaborators are interfaces so
// tests can exercise the orchestration without a network.
type Scraper struct {
	Fetcher    versefetch.Fetcher
	Gate       versefetch.PermissionChecker
	Extractor  versefetch.VerseExtractor
	Repairer   versefetch.Repairer
	Discoverer versefetch.ChapterDiscoverer
	Store      versefetch.RecordStore
	Summaries  versefetch.SummaryWriter

	// Limiter is the per-host politeness floor; FrameDelay and ChapterDelay
	// add randomized spread on top. Any of the three may be nil.
	Limiter      versefetch.DomainLimiter
	FrameDelay   versefetch.Delayer
	ChapterDelay versefetch.Delayer

	Logger *slog.Logger

	// Hooks for tests; defaults are time.Now and uuid.NewString.
	Now      func() time.Time
	NewRunID func() string
}

// ScrapePage fetches one URL and extracts its verses. Frame containers are
// resolved recursively: each frame is fetched independently, after its own
// permission check, and all frames' verses are concatenated in
// frame-listing order. A single frame's failure is logged and skipped.
// A top-level fetch or parse failure returns a nil result with the error.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) (*versefetch.FetchResult, error) {
	html, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if title := goquery.Title(html); title != "" {
		s.log().Debug("page fetched", "url", pageURL, "title", title)
	}

	srcs, isContainer, err := goquery.FrameSrcs(html)
	if err != nil {
		return nil, err
	}

	result := &versefetch.FetchResult{SourceURL: pageURL}
	if !isContainer {
		verses, err := s.Extractor.Extract(html)
		if err != nil {
			return nil, err
		}
		result.Verses = verses
		return result, nil
	}

	s.log().Info("frame container detected", "url", pageURL, "frames", len(srcs))
	for _, src := range srcs {
		verses, err := s.scrapeFrame(ctx, pageURL, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log().Warn("skipping frame", "src", src, "error", err)
			continue
		}
		result.Verses = append(result.Verses, verses...)
	}
	return result, nil
}

func (s *Scraper) scrapeFrame(ctx context.Context, containerURL, src string) ([]string, error) {
	frameURL, err := goquery.ResolveFrameURL(containerURL, src)
	if err != nil {
		return nil, err
	}

	if s.FrameDelay != nil {
		if err := s.FrameDelay.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Frames may live on a different origin than their container, so each
	// frame URL passes the permission gate before its fetch.
	if !s.allowed(ctx, frameURL) {
		return nil, versefetch.Errorf(versefetch.EFORBIDDEN, "site policy disallows %s", frameURL)
	}

	html, err := s.fetch(ctx, frameURL)
	if err != nil {
		return nil, err
	}
	return s.Extractor.Extract(html)
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	if s.Limiter != nil {
		if host := hostOf(rawURL); host != "" {
			if err := s.Limiter.Wait(ctx, host); err != nil {
				return "", err
			}
		}
	}
	return s.Fetcher.Fetch(ctx, rawURL)
}

// allowed applies the fail-open policy: an explicit disallow verdict blocks
// the fetch, while an unreadable or unparsable policy file permits it with
// a recorded warning. The gate itself never makes this call.
func (s *Scraper) allowed(ctx context.Context, rawURL string) bool {
	ok, err := s.Gate.Allowed(ctx, rawURL)
	if err != nil {
		s.log().Warn("could not read site policy, assuming scraping is allowed",
			"url", rawURL, "error", versefetch.ErrorMessage(err))
		return true
	}
	return ok
}

func (s *Scraper) record(res *versefetch.FetchResult, title string, index int, repair bool) *versefetch.ChapterRecord {
	verses := res.Verses
	if repair && s.Repairer != nil {
		verses = make([]string, len(res.Verses))
		for i, v := range res.Verses {
			verses[i] = s.Repairer.Repair(v)
		}
	}

	return &versefetch.ChapterRecord{
		SourceURL:    res.SourceURL,
		Verses:       verses,
		ChapterTitle: title,
		ChapterIndex: index,
		ContentHash:  contentHash(verses),
		FetchedAt:    s.now(),
	}
}

// contentHash fingerprints the verse sequence so reruns can tell whether a
// chapter changed upstream.
func contentHash(verses []string) string {
	h := xxhash.New()
	for _, v := range verses {
		_, _ = h.WriteString(v)
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (s *Scraper) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scraper) runID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.NewString()
}
