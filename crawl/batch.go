package crawl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/slokaweb/versefetch"
)

// RunSingle scrapes a single page and hands the result to the store.
// Unlike batch mode, an empty extraction is an overall failure here.
func (s *Scraper) RunSingle(ctx context.Context, pageURL, outputPath string, repair bool) error {
	if !s.allowed(ctx, pageURL) {
		return versefetch.Errorf(versefetch.EFORBIDDEN, "site policy disallows %s", pageURL)
	}

	res, err := s.ScrapePage(ctx, pageURL)
	if err != nil {
		return err
	}
	if len(res.Verses) == 0 {
		return versefetch.Errorf(versefetch.ENOTFOUND, "no verses found at %s", pageURL)
	}

	rec := s.record(res, "", 0, repair)
	if err := s.Store.Store(ctx, rec, outputPath); err != nil {
		return err
	}

	s.log().Info("page scraped", "url", pageURL, "verses", len(rec.Verses), "output", outputPath)
	return nil
}

// RunBatch discovers chapter links on a contents page and runs the
// per-page pipeline for each, tolerating individual failures. The run
// aborts before any chapter is attempted when the contents page is denied
// by site policy, fails to fetch, or yields no links; afterwards it always
// completes, and the summary is persisted to the output directory.
func (s *Scraper) RunBatch(ctx context.Context, startURL, outputDir string, format versefetch.Format, repair bool) (*versefetch.BatchSummary, error) {
	ok, err := s.Gate.Allowed(ctx, startURL)
	if err != nil {
		s.log().Warn("could not read site policy, assuming scraping is allowed",
			"url", startURL, "error", versefetch.ErrorMessage(err))
	} else if !ok {
		return nil, versefetch.Errorf(versefetch.EFORBIDDEN, "site policy disallows %s", startURL)
	}

	html, err := s.fetch(ctx, startURL)
	if err != nil {
		return nil, err
	}

	links, err := s.Discoverer.Discover(html, startURL)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, versefetch.Errorf(versefetch.ENOTFOUND, "no chapter links found on %s", startURL)
	}

	s.log().Info("chapters discovered", "url", startURL, "count", len(links))

	summary := &versefetch.BatchSummary{
		RunID:         s.runID(),
		Timestamp:     s.now().Format("2006-01-02 15:04:05"),
		TotalChapters: len(links),
	}

	for i, link := range links {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		index := i + 1
		s.log().Info("processing chapter", "index", index, "total", len(links), "title", link.Title)

		outcome, err := s.processChapter(ctx, link, index, outputDir, format, repair)
		if err != nil {
			summary.Failed++
			s.log().Error("chapter failed", "index", index, "title", link.Title,
				"url", link.URL, "error", versefetch.ErrorMessage(err))
			continue
		}
		summary.Successful++
		summary.Chapters = append(summary.Chapters, *outcome)
	}

	if s.Summaries != nil {
		if err := s.Summaries.WriteSummary(summary, outputDir); err != nil {
			return summary, err
		}
	}

	s.log().Info("batch finished", "successful", summary.Successful, "failed", summary.Failed)
	return summary, nil
}

// processChapter runs steps 1-5 of the per-chapter pipeline. A panic in
// any step is recovered and reported as that chapter's failure; nothing
// escapes to abort the batch.
func (s *Scraper) processChapter(ctx context.Context, link versefetch.ChapterLink, index int, outputDir string, format versefetch.Format, repair bool) (outcome *versefetch.ChapterOutcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			outcome = nil
			err = versefetch.Errorf(versefetch.EINTERNAL, "chapter %q: %v", link.Title, p)
		}
	}()

	if s.ChapterDelay != nil {
		if err := s.ChapterDelay.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Re-checked per chapter: the contents page and its chapters may be
	// covered by different policy rules.
	if !s.allowed(ctx, link.URL) {
		return nil, versefetch.Errorf(versefetch.EFORBIDDEN, "site policy disallows %s", link.URL)
	}

	res, err := s.ScrapePage(ctx, link.URL)
	if err != nil {
		return nil, err
	}
	if len(res.Verses) == 0 {
		return nil, versefetch.Errorf(versefetch.ENOTFOUND, "no verses found in chapter %q", link.Title)
	}

	rec := s.record(res, link.Title, index, repair)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%02d_%s.%s", index, link.Title, format.Ext()))
	if err := s.Store.Store(ctx, rec, outputPath); err != nil {
		return nil, err
	}

	return &versefetch.ChapterOutcome{
		Title:      link.Title,
		URL:        link.URL,
		OutputPath: outputPath,
		VerseCount: len(rec.Verses),
	}, nil
}
