package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/slokaweb/versefetch"
	"github.com/slokaweb/versefetch/crawl"
	"github.com/slokaweb/versefetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchScraper wires a Scraper over five discoverable chapters with
// recording mocks. Tests override individual collaborators.
func batchScraper(stored *[]string) *crawl.Scraper {
	links := make([]versefetch.ChapterLink, 0, 5)
	for i := 1; i <= 5; i++ {
		links = append(links, versefetch.ChapterLink{
			URL:   fmt.Sprintf("http://site.org/sarga%d.htm", i),
			Title: fmt.Sprintf("Sarga_%d", i),
		})
	}

	return &crawl.Scraper{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<p>VERSE: verse of " + url + "</p>", nil
			},
		},
		Gate:      allowAll(),
		Extractor: verseExtractor(),
		Discoverer: &mock.ChapterDiscoverer{
			DiscoverFn: func(html, baseURL string) ([]versefetch.ChapterLink, error) {
				return links, nil
			},
		},
		Store: &mock.RecordStore{
			StoreFn: func(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
				if stored != nil {
					*stored = append(*stored, path)
				}
				return nil
			},
		},
		Summaries: &mock.SummaryWriter{
			WriteSummaryFn: func(summary *versefetch.BatchSummary, dir string) error { return nil },
		},
		ChapterDelay: crawl.NoDelay{},
		FrameDelay:   crawl.NoDelay{},
		Logger:       quietLogger(),
		Now:          func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
		NewRunID:     func() string { return "test-run" },
	}
}

func TestScraper_RunBatch(t *testing.T) {
	t.Parallel()

	t.Run("processes every chapter and tallies the outcome", func(t *testing.T) {
		t.Parallel()

		var stored []string
		s := batchScraper(&stored)

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)

		assert.Equal(t, "test-run", summary.RunID)
		assert.Equal(t, "2026-03-14 09:26:53", summary.Timestamp)
		assert.Equal(t, 5, summary.TotalChapters)
		assert.Equal(t, 5, summary.Successful)
		assert.Zero(t, summary.Failed)
		require.Len(t, summary.Chapters, 5)
		assert.Equal(t, "Sarga_1", summary.Chapters[0].Title)
		assert.Equal(t, 1, summary.Chapters[0].VerseCount)
	})

	t.Run("zero-pads chapter filenames", func(t *testing.T) {
		t.Parallel()

		var stored []string
		s := batchScraper(&stored)

		_, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		require.Len(t, stored, 5)
		assert.True(t, strings.HasSuffix(stored[0], "01_Sarga_1.json"), stored[0])
		assert.True(t, strings.HasSuffix(stored[4], "05_Sarga_5.json"), stored[4])
	})

	t.Run("tolerates one chapter's fetch failure", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if strings.Contains(url, "sarga3") {
					return "", versefetch.Errorf(versefetch.EUNAVAILABLE, "HTTP 500 for %s", url)
				}
				return "<p>VERSE: ok</p>", nil
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
		assert.Len(t, summary.Chapters, 4)
	})

	t.Run("recovers a panic inside one chapter", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Store = &mock.RecordStore{
			StoreFn: func(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
				if rec.ChapterIndex == 3 {
					panic("sink blew up")
				}
				return nil
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("counts a chapter denied by site policy as failed and continues", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Gate = &mock.PermissionChecker{
			AllowedFn: func(ctx context.Context, url string) (bool, error) {
				return !strings.Contains(url, "sarga2"), nil
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("counts an empty extraction as failed", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if strings.Contains(url, "sarga4") {
					return "<p>no sanskrit here</p>", nil
				}
				return "<p>VERSE: ok</p>", nil
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("aborts when the contents page is denied", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Gate = &mock.PermissionChecker{
			AllowedFn: func(ctx context.Context, url string) (bool, error) { return false, nil },
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		assert.Nil(t, summary)
		assert.Equal(t, versefetch.EFORBIDDEN, versefetch.ErrorCode(err))
	})

	t.Run("fails open when the contents page policy is unreadable", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Gate = &mock.PermissionChecker{
			AllowedFn: func(ctx context.Context, url string) (bool, error) {
				return false, versefetch.Errorf(versefetch.EUNAVAILABLE, "robots unreachable")
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Successful)
	})

	t.Run("aborts when the contents page fails to fetch", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		contents := "http://site.org/contents.htm"
		inner := s.Fetcher
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == contents {
					return "", versefetch.Errorf(versefetch.EUNAVAILABLE, "HTTP 503 for %s", url)
				}
				return inner.Fetch(ctx, url)
			},
		}

		summary, err := s.RunBatch(context.Background(), contents, "out", versefetch.FormatJSON, false)
		assert.Nil(t, summary)
		assert.Equal(t, versefetch.EUNAVAILABLE, versefetch.ErrorCode(err))
	})

	t.Run("aborts when no chapters are discovered", func(t *testing.T) {
		t.Parallel()

		s := batchScraper(nil)
		s.Discoverer = &mock.ChapterDiscoverer{
			DiscoverFn: func(html, baseURL string) ([]versefetch.ChapterLink, error) {
				return nil, nil
			},
		}

		summary, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		assert.Nil(t, summary)
		assert.Equal(t, versefetch.ENOTFOUND, versefetch.ErrorCode(err))
	})

	t.Run("applies encoding repair when requested", func(t *testing.T) {
		t.Parallel()

		var repaired []string
		s := batchScraper(nil)
		s.Repairer = &mock.Repairer{
			RepairFn: func(text string) string {
				repaired = append(repaired, text)
				return "fixed:" + text
			},
		}
		var got []versefetch.ChapterRecord
		s.Store = &mock.RecordStore{
			StoreFn: func(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
				got = append(got, *rec)
				return nil
			},
		}

		_, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, true)
		require.NoError(t, err)
		assert.Len(t, repaired, 5)
		require.NotEmpty(t, got)
		assert.True(t, strings.HasPrefix(got[0].Verses[0], "fixed:"))
	})

	t.Run("writes the summary once at the end", func(t *testing.T) {
		t.Parallel()

		var wrote int
		var gotDir string
		s := batchScraper(nil)
		s.Summaries = &mock.SummaryWriter{
			WriteSummaryFn: func(summary *versefetch.BatchSummary, dir string) error {
				wrote++
				gotDir = dir
				return nil
			},
		}

		_, err := s.RunBatch(context.Background(), "http://site.org/contents.htm", "out", versefetch.FormatJSON, false)
		require.NoError(t, err)
		assert.Equal(t, 1, wrote)
		assert.Equal(t, "out", gotDir)
	})
}

func TestScraper_RunSingle(t *testing.T) {
	t.Parallel()

	t.Run("stores a record without chapter fields", func(t *testing.T) {
		t.Parallel()

		var got *versefetch.ChapterRecord
		s := &crawl.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<p>VERSE: single</p>", nil
				},
			},
			Gate:      allowAll(),
			Extractor: verseExtractor(),
			Store: &mock.RecordStore{
				StoreFn: func(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
					got = rec
					return nil
				},
			},
			Logger: quietLogger(),
		}

		err := s.RunSingle(context.Background(), "http://site.org/sarga1.htm", "out.json", false)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"single"}, got.Verses)
		assert.Empty(t, got.ChapterTitle)
		assert.Zero(t, got.ChapterIndex)
		assert.NotEmpty(t, got.ContentHash)
	})

	t.Run("empty extraction is an overall failure", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<p>english only</p>", nil
				},
			},
			Gate:      allowAll(),
			Extractor: verseExtractor(),
			Logger:    quietLogger(),
		}

		err := s.RunSingle(context.Background(), "http://site.org/sarga1.htm", "out.json", false)
		assert.Equal(t, versefetch.ENOTFOUND, versefetch.ErrorCode(err))
	})

	t.Run("denied page aborts", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					t.Fatal("fetch should not happen")
					return "", nil
				},
			},
			Gate: &mock.PermissionChecker{
				AllowedFn: func(ctx context.Context, url string) (bool, error) { return false, nil },
			},
			Logger: quietLogger(),
		}

		err := s.RunSingle(context.Background(), "http://site.org/sarga1.htm", "out.json", false)
		assert.Equal(t, versefetch.EFORBIDDEN, versefetch.ErrorCode(err))
	})
}
