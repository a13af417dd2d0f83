package versefetch

import (
	"context"
	"time"
)

// FetchResult holds the verses extracted from a single page, frames
// included. Verses are in discovery order: frame-listing order first, then
// paragraph order within each frame. Every verse is non-empty after
// trimming.
type FetchResult struct {
	SourceURL string
	Verses    []string
}

// ChapterRecord is the unit handed to a RecordStore. For single-page runs
// the chapter fields are zero. JSON field names match the output format of
// the archive's long-lived scraping scripts so previously written files
// stay compatible.
type ChapterRecord struct {
	SourceURL    string    `json:"url"`
	Verses       []string  `json:"sanskrit_verses"`
	ChapterTitle string    `json:"chapter_title,omitempty"`
	ChapterIndex int       `json:"chapter_number,omitempty"`
	ContentHash  string    `json:"content_hash,omitempty"`
	FetchedAt    time.Time `json:"fetched_at,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ChapterRecord) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	if r.ChapterIndex < 0 {
		return Errorf(EINVALID, "chapter number must be positive")
	}
	return nil
}

// Fetcher retrieves the raw HTML body of a URL.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any underlying connections.
	Close() error
}

// PermissionChecker answers whether site policy allows fetching a URL.
// A read or parse failure of the policy file is reported as an error, not
// as a verdict; the caller decides whether to fail open.
type PermissionChecker interface {
	Allowed(ctx context.Context, url string) (bool, error)
}

// VerseExtractor pulls verse text out of an HTML document.
type VerseExtractor interface {
	// Extract returns verses in document order. An empty slice with a nil
	// error means the document parsed fine but contained no verses.
	Extract(html string) ([]string, error)
}

// Repairer applies a best-effort corrective transform to text suspected of
// double-encoding. It never fails: text that cannot be repaired is returned
// unchanged.
type Repairer interface {
	Repair(text string) string
}

// RecordStore persists one record to a destination path. The output format
// is fixed when the store is constructed. Parent directories are created as
// needed.
type RecordStore interface {
	Store(ctx context.Context, rec *ChapterRecord, path string) error
}
