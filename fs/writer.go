// Package fs provides file-based record sinks: one writer per output
// format, a batch summary writer, and the fix-existing-file mode.
package fs

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/slokaweb/versefetch"
)

// NewWriter returns the record store for the given format. The format is
// fixed for the writer's lifetime.
func NewWriter(format versefetch.Format, logger *slog.Logger) (versefetch.RecordStore, error) {
	switch format {
	case versefetch.FormatJSON:
		return &JSONWriter{logger: logger}, nil
	case versefetch.FormatCSV:
		return &CSVWriter{logger: logger}, nil
	case versefetch.FormatText:
		return &TextWriter{logger: logger}, nil
	}
	return nil, versefetch.Errorf(versefetch.EINVALID, "unknown output format %q", format)
}

// Ensure the writers implement versefetch.RecordStore at compile time.
var (
	_ versefetch.RecordStore = (*JSONWriter)(nil)
	_ versefetch.RecordStore = (*CSVWriter)(nil)
	_ versefetch.RecordStore = (*TextWriter)(nil)
)

// JSONWriter stores the full record as human-readable JSON with non-ASCII
// text left unescaped, so Devanagari stays legible in the output files.
type JSONWriter struct {
	logger *slog.Logger
}

func (w *JSONWriter) Store(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := marshalIndented(rec)
	if err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "encode record for %s: %v", path, err)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	log(w.logger).Info("verses saved", "format", "json", "path", path, "verses", len(rec.Verses))
	return nil
}

// CSVWriter stores one row per verse: index, content, source URL. A record
// with no verses produces no file, only a warning.
type CSVWriter struct {
	logger *slog.Logger
}

func (w *CSVWriter) Store(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if len(rec.Verses) == 0 {
		log(w.logger).Warn("no verses found to save to CSV", "path", path)
		return nil
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"verse_number", "content", "url"}); err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "write CSV header: %v", err)
	}
	for i, verse := range rec.Verses {
		if err := cw.Write([]string{strconv.Itoa(i + 1), verse, rec.SourceURL}); err != nil {
			return versefetch.Errorf(versefetch.EINTERNAL, "write CSV row %d: %v", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "flush CSV for %s: %v", path, err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}

	log(w.logger).Info("verses saved", "format", "csv", "path", path, "verses", len(rec.Verses))
	return nil
}

// TextWriter stores a plain-text rendering: a source header line, then
// each verse under a "Verse N:" label.
type TextWriter struct {
	logger *slog.Logger
}

func (w *TextWriter) Store(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sanskrit verses from: %s\n\n", rec.SourceURL)
	for i, verse := range rec.Verses {
		fmt.Fprintf(&b, "Verse %d:\n%s\n\n", i+1, verse)
	}

	if err := writeFile(path, []byte(b.String())); err != nil {
		return err
	}

	log(w.logger).Info("verses saved", "format", "txt", "path", path, "verses", len(rec.Verses))
	return nil
}

// SinglePageFilename is the default output name for single-page mode:
// scraped_<domain with dots as underscores>_<unix timestamp>.<ext>.
func SinglePageFilename(rawURL string, format versefetch.Format, now time.Time) string {
	domain := "page"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		domain = strings.ReplaceAll(u.Host, ".", "_")
	}
	return fmt.Sprintf("scraped_%s_%d.%s", domain, now.Unix(), format.Ext())
}

// marshalIndented renders v as indented JSON without HTML escaping.
func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return versefetch.Errorf(versefetch.EINTERNAL, "create directory %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "write %s: %v", path, err)
	}
	return nil
}

func log(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
