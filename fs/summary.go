package fs

import (
	"log/slog"
	"path/filepath"

	"github.com/slokaweb/versefetch"
)

// Ensure SummaryWriter implements versefetch.SummaryWriter at compile time.
var _ versefetch.SummaryWriter = (*SummaryWriter)(nil)

// SummaryWriter persists batch summaries. Summaries are always JSON
// regardless of the chapter output format.
type SummaryWriter struct {
	logger *slog.Logger
}

// NewSummaryWriter creates a new SummaryWriter.
func NewSummaryWriter(logger *slog.Logger) *SummaryWriter {
	return &SummaryWriter{logger: logger}
}

// WriteSummary writes the summary to its fixed filename inside dir,
// creating the directory if needed.
func (w *SummaryWriter) WriteSummary(summary *versefetch.BatchSummary, dir string) error {
	data, err := marshalIndented(summary)
	if err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "encode batch summary: %v", err)
	}

	path := filepath.Join(dir, versefetch.SummaryFilename)
	if err := writeFile(path, data); err != nil {
		return err
	}

	log(w.logger).Info("batch summary saved", "path", path,
		"successful", summary.Successful, "failed", summary.Failed)
	return nil
}
