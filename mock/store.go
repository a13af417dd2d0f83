package mock

import (
	"context"

	"github.com/slokaweb/versefetch"
)

var _ versefetch.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of versefetch.RecordStore.
type RecordStore struct {
	StoreFn func(ctx context.Context, rec *versefetch.ChapterRecord, path string) error
}

func (s *RecordStore) Store(ctx context.Context, rec *versefetch.ChapterRecord, path string) error {
	return s.StoreFn(ctx, rec, path)
}

var _ versefetch.SummaryWriter = (*SummaryWriter)(nil)

// SummaryWriter is a mock implementation of versefetch.SummaryWriter.
type SummaryWriter struct {
	WriteSummaryFn func(summary *versefetch.BatchSummary, dir string) error
}

func (w *SummaryWriter) WriteSummary(summary *versefetch.BatchSummary, dir string) error {
	return w.WriteSummaryFn(summary, dir)
}
