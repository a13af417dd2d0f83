// Package slog provides logging decorators for pipeline collaborators.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/slokaweb/versefetch"
)

// Ensure Fetcher implements versefetch.Fetcher at compile time.
var _ versefetch.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a versefetch.Fetcher with debug logging of every request.
type Fetcher struct {
	next   versefetch.Fetcher
	logger *slog.Logger
}

// NewFetcher creates a new logging Fetcher.
func NewFetcher(next versefetch.Fetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher, logging URL, outcome, and timing.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Debug("fetch failed",
			"url", url,
			"duration", time.Since(begin),
			"error", versefetch.ErrorMessage(err),
		)
		return "", err
	}
	f.logger.Debug("fetch succeeded",
		"url", url,
		"duration", time.Since(begin),
		"bytes", len(body),
	)
	return body, nil
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
