package slog

import (
	"context"
	"log/slog"

	"github.com/slokaweb/versefetch"
)

// Ensure Gate implements versefetch.PermissionChecker at compile time.
var _ versefetch.PermissionChecker = (*Gate)(nil)

// Gate wraps a versefetch.PermissionChecker with a log line per decision.
type Gate struct {
	next   versefetch.PermissionChecker
	logger *slog.Logger
}

// NewGate creates a new logging Gate.
func NewGate(next versefetch.PermissionChecker, logger *slog.Logger) *Gate {
	return &Gate{next: next, logger: logger}
}

// Allowed delegates to the wrapped checker and logs the verdict.
func (g *Gate) Allowed(ctx context.Context, url string) (bool, error) {
	ok, err := g.next.Allowed(ctx, url)
	switch {
	case err != nil:
		g.logger.Debug("site policy unreadable", "url", url, "error", versefetch.ErrorMessage(err))
	case !ok:
		g.logger.Debug("site policy disallows", "url", url)
	default:
		g.logger.Debug("site policy allows", "url", url)
	}
	return ok, err
}
