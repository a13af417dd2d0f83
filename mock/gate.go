package mock

import (
	"context"

	"github.com/slokaweb/versefetch"
)

var _ versefetch.PermissionChecker = (*PermissionChecker)(nil)

// PermissionChecker is a mock implementation of versefetch.PermissionChecker.
type PermissionChecker struct {
	AllowedFn func(ctx context.Context, url string) (bool, error)
}

func (c *PermissionChecker) Allowed(ctx context.Context, url string) (bool, error) {
	return c.AllowedFn(ctx, url)
}
