package mock

import (
	"context"

	"github.com/slokaweb/versefetch"
)

var _ versefetch.Delayer = (*Delayer)(nil)

// Delayer is a mock implementation of versefetch.Delayer.
type Delayer struct {
	WaitFn func(ctx context.Context) error
}

func (d *Delayer) Wait(ctx context.Context) error {
	return d.WaitFn(ctx)
}

var _ versefetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of versefetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
