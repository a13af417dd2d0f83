package versefetch

import "context"

// Delayer introduces a deliberate pause before an outbound request.
// Implementations decide the duration; tests inject a zero-delay
// implementation without altering pipeline logic.
type Delayer interface {
	// Wait blocks for the implementation's delay or until the context is
	// canceled, whichever comes first.
	Wait(ctx context.Context) error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
