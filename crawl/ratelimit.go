package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwdslsh/toolkit"
	"golang.org/x/time/rate"
)

var _ toolkit.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so requests to different domains
// proceed concurrently while each domain's rate is capped independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per domain with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// NewDomainLimiterFromDelay creates a DomainLimiter from a minimum delay
// between requests to the same domain. A non-positive delay means no
// effective limit.
func NewDomainLimiterFromDelay(delay time.Duration) *DomainLimiter {
	if delay <= 0 {
		return NewDomainLimiter(float64(rate.Inf))
	}
	return NewDomainLimiter(1 / delay.Seconds())
}

// Wait blocks until the domain's limiter permits a request or the context
// is canceled.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
