package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwdslsh/toolkit/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_EnforcesDelay(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(10) // 100ms between requests

	ctx := context.Background()
	require.NoError(t, d.Wait(ctx, "example.com"))

	start := time.Now()
	require.NoError(t, d.Wait(ctx, "example.com"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestDomainLimiter_DomainsAreIndependent(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(1) // 1s between requests per domain

	ctx := context.Background()
	require.NoError(t, d.Wait(ctx, "a.example.com"))

	// A different domain should not be delayed by the first.
	start := time.Now()
	require.NoError(t, d.Wait(ctx, "b.example.com"))

	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDomainLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(0.1) // 10s between requests

	ctx := context.Background()
	require.NoError(t, d.Wait(ctx, "example.com"))

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := d.Wait(ctx, "example.com")
	assert.Error(t, err)
}

func TestNewDomainLimiterFromDelay(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiterFromDelay(0)

	// No delay configured means back-to-back requests are allowed.
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Wait(ctx, "example.com"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
