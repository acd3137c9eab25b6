package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterBlocksInsideWindow(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(2, time.Hour)
	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

	limiter.fail("10.0.0.1", now.Add(-2*time.Hour))
	limiter.fail("10.0.0.1", now.Add(-10*time.Minute))
	if limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected stale failure to be pruned")
	}

	limiter.fail("10.0.0.1", now)
	if !limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected two recent failures to block")
	}
	if limiter.blocked("10.0.0.2", now) {
		t.Fatal("expected other keys to stay open")
	}

	limiter.reset("10.0.0.1")
	if limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected reset to clear failures")
	}
}
