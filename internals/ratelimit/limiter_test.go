package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *time.Time) {
	l := New(max, window)
	now := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BlocksAfterMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := l.Check("login-fail:a@b.c")
		assert.True(t, allowed)
		l.Incr("login-fail:a@b.c")
	}

	allowed, retryAfter := l.Check("login-fail:a@b.c")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestLimiter_CheckDoesNotIncrement(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	for i := 0; i < 10; i++ {
		allowed, _ := l.Check("k")
		assert.True(t, allowed)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)

	l.Incr("k")
	allowed, _ := l.Check("k")
	assert.False(t, allowed)

	*now = now.Add(61 * time.Second)
	allowed, _ = l.Check("k")
	assert.True(t, allowed)
}

func TestLimiter_ResetClearsKey(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Incr("k")
	allowed, _ := l.Check("k")
	assert.False(t, allowed)

	l.Reset("k")
	allowed, _ = l.Check("k")
	assert.True(t, allowed)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Incr("login-fail:a@b.c")
	allowed, _ := l.Check("login-fail:x@y.z")
	assert.True(t, allowed)
}

func TestLimiter_LazySweep(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)

	l.Incr("stale")
	*now = now.Add(2 * time.Minute)
	l.Incr("fresh") // akses apa pun memicu sweep

	l.mu.Lock()
	_, staleExists := l.entries["stale"]
	l.mu.Unlock()
	assert.False(t, staleExists)
}
