package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, w time.Duration) (*FixedWindowRateLimiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewFixedWindowLimiter(limit, w)
	rl.now = c.now
	return rl, c
}

func TestFixedWindow_BlocksAfterLimit(t *testing.T) {
	rl, c := newTestLimiter(2, 5*time.Second)

	ok, _ := rl.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok)

	c.advance(time.Second)
	ok, retry := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, 4*time.Second, retry)

	ok, _ = rl.Allow("2.2.2.2")
	assert.True(t, ok, "keys are independent")
}

func TestFixedWindow_ResetsAfterWindow(t *testing.T) {
	rl, c := newTestLimiter(1, 5*time.Second)

	ok, _ := rl.Allow("k")
	assert.True(t, ok)
	ok, _ = rl.Allow("k")
	assert.False(t, ok)

	c.advance(5 * time.Second)
	ok, _ = rl.Allow("k")
	assert.True(t, ok)
}

func TestFixedWindow_Sweep(t *testing.T) {
	rl, c := newTestLimiter(1, time.Second)
	rl.Allow("a")
	rl.Allow("b")

	assert.Equal(t, 0, rl.Sweep())
	c.advance(time.Second)
	assert.Equal(t, 2, rl.Sweep())
	assert.Empty(t, rl.clients)
}
