package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	l := New(2, 0.5)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("reload"))
	assert.True(t, l.Allow("reload"))
	assert.False(t, l.Allow("reload"), "burst exhausted")
	assert.True(t, l.Allow("refresh"), "keys are independent")

	now = now.Add(time.Second)
	assert.False(t, l.Allow("reload"), "half a token is not enough")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("reload"))

	now = now.Add(time.Hour)
	assert.True(t, l.Allow("reload"))
	assert.True(t, l.Allow("reload"))
	assert.False(t, l.Allow("reload"), "refill is capped at burst")
}
