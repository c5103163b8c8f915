package simclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := map[int]string{
		0:      "00h 00m 00s",
		1214:   "00h 20m 14s",
		3600:   "01h 00m 00s",
		86399:  "23h 59m 59s",
		360000: "100h 00m 00s",
		-5:     "00h 00m 00s",
	}
	for in, want := range tests {
		assert.Equal(t, want, Format(in), "Format(%d)", in)
	}
	assert.Equal(t, "00h 20m 14s", New(DefaultSeed).String())
}

func TestTicksOnlyWhileGated(t *testing.T) {
	c := New(DefaultSeed)
	assert.False(t, c.Tick(c.Generation()), "closed gate never counts")

	gen, arm := c.SetGate(true)
	require.True(t, arm)
	for i := 0; i < 5; i++ {
		require.True(t, c.Tick(gen))
	}
	assert.Equal(t, DefaultSeed+5, c.Seconds())

	c.SetGate(false)
	assert.False(t, c.Tick(gen))
	assert.Equal(t, DefaultSeed+5, c.Seconds())
}

func TestReopeningDoesNotDoubleCount(t *testing.T) {
	c := New(0)
	first, _ := c.SetGate(true)

	// Flip the gate several times within one second: the tick armed by the
	// first opening is still in flight when the last one arms its own.
	c.SetGate(false)
	c.SetGate(true)
	c.SetGate(false)
	last, arm := c.SetGate(true)
	require.True(t, arm)

	assert.False(t, c.Tick(first))
	assert.True(t, c.Tick(last))
	assert.Equal(t, 1, c.Seconds())
}

func TestSetGateIdempotent(t *testing.T) {
	c := New(0)
	gen, arm := c.SetGate(true)
	require.True(t, arm)
	again, arm := c.SetGate(true)
	assert.False(t, arm, "already running")
	assert.Equal(t, gen, again)

	_, arm = c.SetGate(false)
	assert.False(t, arm)
	assert.False(t, c.Running())
}

func TestGateClosedThroughoutNeverMoves(t *testing.T) {
	c := New(DefaultSeed)
	for gen := uint64(0); gen < 10; gen++ {
		c.Tick(gen)
	}
	assert.Equal(t, DefaultSeed, c.Seconds())
}
