package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerDownOutsideDismisses(t *testing.T) {
	r := NewRegistry()
	var closed []string
	r.Claim("phase", Rect{X: 10, Y: 2, W: 20, H: 8}, func() { closed = append(closed, "phase") })
	r.Claim("help", Rect{X: 0, Y: 20, W: 10, H: 5}, func() { closed = append(closed, "help") })

	assert.Equal(t, []string{"help"}, r.PointerDown(15, 4), "inside phase, outside help")
	assert.Equal(t, []string{"help"}, closed)
	assert.True(t, r.Active("phase"))

	r.Claim("help", Rect{X: 0, Y: 20, W: 10, H: 5}, func() { closed = append(closed, "help") })
	closed = nil
	got := r.PointerDown(0, 0)
	assert.Equal(t, []string{"help", "phase"}, got)
	assert.Equal(t, []string{"help", "phase"}, closed)
	assert.False(t, r.Active("phase"))
}

func TestRectContainsIsHalfOpen(t *testing.T) {
	rect := Rect{X: 1, Y: 1, W: 2, H: 2}
	assert.True(t, rect.Contains(1, 1))
	assert.True(t, rect.Contains(2, 2))
	assert.False(t, rect.Contains(3, 1))
	assert.False(t, rect.Contains(1, 3))
}

func TestReleaseAndMove(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Claim("menu", Rect{W: 5, H: 5}, func() { calls++ })
	r.Move("menu", Rect{X: 50, Y: 50, W: 5, H: 5})
	assert.Equal(t, []string{"menu"}, r.PointerDown(1, 1))
	assert.Equal(t, 1, calls)

	r.Claim("menu", Rect{W: 5, H: 5}, func() { calls++ })
	r.Release("menu")
	assert.Empty(t, r.PointerDown(100, 100))
	assert.Equal(t, 1, calls, "released overlays are not dismissed")

	r.Move("ghost", Rect{})
	assert.False(t, r.Active("ghost"))
}

func TestDismissAll(t *testing.T) {
	r := NewRegistry()
	r.Claim("a", Rect{W: 100, H: 100}, nil)
	r.Claim("b", Rect{W: 100, H: 100}, nil)
	assert.Equal(t, []string{"a", "b"}, r.DismissAll())
	assert.Empty(t, r.DismissAll())
}

func TestCloseMakesEverythingNoOp(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Claim("a", Rect{}, func() { calls++ })
	r.Close()
	assert.True(t, r.Closed())
	assert.False(t, r.Active("a"))

	r.Claim("b", Rect{}, func() { calls++ })
	assert.False(t, r.Active("b"))
	assert.Nil(t, r.PointerDown(0, 0))
	assert.Zero(t, calls)
	r.Close()
}
