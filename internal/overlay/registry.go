// Package overlay tracks transient menus that close when the user clicks
// outside them. The program routes every pointer-down through one
// Registry; menus claim a screen region while open and release it when
// they close.
package overlay

import "sort"

// Rect is a half-open cell rectangle: X <= x < X+W, Y <= y < Y+H.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type claim struct {
	rect      Rect
	onDismiss func()
}

type Registry struct {
	claims map[string]claim
	closed bool
}

func NewRegistry() *Registry {
	return &Registry{claims: make(map[string]claim)}
}

// Claim registers or replaces the region of an open overlay.
func (r *Registry) Claim(name string, rect Rect, onDismiss func()) {
	if r.closed {
		return
	}
	r.claims[name] = claim{rect: rect, onDismiss: onDismiss}
}

// Move updates the region of an already claimed overlay, used when the
// layout reflows after a resize.
func (r *Registry) Move(name string, rect Rect) {
	if c, ok := r.claims[name]; ok {
		c.rect = rect
		r.claims[name] = c
	}
}

func (r *Registry) Release(name string) {
	delete(r.claims, name)
}

func (r *Registry) Active(name string) bool {
	_, ok := r.claims[name]
	return ok
}

// PointerDown dismisses every claimed overlay whose region does not hold
// the point, and returns their names sorted.
func (r *Registry) PointerDown(x, y int) []string {
	if r.closed {
		return nil
	}
	var dismissed []string
	for name, c := range r.claims {
		if c.rect.Contains(x, y) {
			continue
		}
		dismissed = append(dismissed, name)
	}
	sort.Strings(dismissed)
	for _, name := range dismissed {
		c := r.claims[name]
		delete(r.claims, name)
		if c.onDismiss != nil {
			c.onDismiss()
		}
	}
	return dismissed
}

// DismissAll closes every overlay, as Esc does.
func (r *Registry) DismissAll() []string {
	return r.PointerDown(-1, -1)
}

// Close tears the registry down. Later calls are no-ops.
func (r *Registry) Close() {
	r.closed = true
	r.claims = make(map[string]claim)
}

func (r *Registry) Closed() bool { return r.closed }
