// Package views derives everything the dashboard shows from the catalog
// and the session state. Every function here is pure; callers recompute
// on each render.
package views

// Test lines get a larger page; they are reviewed full screen.
const (
	DefaultPageSize     = 10
	DefaultTestPageSize = 25
)

// Pager is a 1-based page cursor. It never holds a page past the end once
// clamped against a total.
type Pager struct {
	Page int
	Size int
}

func NewPager(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{Page: 1, Size: size}
}

func (p *Pager) Reset() { p.Page = 1 }

// TotalPages is ceil(n/size); zero for an empty sequence.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

func clampPage(page, totalPages int) int {
	if page < 1 || totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Clamp pulls the page back inside [1, TotalPages(n)].
func (p *Pager) Clamp(n int) {
	p.Page = clampPage(p.Page, TotalPages(n, p.Size))
}

// Goto moves to page, clamped against n items. It reports whether the
// page changed.
func (p *Pager) Goto(page, n int) bool {
	next := clampPage(page, TotalPages(n, p.Size))
	if next == p.Page {
		return false
	}
	p.Page = next
	return true
}

func (p *Pager) Next(n int) bool { return p.Goto(p.Page+1, n) }
func (p *Pager) Prev(n int) bool { return p.Goto(p.Page-1, n) }

// PageInfo describes the visible window. From and To are 1-based and
// inclusive; both are zero for an empty sequence.
type PageInfo struct {
	Page       int
	TotalPages int
	From       int
	To         int
	Count      int
}

func (i PageInfo) HasPrev() bool { return i.Page > 1 }
func (i PageInfo) HasNext() bool { return i.Page < i.TotalPages }

// Window returns the page of items p points at, clamped so a stale page
// can never produce an empty or out-of-range slice.
func Window[T any](items []T, p Pager) ([]T, PageInfo) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	page := clampPage(p.Page, total)
	info := PageInfo{Page: page, TotalPages: total, Count: len(items)}
	if total == 0 {
		return nil, info
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	info.From = start + 1
	info.To = end
	return items[start:end], info
}
