package views

import (
	"strings"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

// Dependencies keeps modified dependencies unless showAll is set.
func Dependencies(deps []catalog.Release, showAll bool) []catalog.Release {
	if showAll {
		return append([]catalog.Release(nil), deps...)
	}
	var out []catalog.Release
	for _, d := range deps {
		if d.IsModified {
			out = append(out, d)
		}
	}
	return out
}

// Knobs keeps overridden knobs unless showAll is set, then applies a
// case-insensitive substring search over name, path and display value.
func Knobs(knobs []catalog.Knob, showAll bool, query string) []catalog.Knob {
	q := strings.ToLower(query)
	var out []catalog.Knob
	for _, k := range knobs {
		if !showAll && !k.IsOverridden {
			continue
		}
		if q != "" && !knobMatches(k, q) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func knobMatches(k catalog.Knob, lowered string) bool {
	return strings.Contains(strings.ToLower(k.Name), lowered) ||
		strings.Contains(strings.ToLower(k.Path), lowered) ||
		strings.Contains(strings.ToLower(k.DisplayValue), lowered)
}

func Straps(straps []catalog.Strap) []catalog.Strap {
	return append([]catalog.Strap(nil), straps...)
}

// CellKey names one Goal x HW x SW combination.
type CellKey struct {
	Goal string
	HW   string
	SW   string
}

// MatrixFilter narrows the test-line table. Empty fields are wildcards;
// the zero value matches everything.
type MatrixFilter struct {
	Goal string
	HW   string
	SW   string
}

func (f MatrixFilter) Active() bool {
	return f.Goal != "" || f.HW != "" || f.SW != ""
}

func (f MatrixFilter) Matches(line catalog.TestLine) bool {
	return (f.Goal == "" || f.Goal == line.GoalName) &&
		(f.HW == "" || f.HW == line.HWConfig) &&
		(f.SW == "" || f.SW == line.SWConfig)
}

// Toggle selects cell, or clears the filter when cell is already the
// active selection. A different cell replaces the filter outright.
func (f MatrixFilter) Toggle(cell CellKey) MatrixFilter {
	next := MatrixFilter{Goal: cell.Goal, HW: cell.HW, SW: cell.SW}
	if next == f {
		return MatrixFilter{}
	}
	return next
}

func (f MatrixFilter) String() string {
	if !f.Active() {
		return "none"
	}
	parts := []string{orAny(f.Goal), orAny(f.HW), orAny(f.SW)}
	return strings.Join(parts, " / ")
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

func TestLines(lines []catalog.TestLine, f MatrixFilter) []catalog.TestLine {
	if !f.Active() {
		return append([]catalog.TestLine(nil), lines...)
	}
	var out []catalog.TestLine
	for _, l := range lines {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// MoreBelow decides whether the "more data below" hint shows: only near
// the top of content that still extends past the viewport.
func MoreBelow(offset, contentHeight, visibleHeight int) bool {
	const (
		scrolledAway = 2
		nearBottom   = 1
	)
	if offset > scrolledAway {
		return false
	}
	return contentHeight-offset-visibleHeight >= nearBottom
}
