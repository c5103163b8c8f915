package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/views"
)

var palette = struct {
	text, textMuted, border  lipgloss.AdaptiveColor
	selection, accent        lipgloss.AdaptiveColor
	surface, surfaceElevated lipgloss.AdaptiveColor
	success, danger, warning lipgloss.AdaptiveColor
	info, idle               lipgloss.AdaptiveColor
}{
	text:            lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#E2E8F0"},
	textMuted:       lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"},
	border:          lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"},
	selection:       lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"},
	accent:          lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
	surface:         lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"},
	surfaceElevated: lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#1E293B"},
	success:         lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
	danger:          lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
	warning:         lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
	info:            lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"},
	idle:            lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#1E293B"},
}

type styles struct {
	app, topBar, breadcrumbs           lipgloss.Style
	rail, railItem, railSel            lipgloss.Style
	sidebar, sidebarTitle, section     lipgloss.Style
	listItem, listSel, listMuted       lipgloss.Style
	panel, panelFocused, panelTitle    lipgloss.Style
	kpiCard, kpiLabel, kpiValue        lipgloss.Style
	badge, badgeOn, badgeOff           lipgloss.Style
	phaseDone, phaseCurrent, phaseTodo lipgloss.Style
	statusBar, statusSeg, statusHint   lipgloss.Style
	overlay, overlayTitle, hint        lipgloss.Style
	placeholder, moreBelow             lipgloss.Style
	scrollTrack, scrollThumb           lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Bold(true).Padding(0, 1),
		breadcrumbs:  base.Copy().Foreground(palette.textMuted).Padding(0, 1),
		rail:         base.Copy().BorderStyle(panelBorder).BorderRight(true).BorderForeground(palette.border),
		railItem:     base.Copy().Foreground(palette.textMuted).Padding(0, 1),
		railSel:      base.Copy().Bold(true).Foreground(palette.accent).Padding(0, 1),
		sidebar:      base.Copy().BorderStyle(panelBorder).BorderRight(true).BorderForeground(palette.border),
		sidebarTitle: base.Copy().Bold(true).Padding(0, 1),
		section:      base.Copy().Faint(true).Padding(0, 1),
		listItem:     base.Copy().Padding(0, 1),
		listSel:      base.Copy().Padding(0, 1).Bold(true).Background(palette.selection),
		listMuted:    base.Copy().Padding(0, 1).Foreground(palette.textMuted),
		panel:        base.Copy().BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.Copy().BorderStyle(focusedBorder).BorderForeground(palette.accent),
		panelTitle:   base.Copy().Bold(true).Padding(0, 1),
		kpiCard:      base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(palette.border).Padding(0, 1),
		kpiLabel:     base.Copy().Faint(true),
		kpiValue:     base.Copy().Bold(true),
		badge:        base.Copy().Padding(0, 1),
		badgeOn:      base.Copy().Padding(0, 1).Foreground(palette.success),
		badgeOff:     base.Copy().Padding(0, 1).Foreground(palette.textMuted),
		phaseDone:    base.Copy().Foreground(palette.success),
		phaseCurrent: base.Copy().Bold(true).Foreground(palette.accent),
		phaseTodo:    base.Copy().Foreground(palette.textMuted),
		statusBar:    base.Copy().Padding(0, 1),
		statusSeg:    base.Copy().Padding(0, 1).MarginRight(1),
		statusHint:   base.Copy().Faint(true),
		overlay:      base.Copy().Border(lipgloss.RoundedBorder()).BorderForeground(palette.accent).Padding(0, 1),
		overlayTitle: base.Copy().Bold(true),
		hint:         base.Copy().Faint(true),
		placeholder:  base.Copy().Faint(true).Italic(true).Padding(1, 2),
		moreBelow:    base.Copy().Foreground(palette.accent).Bold(true),
		scrollTrack:  base.Copy().Foreground(palette.border),
		scrollThumb:  base.Copy().Foreground(palette.accent),
	}
}

func testStatusColor(status catalog.TestStatus) lipgloss.AdaptiveColor {
	switch status {
	case catalog.TestPassed:
		return palette.success
	case catalog.TestFailed:
		return palette.danger
	case catalog.TestRunning:
		return palette.info
	case catalog.TestPending:
		return palette.warning
	}
	return palette.textMuted
}

func cellStatusColor(status views.CellStatus) lipgloss.AdaptiveColor {
	if status == views.CellEmpty {
		return palette.idle
	}
	return testStatusColor(catalog.TestStatus(status))
}

func knobStatusColor(status catalog.KnobStatus) lipgloss.AdaptiveColor {
	switch status {
	case catalog.KnobWarning:
		return palette.warning
	case catalog.KnobError:
		return palette.danger
	}
	return palette.success
}
