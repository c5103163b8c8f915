package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/vdcdash/internal/session"
)

const (
	logsPanelCapacity = 400
	logsPanelHeight   = 8
)

// logsPanel is the in-app transition log: a bounded ring of readable lines
// fed by every applied session command and every driver line.
type logsPanel struct {
	lines    []string
	view     viewport.Model
	follow   bool
	barWidth int
	now      func() time.Time
}

func newLogsPanel() *logsPanel {
	return &logsPanel{
		view:     viewport.New(40, logsPanelHeight),
		follow:   true,
		barWidth: 1,
		now:      time.Now,
	}
}

func (p *logsPanel) Append(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	p.lines = append(p.lines, fmt.Sprintf("%s %s", p.now().Format("15:04:05"), line))
	if len(p.lines) > logsPanelCapacity {
		p.lines = p.lines[len(p.lines)-logsPanelCapacity:]
	}
	p.refresh()
}

func (p *logsPanel) AppendChange(change session.Change) {
	p.Append("[session] " + change.String())
}

func (p *logsPanel) Lines() []string {
	return append([]string(nil), p.lines...)
}

func (p *logsPanel) refresh() {
	p.view.SetContent(strings.Join(p.lines, "\n"))
	if p.follow {
		p.view.GotoBottom()
	}
}

func (p *logsPanel) SetSize(width, height int) {
	if width < p.barWidth+1 {
		width = p.barWidth + 1
	}
	if height < 1 {
		height = 1
	}
	p.view.Width = width - p.barWidth
	p.view.Height = height
	maxOffset := len(p.lines) - p.view.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.view.YOffset > maxOffset {
		p.view.SetYOffset(maxOffset)
	}
}

// Scroll moves the view by delta lines; following resumes at the bottom.
func (p *logsPanel) Scroll(delta int) {
	if delta < 0 {
		p.view.LineUp(-delta)
	} else {
		p.view.LineDown(delta)
	}
	p.follow = p.view.AtBottom()
}

func (p *logsPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	p.follow = p.view.AtBottom()
	return cmd
}

func (p *logsPanel) View(s styles) string {
	if len(p.lines) == 0 {
		return s.listMuted.Render("No events yet")
	}
	lines := strings.Split(p.view.View(), "\n")
	height := p.view.Height
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	bar := p.renderScrollBar(s, height)
	for i := range lines {
		lines[i] = bar[i] + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (p *logsPanel) renderScrollBar(s styles, height int) []string {
	out := make([]string, height)
	track := s.scrollTrack.Render("│")
	thumb := s.scrollThumb.Render("│")

	total := p.view.TotalLineCount()
	visible := p.view.Height
	if visible <= 0 {
		visible = height
	}
	if total <= visible {
		for i := range out {
			out[i] = track
		}
		return out
	}

	thumbHeight := int(math.Round(float64(visible) / float64(total) * float64(height)))
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	maxOffset := total - visible
	offset := p.view.YOffset
	if offset > maxOffset {
		offset = maxOffset
	}
	ratio := float64(offset) / float64(maxOffset)
	thumbStart := int(math.Round(ratio * float64(height-thumbHeight)))
	if thumbStart+thumbHeight > height {
		thumbStart = height - thumbHeight
	}
	for i := 0; i < height; i++ {
		if i >= thumbStart && i < thumbStart+thumbHeight {
			out[i] = thumb
		} else {
			out[i] = track
		}
	}
	return out
}

// FocusValue summarises the visible window for the status line.
func (p *logsPanel) FocusValue() string {
	total := len(p.lines)
	if total == 0 {
		return "Idle"
	}
	start := p.view.YOffset + 1
	end := start + p.view.Height - 1
	if end > total {
		end = total
	}
	return fmt.Sprintf("Showing %d-%d/%d", start, end, total)
}

func renderTitledBlock(s styles, title string, focused bool, width int, body string) string {
	panel := s.panel
	if focused {
		panel = s.panelFocused
	}
	inner := width - panel.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	content := lipgloss.JoinVertical(lipgloss.Left, s.panelTitle.Render(title), body)
	return panel.Width(inner).Render(content)
}
