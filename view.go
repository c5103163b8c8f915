package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/navigation"
)

const (
	railWidth    = 12
	sidebarWidth = 30
	stepsWidth   = 34
	railFirstRow = 3

	activeRuns   = 14
	buildVersion = "v4.14.0"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading dashboard..."
	}
	h := m.middleHeight()
	cols := []string{m.renderRail(h)}
	if m.sess.Navigation().SidebarExpanded {
		cols = append(cols, m.renderSidebar(h))
	}
	if m.showStepList() {
		cols = append(cols, m.renderStepsColumn(h))
	}
	cols = append(cols, m.renderContentColumn(h))

	return m.styles.app.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.renderStatusBar(),
		m.help.View(m.keys),
	))
}

func (m *model) middleHeight() int {
	return maxInt(m.height-3, 5)
}

func (m *model) contentWidth() int {
	w := m.width - railWidth
	if m.sess.Navigation().SidebarExpanded {
		w -= sidebarWidth
	}
	if m.showStepList() {
		w -= stepsWidth
	}
	return maxInt(w, 20)
}

// contentOrigin is the screen cell of the content column's top left.
func (m *model) contentOrigin() (int, int) {
	return m.width - m.contentWidth(), 1
}

func (m *model) applyLayout() {
	if m.width == 0 {
		return
	}
	h := m.middleHeight()
	cw := m.contentWidth()
	m.content.Width = cw
	m.content.Height = maxInt(h-1, 1)
	m.logs.SetSize(cw-4, logsPanelHeight)
	m.picker.SetSize(sidebarWidth-2, h-8)
	m.projectSearch.Width = sidebarWidth - 6
	m.knobSearch.Width = maxInt(cw-8, 10)
	m.justification.Width = maxInt(cw-8, 10)
	m.help.Width = m.width
	setMarkdownWordWrap(maxInt(cw-6, 20))
	m.refreshOverlays()
}

func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *model) renderTopBar() string {
	nav := m.sess.Navigation()
	crumbs := []string{string(nav.ActiveContext)}
	if p, ok := m.sess.ActiveProject(); ok {
		crumbs = append(crumbs, strings.ToUpper(p.Name))
	}
	crumbs = append(crumbs, strings.ToUpper(nav.ActiveTab()))

	toggle := "«"
	if !nav.SidebarExpanded {
		toggle = "»"
	}
	left := m.styles.topBar.Render(toggle) + m.styles.breadcrumbs.Render(strings.Join(crumbs, " › "))
	right := ""
	if m.inputMode == inputKnobSearch {
		right = m.knobSearch.View()
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(left + " " + right)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) renderRail(h int) string {
	nav := m.sess.Navigation()
	lines := []string{m.styles.railSel.Render("VDC"), ""}
	for i, ctx := range navigation.Contexts {
		style := m.styles.railItem
		if ctx == nav.ActiveContext {
			style = m.styles.railSel
		}
		lines = append(lines, style.Render(m.railMarker(i)+string(ctx)))
	}
	lines = append(lines, "")
	for i, entry := range railEntries {
		label := entry
		if entry == "Theme" {
			label = "Theme:" + strings.ToLower(m.markdownTheme.Label())[:1]
		}
		lines = append(lines, m.styles.railItem.Render(m.railMarker(len(navigation.Contexts)+i)+label))
	}
	// The tier-1 list is clipped, not wrapped, so mouse rows stay stable.
	body := lipgloss.NewStyle().Width(railWidth - 1).MaxWidth(railWidth - 1).Render(strings.Join(lines, "\n"))
	return m.styles.rail.Height(h).Render(fitHeight(body, h))
}

func (m *model) railMarker(i int) string {
	if m.focus == focusRail && i == m.railCursor {
		return "›"
	}
	return ""
}

func (m *model) renderSidebar(h int) string {
	nav := m.sess.Navigation()
	width := sidebarWidth - 1
	var project *catalog.Project
	if p, ok := m.sess.ActiveProject(); ok {
		project = &p
	}
	titleStyle := m.styles.sidebarTitle
	if m.focus == focusSidebar {
		titleStyle = titleStyle.Copy().Foreground(palette.accent)
	}
	lines := []string{titleStyle.Render(navigation.Header(nav.ActiveContext, project))}
	if project != nil {
		lines = append(lines, m.styles.listMuted.Render("[backspace] switch project"))
	}
	lines = append(lines, "")

	if m.browsing() {
		search := m.projectSearch.View()
		if m.inputMode != inputProjectSearch {
			search = m.styles.hint.Render("/ " + m.projectSearch.Placeholder)
			if m.projectQuery != "" {
				search = "/ " + m.projectQuery
			}
		}
		lines = append(lines, m.styles.listItem.Render(search), "", m.styles.section.Render("RECENT PROJECTS"))
		lines = append(lines, m.picker.View(m.styles))
	} else {
		active := nav.ActiveTab()
		idx := 0
		for _, sec := range navigation.Sections(nav.ActiveContext, project != nil) {
			lines = append(lines, m.styles.section.Render(sec.Label))
			for _, item := range sec.Items {
				style := m.styles.listItem
				label := item
				if item == active {
					style = m.styles.listSel
					label += " ›"
				}
				marker := "  "
				if m.focus == focusSidebar && idx == m.sidebarCursor {
					marker = "› "
				}
				lines = append(lines, style.Render(marker+label))
				idx++
			}
			lines = append(lines, "")
		}
	}

	body := fitHeight(strings.Join(lines, "\n"), h-1)
	footer := m.styles.badgeOn.Render("● SYSTEMS_OK")
	content := lipgloss.NewStyle().Width(width).MaxWidth(width).Render(body + "\n" + footer)
	return m.styles.sidebar.Height(h).Render(content)
}

func (m *model) renderStepsColumn(h int) string {
	width := stepsWidth - 1
	body := m.renderStepList(width - 2)
	content := lipgloss.NewStyle().Width(width).MaxWidth(width).Render(fitHeight(body, h))
	return m.styles.sidebar.Height(h).Render(content)
}

func (m *model) renderContentColumn(h int) string {
	var blocks []string
	for _, name := range []string{overlayHistory, overlayGuidance, overlayHelp} {
		if box, ok := m.overlayBody[name]; ok && m.overlays.Active(name) {
			blocks = append(blocks, box)
		}
	}
	blocks = append(blocks, m.content.View())
	hint := ""
	if m.moreBelow() {
		hint = m.styles.moreBelow.Render("▼ more data below")
	}
	body := fitHeight(strings.Join(blocks, "\n"), h-1) + "\n" + hint
	return lipgloss.NewStyle().Width(m.contentWidth()).MaxWidth(m.contentWidth()).Render(body)
}

// renderContent draws the active tab for the content viewport.
func (m *model) renderContent(width int) string {
	tab := m.sess.ActiveTab()
	switch {
	case navigation.IsWorkflowTab(tab):
		return m.renderWorkflow(width - 2)
	case tab == navigation.TabDashboard:
		return m.renderDashboard(width - 2)
	}
	return m.renderPlaceholder(tab)
}

func (m *model) renderDashboard(width int) string {
	card := m.styles.kpiCard.Width(maxInt(width/2, 30)).Align(lipgloss.Center).Render(
		m.styles.kpiLabel.Render("ACTIVE ENGINEERING RUNS") + "\n\n" +
			m.styles.kpiValue.Copy().Foreground(palette.accent).Render(fmt.Sprint(activeRuns)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.panelTitle.Render("Personal Workspace"),
		"",
		card,
	)
}

func (m *model) renderPlaceholder(tab string) string {
	return m.styles.placeholder.Render("CONTEXT__" + strings.ToUpper(tab) + "__UNAVAILABLE")
}

func (m *model) renderStatusBar() string {
	var segs []string
	segs = append(segs, m.styles.badgeOn.Render("● API ACTIVE"))
	segs = append(segs, m.styles.statusSeg.Render("Focus: "+m.focus.String()))
	if navigation.IsWorkflowTab(m.sess.ActiveTab()) && m.sess.Current().HasStep {
		clock := m.sess.ElapsedLabel()
		if m.sess.ClockRunning() {
			clock += " ●"
		}
		segs = append(segs, m.styles.statusSeg.Render("Elapsed "+clock))
		segs = append(segs, m.styles.statusSeg.Render("Logs "+m.logs.FocusValue()))
	}
	if m.driver.Running() {
		segs = append(segs, m.styles.statusSeg.Render(m.spinner.View()+" driver"))
	}
	if m.toastMessage != "" && time.Now().Before(m.toastExpires) {
		segs = append(segs, m.styles.statusSeg.Copy().Foreground(palette.warning).Render(m.toastMessage))
	}
	left := strings.Join(segs, m.styles.statusHint.Render("│"))
	right := m.styles.statusHint.Render("BUILD " + buildVersion + " // " + time.Now().Format("15:04:05"))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return m.styles.statusBar.Render(lipgloss.NewStyle().MaxWidth(m.width - 2).Render(left))
	}
	return m.styles.statusBar.Render(left + strings.Repeat(" ", gap) + right)
}
