package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/session"
	"github.com/bekirdag/vdcdash/internal/views"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

const (
	runName        = "Foo_2025_12_17_14_21_30"
	runTriggeredBy = "JD Dayan, Roni"
	runID          = "507"
	testHeader     = "VAL_DMR_AO_POWER_ON"
	runStarted     = "12/17 14:35:00"
	runFinished    = "12/17 14:55:14"
	runPending     = "--:--:--"
)

func stepKindLabel(kind catalog.StepKind) string {
	switch kind {
	case catalog.KindUnifiedPatch:
		return "Unified Patch"
	case catalog.KindFirmwareBuild:
		return "IFWI Build"
	}
	return "Validation"
}

func panelTitle(p workflow.Panel, kind catalog.StepKind) string {
	switch p {
	case workflow.PanelSettings:
		if kind.IsBuild() {
			return "BUILD SETTINGS"
		}
		return "Test settings"
	case workflow.PanelDeps:
		return "Dependencies"
	case workflow.PanelKnobs:
		return "Knobs"
	case workflow.PanelStraps:
		return "Straps"
	case workflow.PanelLogs:
		return "Logs"
	case workflow.PanelHeatMap:
		return "Test Case Heat Map Matrix"
	case workflow.PanelTestMatrix:
		return "Testlines Execution Matrix"
	case workflow.PanelResolution:
		return "Resolution"
	}
	return string(p)
}

// panelTable maps a paged panel to the session table behind it.
func panelTable(p workflow.Panel) (session.Table, bool) {
	switch p {
	case workflow.PanelDeps:
		return session.TableDeps, true
	case workflow.PanelKnobs:
		return session.TableKnobs, true
	case workflow.PanelStraps:
		return session.TableStraps, true
	case workflow.PanelTestMatrix:
		return session.TableTests, true
	}
	return "", false
}

func (m *model) renderWorkflow(width int) string {
	cur := m.sess.Current()
	if !cur.HasStep {
		return m.styles.placeholder.Render("CONTENT UNAVAILABLE")
	}
	var blocks []string
	blocks = append(blocks, m.renderRunHeader(width))
	if cur.Step.Kind.IsBuild() {
		blocks = append(blocks, m.renderBuildHeader(cur, width))
	} else {
		if cur.Phase == workflow.Done {
			blocks = append(blocks, m.renderDoneSplash(cur, width))
		}
		blocks = append(blocks, m.renderTestHeader(cur, width))
		if cur.Phase == workflow.Review {
			blocks = append(blocks, renderTitledBlock(m.styles, "Review Guidance", false, width, renderMarkdown(reviewGuidanceMarkdown)))
		}
	}
	if kpis := m.sess.KPIs(); len(kpis) > 0 {
		blocks = append(blocks, m.renderKPIs(kpis))
	}
	blocks = append(blocks, m.renderClockCard(cur))

	panels := m.sess.VisiblePanels()
	for i, p := range panels {
		focused := m.focus == focusContent && i == m.panelCursor
		blocks = append(blocks, m.renderPanel(p, cur, width, focused))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *model) renderRunHeader(width int) string {
	left := m.styles.kpiValue.Render(runName) + "  " + m.styles.badgeOn.Render("ACTIVE")
	right := m.styles.kpiLabel.Render("TRIGGERED BY ") + runTriggeredBy + "   " + m.styles.kpiLabel.Render("RUN ID ") + runID
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) renderBuildHeader(cur workflow.Current, width int) string {
	state := string(cur.Build)
	if cur.Build == workflow.BuildRunning {
		state = m.spinner.View() + " " + state
	} else if cur.Outcome.Set() {
		state += " · " + string(cur.Outcome)
	}
	title := m.styles.kpiValue.Render(cur.Step.Name) + "  " + m.styles.hint.Render(stepKindLabel(cur.Step.Kind)) + "  " + state

	ids := m.sess.Identifiers()
	card := func(label, name string) string {
		inner := width/2 - 4
		if inner < 12 {
			inner = 12
		}
		body := m.styles.kpiLabel.Render(label) + "\n" + lipgloss.NewStyle().Width(inner).Render(name)
		return m.styles.kpiCard.Render(body)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top, card(ids.BaselineLabel, ids.BaselineName), card(ids.TargetLabel, ids.TargetName))
	edge := m.styles.hint.Render("edge case: " + cur.Edge.String())
	return lipgloss.JoinVertical(lipgloss.Left, title, cards, edge)
}

func (m *model) renderTestHeader(cur workflow.Current, width int) string {
	nga := "NGA: DISCONNECTED"
	if cur.Phase >= workflow.Submission && cur.Phase < workflow.Done {
		nga = "NGA: ONLINE"
	}
	title := m.styles.kpiValue.Render(testHeader) + "  " + m.styles.hint.Render(nga)

	var action string
	switch cur.Phase {
	case workflow.Review:
		action = m.styles.badgeOn.Render("[s] Submit to NGA")
	case workflow.Result:
		if cur.CanSubmit {
			action = m.styles.badgeOn.Render("[s] Submit Resolution")
		} else {
			action = m.styles.badgeOff.Render("Submit Resolution")
		}
	}
	if action != "" {
		title += "  " + action
	}

	stats := m.sess.Stats()
	pct := 0.0
	label := ""
	switch {
	case cur.Phase >= workflow.Result:
		pct, label = 1, "100% COMPLETED"
	case cur.Phase == workflow.Execution && stats.Total > 0:
		pct = float64(stats.Completed()) / float64(stats.Total)
		label = fmt.Sprintf("%d%% COMPLETE", int(pct*100))
	}
	barWidth := width / 3
	if barWidth < 10 {
		barWidth = 10
	}
	m.progress.Width = barWidth
	progressLine := m.styles.kpiLabel.Render("PROGRESS ") + m.progress.ViewAs(pct)
	if label != "" {
		progressLine += " " + label
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.renderPhaseStepper(cur.Phase), progressLine)
}

func (m *model) renderPhaseStepper(current workflow.TestPhase) string {
	parts := make([]string, 0, len(workflow.Phases))
	for _, p := range workflow.Phases {
		switch {
		case p < current:
			parts = append(parts, m.styles.phaseDone.Render("● "+p.String()))
		case p == current:
			parts = append(parts, m.styles.phaseCurrent.Render("◉ "+p.String()))
		default:
			parts = append(parts, m.styles.phaseTodo.Render("○ "+p.String()))
		}
	}
	return m.styles.kpiLabel.Render("TEST STEP PHASE ") + strings.Join(parts, m.styles.hint.Render(" › "))
}

// phaseHistoryBody is the dropdown listing every phase with its marker.
func (m *model) phaseHistoryBody() string {
	cur := m.sess.Current()
	var b strings.Builder
	b.WriteString(m.styles.overlayTitle.Render("Lifecycle FSM"))
	b.WriteString("  " + m.styles.hint.Render(fmt.Sprintf("%d PHASES", len(workflow.Phases))))
	for _, p := range workflow.Phases {
		b.WriteString("\n")
		var marker string
		switch {
		case cur.Step.Kind != catalog.KindTest:
			marker = m.styles.phaseTodo.Render("○ " + p.String())
		case p < cur.Phase:
			marker = m.styles.phaseDone.Render("✓ " + p.String())
		case p == cur.Phase:
			marker = m.styles.phaseCurrent.Render("◉ "+p.String()) + "  " + m.styles.hint.Render("Active Stage")
		default:
			marker = m.styles.phaseTodo.Render("○ " + p.String())
		}
		if p.RequiresAction() {
			marker += "  " + m.styles.badgeOff.Render("Action Required")
		}
		b.WriteString(marker)
	}
	return b.String()
}

func (m *model) renderDoneSplash(cur workflow.Current, width int) string {
	word := "Passed"
	if cur.Outcome == workflow.OutcomeFailed {
		word = "Failed"
	}
	body := m.styles.kpiValue.Render("Step Successfully "+word) + "\n" +
		"Validation Test cycle finalized and resolution recorded.\n" +
		m.styles.hint.Render("[enter on Resolution] Return to Workflow")
	return renderTitledBlock(m.styles, "", false, width, body)
}

func (m *model) renderKPIs(kpis []views.KPI) string {
	cards := make([]string, 0, len(kpis))
	for _, k := range kpis {
		cards = append(cards, m.styles.kpiCard.Render(m.styles.kpiLabel.Render(k.Label)+"\n"+m.styles.kpiValue.Render(k.Value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *model) renderClockCard(cur workflow.Current) string {
	finished := runPending
	if (cur.Step.Kind.IsBuild() && cur.Build == workflow.BuildDone) || (!cur.Step.Kind.IsBuild() && cur.Phase == workflow.Done) {
		finished = runFinished
	}
	elapsed := m.sess.ElapsedLabel()
	if m.sess.ClockRunning() {
		elapsed = m.spinner.View() + " " + elapsed
	}
	body := m.styles.kpiLabel.Render("EXECUTION TIME") + "\n" + m.styles.kpiValue.Render(elapsed) + "\n" +
		m.styles.kpiLabel.Render("STARTED ") + runStarted + "   " + m.styles.kpiLabel.Render("FINISHED ") + finished
	return m.styles.kpiCard.Render(body)
}

func (m *model) renderPanel(p workflow.Panel, cur workflow.Current, width int, focused bool) string {
	marker := "▾ "
	if m.sess.PanelCollapsed(p) {
		marker = "▸ "
	}
	title := marker + panelTitle(p, cur.Step.Kind)
	if extra := m.panelTitleExtra(p); extra != "" {
		title += "  " + m.styles.hint.Render(extra)
	}
	if m.sess.PanelCollapsed(p) {
		return renderTitledBlock(m.styles, title, focused, width, "")
	}
	inner := width - 4
	var body string
	switch p {
	case workflow.PanelSettings:
		body = m.renderSettings(cur.Step.Kind)
	case workflow.PanelDeps:
		body = m.renderDeps(inner, focused)
	case workflow.PanelKnobs:
		body = m.renderKnobs(inner, focused)
	case workflow.PanelStraps:
		body = m.renderStraps(inner, focused)
	case workflow.PanelLogs:
		m.logs.SetSize(inner, logsPanelHeight)
		body = m.logs.View(m.styles)
	case workflow.PanelHeatMap:
		body = m.renderHeatMap(focused)
	case workflow.PanelTestMatrix:
		body = m.renderTestMatrix(inner, focused)
	case workflow.PanelResolution:
		body = m.renderResolution(cur)
	}
	return renderTitledBlock(m.styles, title, focused, width, body)
}

func (m *model) panelTitleExtra(p workflow.Panel) string {
	switch p {
	case workflow.PanelDeps:
		if m.sess.ShowAllDeps() {
			return "all · [a] modified only"
		}
		return "modified · [a] show all"
	case workflow.PanelKnobs:
		extra := "overridden · [a] show all"
		if m.sess.ShowAllKnobs() {
			extra = "all · [a] overridden only"
		}
		if q := m.sess.KnobSearch(); q != "" {
			extra += " · search: " + q
		}
		return extra
	case workflow.PanelTestMatrix:
		if f := m.sess.MatrixFilter(); f.Active() {
			return "filter: " + f.String() + " · [esc] clear"
		}
	case workflow.PanelLogs:
		return m.logs.FocusValue()
	}
	return ""
}

func (m *model) renderSettings(kind catalog.StepKind) string {
	var pairs [][2]string
	if kind.IsBuild() {
		pairs = [][2]string{{"Silicon", "DMR-AP"}, {"Step", "A0"}}
	} else {
		pairs = [][2]string{
			{"SILICON", "DMR-AP"},
			{"STEP", "A0"},
			{"NGA PROJECT", "DMR_VAL_POWER"},
			{"NGA ENVIRONMENT", "PROD_FARM_01"},
			{"TEST SUITE", "TS_44192_A0"},
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, m.styles.kpiLabel.Render(fmt.Sprintf("%-16s", p[0]))+p[1])
	}
	return strings.Join(lines, "\n")
}

// dataTable builds a non-interactive bubbles table for one page.
func (m *model) dataTable(columns []table.Column, rows []table.Row, cursor int, focused bool) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(palette.border).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle()
	if focused {
		tStyles.Selected = lipgloss.NewStyle().Foreground(palette.text).Background(palette.selection)
	}
	t.SetStyles(tStyles)
	if cursor >= 0 && cursor < len(rows) {
		t.SetCursor(cursor)
	}
	return t.View()
}

// renderPager renders the "Showing X to Y of N" footer with a paginator.
func (m *model) renderPager(info views.PageInfo) string {
	if info.Count == 0 {
		return m.styles.hint.Render("Showing 0 of 0")
	}
	p := paginator.New()
	p.Type = paginator.Arabic
	p.ArabicFormat = "page %d/%d"
	p.PerPage = 1
	p.SetTotalPages(info.TotalPages)
	p.Page = info.Page - 1
	nav := p.View()
	if info.HasPrev() {
		nav = "‹ " + nav
	}
	if info.HasNext() {
		nav += " ›"
	}
	return m.styles.hint.Render(fmt.Sprintf("Showing %d to %d of %d   ", info.From, info.To, info.Count)) + nav
}

func columnWidths(total int, weights ...int) []int {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	avail := total - 2*len(weights)
	if avail < len(weights)*4 {
		avail = len(weights) * 4
	}
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = maxInt(4, avail*w/sum)
	}
	return out
}

func (m *model) renderDeps(width int, focused bool) string {
	rows, info := m.sess.DepsView()
	if info.Count == 0 {
		return m.styles.listMuted.Render("No dependency changes")
	}
	w := columnWidths(width, 3, 2, 3, 2, 2)
	cols := []table.Column{
		{Title: "Dependency", Width: w[0]},
		{Title: "Version", Width: w[1]},
		{Title: "Changed", Width: w[2]},
		{Title: "Released By", Width: w[3]},
		{Title: "WW", Width: w[4]},
	}
	out := make([]table.Row, 0, len(rows))
	for _, d := range rows {
		name := d.ID
		if d.IsModified {
			name = "● " + name
		}
		out = append(out, table.Row{name, d.Version, d.ChangedDeps, d.ReleasedBy, d.ReleasedWW})
	}
	return m.dataTable(cols, out, m.rowCursor[session.TableDeps], focused) + "\n" + m.renderPager(info)
}

func (m *model) renderKnobs(width int, focused bool) string {
	rows, info := m.sess.KnobsView()
	if info.Count == 0 {
		return m.styles.listMuted.Render("No knobs match")
	}
	w := columnWidths(width, 3, 4, 2, 2)
	cols := []table.Column{
		{Title: "Knob", Width: w[0]},
		{Title: "Path", Width: w[1]},
		{Title: "Value", Width: w[2]},
		{Title: "Status", Width: w[3]},
	}
	out := make([]table.Row, 0, len(rows))
	for _, k := range rows {
		name := k.Name
		if k.IsOverridden {
			name = "● " + name
		}
		out = append(out, table.Row{name, k.Path, k.DisplayValue, string(k.Status)})
	}
	return m.dataTable(cols, out, m.rowCursor[session.TableKnobs], focused) + "\n" + m.renderPager(info)
}

func (m *model) renderStraps(width int, focused bool) string {
	rows, info := m.sess.StrapsView()
	if info.Count == 0 {
		return m.styles.listMuted.Render("No strap overrides")
	}
	w := columnWidths(width, 1, 1)
	cols := []table.Column{
		{Title: "Strap", Width: w[0]},
		{Title: "Value", Width: w[1]},
	}
	out := make([]table.Row, 0, len(rows))
	for _, s := range rows {
		out = append(out, table.Row{s.Key, s.Value})
	}
	return m.dataTable(cols, out, m.rowCursor[session.TableStraps], focused) + "\n" + m.renderPager(info)
}

func (m *model) renderHeatMap(focused bool) string {
	mat := m.sess.Matrix()
	if mat.Empty() {
		return m.styles.listMuted.Render("No test lines")
	}
	filter := m.sess.MatrixFilter()
	goalWidth := 0
	for _, g := range mat.Goals {
		goalWidth = maxInt(goalWidth, lipgloss.Width(g))
	}
	hwWidth := maxInt(len(mat.SWs)*2, 7)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", goalWidth+1))
	for _, hw := range mat.HWs {
		b.WriteString(" " + m.styles.kpiLabel.Render(fmt.Sprintf("%-*s", hwWidth, hw)))
	}
	for gi, g := range mat.Goals {
		b.WriteString("\n" + fmt.Sprintf("%-*s ", goalWidth, g))
		for hi, hw := range mat.HWs {
			b.WriteString(" ")
			for si, c := range mat.Row(g, hw) {
				idx := (gi*len(mat.HWs)+hi)*len(mat.SWs) + si
				glyph := "■"
				if filter.Active() && filter == (views.MatrixFilter{Goal: c.Key.Goal, HW: c.Key.HW, SW: c.Key.SW}) {
					glyph = "◆"
				}
				style := lipgloss.NewStyle().Foreground(cellStatusColor(c.Status))
				if focused && idx == m.cellCursor {
					style = style.Copy().Reverse(true)
				}
				b.WriteString(style.Render(glyph) + " ")
			}
			b.WriteString(strings.Repeat(" ", hwWidth-len(mat.SWs)*2))
		}
	}
	legend := []string{}
	for _, st := range []views.CellStatus{views.CellPassed, views.CellFailed, views.CellRunning, views.CellPending, views.CellEmpty} {
		legend = append(legend, lipgloss.NewStyle().Foreground(cellStatusColor(st)).Render("■")+" "+string(st))
	}
	b.WriteString("\n" + m.styles.hint.Render("SW: "+strings.Join(mat.SWs, " ")) + "   " + strings.Join(legend, "  "))
	if focused && m.cellCursor < len(mat.Cells) {
		c := mat.Cells[m.cellCursor]
		b.WriteString("\n" + m.styles.hint.Render(fmt.Sprintf("%s / %s / %s: %s (%d lines) · [enter] filter", c.Key.Goal, c.Key.HW, c.Key.SW, c.Status, c.Count)))
	}
	return b.String()
}

func (m *model) renderTestMatrix(width int, focused bool) string {
	rows, info := m.sess.TestLinesView()
	if info.Count == 0 {
		return m.styles.listMuted.Render("No test lines match the filter")
	}
	w := columnWidths(width, 2, 2, 5, 2, 2, 2)
	cols := []table.Column{
		{Title: "Status", Width: w[0]},
		{Title: "Case ID", Width: w[1]},
		{Title: "Test Name", Width: w[2]},
		{Title: "SUT Allocation", Width: w[3]},
		{Title: "Duration", Width: w[4]},
		{Title: "Selection", Width: w[5]},
	}
	out := make([]table.Row, 0, len(rows))
	for _, l := range rows {
		selection := "Excluded"
		if l.Included {
			selection = "Included"
		}
		out = append(out, table.Row{string(l.Status), l.ID, l.Name, l.Node, l.Duration, selection})
	}
	footer := m.renderPager(info)
	if m.sess.CanEditInclusion() {
		footer += m.styles.hint.Render("   [space] include/exclude")
	}
	return m.dataTable(cols, out, m.rowCursor[session.TableTests], focused) + "\n" + footer
}

func (m *model) renderResolution(cur workflow.Current) string {
	if cur.Phase == workflow.Done {
		return strings.Join([]string{
			m.styles.kpiValue.Render("Final Engineering Resolution: "+string(cur.Outcome)) + "  " + m.styles.badgeOn.Render("OFFICIAL RECORD"),
			m.styles.kpiLabel.Render("JUSTIFICATION"),
			cur.Justification,
			m.styles.kpiLabel.Render("RECORDED BY ") + runTriggeredBy + "   " + m.styles.kpiLabel.Render("TIMESTAMP ") + runFinished,
			m.styles.hint.Render("[enter] Return to Workflow"),
		}, "\n")
	}
	pass := m.styles.badgeOff.Render("[P] Manual Pass")
	fail := m.styles.badgeOff.Render("[F] Manual Fail")
	switch cur.Outcome {
	case workflow.OutcomePassed:
		pass = m.styles.badgeOn.Copy().Reverse(true).Render("[P] Manual Pass")
	case workflow.OutcomeFailed:
		fail = lipgloss.NewStyle().Padding(0, 1).Foreground(palette.danger).Reverse(true).Render("[F] Manual Fail")
	}
	justification := m.justification.View()
	if m.inputMode != inputJustification {
		justification = cur.Justification
		if strings.TrimSpace(justification) == "" {
			justification = m.styles.hint.Render(justificationPlaceholder)
		}
	}
	submit := m.styles.badgeOff.Render("Submit Resolution")
	if cur.CanSubmit {
		submit = m.styles.badgeOn.Render("[s] Submit Resolution")
	}
	return strings.Join([]string{
		m.styles.kpiValue.Render("Resolution Outcome Required"),
		pass + " " + fail,
		m.styles.kpiLabel.Render("Engineering Justification") + m.styles.hint.Render("  [J] edit"),
		justification,
		submit,
	}, "\n")
}

func (m *model) renderStepList(width int) string {
	steps := m.sess.Steps()
	selected := m.sess.Current().Step.ID
	var b strings.Builder
	b.WriteString(m.styles.sidebarTitle.Render(fmt.Sprintf("WORKFLOW STEPS %d", len(steps))))
	for i, s := range steps {
		line := s.Name
		state := m.sess.StepState(s.ID)
		meta := stepKindLabel(s.Kind) + " · " + string(s.Status)
		if state != "" {
			meta += " · " + state
		}
		style := m.styles.listItem
		if s.ID == selected {
			style = m.styles.listSel
		}
		if m.focus == focusSteps && i == m.stepCursor {
			line = "› " + line
		} else {
			line = "  " + line
		}
		b.WriteString("\n" + style.Width(width).Render(line))
		b.WriteString("\n" + m.styles.listMuted.Width(width).Render("  "+meta))
	}
	return b.String()
}
