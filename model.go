package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/navigation"
	"github.com/bekirdag/vdcdash/internal/overlay"
	"github.com/bekirdag/vdcdash/internal/session"
	"github.com/bekirdag/vdcdash/internal/views"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

type focusArea int

const (
	focusRail focusArea = iota
	focusSidebar
	focusSteps
	focusContent
)

func (f focusArea) String() string {
	switch f {
	case focusRail:
		return "Rail"
	case focusSidebar:
		return "Sidebar"
	case focusSteps:
		return "Steps"
	}
	return "Content"
}

type inputMode int

const (
	inputNone inputMode = iota
	inputProjectSearch
	inputKnobSearch
	inputJustification
)

const (
	overlayHistory  = "history"
	overlayHelp     = "help"
	overlayGuidance = "guidance"

	justificationPlaceholder = "Detail why this test outcome is being manually set..."
)

// railEntries are the tier-1 rows below the contexts.
var railEntries = []string{"Help", "Theme"}

type clockTickMsg struct {
	gen uint64
}

func clockTick(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockTickMsg{gen: gen}
	})
}

type modelOptions struct {
	Logger    *zap.Logger
	Telemetry *telemetryLogger
	Driver    *scriptDriver
	Theme     markdownTheme
	Copy      func(string) error
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap
	help   help.Model

	sess      *session.Session
	log       *zap.Logger
	telemetry *telemetryLogger
	demo      workflow.Driver
	driver    *scriptDriver
	ctx       context.Context
	cancel    context.CancelFunc

	markdownTheme markdownTheme

	focus         focusArea
	railCursor    int
	sidebarCursor int
	stepCursor    int
	panelCursor   int
	cellCursor    int
	rowCursor     map[session.Table]int

	inputMode     inputMode
	projectSearch textinput.Model
	knobSearch    textinput.Model
	justification textinput.Model
	projectQuery  string

	content    viewport.Model
	contentKey string
	spinner    spinner.Model
	progress   progress.Model
	logs       *logsPanel
	picker     *projectPicker

	overlays    *overlay.Registry
	overlayBody map[string]string

	copy         func(string) error
	toastMessage string
	toastExpires time.Time
	quitting     bool
}

// initialModel wires a model around cat. The session's change hook feeds
// the logs panel and the journal, so it is created here rather than by
// the caller.
func initialModel(cat *catalog.Catalog, sessOpts session.Options, opts modelOptions) *model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(palette.accent)

	projectSearch := textinput.New()
	projectSearch.Placeholder = "Find project..."
	projectSearch.Prompt = "⌕ "
	projectSearch.CharLimit = 64

	knobSearch := textinput.New()
	knobSearch.Placeholder = "Search knobs by name, path or value"
	knobSearch.Prompt = "/ "
	knobSearch.CharLimit = 128

	justification := textinput.New()
	justification.Placeholder = justificationPlaceholder
	justification.Prompt = "› "
	justification.CharLimit = 512

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &model{
		styles:        newStyles(),
		keys:          newKeyMap(),
		help:          help.New(),
		log:           log,
		telemetry:     opts.Telemetry,
		demo:          workflow.NewDemoDriver(),
		driver:        opts.Driver,
		ctx:           ctx,
		cancel:        cancel,
		markdownTheme: opts.Theme,
		focus:         focusContent,
		rowCursor:     make(map[session.Table]int, len(session.Tables)),
		projectSearch: projectSearch,
		knobSearch:    knobSearch,
		justification: justification,
		content:       viewport.New(80, 20),
		spinner:       sp,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		logs:          newLogsPanel(),
		overlays:      overlay.NewRegistry(),
		overlayBody:   make(map[string]string),
		copy:          copyFn,
	}
	if m.markdownTheme == "" {
		m.markdownTheme = currentMarkdownTheme()
	}

	sessOpts.Logger = log
	sessOpts.Notify = m.onChange
	m.sess = session.New(cat, sessOpts)
	m.picker = newProjectPicker(m.styles)
	m.picker.SetProjects(m.browserProjects())
	if _, ok := m.sess.ActiveProject(); !ok && m.sess.Navigation().ActiveContext == navigation.Project {
		m.focus = focusSidebar
	}
	m.refreshContent()
	return m
}

func (m *model) onChange(change session.Change) {
	m.logs.AppendChange(change)
	if m.telemetry != nil {
		m.telemetry.EmitChange(change, m.sess.Snapshot())
	}
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if cmd := m.syncClock(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.driver.Start(m.ctx); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// syncClock re-evaluates the clock gate after every update and arms a
// tick when the gate has just opened.
func (m *model) syncClock() tea.Cmd {
	gen, arm := m.sess.SyncClock()
	if !arm {
		return nil
	}
	return clockTick(gen)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		cmds = append(cmds, cmd)

	case clockTickMsg:
		if m.sess.ClockTick(msg.gen) {
			cmds = append(cmds, clockTick(msg.gen))
		}

	case receivedDriverMsg:
		cmds = append(cmds, m.handleDriverMessage(msg.msg), msg.next())

	case driverChannelClosedMsg:
		m.log.Debug("driver channel closed")

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			cmds = append(cmds, m.handleInputKey(msg))
		} else {
			cmds = append(cmds, m.handleKey(msg))
		}
	}

	if m.quitting {
		return m, tea.Quit
	}
	cmds = append(cmds, m.syncClock())
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

func (m *model) shutdown() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.overlays.Close()
	m.driver.Close()
	m.cancel()
}

func (m *model) handleDriverMessage(msg driverMsg) tea.Cmd {
	switch msg := msg.(type) {
	case driverStartedMsg:
		m.logs.Append("[driver] started: " + msg.Command)
		m.log.Info("script driver started", zap.String("command", msg.Command))
	case driverEventMsg:
		if !m.sess.ApplyEvent(msg.Event) {
			m.logs.Append("[driver] ignored: " + msg.Event.String())
		}
	case driverLogMsg:
		m.logs.Append("[driver] " + msg.Line)
	case driverFinishedMsg:
		if msg.Err != nil {
			m.logs.Append(fmt.Sprintf("[driver] finished: %v", msg.Err))
			m.log.Warn("script driver finished", zap.Error(msg.Err))
			m.setToast("Driver stopped: "+msg.Err.Error(), 6*time.Second)
		} else {
			m.logs.Append("[driver] finished")
			m.log.Info("script driver finished")
		}
	}
	return nil
}

// focusOrder lists the areas tab cycles through for the current screen.
func (m *model) focusOrder() []focusArea {
	order := []focusArea{focusRail}
	nav := m.sess.Navigation()
	if nav.SidebarExpanded {
		order = append(order, focusSidebar)
	}
	if m.showStepList() {
		order = append(order, focusSteps)
	}
	return append(order, focusContent)
}

func (m *model) showStepList() bool {
	return navigation.IsWorkflowTab(m.sess.ActiveTab()) && !m.sess.WorkflowSidebarCollapsed()
}

func (m *model) cycleFocus(delta int) {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	m.focus = order[idx]
}

// ensureFocusVisible moves focus off an area that is no longer drawn.
func (m *model) ensureFocusVisible() {
	for _, f := range m.focusOrder() {
		if f == m.focus {
			return
		}
	}
	m.focus = focusContent
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.shutdown()
		return nil
	case key.Matches(msg, m.keys.back):
		if dismissed := m.overlays.DismissAll(); len(dismissed) > 0 {
			return nil
		}
		if m.sess.MatrixFilter().Active() {
			m.sess.ClearMatrixFilter()
		}
		return nil
	case key.Matches(msg, m.keys.nextFocus):
		m.cycleFocus(1)
		return nil
	case key.Matches(msg, m.keys.prevFocus):
		m.cycleFocus(-1)
		return nil
	case key.Matches(msg, m.keys.ctxGlobal):
		m.switchContext(navigation.Global)
		return nil
	case key.Matches(msg, m.keys.ctxPersonal):
		m.switchContext(navigation.Personal)
		return nil
	case key.Matches(msg, m.keys.ctxProject):
		m.switchContext(navigation.Project)
		return nil
	case key.Matches(msg, m.keys.toggleSidebar):
		m.sess.ToggleSidebar()
		m.ensureFocusVisible()
		m.applyLayout()
		return nil
	case key.Matches(msg, m.keys.toggleSteps):
		m.sess.ToggleWorkflowSidebar()
		m.ensureFocusVisible()
		m.applyLayout()
		return nil
	case key.Matches(msg, m.keys.switchProject):
		if m.sess.DeselectProject() {
			m.sidebarCursor = 0
			m.focus = focusSidebar
			m.applyLayout()
		}
		return nil
	case key.Matches(msg, m.keys.helpMenu):
		m.toggleOverlay(overlayHelp)
		return nil
	case key.Matches(msg, m.keys.toggleTheme):
		m.toggleMarkdownTheme()
		return nil
	}

	switch m.focus {
	case focusRail:
		if cmd, handled := m.handleRailKey(msg); handled {
			return cmd
		}
	case focusSidebar:
		if cmd, handled := m.handleSidebarKey(msg); handled {
			return cmd
		}
	case focusSteps:
		if cmd, handled := m.handleStepsKey(msg); handled {
			return cmd
		}
	case focusContent:
		if cmd, handled := m.handleContentKey(msg); handled {
			return cmd
		}
	}

	if navigation.IsWorkflowTab(m.sess.ActiveTab()) {
		return m.handleWorkflowKey(msg)
	}
	return nil
}

func (m *model) switchContext(ctx navigation.Context) {
	m.sess.SwitchContext(ctx)
	m.sidebarCursor = 0
	for i, c := range navigation.Contexts {
		if c == ctx {
			m.railCursor = i
		}
	}
	m.ensureFocusVisible()
	m.applyLayout()
}

func (m *model) handleRailKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	total := len(navigation.Contexts) + len(railEntries)
	switch {
	case key.Matches(msg, m.keys.up):
		m.railCursor = (m.railCursor - 1 + total) % total
	case key.Matches(msg, m.keys.down):
		m.railCursor = (m.railCursor + 1) % total
	case key.Matches(msg, m.keys.activate):
		if m.railCursor < len(navigation.Contexts) {
			m.switchContext(navigation.Contexts[m.railCursor])
			return nil, true
		}
		switch railEntries[m.railCursor-len(navigation.Contexts)] {
		case "Help":
			m.toggleOverlay(overlayHelp)
		case "Theme":
			m.toggleMarkdownTheme()
		}
	default:
		return nil, false
	}
	return nil, true
}

// browsing reports whether the sidebar shows the project picker.
func (m *model) browsing() bool {
	nav := m.sess.Navigation()
	return nav.ActiveContext == navigation.Project && nav.ActiveProjectID == ""
}

func (m *model) browserProjects() []catalog.Project {
	return navigation.FilterProjects(m.sess.Catalog().Projects(), m.projectQuery)
}

func (m *model) handleSidebarKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.browsing() {
		switch {
		case key.Matches(msg, m.keys.search):
			m.inputMode = inputProjectSearch
			m.projectSearch.SetValue(m.projectQuery)
			return m.projectSearch.Focus(), true
		case key.Matches(msg, m.keys.up):
			m.picker.Move(-1)
		case key.Matches(msg, m.keys.down):
			m.picker.Move(1)
		case key.Matches(msg, m.keys.activate):
			if p, ok := m.picker.Selected(); ok && m.sess.SelectProject(p.ID) {
				m.sidebarCursor = 0
				m.applyLayout()
			}
		default:
			return nil, false
		}
		return nil, true
	}

	nav := m.sess.Navigation()
	items := navigation.Items(nav.ActiveContext, nav.ActiveProjectID != "")
	switch {
	case key.Matches(msg, m.keys.up):
		m.sidebarCursor = clampIndex(m.sidebarCursor-1, len(items))
	case key.Matches(msg, m.keys.down):
		m.sidebarCursor = clampIndex(m.sidebarCursor+1, len(items))
	case key.Matches(msg, m.keys.activate):
		if m.sidebarCursor < len(items) {
			m.sess.ChangeTab(items[m.sidebarCursor])
			m.ensureFocusVisible()
			m.applyLayout()
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *model) handleStepsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	steps := m.sess.Steps()
	switch {
	case key.Matches(msg, m.keys.up):
		m.stepCursor = clampIndex(m.stepCursor-1, len(steps))
	case key.Matches(msg, m.keys.down):
		m.stepCursor = clampIndex(m.stepCursor+1, len(steps))
	case key.Matches(msg, m.keys.activate):
		if m.stepCursor < len(steps) && m.sess.SelectStep(steps[m.stepCursor].ID) {
			m.panelCursor = 0
			m.cellCursor = 0
			m.resetRowCursors()
			m.overlays.DismissAll()
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *model) resetRowCursors() {
	for _, t := range session.Tables {
		m.rowCursor[t] = 0
	}
}

func (m *model) focusedPanel() (workflow.Panel, bool) {
	panels := m.sess.VisiblePanels()
	if len(panels) == 0 {
		return "", false
	}
	m.panelCursor = clampIndex(m.panelCursor, len(panels))
	return panels[m.panelCursor], true
}

func (m *model) handleContentKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !navigation.IsWorkflowTab(m.sess.ActiveTab()) {
		return m.scrollContentKey(msg)
	}
	panel, ok := m.focusedPanel()
	if !ok {
		return m.scrollContentKey(msg)
	}
	collapsed := m.sess.PanelCollapsed(panel)

	if table, paged := panelTable(panel); paged && !collapsed {
		switch {
		case key.Matches(msg, m.keys.up):
			m.moveRow(table, -1)
			return nil, true
		case key.Matches(msg, m.keys.down):
			m.moveRow(table, 1)
			return nil, true
		case key.Matches(msg, m.keys.prevPage):
			if m.sess.PrevPage(table) {
				m.rowCursor[table] = 0
			}
			return nil, true
		case key.Matches(msg, m.keys.nextPage):
			if m.sess.NextPage(table) {
				m.rowCursor[table] = 0
			}
			return nil, true
		}
	}

	switch panel {
	case workflow.PanelHeatMap:
		if !collapsed {
			return m.handleHeatMapKey(msg)
		}
	case workflow.PanelLogs:
		if !collapsed {
			switch {
			case key.Matches(msg, m.keys.up):
				m.logs.Scroll(-1)
				return nil, true
			case key.Matches(msg, m.keys.down):
				m.logs.Scroll(1)
				return nil, true
			}
		}
	case workflow.PanelResolution:
		cur := m.sess.Current()
		if key.Matches(msg, m.keys.activate) && cur.Phase == workflow.Done {
			m.sess.ChangeTab(navigation.TabWorkflows)
			return nil, true
		}
	}
	return m.scrollContentKey(msg)
}

func (m *model) scrollContentKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.content.LineUp(1)
	case key.Matches(msg, m.keys.down):
		m.content.LineDown(1)
	case msg.String() == "pgup":
		m.content.HalfViewUp()
	case msg.String() == "pgdown":
		m.content.HalfViewDown()
	default:
		return nil, false
	}
	m.sess.RecordScroll(m.content.YOffset)
	return nil, true
}

func (m *model) moveRow(table session.Table, delta int) {
	var count int
	switch table {
	case session.TableDeps:
		rows, _ := m.sess.DepsView()
		count = len(rows)
	case session.TableKnobs:
		rows, _ := m.sess.KnobsView()
		count = len(rows)
	case session.TableStraps:
		rows, _ := m.sess.StrapsView()
		count = len(rows)
	case session.TableTests:
		rows, _ := m.sess.TestLinesView()
		count = len(rows)
	}
	m.rowCursor[table] = clampIndex(m.rowCursor[table]+delta, count)
}

func (m *model) handleHeatMapKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	mat := m.sess.Matrix()
	if mat.Empty() {
		return nil, false
	}
	rowLen := len(mat.HWs) * len(mat.SWs)
	switch {
	case key.Matches(msg, m.keys.prevPage):
		m.cellCursor = clampIndex(m.cellCursor-1, len(mat.Cells))
	case key.Matches(msg, m.keys.nextPage):
		m.cellCursor = clampIndex(m.cellCursor+1, len(mat.Cells))
	case key.Matches(msg, m.keys.up):
		if m.cellCursor-rowLen >= 0 {
			m.cellCursor -= rowLen
		}
	case key.Matches(msg, m.keys.down):
		if m.cellCursor+rowLen < len(mat.Cells) {
			m.cellCursor += rowLen
		}
	case key.Matches(msg, m.keys.activate):
		m.cellCursor = clampIndex(m.cellCursor, len(mat.Cells))
		m.sess.SelectMatrixCell(mat.Cells[m.cellCursor].Key)
		m.rowCursor[session.TableTests] = 0
	default:
		return nil, false
	}
	return nil, true
}

// handleWorkflowKey covers the run commands available from any area of
// a workflow tab.
func (m *model) handleWorkflowKey(msg tea.KeyMsg) tea.Cmd {
	if ev, ok := m.demo.Translate(msg.String()); ok {
		m.sess.ApplyEvent(ev)
		m.log.Debug("driver event", zap.String("driver", m.demo.Name()), zap.Stringer("event", ev))
		m.afterRunChange()
		return nil
	}
	cur := m.sess.Current()
	panel, hasPanel := m.focusedPanel()

	switch {
	case key.Matches(msg, m.keys.nextPanel):
		if n := len(m.sess.VisiblePanels()); n > 0 {
			m.panelCursor = (m.panelCursor + 1) % n
			m.focus = focusContent
		}
	case key.Matches(msg, m.keys.prevPanel):
		if n := len(m.sess.VisiblePanels()); n > 0 {
			m.panelCursor = (m.panelCursor - 1 + n) % n
			m.focus = focusContent
		}
	case key.Matches(msg, m.keys.togglePanel):
		if hasPanel {
			m.sess.TogglePanel(panel)
		}
	case key.Matches(msg, m.keys.collapseAll):
		m.sess.CollapseAll()
	case key.Matches(msg, m.keys.expandAll):
		m.sess.ExpandAll()
	case key.Matches(msg, m.keys.showAll):
		switch panel {
		case workflow.PanelDeps:
			m.sess.ToggleShowAllDeps()
			m.rowCursor[session.TableDeps] = 0
		case workflow.PanelKnobs:
			m.sess.ToggleShowAllKnobs()
			m.rowCursor[session.TableKnobs] = 0
		}
	case key.Matches(msg, m.keys.search):
		if hasPanel && panel == workflow.PanelKnobs {
			m.inputMode = inputKnobSearch
			m.knobSearch.SetValue(m.sess.KnobSearch())
			return m.knobSearch.Focus()
		}
	case key.Matches(msg, m.keys.toggleInclude):
		if hasPanel && panel == workflow.PanelTestMatrix {
			m.toggleInclusionAtCursor()
		}
	case key.Matches(msg, m.keys.copyValue):
		return m.copyAtCursor(panel)
	case key.Matches(msg, m.keys.markPass):
		m.setOutcome(workflow.OutcomePassed)
	case key.Matches(msg, m.keys.markFail):
		m.setOutcome(workflow.OutcomeFailed)
	case key.Matches(msg, m.keys.justify):
		if cur.Step.Kind == catalog.KindTest && cur.Phase == workflow.Result {
			m.inputMode = inputJustification
			m.justification.SetValue(cur.Justification)
			m.justification.CursorEnd()
			return m.justification.Focus()
		}
		m.setToast("Justification is recorded in RESULT", 3*time.Second)
	case key.Matches(msg, m.keys.submit):
		m.submit(cur)
	case key.Matches(msg, m.keys.phaseHistory):
		m.toggleOverlay(overlayHistory)
	case key.Matches(msg, m.keys.guidance):
		m.toggleOverlay(overlayGuidance)
	}
	return nil
}

// afterRunChange applies the view side of a phase or state change.
func (m *model) afterRunChange() {
	m.panelCursor = 0
	m.resetRowCursors()
	m.refreshOverlays()
}

func (m *model) setOutcome(o workflow.Outcome) {
	cur := m.sess.Current()
	if cur.Step.Kind != catalog.KindTest || cur.Phase != workflow.Result {
		m.setToast("Resolution outcome is set in RESULT", 3*time.Second)
		return
	}
	m.sess.SetOutcome(o)
}

func (m *model) submit(cur workflow.Current) {
	if cur.Step.Kind != catalog.KindTest {
		return
	}
	switch cur.Phase {
	case workflow.Review:
		if m.sess.SubmitToNGA() {
			m.afterRunChange()
			m.setToast("Submitted to NGA", 3*time.Second)
		}
	case workflow.Result:
		if !m.sess.SubmitResolution() {
			m.setToast("Choose an outcome and write a justification first", 4*time.Second)
			return
		}
		m.afterRunChange()
		m.setToast("Resolution recorded", 3*time.Second)
	}
}

func (m *model) toggleInclusionAtCursor() {
	if !m.sess.CanEditInclusion() {
		m.setToast("Inclusion can only be edited in REVIEW", 3*time.Second)
		return
	}
	rows, _ := m.sess.TestLinesView()
	idx := m.rowCursor[session.TableTests]
	if idx < 0 || idx >= len(rows) {
		return
	}
	m.sess.ToggleTestInclusion(rows[idx].ID)
}

func (m *model) copyAtCursor(panel workflow.Panel) tea.Cmd {
	var value string
	switch panel {
	case workflow.PanelTestMatrix:
		rows, _ := m.sess.TestLinesView()
		if i := m.rowCursor[session.TableTests]; i < len(rows) {
			value = rows[i].ID
		}
	case workflow.PanelKnobs:
		rows, _ := m.sess.KnobsView()
		if i := m.rowCursor[session.TableKnobs]; i < len(rows) {
			value = rows[i].Path
		}
	case workflow.PanelDeps:
		rows, _ := m.sess.DepsView()
		if i := m.rowCursor[session.TableDeps]; i < len(rows) {
			value = rows[i].ID
		}
	}
	if value == "" {
		return nil
	}
	if err := m.copy(value); err != nil {
		m.log.Warn("clipboard copy failed", zap.Error(err))
		m.setToast("Copy failed: "+err.Error(), 4*time.Second)
		return nil
	}
	m.setToast("Copied "+value, 3*time.Second)
	return nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.closeInput()
		return nil
	case "ctrl+c":
		m.shutdown()
		return nil
	}
	var cmd tea.Cmd
	switch m.inputMode {
	case inputProjectSearch:
		m.projectSearch, cmd = m.projectSearch.Update(msg)
		if m.projectSearch.Value() != m.projectQuery {
			m.projectQuery = m.projectSearch.Value()
			m.picker.SetProjects(m.browserProjects())
		}
	case inputKnobSearch:
		m.knobSearch, cmd = m.knobSearch.Update(msg)
		m.sess.SetKnobSearch(m.knobSearch.Value())
		m.rowCursor[session.TableKnobs] = 0
	case inputJustification:
		m.justification, cmd = m.justification.Update(msg)
		m.sess.SetJustification(m.justification.Value())
	}
	return cmd
}

func (m *model) closeInput() {
	m.projectSearch.Blur()
	m.knobSearch.Blur()
	m.justification.Blur()
	m.inputMode = inputNone
}

func (m *model) toggleOverlay(name string) {
	if m.overlays.Active(name) {
		m.overlays.Release(name)
		delete(m.overlayBody, name)
		return
	}
	body := m.renderOverlayBody(name)
	if body == "" {
		return
	}
	box := m.styles.overlay.Render(body)
	m.overlayBody[name] = box
	m.overlays.Claim(name, m.overlayRect(box), func() {
		delete(m.overlayBody, name)
	})
}

func (m *model) renderOverlayBody(name string) string {
	switch name {
	case overlayHistory:
		if !navigation.IsWorkflowTab(m.sess.ActiveTab()) || !m.sess.Current().HasStep {
			return ""
		}
		return m.phaseHistoryBody()
	case overlayGuidance:
		cur := m.sess.Current()
		if cur.Step.Kind != catalog.KindTest || !navigation.IsWorkflowTab(m.sess.ActiveTab()) {
			return ""
		}
		return renderMarkdown(guidanceMarkdown(cur.Phase))
	case overlayHelp:
		return renderMarkdown(helpMarkdown(m.keys.helpLines()))
	}
	return ""
}

// refreshOverlays re-renders open overlays whose text follows the run.
func (m *model) refreshOverlays() {
	for _, name := range []string{overlayHistory, overlayGuidance} {
		if !m.overlays.Active(name) {
			continue
		}
		body := m.renderOverlayBody(name)
		if body == "" {
			m.overlays.Release(name)
			delete(m.overlayBody, name)
			continue
		}
		box := m.styles.overlay.Render(body)
		m.overlayBody[name] = box
		m.overlays.Move(name, m.overlayRect(box))
	}
}

// overlayRect anchors overlays at the top left of the content column,
// stacked in claim order.
func (m *model) overlayRect(box string) overlay.Rect {
	x, y := m.contentOrigin()
	for _, name := range []string{overlayHistory, overlayGuidance, overlayHelp} {
		if other, ok := m.overlayBody[name]; ok && other != box {
			y += lipgloss.Height(other)
		}
	}
	return overlay.Rect{X: x, Y: y, W: lipgloss.Width(box), H: lipgloss.Height(box)}
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.content.LineUp(3)
		m.sess.RecordScroll(m.content.YOffset)
	case tea.MouseWheelDown:
		m.content.LineDown(3)
		m.sess.RecordScroll(m.content.YOffset)
	case tea.MouseLeft:
		if dismissed := m.overlays.PointerDown(msg.X, msg.Y); len(dismissed) > 0 {
			m.log.Debug("overlays dismissed", zap.Strings("names", dismissed))
		}
		if msg.X < railWidth {
			row := msg.Y - railFirstRow
			if row >= 0 && row < len(navigation.Contexts) {
				m.switchContext(navigation.Contexts[row])
			}
		}
	}
	return nil
}

func (m *model) applyMarkdownTheme(theme markdownTheme, announce bool) {
	if theme == "" {
		theme = markdownThemeAuto
	}
	m.markdownTheme = theme
	setMarkdownTheme(theme)
	for name := range m.overlayBody {
		m.overlays.Release(name)
		delete(m.overlayBody, name)
	}
	if announce {
		m.setToast("Markdown theme: "+theme.Label(), 3*time.Second)
	}
}

func (m *model) toggleMarkdownTheme() {
	m.applyMarkdownTheme(m.markdownTheme.Next(), true)
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

// refreshContent renders the active tab into the content viewport and
// restores the remembered scroll offset when the tab key changed.
func (m *model) refreshContent() {
	m.content.SetContent(m.renderContent(m.content.Width))
	nav := m.sess.Navigation()
	key := nav.Key() + "/" + nav.ActiveTab()
	if key != m.contentKey {
		m.contentKey = key
		m.content.SetYOffset(nav.ScrollOffset())
	}
}

// moreBelow reports whether the "more data below" hint shows.
func (m *model) moreBelow() bool {
	return views.MoreBelow(m.content.YOffset, m.content.TotalLineCount(), m.content.Height)
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
