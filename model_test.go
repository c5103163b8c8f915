package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/navigation"
	"github.com/bekirdag/vdcdash/internal/session"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

type testClipboard struct {
	values []string
	err    error
}

func (c *testClipboard) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.values = append(c.values, s)
	return nil
}

func newTestModel(t *testing.T, opts modelOptions) *model {
	t.Helper()
	cat, err := catalog.MockSource{Seed: 1}.Load(context.Background())
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Copy == nil {
		opts.Copy = (&testClipboard{}).write
	}
	m := initialModel(cat, session.DefaultOptions(), opts)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	t.Cleanup(func() { setMarkdownTheme(markdownThemeAuto) })
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *model, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

func typeText(m *model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func focusPanel(t *testing.T, m *model, p workflow.Panel) {
	t.Helper()
	for i, v := range m.sess.VisiblePanels() {
		if v == p {
			m.focus = focusContent
			m.panelCursor = i
			return
		}
	}
	t.Fatalf("panel %s not visible", p)
}

func TestInitialModelOpensStartProjectWorkflow(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	assert.Equal(t, navigation.TabQuickBuilds, m.sess.ActiveTab())
	cur := m.sess.Current()
	require.True(t, cur.HasStep)
	assert.Equal(t, "step6", cur.Step.ID)
	assert.Equal(t, workflow.Discovery, cur.Phase)
	assert.Equal(t, focusContent, m.focus)
	assert.True(t, m.sess.ClockRunning())

	view := m.View()
	assert.Contains(t, view, "ARROW LAKE-H")
	assert.Contains(t, view, "API ACTIVE")
	assert.Contains(t, view, "WORKFLOW STEPS 7")
}

func TestFocusCyclesThroughVisibleAreas(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "tab")
	assert.Equal(t, focusRail, m.focus)
	press(m, "tab")
	assert.Equal(t, focusSidebar, m.focus)
	press(m, "tab")
	assert.Equal(t, focusSteps, m.focus)
	press(m, "tab")
	assert.Equal(t, focusContent, m.focus)

	press(m, "ctrl+b")
	assert.False(t, m.sess.Navigation().SidebarExpanded)
	press(m, "shift+tab", "shift+tab")
	assert.Equal(t, focusRail, m.focus, "hidden sidebar is skipped")
}

func TestContextKeysRestoreRememberedTabs(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "1")
	assert.Equal(t, navigation.Global, m.sess.Navigation().ActiveContext)
	assert.Equal(t, "Project Explorer", m.sess.ActiveTab())
	assert.False(t, m.sess.ClockRunning())
	assert.Contains(t, m.View(), "CONTEXT__PROJECT EXPLORER__UNAVAILABLE")

	press(m, "2")
	assert.Equal(t, navigation.TabDashboard, m.sess.ActiveTab())
	assert.Contains(t, m.View(), "ACTIVE ENGINEERING RUNS")

	press(m, "3")
	assert.Equal(t, navigation.TabQuickBuilds, m.sess.ActiveTab())
	assert.True(t, m.sess.ClockRunning())
}

func TestSidebarActivatesTab(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	m.focus = focusSidebar

	press(m, "enter")
	assert.Equal(t, navigation.TabDashboard, m.sess.ActiveTab())
	assert.Equal(t, focusSidebar, m.focus)

	press(m, "down", "enter")
	assert.Equal(t, "Ingredients", m.sess.ActiveTab())
	assert.Contains(t, m.View(), "CONTEXT__INGREDIENTS__UNAVAILABLE")
}

func TestProjectBrowserSearchAndSelect(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "backspace")
	require.True(t, m.browsing())
	assert.Equal(t, focusSidebar, m.focus)
	assert.Equal(t, 4, m.picker.Len())

	press(m, "/")
	require.Equal(t, inputProjectSearch, m.inputMode)
	typeText(m, "lunar")
	assert.Equal(t, 1, m.picker.Len())
	press(m, "enter")
	assert.Equal(t, inputNone, m.inputMode)

	press(m, "enter")
	p, ok := m.sess.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, "p2", p.ID)
	assert.Equal(t, navigation.TabDashboard, m.sess.ActiveTab())
}

func TestProjectBrowserShowsEmptyResult(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "backspace", "/")
	typeText(m, "zzz")
	press(m, "enter")

	assert.Equal(t, 0, m.picker.Len())
	assert.Contains(t, m.View(), "No projects found.")
	press(m, "enter")
	assert.True(t, m.browsing())
}

func TestStepListSelectsStep(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	m.panelCursor = 2

	press(m, "shift+tab")
	require.Equal(t, focusSteps, m.focus)
	press(m, "down", "enter")

	cur := m.sess.Current()
	assert.Equal(t, "step1", cur.Step.ID)
	assert.Equal(t, workflow.BuildRunning, cur.Build)
	assert.Equal(t, 0, m.panelCursor)
}

func TestDemoKeysCyclePhaseAndLog(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "p")
	assert.Equal(t, workflow.Review, m.sess.Current().Phase)
	lines := m.logs.Lines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "[session] cycle-phase REVIEW")

	press(m, "e")
	assert.Equal(t, workflow.EdgeLongBaseline, m.sess.Current().Edge)
}

func TestResolutionFlow(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "p", "p", "p", "p")
	require.Equal(t, workflow.Result, m.sess.Current().Phase)

	press(m, "P")
	assert.Equal(t, workflow.OutcomePassed, m.sess.Current().Outcome)

	press(m, "s")
	assert.Equal(t, workflow.Result, m.sess.Current().Phase, "justification is still empty")
	assert.NotEmpty(t, m.toastMessage)

	press(m, "J")
	require.Equal(t, inputJustification, m.inputMode)
	typeText(m, "bench verified")
	press(m, "enter")
	assert.Equal(t, inputNone, m.inputMode)
	assert.Equal(t, "bench verified", m.sess.Current().Justification)
	assert.True(t, m.sess.Current().CanSubmit)

	press(m, "s")
	cur := m.sess.Current()
	assert.Equal(t, workflow.Done, cur.Phase)
	assert.Equal(t, workflow.OutcomePassed, cur.Outcome)
	assert.Equal(t, "bench verified", cur.Justification)
	assert.False(t, m.sess.ClockRunning())

	focusPanel(t, m, workflow.PanelResolution)
	press(m, "enter")
	assert.Equal(t, navigation.TabWorkflows, m.sess.ActiveTab())
}

func TestOutcomeKeysOutsideResultAreRejected(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "F")
	assert.Equal(t, workflow.OutcomeNone, m.sess.Current().Outcome)
	assert.Equal(t, "Resolution outcome is set in RESULT", m.toastMessage)

	press(m, "J")
	assert.Equal(t, inputNone, m.inputMode)
}

func TestSubmitToNGAFromReview(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "p", "s")
	assert.Equal(t, workflow.Submission, m.sess.Current().Phase)
	assert.Equal(t, "Submitted to NGA", m.toastMessage)
}

func TestInclusionToggleOnlyInReview(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "p")
	focusPanel(t, m, workflow.PanelTestMatrix)

	rows, _ := m.sess.TestLinesView()
	require.NotEmpty(t, rows)
	before := rows[0].Included
	press(m, " ")
	assert.Equal(t, !before, m.sess.TestLines()[0].Included)

	press(m, "p")
	focusPanel(t, m, workflow.PanelTestMatrix)
	press(m, " ")
	assert.Equal(t, !before, m.sess.TestLines()[0].Included)
	assert.Equal(t, "Inclusion can only be edited in REVIEW", m.toastMessage)
}

func TestTestMatrixPaging(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "p")
	focusPanel(t, m, workflow.PanelTestMatrix)

	press(m, "down", "down")
	assert.Equal(t, 2, m.rowCursor[session.TableTests])
	press(m, "right")
	assert.Equal(t, 2, m.sess.Page(session.TableTests))
	assert.Equal(t, 0, m.rowCursor[session.TableTests])
	press(m, "left", "left")
	assert.Equal(t, 1, m.sess.Page(session.TableTests))
}

func TestHeatMapCellFilter(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "p", "p", "p")
	require.Equal(t, workflow.Execution, m.sess.Current().Phase)
	focusPanel(t, m, workflow.PanelHeatMap)

	press(m, "enter")
	require.True(t, m.sess.MatrixFilter().Active())
	first := m.sess.Matrix().Cells[0].Key
	assert.Equal(t, first.Goal, m.sess.MatrixFilter().Goal)

	press(m, "esc")
	assert.False(t, m.sess.MatrixFilter().Active())
}

func TestCopyHighlightedTestLine(t *testing.T) {
	clip := &testClipboard{}
	m := newTestModel(t, modelOptions{Copy: clip.write})
	press(m, "p")
	focusPanel(t, m, workflow.PanelTestMatrix)

	rows, _ := m.sess.TestLinesView()
	press(m, "y")
	require.Len(t, clip.values, 1)
	assert.Equal(t, rows[0].ID, clip.values[0])
	assert.Equal(t, "Copied "+rows[0].ID, m.toastMessage)
}

func TestCopyFailureShowsToast(t *testing.T) {
	clip := &testClipboard{err: errors.New("no display")}
	m := newTestModel(t, modelOptions{Copy: clip.write})
	press(m, "p")
	focusPanel(t, m, workflow.PanelTestMatrix)

	press(m, "y")
	assert.Equal(t, "Copy failed: no display", m.toastMessage)
}

func TestKnobSearchInput(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	require.True(t, m.sess.SelectStep("step1"))
	focusPanel(t, m, workflow.PanelKnobs)

	press(m, "/")
	require.Equal(t, inputKnobSearch, m.inputMode)
	typeText(m, "pcie")
	assert.Equal(t, "pcie", m.sess.KnobSearch())
	press(m, "esc")
	assert.Equal(t, inputNone, m.inputMode)
	assert.Equal(t, "pcie", m.sess.KnobSearch())
}

func TestPanelFoldKeys(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	focusPanel(t, m, workflow.PanelSettings)

	collapsed := m.sess.PanelCollapsed(workflow.PanelSettings)
	press(m, "t")
	assert.Equal(t, !collapsed, m.sess.PanelCollapsed(workflow.PanelSettings))

	press(m, "c")
	for _, p := range m.sess.VisiblePanels() {
		assert.True(t, m.sess.PanelCollapsed(p), p)
	}
	press(m, "x")
	for _, p := range m.sess.VisiblePanels() {
		assert.False(t, m.sess.PanelCollapsed(p), p)
	}

	press(m, "}")
	assert.Equal(t, 1, m.panelCursor)
	press(m, "{", "{")
	assert.Equal(t, len(m.sess.VisiblePanels())-1, m.panelCursor)
}

func TestOverlaysDismiss(t *testing.T) {
	m := newTestModel(t, modelOptions{})

	press(m, "?")
	require.True(t, m.overlays.Active(overlayHelp))
	press(m, "esc")
	assert.False(t, m.overlays.Active(overlayHelp))
	assert.Empty(t, m.overlayBody)

	press(m, "H")
	require.True(t, m.overlays.Active(overlayHistory))
	m.Update(tea.MouseMsg{X: 0, Y: 40, Type: tea.MouseLeft})
	assert.False(t, m.overlays.Active(overlayHistory))
}

func TestThemeToggleCycles(t *testing.T) {
	m := newTestModel(t, modelOptions{Theme: markdownThemeAuto})

	press(m, "T")
	assert.Equal(t, markdownThemeDark, m.markdownTheme)
	assert.Equal(t, markdownThemeDark, currentMarkdownTheme())
	press(m, "T")
	assert.Equal(t, markdownThemeLight, m.markdownTheme)
}

func TestDriverEventsApplyToSession(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	ch := make(chan driverMsg)
	close(ch)

	m.Update(receivedDriverMsg{msg: driverStartedMsg{Command: "demo.sh"}, ch: ch})
	m.Update(receivedDriverMsg{msg: driverEventMsg{Event: workflow.Event{Kind: workflow.EventCyclePhase}}, ch: ch})
	m.Update(receivedDriverMsg{msg: driverLogMsg{Line: "compiling"}, ch: ch})
	m.Update(receivedDriverMsg{msg: driverFinishedMsg{}, ch: ch})

	assert.Equal(t, workflow.Review, m.sess.Current().Phase)
	lines := m.logs.Lines()
	assert.Contains(t, lines[0], "[driver] started: demo.sh")
	assert.Contains(t, lines[len(lines)-2], "[driver] compiling")
	assert.Contains(t, lines[len(lines)-1], "[driver] finished")
}

func TestQuitShutsDown(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	press(m, "?")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.True(t, m.overlays.Closed())
	assert.Empty(t, m.View())
}

func TestClockTickCountsOnlyCurrentGeneration(t *testing.T) {
	m := newTestModel(t, modelOptions{})
	start := m.sess.ClockSeconds()

	m.Update(clockTickMsg{gen: 999})
	assert.Equal(t, start, m.sess.ClockSeconds())
}
