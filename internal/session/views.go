package session

import (
	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/navigation"
	"github.com/bekirdag/vdcdash/internal/simclock"
	"github.com/bekirdag/vdcdash/internal/views"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

// Filters. Each of these resets the pager of the table it narrows.

func (s *Session) ToggleShowAllDeps() {
	s.showAllDeps = !s.showAllDeps
	s.pagers[TableDeps].Reset()
	s.record("show-all-deps", boolWord(s.showAllDeps))
}

func (s *Session) ToggleShowAllKnobs() {
	s.showAllKnobs = !s.showAllKnobs
	s.pagers[TableKnobs].Reset()
	s.record("show-all-knobs", boolWord(s.showAllKnobs))
}

// SetKnobSearch resets the knob page only when the query actually
// changes.
func (s *Session) SetKnobSearch(query string) {
	if query == s.knobSearch {
		return
	}
	s.knobSearch = query
	s.pagers[TableKnobs].Reset()
	s.record("knob-search", query)
}

func (s *Session) KnobSearch() string { return s.knobSearch }

func (s *Session) SelectMatrixCell(cell views.CellKey) {
	s.matrixFilter = s.matrixFilter.Toggle(cell)
	s.pagers[TableTests].Reset()
	s.record("matrix-filter", s.matrixFilter.String())
}

func (s *Session) ClearMatrixFilter() {
	if !s.matrixFilter.Active() {
		return
	}
	s.matrixFilter = views.MatrixFilter{}
	s.pagers[TableTests].Reset()
	s.record("matrix-filter", s.matrixFilter.String())
}

func (s *Session) MatrixFilter() views.MatrixFilter { return s.matrixFilter }

func boolWord(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Pages

func (s *Session) count(t Table) int {
	switch t {
	case TableDeps:
		return len(s.filteredDeps())
	case TableKnobs:
		return len(s.filteredKnobs())
	case TableStraps:
		return len(s.cat.Straps())
	case TableTests:
		return len(s.filteredTests())
	}
	return 0
}

func (s *Session) NextPage(t Table) bool {
	p, ok := s.pagers[t]
	return ok && p.Next(s.count(t))
}

func (s *Session) PrevPage(t Table) bool {
	p, ok := s.pagers[t]
	return ok && p.Prev(s.count(t))
}

func (s *Session) GotoPage(t Table, page int) bool {
	p, ok := s.pagers[t]
	return ok && p.Goto(page, s.count(t))
}

// Page returns the raw page cursor of a table.
func (s *Session) Page(t Table) int {
	if p, ok := s.pagers[t]; ok {
		return p.Page
	}
	return 0
}

func (s *Session) filteredDeps() []catalog.Release {
	return views.Dependencies(s.cat.BuildDeps(), s.showAllDeps)
}

func (s *Session) filteredKnobs() []catalog.Knob {
	return views.Knobs(s.cat.Knobs(), s.showAllKnobs, s.knobSearch)
}

func (s *Session) filteredTests() []catalog.TestLine {
	return views.TestLines(s.lines, s.matrixFilter)
}

func (s *Session) DepsView() ([]catalog.Release, views.PageInfo) {
	return views.Window(s.filteredDeps(), *s.pagers[TableDeps])
}

func (s *Session) KnobsView() ([]catalog.Knob, views.PageInfo) {
	return views.Window(s.filteredKnobs(), *s.pagers[TableKnobs])
}

func (s *Session) StrapsView() ([]catalog.Strap, views.PageInfo) {
	return views.Window(views.Straps(s.cat.Straps()), *s.pagers[TableStraps])
}

func (s *Session) TestLinesView() ([]catalog.TestLine, views.PageInfo) {
	return views.Window(s.filteredTests(), *s.pagers[TableTests])
}

func (s *Session) ShowAllDeps() bool  { return s.showAllDeps }
func (s *Session) ShowAllKnobs() bool { return s.showAllKnobs }

// Matrix aggregates every test line; the filter narrows only the table.
func (s *Session) Matrix() views.Matrix { return views.Aggregate(s.lines) }

func (s *Session) Stats() views.Stats { return views.Summarize(s.lines) }

// KPIs returns the cards of the selected step.
func (s *Session) KPIs() []views.KPI {
	cur := s.runner.Current()
	if !cur.HasStep {
		return nil
	}
	if cur.Step.Kind == catalog.KindTest {
		return views.TestKPIs(cur.Phase, s.lines)
	}
	succeeded := cur.Build == workflow.BuildDone && cur.Outcome == workflow.OutcomePassed
	return views.BuildKPIs(cur.Step.Kind, s.cat.BuildDeps(), s.cat.Knobs(), s.cat.Straps(), succeeded)
}

func (s *Session) Identifiers() workflow.Identifiers {
	cur := s.runner.Current()
	return workflow.IdentifiersFor(cur.Step.Kind, cur.Edge)
}

// Panels

func (s *Session) TogglePanel(p workflow.Panel) {
	s.panels.Toggle(p)
	s.record("toggle-panel", string(p))
}

func (s *Session) CollapseAll() {
	s.panels.CollapseAll()
	s.record("collapse-all", "")
}

func (s *Session) ExpandAll() {
	s.panels.ExpandAll()
	s.record("expand-all", "")
}

func (s *Session) PanelCollapsed(p workflow.Panel) bool { return s.panels.Collapsed(p) }

// VisiblePanels lists the panels of the selected step in render order.
func (s *Session) VisiblePanels() []workflow.Panel {
	cur := s.runner.Current()
	if !cur.HasStep {
		return nil
	}
	return workflow.Visible(cur.Step.Kind, cur.Phase)
}

// Clock

// ClockShouldRun is the clock gate: a workflow tab showing a run that is
// not finished, or the selected TEST run in EXECUTION.
func (s *Session) ClockShouldRun() bool {
	onWorkflow := navigation.IsWorkflowTab(s.nav.ActiveTab()) && s.runner.Current().HasStep && !s.runner.SelectedDone()
	return onWorkflow || s.runner.SelectedExecuting()
}

// SyncClock re-evaluates the gate. When arm is true the caller must
// schedule a tick for gen.
func (s *Session) SyncClock() (gen uint64, arm bool) {
	gen, arm = s.clock.SetGate(s.ClockShouldRun())
	if arm {
		s.log.Debug("clock armed", zap.Uint64("generation", gen))
	}
	return gen, arm
}

// ClockTick counts a second for a tick armed with gen. A true result
// means the caller should schedule the next tick.
func (s *Session) ClockTick(gen uint64) bool {
	return s.clock.Tick(gen)
}

func (s *Session) ClockSeconds() int { return s.clock.Seconds() }

func (s *Session) ClockRunning() bool { return s.clock.Running() }

func (s *Session) ElapsedLabel() string { return simclock.Format(s.clock.Seconds()) }
