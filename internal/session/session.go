// Package session is the single owner of all dashboard state. The UI
// calls its commands from one goroutine (the bubbletea Update loop) and
// reads plain snapshots back; nothing in here is safe for concurrent use
// and nothing needs to be.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/navigation"
	"github.com/bekirdag/vdcdash/internal/simclock"
	"github.com/bekirdag/vdcdash/internal/views"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

type Options struct {
	StartProject string
	StartStep    string
	ClockSeed    int
	PageSize     int
	TestPageSize int
	Logger       *zap.Logger
	// Notify, when set, receives every applied command.
	Notify func(Change)
}

func DefaultOptions() Options {
	return Options{
		StartProject: "p3",
		ClockSeed:    simclock.DefaultSeed,
		PageSize:     views.DefaultPageSize,
		TestPageSize: views.DefaultTestPageSize,
	}
}

// Change describes one applied command.
type Change struct {
	Command string
	Detail  string
}

func (c Change) String() string {
	if c.Detail == "" {
		return c.Command
	}
	return c.Command + " " + c.Detail
}

type Table string

const (
	TableDeps   Table = "deps"
	TableKnobs  Table = "knobs"
	TableStraps Table = "straps"
	TableTests  Table = "tests"
)

var Tables = []Table{TableDeps, TableKnobs, TableStraps, TableTests}

type Session struct {
	cat    *catalog.Catalog
	nav    *navigation.State
	runner *workflow.Runner
	panels *workflow.PanelSet
	clock  *simclock.Clock
	lines  []catalog.TestLine

	showAllDeps  bool
	showAllKnobs bool
	knobSearch   string
	matrixFilter views.MatrixFilter
	pagers       map[Table]*views.Pager

	stepsCollapsed bool

	log    *zap.Logger
	notify func(Change)
}

func New(cat *catalog.Catalog, opts Options) *Session {
	if cat == nil {
		cat, _ = catalog.New(catalog.Data{})
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = views.DefaultPageSize
	}
	if opts.TestPageSize <= 0 {
		opts.TestPageSize = views.DefaultTestPageSize
	}
	if opts.StartProject != "" {
		if _, err := cat.Project(opts.StartProject); err != nil {
			log.Warn("start project not in catalog, opening the project browser", zap.String("project", opts.StartProject))
			opts.StartProject = ""
		}
	}

	deps := views.NewPager(opts.PageSize)
	knobs := views.NewPager(opts.PageSize)
	straps := views.NewPager(opts.PageSize)
	tests := views.NewPager(opts.TestPageSize)

	s := &Session{
		cat:    cat,
		nav:    navigation.New(opts.StartProject),
		runner: workflow.NewRunner(cat.Steps(), opts.StartStep, log),
		panels: workflow.NewPanelSet(),
		clock:  simclock.New(opts.ClockSeed),
		lines:  cat.TestLines(),
		pagers: map[Table]*views.Pager{
			TableDeps:   &deps,
			TableKnobs:  &knobs,
			TableStraps: &straps,
			TableTests:  &tests,
		},
		log:    log,
		notify: opts.Notify,
	}
	return s
}

func (s *Session) record(command, detail string, fields ...zap.Field) {
	s.log.Debug(command, append(fields, zap.String("detail", detail))...)
	if s.notify != nil {
		s.notify(Change{Command: command, Detail: detail})
	}
}

func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Navigation

func (s *Session) SwitchContext(ctx navigation.Context) {
	s.nav.SwitchContext(ctx)
	s.record("switch-context", string(ctx), zap.Stringer("context", ctx))
}

// SelectProject only applies in the project context and for projects the
// catalog knows.
func (s *Session) SelectProject(id string) bool {
	if _, err := s.cat.Project(id); err != nil {
		return false
	}
	if !s.nav.SelectProject(id) {
		return false
	}
	s.record("select-project", id, zap.String("project", id))
	return true
}

func (s *Session) DeselectProject() bool {
	if !s.nav.DeselectProject() {
		return false
	}
	s.record("deselect-project", "")
	return true
}

func (s *Session) ChangeTab(tab string) {
	s.nav.ChangeTab(tab)
	s.record("change-tab", tab, zap.String("key", s.nav.Key()))
}

func (s *Session) ToggleSidebar() {
	s.nav.ToggleSidebar()
	s.record("toggle-sidebar", fmt.Sprintf("expanded=%t", s.nav.SidebarExpanded))
}

func (s *Session) RecordScroll(offset int) {
	s.nav.RecordScroll(offset)
}

func (s *Session) ActiveTab() string { return s.nav.ActiveTab() }

func (s *Session) ActiveProject() (catalog.Project, bool) {
	if s.nav.ActiveContext != navigation.Project || s.nav.ActiveProjectID == "" {
		return catalog.Project{}, false
	}
	p, err := s.cat.Project(s.nav.ActiveProjectID)
	return p, err == nil
}

func (s *Session) Navigation() navigation.State { return s.nav.Clone() }

// Workflow

func (s *Session) SelectStep(id string) bool {
	if !s.runner.SelectStep(id) {
		return false
	}
	for _, p := range s.pagers {
		p.Reset()
	}
	s.record("select-step", id, zap.String("step", id))
	return true
}

func (s *Session) CyclePhase() {
	phase, isTest := s.runner.CyclePhase()
	cur := s.runner.Current()
	if isTest {
		s.panels.EnterPhase(phase)
		s.record("cycle-phase", phase.String(), zap.String("step", cur.Step.ID), zap.Stringer("phase", phase))
		return
	}
	s.record("cycle-state", string(cur.Build), zap.String("step", cur.Step.ID))
}

func (s *Session) SetOutcome(o workflow.Outcome) {
	if s.runner.SetOutcome(o) {
		s.record("set-outcome", string(o))
	}
}

func (s *Session) SetJustification(text string) {
	s.runner.SetJustification(text)
}

func (s *Session) SubmitResolution() bool {
	if !s.runner.SubmitResolution() {
		return false
	}
	s.panels.EnterPhase(workflow.Done)
	cur := s.runner.Current()
	s.record("submit-resolution", string(cur.Outcome), zap.String("step", cur.Step.ID))
	return true
}

// SubmitToNGA is the REVIEW phase's forward action.
func (s *Session) SubmitToNGA() bool {
	cur := s.runner.Current()
	if cur.Step.Kind != catalog.KindTest || cur.Phase != workflow.Review {
		return false
	}
	s.CyclePhase()
	return true
}

func (s *Session) CycleEdgeCase() {
	edge := s.runner.CycleEdgeCase()
	s.record("cycle-edge", edge.String())
}

// ApplyEvent feeds a driver event through the same commands the keyboard
// uses.
func (s *Session) ApplyEvent(ev workflow.Event) bool {
	return workflow.Apply(s, ev)
}

func (s *Session) Current() workflow.Current { return s.runner.Current() }

func (s *Session) Steps() []catalog.WorkflowStep { return s.runner.Steps() }

// StepState summarises any step for the step list.
func (s *Session) StepState(id string) string {
	if phase, ok := s.runner.TestPhaseOf(id); ok {
		return phase.String()
	}
	if phase, ok := s.runner.BuildPhaseOf(id); ok {
		return string(phase)
	}
	return ""
}

func (s *Session) ToggleWorkflowSidebar() {
	s.stepsCollapsed = !s.stepsCollapsed
}

func (s *Session) WorkflowSidebarCollapsed() bool { return s.stepsCollapsed }

// Test lines

// CanEditInclusion is the capability check for inclusion toggles: only a
// TEST step in REVIEW exposes them.
func (s *Session) CanEditInclusion() bool {
	cur := s.runner.Current()
	return cur.HasStep && cur.Step.Kind == catalog.KindTest && cur.Phase == workflow.Review
}

// ToggleTestInclusion flips a line's inclusion when the capability check
// passes and reports whether it did.
func (s *Session) ToggleTestInclusion(id string) bool {
	if !s.CanEditInclusion() {
		return false
	}
	if !toggleIncluded(s.lines, id) {
		return false
	}
	s.record("toggle-inclusion", id, zap.String("line", id))
	return true
}

// toggleIncluded is the phase-agnostic data operation.
func toggleIncluded(lines []catalog.TestLine, id string) bool {
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Included = !lines[i].Included
			return true
		}
	}
	return false
}

func (s *Session) TestLines() []catalog.TestLine {
	return append([]catalog.TestLine(nil), s.lines...)
}
