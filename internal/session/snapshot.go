package session

import (
	"github.com/bekirdag/vdcdash/internal/navigation"
	"github.com/bekirdag/vdcdash/internal/views"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

// Snapshot is a plain copy of everything the presentation layer reads.
// Mutating it has no effect on the session.
type Snapshot struct {
	Context         navigation.Context
	ProjectID       string
	ProjectName     string
	ActiveTab       string
	SidebarExpanded bool

	StepID        string
	StepName      string
	StepKind      string
	Phase         string
	Outcome       string
	Justification string
	CanSubmit     bool
	EdgeCase      string

	ClockSeconds int
	Clock        string
	ClockRunning bool

	KPIs         []views.KPI
	ShowAllDeps  bool
	ShowAllKnobs bool
	KnobSearch   string
	MatrixFilter views.MatrixFilter
	Pages        map[Table]views.PageInfo
	Collapsed    map[workflow.Panel]bool
}

func (s *Session) Snapshot() Snapshot {
	cur := s.runner.Current()
	snap := Snapshot{
		Context:         s.nav.ActiveContext,
		ProjectID:       s.nav.ActiveProjectID,
		ActiveTab:       s.nav.ActiveTab(),
		SidebarExpanded: s.nav.SidebarExpanded,
		EdgeCase:        cur.Edge.String(),
		ClockSeconds:    s.clock.Seconds(),
		Clock:           s.ElapsedLabel(),
		ClockRunning:    s.clock.Running(),
		KPIs:            s.KPIs(),
		ShowAllDeps:     s.showAllDeps,
		ShowAllKnobs:    s.showAllKnobs,
		KnobSearch:      s.knobSearch,
		MatrixFilter:    s.matrixFilter,
		Pages:           make(map[Table]views.PageInfo, len(Tables)),
		Collapsed:       s.panels.Snapshot(),
	}
	if p, ok := s.ActiveProject(); ok {
		snap.ProjectName = p.Name
	}
	if cur.HasStep {
		snap.StepID = cur.Step.ID
		snap.StepName = cur.Step.Name
		snap.StepKind = string(cur.Step.Kind)
		snap.Outcome = string(cur.Outcome)
		snap.Justification = cur.Justification
		snap.CanSubmit = cur.CanSubmit
		if cur.Step.Kind.IsBuild() {
			snap.Phase = string(cur.Build)
		} else {
			snap.Phase = cur.Phase.String()
		}
	}
	_, snap.Pages[TableDeps] = s.DepsView()
	_, snap.Pages[TableKnobs] = s.KnobsView()
	_, snap.Pages[TableStraps] = s.StrapsView()
	_, snap.Pages[TableTests] = s.TestLinesView()
	return snap
}
