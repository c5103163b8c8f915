package workflow

import (
	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

// Runner owns the run state of every workflow step. Test and build state
// is keyed by step id so two TEST steps never share a phase.
type Runner struct {
	steps    []catalog.WorkflowStep
	selected string
	tests    map[string]*TestRun
	builds   map[string]*BuildRun
	edge     EdgeCase
	log      *zap.Logger
}

// Current is a read-only view of the selected step's run.
type Current struct {
	Step          catalog.WorkflowStep
	HasStep       bool
	Phase         TestPhase
	Build         BuildPhase
	Outcome       Outcome
	Justification string
	CanSubmit     bool
	Edge          EdgeCase
}

// NewRunner selects start when it names a step, otherwise the first TEST
// step, otherwise the first step.
func NewRunner(steps []catalog.WorkflowStep, start string, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		steps:  append([]catalog.WorkflowStep(nil), steps...),
		tests:  make(map[string]*TestRun),
		builds: make(map[string]*BuildRun),
		log:    log,
	}
	for _, s := range r.steps {
		if s.Kind == catalog.KindTest {
			r.tests[s.ID] = &TestRun{Phase: Discovery}
		} else {
			r.builds[s.ID] = &BuildRun{}
		}
	}
	switch {
	case r.has(start):
		r.selected = start
	default:
		for _, s := range r.steps {
			if s.Kind == catalog.KindTest {
				r.selected = s.ID
				break
			}
		}
		if r.selected == "" && len(r.steps) > 0 {
			r.selected = r.steps[0].ID
		}
	}
	return r
}

func (r *Runner) has(id string) bool {
	if id == "" {
		return false
	}
	for _, s := range r.steps {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (r *Runner) Steps() []catalog.WorkflowStep {
	return append([]catalog.WorkflowStep(nil), r.steps...)
}

func (r *Runner) SelectedID() string { return r.selected }

func (r *Runner) step() (catalog.WorkflowStep, bool) {
	for _, s := range r.steps {
		if s.ID == r.selected {
			return s, true
		}
	}
	return catalog.WorkflowStep{}, false
}

// SelectStep reports whether the selection changed. Selecting a TEST step
// restarts it at DISCOVERY unless it is already DONE.
func (r *Runner) SelectStep(id string) bool {
	if id == r.selected || !r.has(id) {
		return false
	}
	r.selected = id
	if run, ok := r.tests[id]; ok && run.Phase != Done {
		*run = TestRun{Phase: Discovery}
	}
	r.log.Debug("step selected", zap.String("step", id))
	return true
}

// CyclePhase advances the selected step: builds toggle, tests move one
// phase forward. The returned phase is meaningful for TEST steps only.
func (r *Runner) CyclePhase() (TestPhase, bool) {
	step, ok := r.step()
	if !ok {
		return Discovery, false
	}
	if step.Kind.IsBuild() {
		phase := r.builds[step.ID].Cycle()
		r.log.Debug("build cycled", zap.String("step", step.ID), zap.String("phase", string(phase)))
		return Discovery, false
	}
	run := r.tests[step.ID]
	phase := run.Cycle()
	r.log.Debug("phase cycled", zap.String("step", step.ID), zap.Stringer("phase", phase))
	return phase, true
}

func (r *Runner) testRun() *TestRun {
	return r.tests[r.selected]
}

func (r *Runner) SetOutcome(o Outcome) bool {
	run := r.testRun()
	if run == nil {
		return false
	}
	run.SetOutcome(o)
	return true
}

func (r *Runner) SetJustification(text string) bool {
	run := r.testRun()
	if run == nil {
		return false
	}
	run.SetJustification(text)
	return true
}

// SubmitResolution is a guarded no-op unless the selected TEST run can
// submit.
func (r *Runner) SubmitResolution() bool {
	run := r.testRun()
	if run == nil || !run.Submit() {
		return false
	}
	r.log.Debug("resolution submitted", zap.String("step", r.selected), zap.String("outcome", string(run.Outcome)))
	return true
}

func (r *Runner) CycleEdgeCase() EdgeCase {
	r.edge = r.edge.Next()
	return r.edge
}

func (r *Runner) EdgeCase() EdgeCase { return r.edge }

func (r *Runner) Current() Current {
	step, ok := r.step()
	cur := Current{Step: step, HasStep: ok, Edge: r.edge}
	if !ok {
		return cur
	}
	if run, isTest := r.tests[step.ID]; isTest {
		cur.Phase = run.Phase
		cur.Outcome = run.Outcome
		cur.Justification = run.Justification
		cur.CanSubmit = run.CanSubmit()
		return cur
	}
	b := r.builds[step.ID]
	cur.Build = b.Phase()
	cur.Outcome = b.Outcome
	return cur
}

// SelectedDone reports whether the selected step's run is complete.
func (r *Runner) SelectedDone() bool {
	step, ok := r.step()
	if !ok {
		return false
	}
	if run, isTest := r.tests[step.ID]; isTest {
		return run.Phase == Done
	}
	return r.builds[step.ID].Done
}

// SelectedExecuting reports whether the selected step is a TEST run in
// EXECUTION. Runs of other steps never count.
func (r *Runner) SelectedExecuting() bool {
	step, ok := r.step()
	if !ok {
		return false
	}
	run, isTest := r.tests[step.ID]
	return isTest && run.Phase == Execution
}

// TestPhaseOf returns the phase of a TEST step.
func (r *Runner) TestPhaseOf(id string) (TestPhase, bool) {
	run, ok := r.tests[id]
	if !ok {
		return Discovery, false
	}
	return run.Phase, true
}

// BuildPhaseOf returns the phase of a build step.
func (r *Runner) BuildPhaseOf(id string) (BuildPhase, bool) {
	b, ok := r.builds[id]
	if !ok {
		return BuildRunning, false
	}
	return b.Phase(), true
}
