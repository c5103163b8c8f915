// Package workflow models the lifecycle of a workflow run: the six phase
// test machine, the binary build machine, the per-step runner that owns
// them, and the drivers that feed them events.
package workflow

import (
	"strings"
)

type TestPhase int

const (
	Discovery TestPhase = iota
	Review
	Submission
	Execution
	Result
	Done
)

// Phases is the fixed cycle order.
var Phases = []TestPhase{Discovery, Review, Submission, Execution, Result, Done}

var phaseNames = [...]string{"DISCOVERY", "REVIEW", "SUBMISSION", "EXECUTION", "RESULT", "DONE"}

func (p TestPhase) String() string {
	if p < Discovery || p > Done {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Next advances one phase, wrapping DONE back to DISCOVERY.
func (p TestPhase) Next() TestPhase {
	return (p + 1) % TestPhase(len(Phases))
}

// RequiresAction marks the phases that wait on the engineer.
func (p TestPhase) RequiresAction() bool {
	return p == Review || p == Result
}

func ParsePhase(s string) (TestPhase, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range phaseNames {
		if name == s {
			return TestPhase(i), true
		}
	}
	return Discovery, false
}

type Outcome string

const (
	OutcomeNone   Outcome = ""
	OutcomePassed Outcome = "PASSED"
	OutcomeFailed Outcome = "FAILED"
)

func (o Outcome) Set() bool { return o == OutcomePassed || o == OutcomeFailed }

func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASSED", "PASS":
		return OutcomePassed, true
	case "FAILED", "FAIL":
		return OutcomeFailed, true
	case "", "NONE":
		return OutcomeNone, true
	}
	return OutcomeNone, false
}

// AutoJustification is recorded when a run reaches DONE without a
// manually chosen outcome.
const AutoJustification = "System-triggered auto-completion during simulation."

// TestRun is the resolution-carrying state of one TEST step.
type TestRun struct {
	Phase         TestPhase
	Outcome       Outcome
	Justification string
}

// Cycle advances the run by one phase and returns the phase entered.
func (r *TestRun) Cycle() TestPhase {
	r.Phase = r.Phase.Next()
	if r.Phase == Done {
		if !r.Outcome.Set() {
			r.Outcome = OutcomePassed
			r.Justification = AutoJustification
		}
	} else {
		r.Outcome = OutcomeNone
		r.Justification = ""
	}
	return r.Phase
}

func (r *TestRun) SetOutcome(o Outcome) {
	r.Outcome = o
}

func (r *TestRun) SetJustification(text string) {
	r.Justification = text
}

// CanSubmit is the precondition shared by the submit affordance and
// Submit itself.
func (r *TestRun) CanSubmit() bool {
	return r.Phase == Result && r.Outcome.Set() && strings.TrimSpace(r.Justification) != ""
}

// Submit moves RESULT to DONE when the resolution is complete. It reports
// whether the transition happened.
func (r *TestRun) Submit() bool {
	if !r.CanSubmit() {
		return false
	}
	r.Phase = Done
	return true
}

type BuildPhase string

const (
	BuildRunning BuildPhase = "RUNNING"
	BuildDone    BuildPhase = "DONE"
)

// BuildRun is the binary state of a UNIFIED_PATCH or FIRMWARE_BUILD step.
type BuildRun struct {
	Done    bool
	Outcome Outcome
}

func (b *BuildRun) Phase() BuildPhase {
	if b.Done {
		return BuildDone
	}
	return BuildRunning
}

// Cycle toggles RUNNING and DONE. Completion is always a pass.
func (b *BuildRun) Cycle() BuildPhase {
	if b.Done {
		b.Done = false
		b.Outcome = OutcomeNone
	} else {
		b.Done = true
		b.Outcome = OutcomePassed
	}
	return b.Phase()
}
