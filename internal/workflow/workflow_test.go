package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

func TestPhaseCycleOrder(t *testing.T) {
	for _, start := range Phases {
		t.Run(start.String(), func(t *testing.T) {
			run := &TestRun{Phase: start}
			seen := []TestPhase{start}
			for i := 0; i < len(Phases); i++ {
				seen = append(seen, run.Cycle())
			}
			for i := 1; i < len(seen); i++ {
				assert.Equal(t, seen[i-1].Next(), seen[i])
			}
			assert.Equal(t, start, seen[len(seen)-1])
		})
	}
	assert.Equal(t, Discovery, Done.Next())
}

func TestRequiresAction(t *testing.T) {
	for _, p := range Phases {
		assert.Equal(t, p == Review || p == Result, p.RequiresAction(), p.String())
	}
}

func TestParsePhase(t *testing.T) {
	p, ok := ParsePhase(" execution ")
	require.True(t, ok)
	assert.Equal(t, Execution, p)
	_, ok = ParsePhase("LAUNCH")
	assert.False(t, ok)
}

func TestAutoResolutionOnEnteringDone(t *testing.T) {
	run := &TestRun{Phase: Result}
	assert.Equal(t, Done, run.Cycle())
	assert.Equal(t, OutcomePassed, run.Outcome)
	assert.Equal(t, AutoJustification, run.Justification)
}

func TestManualOutcomeSurvivesCycleIntoDone(t *testing.T) {
	run := &TestRun{Phase: Result}
	run.SetOutcome(OutcomeFailed)
	run.SetJustification("flaky rig")
	run.Cycle()
	assert.Equal(t, OutcomeFailed, run.Outcome)
	assert.Equal(t, "flaky rig", run.Justification)
}

func TestLeavingDoneClearsResolution(t *testing.T) {
	run := &TestRun{Phase: Done, Outcome: OutcomePassed, Justification: "x"}
	assert.Equal(t, Discovery, run.Cycle())
	assert.Equal(t, OutcomeNone, run.Outcome)
	assert.Empty(t, run.Justification)
}

func TestResolutionGuard(t *testing.T) {
	run := &TestRun{Phase: Result}
	run.SetOutcome(OutcomePassed)
	run.SetJustification("")
	assert.False(t, run.Submit())
	assert.Equal(t, Result, run.Phase)

	run.SetJustification("   ")
	assert.False(t, run.Submit())

	run.SetJustification("ok")
	assert.True(t, run.Submit())
	assert.Equal(t, Done, run.Phase)

	other := &TestRun{Phase: Result, Justification: "ok"}
	assert.False(t, other.Submit(), "outcome missing")

	early := &TestRun{Phase: Execution, Outcome: OutcomePassed, Justification: "ok"}
	assert.False(t, early.Submit(), "only RESULT may submit")
}

func TestBuildRunCycle(t *testing.T) {
	var b BuildRun
	assert.Equal(t, BuildRunning, b.Phase())
	assert.Equal(t, BuildDone, b.Cycle())
	assert.Equal(t, OutcomePassed, b.Outcome)
	assert.Equal(t, BuildRunning, b.Cycle())
	assert.Equal(t, OutcomeNone, b.Outcome)
}

func demoSteps() []catalog.WorkflowStep {
	return catalog.MockData(1, 1).Steps
}

func twoTestSteps() []catalog.WorkflowStep {
	return []catalog.WorkflowStep{
		{ID: "up", Kind: catalog.KindUnifiedPatch},
		{ID: "t1", Kind: catalog.KindTest},
		{ID: "t2", Kind: catalog.KindTest},
	}
}

func TestNewRunnerSelection(t *testing.T) {
	assert.Equal(t, "step6", NewRunner(demoSteps(), "", nil).SelectedID())
	assert.Equal(t, "step2", NewRunner(demoSteps(), "step2", nil).SelectedID())
	assert.Equal(t, "step6", NewRunner(demoSteps(), "missing", nil).SelectedID())

	builds := []catalog.WorkflowStep{{ID: "a", Kind: catalog.KindFirmwareBuild}}
	assert.Equal(t, "a", NewRunner(builds, "", nil).SelectedID())

	empty := NewRunner(nil, "", nil)
	assert.False(t, empty.Current().HasStep)
	_, ok := empty.CyclePhase()
	assert.False(t, ok)
	assert.False(t, empty.SubmitResolution())
	assert.False(t, empty.SelectedDone())
}

func TestRunnerKeepsPerStepState(t *testing.T) {
	r := NewRunner(twoTestSteps(), "t1", nil)
	r.CyclePhase()
	r.CyclePhase()
	phase, _ := r.TestPhaseOf("t1")
	assert.Equal(t, Submission, phase)

	require.True(t, r.SelectStep("t2"))
	assert.Equal(t, Discovery, r.Current().Phase)
	r.CyclePhase()
	phase, _ = r.TestPhaseOf("t1")
	assert.Equal(t, Submission, phase, "t1 untouched by t2")
}

func TestSelectStepResetsUnlessDone(t *testing.T) {
	r := NewRunner(twoTestSteps(), "t1", nil)
	for i := 0; i < 3; i++ {
		r.CyclePhase()
	}
	assert.Equal(t, Execution, r.Current().Phase)
	assert.False(t, r.SelectStep("t1"), "reselecting is a no-op")
	assert.Equal(t, Execution, r.Current().Phase)

	require.True(t, r.SelectStep("up"))
	require.True(t, r.SelectStep("t1"))
	assert.Equal(t, Discovery, r.Current().Phase)

	for i := 0; i < 5; i++ {
		r.CyclePhase()
	}
	require.Equal(t, Done, r.Current().Phase)
	r.SelectStep("t2")
	r.SelectStep("t1")
	assert.Equal(t, Done, r.Current().Phase)
	assert.True(t, r.SelectedDone())
	assert.False(t, r.SelectStep("ghost"))
}

func TestRunnerBuildSteps(t *testing.T) {
	r := NewRunner(twoTestSteps(), "up", nil)
	cur := r.Current()
	assert.Equal(t, BuildRunning, cur.Build)
	assert.False(t, r.SelectedDone())

	_, isTest := r.CyclePhase()
	assert.False(t, isTest)
	assert.True(t, r.SelectedDone())
	assert.Equal(t, OutcomePassed, r.Current().Outcome)

	assert.False(t, r.SetOutcome(OutcomeFailed), "build steps carry no manual resolution")
	assert.False(t, r.SetJustification("x"))
}

func TestRunnerSelectedExecuting(t *testing.T) {
	r := NewRunner(twoTestSteps(), "t2", nil)
	assert.False(t, r.SelectedExecuting())
	for i := 0; i < 3; i++ {
		r.CyclePhase()
	}
	require.Equal(t, Execution, r.Current().Phase)
	assert.True(t, r.SelectedExecuting())

	r.SelectStep("t1")
	assert.False(t, r.SelectedExecuting(), "t2 executing in the background does not count")
	r.SelectStep("up")
	assert.False(t, r.SelectedExecuting())
}

func TestRunnerSubmitResolution(t *testing.T) {
	r := NewRunner(twoTestSteps(), "t1", nil)
	for i := 0; i < 4; i++ {
		r.CyclePhase()
	}
	require.Equal(t, Result, r.Current().Phase)
	r.SetOutcome(OutcomePassed)
	assert.False(t, r.SubmitResolution())
	r.SetJustification("ok")
	assert.True(t, r.Current().CanSubmit)
	assert.True(t, r.SubmitResolution())
	assert.Equal(t, Done, r.Current().Phase)
	assert.Equal(t, "ok", r.Current().Justification)
}

func TestEdgeCaseCycle(t *testing.T) {
	r := NewRunner(demoSteps(), "", nil)
	assert.Equal(t, EdgeLongBaseline, r.CycleEdgeCase())
	assert.Equal(t, EdgeLongTarget, r.CycleEdgeCase())
	assert.Equal(t, EdgeLongBoth, r.CycleEdgeCase())
	assert.Equal(t, EdgeNormal, r.CycleEdgeCase())
}

func TestIdentifiers(t *testing.T) {
	up := IdentifiersFor(catalog.KindUnifiedPatch, EdgeNormal)
	assert.Equal(t, "BASELINE", up.BaselineLabel)
	assert.Equal(t, "UP_DMR_AO_REL", up.BaselineName)
	assert.Equal(t, "Unified_pathc_DMR_A0_RC", up.TargetName)

	long := IdentifiersFor(catalog.KindUnifiedPatch, EdgeLongBoth)
	assert.Len(t, long.BaselineName, 90)
	assert.Len(t, long.TargetName, 90)
	assert.True(t, strings.HasSuffix(long.BaselineName, "X"))

	fw := IdentifiersFor(catalog.KindFirmwareBuild, EdgeLongTarget)
	assert.Equal(t, "IFWI BASELINE", fw.BaselineLabel)
	assert.Equal(t, "IFWI UP_DMR_AO_REL", fw.BaselineName)
	assert.Len(t, fw.TargetName, 95)
	assert.True(t, strings.HasPrefix(fw.TargetName, "IFWI Unified_pathc_DMR_A0_STAGING"))
}

func TestPanelSetSeedAndForcedLayouts(t *testing.T) {
	s := NewPanelSet()
	assert.True(t, s.Collapsed(PanelSettings))
	assert.True(t, s.Collapsed(PanelLogs))
	assert.False(t, s.Collapsed(PanelDeps))
	assert.False(t, s.Collapsed(PanelTestMatrix))

	s.Toggle(PanelTestMatrix)
	s.EnterPhase(Review)
	assert.False(t, s.Collapsed(PanelTestMatrix))

	s.EnterPhase(Result)
	for _, p := range AllPanels {
		assert.Equal(t, p != PanelResolution, s.Collapsed(p), string(p))
	}

	s.ExpandAll()
	for _, p := range AllPanels {
		assert.False(t, s.Collapsed(p))
	}
	s.EnterPhase(Execution)
	assert.False(t, s.Collapsed(PanelSettings), "EXECUTION forces nothing")
}

func TestVisiblePanels(t *testing.T) {
	assert.Equal(t, []Panel{PanelSettings, PanelLogs}, Visible(catalog.KindTest, Discovery))
	assert.Equal(t, []Panel{PanelSettings, PanelTestMatrix, PanelLogs}, Visible(catalog.KindTest, Review))
	assert.Equal(t, []Panel{PanelSettings, PanelHeatMap, PanelTestMatrix, PanelLogs}, Visible(catalog.KindTest, Execution))
	assert.Equal(t, []Panel{PanelResolution, PanelSettings, PanelHeatMap, PanelTestMatrix, PanelLogs}, Visible(catalog.KindTest, Done))
	assert.Contains(t, Visible(catalog.KindFirmwareBuild, Discovery), PanelKnobs)
	assert.NotContains(t, Visible(catalog.KindUnifiedPatch, Discovery), PanelKnobs)
	assert.Nil(t, Visible("OTHER", Discovery))
}
