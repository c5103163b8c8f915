package views

import (
	"fmt"
	"strconv"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

type KPI struct {
	Label string
	Value string
}

// Stats counts test lines by status and inclusion.
type Stats struct {
	Total    int
	Included int
	Passed   int
	Failed   int
	Running  int
	Pending  int
}

func (s Stats) Excluded() int  { return s.Total - s.Included }
func (s Stats) Completed() int { return s.Passed + s.Failed }

func Summarize(lines []catalog.TestLine) Stats {
	s := Stats{Total: len(lines)}
	for _, l := range lines {
		if l.Included {
			s.Included++
		}
		switch l.Status {
		case catalog.TestPassed:
			s.Passed++
		case catalog.TestFailed:
			s.Failed++
		case catalog.TestRunning:
			s.Running++
		case catalog.TestPending:
			s.Pending++
		}
	}
	return s
}

// PassRate is passed/total as a percentage, 0 when total is 0.
func PassRate(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}

func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// TestKPIs returns the cards for a TEST step in phase. DISCOVERY and
// SUBMISSION show none.
func TestKPIs(phase workflow.TestPhase, lines []catalog.TestLine) []KPI {
	s := Summarize(lines)
	switch phase {
	case workflow.Review:
		return []KPI{
			{Label: "Discovered", Value: strconv.Itoa(s.Total)},
			{Label: "Selected", Value: strconv.Itoa(s.Included)},
			{Label: "Excluded", Value: strconv.Itoa(s.Excluded())},
		}
	case workflow.Execution, workflow.Result, workflow.Done:
		return []KPI{
			{Label: "Discovered", Value: strconv.Itoa(s.Total)},
			{Label: "Submitted", Value: strconv.Itoa(s.Included)},
			{Label: "Completed", Value: strconv.Itoa(s.Completed())},
			{Label: "Running", Value: strconv.Itoa(s.Running)},
			{Label: "Passed", Value: strconv.Itoa(s.Passed)},
			{Label: "Failed", Value: strconv.Itoa(s.Failed)},
			{Label: "Pending", Value: strconv.Itoa(s.Pending)},
			{Label: "Pass Rate", Value: FormatPercent(PassRate(s.Passed, s.Total))},
		}
	}
	return nil
}

// BuildKPIs returns the cards for a build step. Package size appears only
// once the build has passed.
func BuildKPIs(kind catalog.StepKind, deps []catalog.Release, knobs []catalog.Knob, straps []catalog.Strap, succeeded bool) []KPI {
	modified := 0
	for _, d := range deps {
		if d.IsModified {
			modified++
		}
	}
	depChanges := fmt.Sprintf("%d/%d", modified, len(deps))

	if kind == catalog.KindUnifiedPatch {
		out := []KPI{{Label: "Dependencies Changes", Value: depChanges}}
		if succeeded {
			out = append(out, KPI{Label: "Package Size", Value: "4KB"})
		}
		return out
	}
	if kind != catalog.KindFirmwareBuild {
		return nil
	}
	overridden := 0
	for _, k := range knobs {
		if k.IsOverridden {
			overridden++
		}
	}
	out := []KPI{
		{Label: "Dep. Changes", Value: depChanges},
		{Label: "Knobs overrides", Value: strconv.Itoa(overridden)},
		{Label: "Straps overrides", Value: strconv.Itoa(len(straps))},
	}
	if succeeded {
		out = append(out, KPI{Label: "Package Size", Value: "32MB"})
	}
	return out
}
