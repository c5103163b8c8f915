package workflow

import "github.com/bekirdag/vdcdash/internal/catalog"

type Panel string

const (
	PanelSettings   Panel = "settings"
	PanelDeps       Panel = "deps"
	PanelKnobs      Panel = "knobs"
	PanelStraps     Panel = "straps"
	PanelLogs       Panel = "logs"
	PanelHeatMap    Panel = "heatMap"
	PanelTestMatrix Panel = "testMatrix"
	PanelResolution Panel = "resolution"
)

var AllPanels = []Panel{
	PanelSettings, PanelDeps, PanelKnobs, PanelStraps, PanelLogs,
	PanelHeatMap, PanelTestMatrix, PanelResolution,
}

// PanelSet is the collapse map shared by every step view.
type PanelSet struct {
	collapsed map[Panel]bool
}

func NewPanelSet() *PanelSet {
	s := &PanelSet{collapsed: make(map[Panel]bool, len(AllPanels))}
	for _, p := range AllPanels {
		s.collapsed[p] = false
	}
	s.collapsed[PanelSettings] = true
	s.collapsed[PanelLogs] = true
	return s
}

func (s *PanelSet) Collapsed(p Panel) bool { return s.collapsed[p] }

func (s *PanelSet) Toggle(p Panel) {
	s.collapsed[p] = !s.collapsed[p]
}

func (s *PanelSet) Open(p Panel) {
	s.collapsed[p] = false
}

func (s *PanelSet) CollapseAll() {
	for _, p := range AllPanels {
		s.collapsed[p] = true
	}
}

func (s *PanelSet) ExpandAll() {
	for _, p := range AllPanels {
		s.collapsed[p] = false
	}
}

func (s *PanelSet) CollapseAllExcept(keep ...Panel) {
	s.CollapseAll()
	for _, p := range keep {
		s.collapsed[p] = false
	}
}

// EnterPhase applies the layout a phase forces on arrival.
func (s *PanelSet) EnterPhase(p TestPhase) {
	switch p {
	case Review:
		s.Open(PanelTestMatrix)
	case Result, Done:
		s.CollapseAllExcept(PanelResolution)
	}
}

// Snapshot returns a copy of the collapse map.
func (s *PanelSet) Snapshot() map[Panel]bool {
	out := make(map[Panel]bool, len(s.collapsed))
	for k, v := range s.collapsed {
		out[k] = v
	}
	return out
}

// Visible lists, in render order, the panels a step shows in a phase.
// Build steps ignore phase.
func Visible(kind catalog.StepKind, phase TestPhase) []Panel {
	switch kind {
	case catalog.KindUnifiedPatch:
		return []Panel{PanelSettings, PanelDeps, PanelLogs}
	case catalog.KindFirmwareBuild:
		return []Panel{PanelSettings, PanelDeps, PanelKnobs, PanelStraps, PanelLogs}
	case catalog.KindTest:
	default:
		return nil
	}
	var out []Panel
	if phase == Result || phase == Done {
		out = append(out, PanelResolution)
	}
	out = append(out, PanelSettings)
	if phase == Execution || phase == Result || phase == Done {
		out = append(out, PanelHeatMap)
	}
	if phase >= Review {
		out = append(out, PanelTestMatrix)
	}
	return append(out, PanelLogs)
}
