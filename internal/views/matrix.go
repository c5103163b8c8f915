package views

import "github.com/bekirdag/vdcdash/internal/catalog"

type CellStatus string

const (
	CellEmpty   CellStatus = "Empty"
	CellPassed  CellStatus = CellStatus(catalog.TestPassed)
	CellFailed  CellStatus = CellStatus(catalog.TestFailed)
	CellRunning CellStatus = CellStatus(catalog.TestRunning)
	CellPending CellStatus = CellStatus(catalog.TestPending)
)

// severity orders statuses worst first: Failed > Running > Pending >
// Passed > Empty.
func severity(s CellStatus) int {
	switch s {
	case CellFailed:
		return 4
	case CellRunning:
		return 3
	case CellPending:
		return 2
	case CellPassed:
		return 1
	}
	return 0
}

type Cell struct {
	Key    CellKey
	Status CellStatus
	Count  int
}

// Matrix is the Goal x HW x SW cross tabulation. Axes keep first-seen
// order; Cells holds every combination, goal-major.
type Matrix struct {
	Goals []string
	HWs   []string
	SWs   []string
	Cells []Cell

	index map[CellKey]int
}

// Aggregate folds lines into the matrix. A cell reports the worst status
// among its lines, or Empty when none fall in it.
func Aggregate(lines []catalog.TestLine) Matrix {
	var m Matrix
	seenGoal := map[string]bool{}
	seenHW := map[string]bool{}
	seenSW := map[string]bool{}
	for _, l := range lines {
		if !seenGoal[l.GoalName] {
			seenGoal[l.GoalName] = true
			m.Goals = append(m.Goals, l.GoalName)
		}
		if !seenHW[l.HWConfig] {
			seenHW[l.HWConfig] = true
			m.HWs = append(m.HWs, l.HWConfig)
		}
		if !seenSW[l.SWConfig] {
			seenSW[l.SWConfig] = true
			m.SWs = append(m.SWs, l.SWConfig)
		}
	}

	m.index = make(map[CellKey]int, len(m.Goals)*len(m.HWs)*len(m.SWs))
	for _, g := range m.Goals {
		for _, h := range m.HWs {
			for _, s := range m.SWs {
				key := CellKey{Goal: g, HW: h, SW: s}
				m.index[key] = len(m.Cells)
				m.Cells = append(m.Cells, Cell{Key: key, Status: CellEmpty})
			}
		}
	}
	for _, l := range lines {
		c := &m.Cells[m.index[CellKey{Goal: l.GoalName, HW: l.HWConfig, SW: l.SWConfig}]]
		c.Count++
		if st := CellStatus(l.Status); severity(st) > severity(c.Status) {
			c.Status = st
		}
	}
	return m
}

// Cell looks up one combination.
func (m Matrix) Cell(key CellKey) (Cell, bool) {
	i, ok := m.index[key]
	if !ok {
		return Cell{Key: key, Status: CellEmpty}, false
	}
	return m.Cells[i], true
}

// Row returns the cells of one goal/hardware pair across software
// configurations, the unit the matrix grid renders per line.
func (m Matrix) Row(goal, hw string) []Cell {
	out := make([]Cell, 0, len(m.SWs))
	for _, sw := range m.SWs {
		c, _ := m.Cell(CellKey{Goal: goal, HW: hw, SW: sw})
		out = append(out, c)
	}
	return out
}

func (m Matrix) Empty() bool { return len(m.Cells) == 0 }
