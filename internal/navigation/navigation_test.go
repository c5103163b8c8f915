package navigation

import (
	"math/rand"
	"testing"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialState(t *testing.T) {
	s := New("p3")
	assert.Equal(t, Project, s.ActiveContext)
	assert.Equal(t, "p3", s.ActiveProjectID)
	assert.True(t, s.SidebarExpanded)
	assert.Equal(t, "PROJECT_p3", s.Key())
	assert.Equal(t, TabQuickBuilds, s.ActiveTab())

	s.SwitchContext(Global)
	assert.Equal(t, "Project Explorer", s.ActiveTab())
	s.SwitchContext(Personal)
	assert.Equal(t, TabDashboard, s.ActiveTab())
}

func TestFirstVisitDefaults(t *testing.T) {
	s := &State{ActiveContext: Global, History: map[string]TabMemory{}}
	assert.Equal(t, TabDashboard, s.ActiveTab())

	s.ActiveContext = Project
	assert.Equal(t, "PROJECT_BROWSER", s.Key())
	assert.Equal(t, TabDashboard, s.ActiveTab())

	s.ActiveProjectID = "p9"
	assert.Equal(t, TabQuickBuilds, s.ActiveTab())
}

func TestSwitchContextKeepsProjectAndTabs(t *testing.T) {
	s := New("p3")
	s.ChangeTab("Releases")
	s.SwitchContext(Personal)
	assert.Equal(t, "p3", s.ActiveProjectID)
	s.ChangeTab("Recent Activity")

	s.SwitchContext(Project)
	assert.Equal(t, "Releases", s.ActiveTab())
	s.SwitchContext(Personal)
	assert.Equal(t, "Recent Activity", s.ActiveTab())
}

func TestSelectProjectOnlyInProjectContext(t *testing.T) {
	s := New("p3")
	s.SwitchContext(Global)
	assert.False(t, s.SelectProject("p1"))
	assert.False(t, s.DeselectProject())
	assert.Equal(t, "p3", s.ActiveProjectID)

	s.SwitchContext(Project)
	require.True(t, s.DeselectProject())
	assert.Equal(t, "PROJECT_BROWSER", s.Key())
	assert.False(t, s.DeselectProject())

	require.True(t, s.SelectProject("p1"))
	assert.Equal(t, "PROJECT_p1", s.Key())
	assert.Equal(t, TabQuickBuilds, s.ActiveTab())
}

func TestChangeTabDoesNotValidate(t *testing.T) {
	s := New("p3")
	s.ChangeTab("Nonexistent")
	assert.Equal(t, "Nonexistent", s.ActiveTab())
	assert.False(t, KnownTab(s.ActiveTab()))
}

func TestScrollMemoryPerKey(t *testing.T) {
	s := New("p3")
	s.RecordScroll(12)
	s.SwitchContext(Global)
	assert.Equal(t, 0, s.ScrollOffset())
	s.RecordScroll(-4)
	assert.Equal(t, 0, s.ScrollOffset())
	s.SwitchContext(Project)
	assert.Equal(t, 12, s.ScrollOffset())

	s.ChangeTab(TabWorkflows)
	assert.Equal(t, 0, s.ScrollOffset())
}

func TestRecordScrollOnFreshKeyKeepsDefaultTab(t *testing.T) {
	s := New("")
	s.RecordScroll(3)
	assert.Equal(t, TabDashboard, s.ActiveTab())
	assert.Equal(t, 3, s.ScrollOffset())
}

func TestToggleSidebar(t *testing.T) {
	s := New("p3")
	s.ToggleSidebar()
	assert.False(t, s.SidebarExpanded)
	s.ToggleSidebar()
	assert.True(t, s.SidebarExpanded)
}

// Switching away from a key and back always restores that key's last tab,
// whatever happened elsewhere in between.
func TestTabMemoryProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	tabs := []string{"A", "B", "C", TabDashboard, TabWorkflows}
	projects := []string{"p1", "p2", "p3"}

	s := New("p3")
	want := map[string]string{}
	for key, mem := range s.History {
		want[key] = mem.TabID
	}
	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			s.SwitchContext(Contexts[rng.Intn(len(Contexts))])
		case 1:
			tab := tabs[rng.Intn(len(tabs))]
			s.ChangeTab(tab)
			want[s.Key()] = tab
		case 2:
			s.SelectProject(projects[rng.Intn(len(projects))])
		case 3:
			s.DeselectProject()
		}
		if tab, ok := want[s.Key()]; ok {
			require.Equal(t, tab, s.ActiveTab(), "step %d key %s", i, s.Key())
		} else {
			require.Equal(t, defaultTab(s.Key()), s.ActiveTab())
		}
	}
}

func TestSections(t *testing.T) {
	assert.Len(t, Sections(Global, false), 2)
	assert.Len(t, Sections(Personal, false), 3)
	assert.Empty(t, Sections(Project, false))
	project := Sections(Project, true)
	require.Len(t, project, 4)
	assert.Equal(t, "MONITORING", project[2].Label)
	assert.Contains(t, Items(Project, true), TabQuickBuilds)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "GLOBAL EXPLORER", Header(Global, nil))
	assert.Equal(t, "PERSONAL WORKSPACE", Header(Personal, nil))
	assert.Equal(t, "PROJECT BROWSER", Header(Project, nil))
	assert.Equal(t, "Arrow Lake-H", Header(Project, &catalog.Project{Name: "Arrow Lake-H"}))
}

func TestFilterProjects(t *testing.T) {
	projects := catalog.MockData(1, 1).Projects
	assert.Len(t, FilterProjects(projects, ""), 4)

	got := FilterProjects(projects, "lnl")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	got = FilterProjects(projects, "LAKE")
	assert.Len(t, got, 3)

	assert.Empty(t, FilterProjects(projects, "zzz"))
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("p3")
	c := s.Clone()
	s.ChangeTab("Elsewhere")
	assert.Equal(t, TabQuickBuilds, c.History["PROJECT_p3"].TabID)
}
