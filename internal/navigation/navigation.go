// Package navigation tracks where the user is: the active context, the
// selected project and the tab remembered for every context key.
package navigation

import "strings"

type Context string

const (
	Global   Context = "GLOBAL"
	Personal Context = "PERSONAL"
	Project  Context = "PROJECT"
)

// Contexts lists the rail entries in display order.
var Contexts = []Context{Global, Personal, Project}

func (c Context) String() string { return string(c) }

const (
	TabDashboard   = "Dashboard"
	TabQuickBuilds = "Quick Builds"
	TabWorkflows   = "Workflows"

	browserKey = "PROJECT_BROWSER"
)

type TabMemory struct {
	TabID        string
	ScrollOffset int
}

type State struct {
	ActiveContext   Context
	ActiveProjectID string
	SidebarExpanded bool
	History         map[string]TabMemory
}

// New returns the state the dashboard opens with: the project context
// with startProject selected. An empty startProject opens the project
// browser instead.
func New(startProject string) *State {
	s := &State{
		ActiveContext:   Project,
		ActiveProjectID: startProject,
		SidebarExpanded: true,
		History: map[string]TabMemory{
			string(Global):   {TabID: "Project Explorer"},
			string(Personal): {TabID: TabDashboard},
		},
	}
	if startProject != "" {
		s.History[ProjectKey(startProject)] = TabMemory{TabID: TabQuickBuilds}
	}
	return s
}

// ProjectKey is the history key for a project, or the browser key when id
// is empty.
func ProjectKey(id string) string {
	if id == "" {
		return browserKey
	}
	return "PROJECT_" + id
}

// Key resolves the history key of the current position.
func (s *State) Key() string {
	if s.ActiveContext == Project {
		return ProjectKey(s.ActiveProjectID)
	}
	return string(s.ActiveContext)
}

func defaultTab(key string) string {
	if strings.HasPrefix(key, "PROJECT_") && key != browserKey {
		return TabQuickBuilds
	}
	return TabDashboard
}

// SwitchContext changes the active context and leaves every remembered tab
// and the selected project untouched.
func (s *State) SwitchContext(ctx Context) {
	switch ctx {
	case Global, Personal, Project:
		s.ActiveContext = ctx
	}
}

// SelectProject reports whether the selection applied; it only does in
// the project context.
func (s *State) SelectProject(id string) bool {
	if s.ActiveContext != Project || id == "" {
		return false
	}
	s.ActiveProjectID = id
	return true
}

func (s *State) DeselectProject() bool {
	if s.ActiveContext != Project || s.ActiveProjectID == "" {
		return false
	}
	s.ActiveProjectID = ""
	return true
}

// ChangeTab records tab for the current key. Unknown names are accepted;
// rendering decides what to show for them.
func (s *State) ChangeTab(tab string) {
	key := s.Key()
	mem := s.History[key]
	if mem.TabID != tab {
		mem.ScrollOffset = 0
	}
	mem.TabID = tab
	s.History[key] = mem
}

func (s *State) ToggleSidebar() {
	s.SidebarExpanded = !s.SidebarExpanded
}

// ActiveTab returns the remembered tab for the current key, or the
// first-visit default.
func (s *State) ActiveTab() string {
	key := s.Key()
	if mem, ok := s.History[key]; ok && mem.TabID != "" {
		return mem.TabID
	}
	return defaultTab(key)
}

func (s *State) RecordScroll(offset int) {
	if offset < 0 {
		offset = 0
	}
	key := s.Key()
	mem, ok := s.History[key]
	if !ok {
		mem.TabID = defaultTab(key)
	}
	mem.ScrollOffset = offset
	s.History[key] = mem
}

func (s *State) ScrollOffset() int {
	return s.History[s.Key()].ScrollOffset
}

// IsWorkflowTab reports whether tab renders the workflow run view.
func IsWorkflowTab(tab string) bool {
	return tab == TabQuickBuilds || tab == TabWorkflows
}

// Clone returns an independent copy, used for read-only snapshots.
func (s *State) Clone() State {
	out := *s
	out.History = make(map[string]TabMemory, len(s.History))
	for k, v := range s.History {
		out.History[k] = v
	}
	return out
}
