package navigation

import (
	"strings"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

type Section struct {
	Label string
	Items []string
}

// Sections returns the secondary sidebar for a context. The project
// context without a selected project shows the picker, so it has none.
func Sections(ctx Context, projectSelected bool) []Section {
	switch ctx {
	case Global:
		return []Section{
			{Label: "DISCOVERY", Items: []string{"Project Explorer", "Ingredient Index", "Global Catalog"}},
			{Label: "BUILDERS", Items: []string{"Quick Builder", "System Configs", "Workflow Templates"}},
		}
	case Personal:
		return []Section{
			{Label: "OVERVIEW", Items: []string{TabDashboard}},
			{Label: "MY WORK", Items: []string{"My Projects", "Recent Activity", "My Favorites"}},
			{Label: "ANALYSIS", Items: []string{"My Saved Queries", "Custom Reports", "Data Watcher"}},
		}
	case Project:
		if !projectSelected {
			return nil
		}
		return []Section{
			{Label: "OVERVIEW", Items: []string{TabDashboard}},
			{Label: "MANAGEMENT", Items: []string{"Ingredients", "Releases", "History"}},
			{Label: "MONITORING", Items: []string{TabWorkflows, TabQuickBuilds, "Active Runs", "Error Logs"}},
			{Label: "PROJECT DATA", Items: []string{"Queries", "Attachments"}},
		}
	}
	return nil
}

// Items flattens Sections into the order the sidebar cursor walks.
func Items(ctx Context, projectSelected bool) []string {
	var out []string
	for _, sec := range Sections(ctx, projectSelected) {
		out = append(out, sec.Items...)
	}
	return out
}

func Header(ctx Context, project *catalog.Project) string {
	switch ctx {
	case Global:
		return "GLOBAL EXPLORER"
	case Personal:
		return "PERSONAL WORKSPACE"
	}
	if project != nil {
		return project.Name
	}
	return "PROJECT BROWSER"
}

// KnownTab reports whether the content area has a dedicated view for tab.
func KnownTab(tab string) bool {
	return tab == TabDashboard || IsWorkflowTab(tab)
}

// FilterProjects matches query case-insensitively against name and code
// name. An empty query keeps every project.
func FilterProjects(projects []catalog.Project, query string) []catalog.Project {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]catalog.Project(nil), projects...)
	}
	var out []catalog.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.CodeName), q) {
			out = append(out, p)
		}
	}
	return out
}
