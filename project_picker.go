package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

type projectEntry struct {
	project catalog.Project
}

func (e projectEntry) Title() string       { return e.project.Name }
func (e projectEntry) Description() string { return e.project.CodeName + " · " + e.project.LastAccessed }
func (e projectEntry) FilterValue() string { return e.project.Name }

// projectPicker is the browser list shown in the sidebar while the
// project context has no project selected.
type projectPicker struct {
	model  list.Model
	width  int
	height int
}

func newProjectPicker(s styles) *projectPicker {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Copy().Foreground(palette.textMuted)

	m := list.New([]list.Item{}, delegate, 26, 20)
	m.SetShowTitle(false)
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)

	return &projectPicker{model: m, width: 26, height: 20}
}

func (p *projectPicker) SetProjects(projects []catalog.Project) {
	items := make([]list.Item, len(projects))
	for i, proj := range projects {
		items[i] = projectEntry{project: proj}
	}
	p.model.SetItems(items)
	if len(items) > 0 {
		p.model.Select(0)
	}
}

func (p *projectPicker) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	p.width = width
	p.height = height
	p.model.SetSize(width, height)
}

func (p *projectPicker) Len() int { return len(p.model.Items()) }

func (p *projectPicker) Move(delta int) {
	if delta < 0 {
		p.model.CursorUp()
		return
	}
	p.model.CursorDown()
}

func (p *projectPicker) Selected() (catalog.Project, bool) {
	entry, ok := p.model.SelectedItem().(projectEntry)
	if !ok {
		return catalog.Project{}, false
	}
	return entry.project, true
}

func (p *projectPicker) View(s styles) string {
	if p.Len() == 0 {
		return s.listMuted.Render("No projects found.")
	}
	return lipgloss.NewStyle().MaxWidth(p.width).Render(p.model.View())
}
