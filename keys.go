package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit          key.Binding
	nextFocus     key.Binding
	prevFocus     key.Binding
	up            key.Binding
	down          key.Binding
	prevPage      key.Binding
	nextPage      key.Binding
	activate      key.Binding
	back          key.Binding
	ctxGlobal     key.Binding
	ctxPersonal   key.Binding
	ctxProject    key.Binding
	toggleSidebar key.Binding
	toggleSteps   key.Binding
	switchProject key.Binding
	search        key.Binding
	nextPanel     key.Binding
	prevPanel     key.Binding
	togglePanel   key.Binding
	collapseAll   key.Binding
	expandAll     key.Binding
	showAll       key.Binding
	toggleInclude key.Binding
	markPass      key.Binding
	markFail      key.Binding
	justify       key.Binding
	submit        key.Binding
	phaseHistory  key.Binding
	guidance      key.Binding
	helpMenu      key.Binding
	toggleTheme   key.Binding
	copyValue     key.Binding
	demo          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next area"),
		),
		prevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev area"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close / clear"),
		),
		ctxGlobal: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "global"),
		),
		ctxPersonal: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "personal"),
		),
		ctxProject: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "project"),
		),
		toggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle sidebar"),
		),
		toggleSteps: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle steps"),
		),
		switchProject: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "switch project"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		nextPanel: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "next panel"),
		),
		prevPanel: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "prev panel"),
		),
		togglePanel: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "fold panel"),
		),
		collapseAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse all"),
		),
		expandAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "expand all"),
		),
		showAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "show all"),
		),
		toggleInclude: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "include/exclude"),
		),
		markPass: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "manual pass"),
		),
		markFail: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "manual fail"),
		),
		justify: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "justification"),
		),
		submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		phaseHistory: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "phase history"),
		),
		guidance: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "guidance"),
		),
		helpMenu: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		toggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		copyValue: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy id/path"),
		),
		// Dispatched through the demo driver, listed for help only.
		demo: key.NewBinding(
			key.WithKeys("p", "b", "e"),
			key.WithHelp("p/b/e", "cycle phase/build/edge case"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.nextFocus,
		k.nextPanel,
		k.togglePanel,
		k.submit,
		k.helpMenu,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.prevFocus, k.up, k.down, k.prevPage, k.nextPage, k.activate, k.back},
		{k.ctxGlobal, k.ctxPersonal, k.ctxProject, k.toggleSidebar, k.toggleSteps, k.switchProject, k.search},
		{k.nextPanel, k.prevPanel, k.togglePanel, k.collapseAll, k.expandAll, k.showAll, k.toggleInclude, k.copyValue},
		{k.markPass, k.markFail, k.justify, k.submit, k.phaseHistory, k.guidance, k.helpMenu, k.toggleTheme, k.demo, k.quit},
	}
}

// helpLines flattens the bindings for the help popover.
func (k keyMap) helpLines() []string {
	var out []string
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			out = append(out, "`"+h.Key+"` "+h.Desc)
		}
	}
	return out
}
