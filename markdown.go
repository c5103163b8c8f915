package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/bekirdag/vdcdash/internal/workflow"
)

type markdownTheme string

const (
	markdownThemeAuto  markdownTheme = "auto"
	markdownThemeDark  markdownTheme = "dark"
	markdownThemeLight markdownTheme = "light"
)

func parseMarkdownTheme(value string) markdownTheme {
	switch t := markdownTheme(strings.ToLower(strings.TrimSpace(value))); t {
	case markdownThemeDark, markdownThemeLight:
		return t
	}
	return markdownThemeAuto
}

func (t markdownTheme) Label() string {
	if t == "" {
		t = markdownThemeAuto
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Next cycles auto, dark, light.
func (t markdownTheme) Next() markdownTheme {
	switch t {
	case markdownThemeAuto, "":
		return markdownThemeDark
	case markdownThemeDark:
		return markdownThemeLight
	}
	return markdownThemeAuto
}

func (t markdownTheme) option() glamour.TermRendererOption {
	if t == markdownThemeDark || t == markdownThemeLight {
		return glamour.WithStandardStyle(string(t))
	}
	return glamour.WithAutoStyle()
}

type rendererKey struct {
	theme markdownTheme
	wrap  int
}

// markdownRenderers caches one glamour renderer per theme and wrap width.
type markdownRenderers struct {
	mu      sync.Mutex
	theme   markdownTheme
	wrap    int
	byKey   map[rendererKey]*glamour.TermRenderer
	failing map[rendererKey]bool
}

var mdRenderers = &markdownRenderers{theme: markdownThemeAuto, wrap: 72}

func (r *markdownRenderers) current() *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rendererKey{theme: r.theme, wrap: r.wrap}
	if tr, ok := r.byKey[key]; ok {
		return tr
	}
	if r.failing[key] {
		return nil
	}
	tr, err := glamour.NewTermRenderer(key.theme.option(), glamour.WithWordWrap(key.wrap))
	if err != nil {
		if r.failing == nil {
			r.failing = make(map[rendererKey]bool)
		}
		r.failing[key] = true
		return nil
	}
	if r.byKey == nil {
		r.byKey = make(map[rendererKey]*glamour.TermRenderer)
	}
	r.byKey[key] = tr
	return tr
}

// renderMarkdown returns glamour output for content, or content itself
// when no renderer can be built.
func renderMarkdown(content string) string {
	tr := mdRenderers.current()
	if tr == nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func setMarkdownWordWrap(width int) {
	mdRenderers.mu.Lock()
	mdRenderers.wrap = maxInt(width, 0)
	mdRenderers.mu.Unlock()
}

func setMarkdownTheme(theme markdownTheme) {
	if theme == "" {
		theme = markdownThemeAuto
	}
	mdRenderers.mu.Lock()
	mdRenderers.theme = theme
	mdRenderers.mu.Unlock()
}

func currentMarkdownTheme() markdownTheme {
	mdRenderers.mu.Lock()
	defer mdRenderers.mu.Unlock()
	return mdRenderers.theme
}

const reviewGuidanceMarkdown = `### Review Guidance

* Review the configuration of the discovered test lines before submission.
* Select rows to edit their settings.
* Press space on the Included/Excluded badge to toggle a line.
`

// guidanceMarkdown is the popover text for a test phase.
func guidanceMarkdown(phase workflow.TestPhase) string {
	switch phase {
	case workflow.Discovery:
		return "### Discovery\n\nTest lines are being discovered for the selected configuration. Press `p` to move on to review.\n"
	case workflow.Review:
		return reviewGuidanceMarkdown + "\nPress `s` to **Submit to NGA** once the selection is final.\n"
	case workflow.Submission:
		return "### Submission\n\nThe selected lines are queued on NGA. Execution starts when the queue is accepted.\n"
	case workflow.Execution:
		return "### Execution\n\nLines are running on the allocated SUTs. The heat map updates as results arrive.\n"
	case workflow.Result:
		return "### Resolution Outcome Required\n\nChoose **Manual Pass** (`P`) or **Manual Fail** (`F`), write an engineering justification (`J`) and submit it (`s`).\n"
	case workflow.Done:
		return "### Done\n\nValidation Test cycle finalized and resolution recorded.\n"
	}
	return ""
}

var helpMenuItems = []string{
	"Open a ticket",
	"My tickets",
	"Ask Community",
	"VDC knowledge",
	"Privacy Notice",
}

const appVersion = "20251230.12"

func helpMarkdown(keys []string) string {
	var b strings.Builder
	b.WriteString("## Help\n\n")
	for _, item := range helpMenuItems {
		fmt.Fprintf(&b, "* %s\n", item)
	}
	if len(keys) > 0 {
		b.WriteString("\n### Keys\n\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "* %s\n", k)
		}
	}
	fmt.Fprintf(&b, "\n_Version %s_\n", appVersion)
	return b.String()
}
