package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bekirdag/vdcdash/internal/session"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		replay string
		format string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the dashboard state without opening the UI",
		Long: `Builds a session from the configured catalog, optionally replays a
file of run events (the --driver-cmd protocol, one per line) and prints
the resulting state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, opts.logger)
			if err != nil {
				return err
			}
			sessOpts := cfg.sessionOptions()
			sessOpts.Logger = opts.logger
			sess := session.New(cat, sessOpts)

			if replay != "" {
				f, err := os.Open(replay)
				if err != nil {
					return fmt.Errorf("open replay: %w", err)
				}
				defer f.Close()
				applied, err := replayEvents(sess, f)
				if err != nil {
					return err
				}
				opts.logger.Debug("replay applied", zap.String("path", replay), zap.Int("events", applied))
			}
			setMarkdownTheme(parseMarkdownTheme(cfg.Theme))
			return writeSnapshot(cmd.OutOrStdout(), sess.Snapshot(), format)
		},
	}
	cmd.Flags().StringVar(&replay, "replay", "", "File of run events to apply before printing")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or yaml")
	return cmd
}

// replayEvents applies every event line in r and returns how many the
// session accepted. Blank and comment lines are skipped; anything else
// that does not parse stops the replay.
func replayEvents(sess *session.Session, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	applied := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ev, err := workflow.ParseEvent(scanner.Text())
		if errors.Is(err, workflow.ErrSkipLine) {
			continue
		}
		if err != nil {
			return applied, fmt.Errorf("replay line %d: %w", lineNo, err)
		}
		if sess.ApplyEvent(ev) {
			applied++
		}
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("read replay: %w", err)
	}
	return applied, nil
}

type snapshotPage struct {
	Page       int `yaml:"page"`
	TotalPages int `yaml:"total_pages"`
	From       int `yaml:"from"`
	To         int `yaml:"to"`
	Count      int `yaml:"count"`
}

type snapshotDoc struct {
	Context       string                  `yaml:"context"`
	ProjectID     string                  `yaml:"project_id,omitempty"`
	ProjectName   string                  `yaml:"project_name,omitempty"`
	ActiveTab     string                  `yaml:"active_tab"`
	Sidebar       bool                    `yaml:"sidebar_expanded"`
	StepID        string                  `yaml:"step_id,omitempty"`
	StepName      string                  `yaml:"step_name,omitempty"`
	StepKind      string                  `yaml:"step_kind,omitempty"`
	Phase         string                  `yaml:"phase,omitempty"`
	Outcome       string                  `yaml:"outcome,omitempty"`
	Justification string                  `yaml:"justification,omitempty"`
	CanSubmit     bool                    `yaml:"can_submit"`
	EdgeCase      string                  `yaml:"edge_case"`
	Clock         string                  `yaml:"clock"`
	ClockSeconds  int                     `yaml:"clock_seconds"`
	ClockRunning  bool                    `yaml:"clock_running"`
	KPIs          map[string]string       `yaml:"kpis,omitempty"`
	ShowAllDeps   bool                    `yaml:"show_all_deps"`
	ShowAllKnobs  bool                    `yaml:"show_all_knobs"`
	KnobSearch    string                  `yaml:"knob_search,omitempty"`
	MatrixFilter  string                  `yaml:"matrix_filter,omitempty"`
	Pages         map[string]snapshotPage `yaml:"pages"`
	Collapsed     []string                `yaml:"collapsed_panels,omitempty"`
}

func newSnapshotDoc(snap session.Snapshot) snapshotDoc {
	doc := snapshotDoc{
		Context:       string(snap.Context),
		ProjectID:     snap.ProjectID,
		ProjectName:   snap.ProjectName,
		ActiveTab:     snap.ActiveTab,
		Sidebar:       snap.SidebarExpanded,
		StepID:        snap.StepID,
		StepName:      snap.StepName,
		StepKind:      snap.StepKind,
		Phase:         snap.Phase,
		Outcome:       snap.Outcome,
		Justification: snap.Justification,
		CanSubmit:     snap.CanSubmit,
		EdgeCase:      snap.EdgeCase,
		Clock:         snap.Clock,
		ClockSeconds:  snap.ClockSeconds,
		ClockRunning:  snap.ClockRunning,
		ShowAllDeps:   snap.ShowAllDeps,
		ShowAllKnobs:  snap.ShowAllKnobs,
		KnobSearch:    snap.KnobSearch,
		Pages:         make(map[string]snapshotPage, len(snap.Pages)),
	}
	if snap.MatrixFilter.Active() {
		doc.MatrixFilter = snap.MatrixFilter.String()
	}
	if len(snap.KPIs) > 0 {
		doc.KPIs = make(map[string]string, len(snap.KPIs))
		for _, k := range snap.KPIs {
			doc.KPIs[k.Label] = k.Value
		}
	}
	for t, p := range snap.Pages {
		doc.Pages[string(t)] = snapshotPage{Page: p.Page, TotalPages: p.TotalPages, From: p.From, To: p.To, Count: p.Count}
	}
	for p, collapsed := range snap.Collapsed {
		if collapsed {
			doc.Collapsed = append(doc.Collapsed, string(p))
		}
	}
	sort.Strings(doc.Collapsed)
	return doc
}

func writeSnapshot(w io.Writer, snap session.Snapshot, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newSnapshotDoc(snap)); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return enc.Close()
	case "", "markdown", "md":
		_, err := io.WriteString(w, renderMarkdown(snapshotMarkdown(snap))+"\n")
		return err
	}
	return fmt.Errorf("unknown format %q (want markdown or yaml)", format)
}

func snapshotMarkdown(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString("# Dashboard snapshot\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, strings.ReplaceAll(value, "|", "\\|"))
	}
	row("Context", string(snap.Context))
	project := snap.ProjectName
	if snap.ProjectID != "" {
		project = fmt.Sprintf("%s (%s)", snap.ProjectName, snap.ProjectID)
	}
	row("Project", project)
	row("Tab", snap.ActiveTab)
	if snap.StepID != "" {
		row("Step", fmt.Sprintf("%s (%s, %s)", snap.StepName, snap.StepID, snap.StepKind))
		row("Phase", snap.Phase)
		row("Outcome", snap.Outcome)
		row("Justification", snap.Justification)
	}
	row("Edge case", snap.EdgeCase)
	clock := snap.Clock
	if snap.ClockRunning {
		clock += " (running)"
	}
	row("Elapsed", clock)
	if snap.MatrixFilter.Active() {
		row("Matrix filter", snap.MatrixFilter.String())
	}
	if snap.KnobSearch != "" {
		row("Knob search", snap.KnobSearch)
	}

	if len(snap.KPIs) > 0 {
		b.WriteString("\n## KPIs\n\n")
		for _, k := range snap.KPIs {
			fmt.Fprintf(&b, "- **%s**: %s\n", k.Label, k.Value)
		}
	}

	b.WriteString("\n## Tables\n\n")
	for _, t := range session.Tables {
		p := snap.Pages[t]
		fmt.Fprintf(&b, "- %s: page %d of %d, showing %d to %d of %d\n", t, p.Page, p.TotalPages, p.From, p.To, p.Count)
	}
	return b.String()
}
