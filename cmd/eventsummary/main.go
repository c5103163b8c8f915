package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// journalEvent mirrors one line of the dashboard's NDJSON journal.
type journalEvent struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Project   string    `json:"project"`
	Step      string    `json:"step"`
	Phase     string    `json:"phase"`
	Detail    string    `json:"detail"`
}

type resolution struct {
	Step      string    `json:"step"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

type sessionSummary struct {
	SessionID   string            `json:"session_id"`
	UserID      string            `json:"user_id,omitempty"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	DurationSec float64           `json:"duration_sec"`
	Events      int               `json:"events"`
	Commands    map[string]int    `json:"commands"`
	Projects    []string          `json:"projects,omitempty"`
	LastPhase   map[string]string `json:"last_phase,omitempty"`
	Resolutions []resolution      `json:"resolutions,omitempty"`
}

type eventReport struct {
	Source    string           `json:"source"`
	Events    int              `json:"events"`
	Commands  map[string]int   `json:"commands"`
	Sessions  []sessionSummary `json:"sessions"`
	Anomalies []string         `json:"anomalies,omitempty"`
}

func main() {
	var inputPath string
	var outputPath string
	var sessionID string
	flag.StringVar(&inputPath, "in", "", "journal file written with vdcdash --events (required)")
	flag.StringVar(&outputPath, "out", "", "output JSON path (optional, defaults to stdout)")
	flag.StringVar(&sessionID, "session", "", "only summarise this session id")
	flag.Parse()

	if inputPath == "" {
		exit(errors.New("missing --in path"))
	}

	file, err := os.Open(inputPath)
	if err != nil {
		exit(fmt.Errorf("open journal: %w", err))
	}
	events, anomalies, err := parseJournal(file)
	file.Close()
	if err != nil {
		exit(fmt.Errorf("parse journal: %w", err))
	}

	report := buildReport(inputPath, events, sessionID)
	report.Anomalies = append(anomalies, report.Anomalies...)

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exit(fmt.Errorf("encode report: %w", err))
	}
	if outputPath == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		exit(fmt.Errorf("write output: %w", err))
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "eventsummary: %v\n", err)
	os.Exit(1)
}

// parseJournal decodes every line. Lines that are not valid events are
// reported as anomalies instead of failing the run.
func parseJournal(r io.Reader) ([]journalEvent, []string, error) {
	var (
		scanner   = bufio.NewScanner(r)
		lineNo    = 0
		events    []journalEvent
		anomalies []string
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev journalEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			anomalies = append(anomalies, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		if ev.Event == "" {
			anomalies = append(anomalies, fmt.Sprintf("line %d: missing event name", lineNo))
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return events, anomalies, nil
}

func buildReport(source string, events []journalEvent, onlySession string) eventReport {
	report := eventReport{
		Source:   source,
		Commands: make(map[string]int),
	}
	bySession := make(map[string]*sessionSummary)
	var order []string

	for _, ev := range events {
		if onlySession != "" && ev.SessionID != onlySession {
			continue
		}
		report.Events++
		report.Commands[ev.Event]++

		s, ok := bySession[ev.SessionID]
		if !ok {
			s = &sessionSummary{
				SessionID: ev.SessionID,
				UserID:    ev.UserID,
				StartTime: ev.Timestamp,
				EndTime:   ev.Timestamp,
				Commands:  make(map[string]int),
				LastPhase: make(map[string]string),
			}
			bySession[ev.SessionID] = s
			order = append(order, ev.SessionID)
		}
		s.Events++
		s.Commands[ev.Event]++
		if ev.Timestamp.Before(s.StartTime) {
			s.StartTime = ev.Timestamp
		}
		if ev.Timestamp.After(s.EndTime) {
			s.EndTime = ev.Timestamp
		}
		if ev.Project != "" && !containsString(s.Projects, ev.Project) {
			s.Projects = append(s.Projects, ev.Project)
		}
		if ev.Step != "" && ev.Phase != "" {
			s.LastPhase[ev.Step] = ev.Phase
		}
		if ev.Event == "submit-resolution" {
			s.Resolutions = append(s.Resolutions, resolution{Step: ev.Step, Outcome: ev.Detail, Timestamp: ev.Timestamp})
		}
	}

	for _, id := range order {
		s := bySession[id]
		s.DurationSec = s.EndTime.Sub(s.StartTime).Seconds()
		sort.Strings(s.Projects)
		if len(s.LastPhase) == 0 {
			s.LastPhase = nil
		}
		report.Sessions = append(report.Sessions, *s)
	}
	sort.SliceStable(report.Sessions, func(i, j int) bool {
		return report.Sessions[i].StartTime.Before(report.Sessions[j].StartTime)
	})
	if onlySession != "" && len(report.Sessions) == 0 {
		report.Anomalies = append(report.Anomalies, fmt.Sprintf("session %s not found", onlySession))
	}
	return report
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
