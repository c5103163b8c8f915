package main

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJournal = `{"session_id":"a","user_id":"jd","timestamp":"2025-12-17T14:35:00Z","event":"cycle-phase","project":"p3","step":"step6","phase":"REVIEW","detail":"REVIEW"}
not json
{"session_id":"a","user_id":"jd","timestamp":"2025-12-17T14:36:00Z","event":"toggle-inclusion","project":"p3","step":"step6","phase":"REVIEW","detail":"TL-0001"}

{"session_id":"b","timestamp":"2025-12-17T14:30:00Z","event":"switch-context","detail":"GLOBAL"}
{"session_id":"a","user_id":"jd","timestamp":"2025-12-17T14:55:14Z","event":"submit-resolution","project":"p3","step":"step6","phase":"DONE","detail":"FAILED"}
{"session_id":"a","timestamp":"2025-12-17T14:56:00Z"}
`

func TestParseJournalCollectsAnomalies(t *testing.T) {
	events, anomalies, err := parseJournal(strings.NewReader(sampleJournal))
	require.NoError(t, err)
	assert.Len(t, events, 4)
	require.Len(t, anomalies, 2)
	assert.True(t, strings.HasPrefix(anomalies[0], "line 2:"))
	assert.Equal(t, "line 7: missing event name", anomalies[1])
}

func TestBuildReport(t *testing.T) {
	events, _, err := parseJournal(strings.NewReader(sampleJournal))
	require.NoError(t, err)

	report := buildReport("events.ndjson", events, "")
	assert.Equal(t, 4, report.Events)
	assert.Equal(t, 1, report.Commands["cycle-phase"])
	require.Len(t, report.Sessions, 2)
	assert.Equal(t, "b", report.Sessions[0].SessionID, "sessions are ordered by start time")

	a := report.Sessions[1]
	assert.Equal(t, "jd", a.UserID)
	assert.Equal(t, 3, a.Events)
	assert.Equal(t, []string{"p3"}, a.Projects)
	assert.Equal(t, map[string]string{"step6": "DONE"}, a.LastPhase)
	assert.InDelta(t, 1214.0, a.DurationSec, 0.001)

	want := []resolution{{
		Step:      "step6",
		Outcome:   "FAILED",
		Timestamp: time.Date(2025, 12, 17, 14, 55, 14, 0, time.UTC),
	}}
	if diff := cmp.Diff(want, a.Resolutions); diff != "" {
		t.Fatalf("resolutions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportSessionFilter(t *testing.T) {
	events, _, err := parseJournal(strings.NewReader(sampleJournal))
	require.NoError(t, err)

	report := buildReport("events.ndjson", events, "b")
	assert.Equal(t, 1, report.Events)
	require.Len(t, report.Sessions, 1)
	assert.Nil(t, report.Sessions[0].LastPhase)

	missing := buildReport("events.ndjson", events, "zzz")
	assert.Empty(t, missing.Sessions)
	assert.Equal(t, []string{"session zzz not found"}, missing.Anomalies)
}
