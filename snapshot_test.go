package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bekirdag/vdcdash/internal/catalog"
	"github.com/bekirdag/vdcdash/internal/session"
	"github.com/bekirdag/vdcdash/internal/workflow"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	cat, err := catalog.MockSource{Seed: 1}.Load(context.Background())
	require.NoError(t, err)
	return session.New(cat, session.DefaultOptions())
}

func TestReplayEventsDrivesRunToDone(t *testing.T) {
	sess := newTestSession(t)
	script := `# full run
cycle-phase
cycle-phase

cycle-phase
cycle-phase
outcome FAILED
justify rail voltage out of range
submit
`
	applied, err := replayEvents(sess, strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 7, applied)

	cur := sess.Current()
	assert.Equal(t, workflow.Done, cur.Phase)
	assert.Equal(t, workflow.OutcomeFailed, cur.Outcome)
	assert.Equal(t, "rail voltage out of range", cur.Justification)
}

func TestReplayEventsReportsBadLine(t *testing.T) {
	sess := newTestSession(t)
	applied, err := replayEvents(sess, strings.NewReader("cycle-phase\nexplode now\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay line 2")
	assert.Equal(t, 1, applied)
	assert.Equal(t, workflow.Review, sess.Current().Phase)
}

func TestWriteSnapshotYAML(t *testing.T) {
	sess := newTestSession(t)
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, sess.Snapshot(), "yaml"))

	var doc snapshotDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "PROJECT", doc.Context)
	assert.Equal(t, "p3", doc.ProjectID)
	assert.Equal(t, "Arrow Lake-H", doc.ProjectName)
	assert.Equal(t, "Quick Builds", doc.ActiveTab)
	assert.Equal(t, "step6", doc.StepID)
	assert.Equal(t, "DISCOVERY", doc.Phase)
	assert.Equal(t, "00h 20m 14s", doc.Clock)
	assert.Equal(t, snapshotPage{Page: 1, TotalPages: 18, From: 1, To: 25, Count: 450}, doc.Pages["tests"])
	assert.Equal(t, []string{"logs", "settings"}, doc.Collapsed)
	assert.Empty(t, doc.KPIs)
}

func TestWriteSnapshotMarkdown(t *testing.T) {
	sess := newTestSession(t)
	sess.CyclePhase()

	raw := snapshotMarkdown(sess.Snapshot())
	assert.Contains(t, raw, "| Phase | REVIEW |")
	assert.Contains(t, raw, "- **Discovered**: 450")
	assert.Contains(t, raw, "- tests: page 1 of 18, showing 1 to 25 of 450")

	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, sess.Snapshot(), "markdown"))
	assert.Contains(t, buf.String(), "Dashboard snapshot")
}

func TestWriteSnapshotUnknownFormat(t *testing.T) {
	err := writeSnapshot(&bytes.Buffer{}, newTestSession(t).Snapshot(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}
