package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls []string
}

func (s *recordingSink) CyclePhase()    { s.calls = append(s.calls, "cycle") }
func (s *recordingSink) CycleEdgeCase() { s.calls = append(s.calls, "edge") }
func (s *recordingSink) SetOutcome(o Outcome) {
	s.calls = append(s.calls, "outcome:"+string(o))
}
func (s *recordingSink) SetJustification(text string) {
	s.calls = append(s.calls, "justify:"+text)
}
func (s *recordingSink) SubmitResolution() bool {
	s.calls = append(s.calls, "submit")
	return true
}
func (s *recordingSink) SelectStep(id string) bool {
	s.calls = append(s.calls, "select:"+id)
	return true
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		line string
		want Event
	}{
		{"cycle-phase", Event{Kind: EventCyclePhase}},
		{"  CYCLE-STATE  ", Event{Kind: EventCycleState}},
		{"cycle-edge", Event{Kind: EventCycleEdge}},
		{"submit", Event{Kind: EventSubmit}},
		{"outcome failed", Event{Kind: EventOutcome, Value: "FAILED"}},
		{"justify rig 4 lost power", Event{Kind: EventJustification, Value: "rig 4 lost power"}},
		{"select step3", Event{Kind: EventSelectStep, Value: "step3"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseEvent(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventErrors(t *testing.T) {
	_, err := ParseEvent("")
	assert.ErrorIs(t, err, ErrSkipLine)
	_, err = ParseEvent("# comment")
	assert.ErrorIs(t, err, ErrSkipLine)

	for _, line := range []string{"launch", "outcome maybe", "select"} {
		_, err := ParseEvent(line)
		assert.Error(t, err, line)
		assert.NotErrorIs(t, err, ErrSkipLine, line)
	}
}

func TestApply(t *testing.T) {
	sink := &recordingSink{}
	events := []Event{
		{Kind: EventCyclePhase},
		{Kind: EventCycleState},
		{Kind: EventCycleEdge},
		{Kind: EventOutcome, Value: "PASSED"},
		{Kind: EventJustification, Value: "ok"},
		{Kind: EventSubmit},
		{Kind: EventSelectStep, Value: "step1"},
	}
	for _, ev := range events {
		assert.True(t, Apply(sink, ev), ev.String())
	}
	assert.Equal(t, []string{"cycle", "cycle", "edge", "outcome:PASSED", "justify:ok", "submit", "select:step1"}, sink.calls)

	assert.False(t, Apply(sink, Event{Kind: "bogus"}))
	assert.False(t, Apply(sink, Event{Kind: EventOutcome, Value: "maybe"}))
}

func TestDrivers(t *testing.T) {
	demo := NewDemoDriver()
	ev, ok := demo.Translate("p")
	require.True(t, ok)
	assert.Equal(t, EventCyclePhase, ev.Kind)
	_, ok = demo.Translate("z")
	assert.False(t, ok)

	var line LineDriver
	ev, ok = line.Translate("outcome pass")
	require.True(t, ok)
	assert.Equal(t, "outcome PASS", ev.String())
	_, ok = line.Translate("nonsense")
	assert.False(t, ok)

	var _ Driver = demo
	var _ Driver = line
}

func TestSkipLine(t *testing.T) {
	assert.True(t, SkipLine(""))
	assert.True(t, SkipLine("   \t"))
	assert.True(t, SkipLine("  # note"))
	assert.False(t, SkipLine("cycle-phase"))

	_, err := ParseEvent(" # note")
	assert.ErrorIs(t, err, ErrSkipLine)
}
