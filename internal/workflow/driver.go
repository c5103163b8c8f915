package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSkipLine = errors.New("blank or comment line")

type EventKind string

const (
	EventCyclePhase    EventKind = "cycle-phase"
	EventCycleState    EventKind = "cycle-state"
	EventCycleEdge     EventKind = "cycle-edge"
	EventOutcome       EventKind = "outcome"
	EventJustification EventKind = "justify"
	EventSubmit        EventKind = "submit"
	EventSelectStep    EventKind = "select"
)

// Event is one external stimulus for the run machines. Value carries the
// outcome, justification text or step id where the kind needs one.
type Event struct {
	Kind  EventKind
	Value string
}

func (e Event) String() string {
	if e.Value == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + " " + e.Value
}

// Driver turns driver-specific input into events. The demo driver reads
// key presses; a script driver reads protocol lines. A real build system
// integration would be one more Driver.
type Driver interface {
	Name() string
	Translate(input string) (Event, bool)
}

// Sink is the command surface an event is applied to.
type Sink interface {
	CyclePhase()
	CycleEdgeCase()
	SetOutcome(Outcome)
	SetJustification(string)
	SubmitResolution() bool
	SelectStep(id string) bool
}

// Apply dispatches ev onto s and reports whether it was understood.
func Apply(s Sink, ev Event) bool {
	switch ev.Kind {
	case EventCyclePhase, EventCycleState:
		s.CyclePhase()
	case EventCycleEdge:
		s.CycleEdgeCase()
	case EventOutcome:
		o, ok := ParseOutcome(ev.Value)
		if !ok {
			return false
		}
		s.SetOutcome(o)
	case EventJustification:
		s.SetJustification(ev.Value)
	case EventSubmit:
		s.SubmitResolution()
	case EventSelectStep:
		s.SelectStep(ev.Value)
	default:
		return false
	}
	return true
}

// DemoDriver maps the dashboard's demo keys to events.
type DemoDriver struct {
	Keys map[string]EventKind
}

func NewDemoDriver() DemoDriver {
	return DemoDriver{Keys: map[string]EventKind{
		"p": EventCyclePhase,
		"b": EventCycleState,
		"e": EventCycleEdge,
	}}
}

func (DemoDriver) Name() string { return "demo" }

func (d DemoDriver) Translate(key string) (Event, bool) {
	kind, ok := d.Keys[key]
	if !ok {
		return Event{}, false
	}
	return Event{Kind: kind}, true
}

// LineDriver reads the text protocol, one event per line.
type LineDriver struct{}

func (LineDriver) Name() string { return "script" }

func (LineDriver) Translate(line string) (Event, bool) {
	ev, err := ParseEvent(line)
	if err != nil {
		return Event{}, false
	}
	return ev, true
}

// SkipLine reports whether a protocol line carries nothing: blank lines
// and # comments.
func SkipLine(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}

// ParseEvent decodes one protocol line:
//
//	cycle-phase | cycle-state | cycle-edge | submit
//	outcome PASSED|FAILED|NONE
//	justify <free text>
//	select <step id>
//
// Blank lines and lines starting with # yield ErrSkipLine.
func ParseEvent(line string) (Event, error) {
	if SkipLine(line) {
		return Event{}, ErrSkipLine
	}
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	kind := EventKind(strings.ToLower(verb))
	switch kind {
	case EventCyclePhase, EventCycleState, EventCycleEdge, EventSubmit:
		return Event{Kind: kind}, nil
	case EventOutcome:
		if _, ok := ParseOutcome(rest); !ok {
			return Event{}, fmt.Errorf("unknown outcome %q", rest)
		}
		return Event{Kind: kind, Value: strings.ToUpper(rest)}, nil
	case EventJustification:
		return Event{Kind: kind, Value: rest}, nil
	case EventSelectStep:
		if rest == "" {
			return Event{}, fmt.Errorf("select needs a step id")
		}
		return Event{Kind: kind, Value: rest}, nil
	}
	return Event{}, fmt.Errorf("unknown event %q", verb)
}
