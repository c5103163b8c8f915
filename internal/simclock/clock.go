// Package simclock is the simulated elapsed-time counter shown on run
// cards. It counts whole seconds while a gate is open.
//
// The clock never sleeps or starts goroutines. The owner schedules one
// tick per second (tea.Tick in the dashboard) carrying the generation
// returned by SetGate, and hands it back through Tick. Every gate change
// bumps the generation, so a tick scheduled before a close or a re-open
// is ignored and a second can never be counted twice.
package simclock

import "fmt"

const DefaultSeed = 1214

type Clock struct {
	seconds    int
	running    bool
	generation uint64
}

func New(seed int) *Clock {
	if seed < 0 {
		seed = 0
	}
	return &Clock{seconds: seed}
}

func (c *Clock) Seconds() int       { return c.seconds }
func (c *Clock) Running() bool      { return c.running }
func (c *Clock) Generation() uint64 { return c.generation }

// SetGate opens or closes the gate. arm is true only when the gate has
// just opened and the owner must schedule the first tick for gen.
func (c *Clock) SetGate(on bool) (gen uint64, arm bool) {
	if on == c.running {
		return c.generation, false
	}
	c.running = on
	c.generation++
	return c.generation, on
}

// Tick counts one second when gen is current and the gate is open. A
// true result means the owner should schedule the next tick.
func (c *Clock) Tick(gen uint64) bool {
	if !c.running || gen != c.generation {
		return false
	}
	c.seconds++
	return true
}

func (c *Clock) String() string { return Format(c.seconds) }

// Format renders seconds as zero padded "HHh MMm SSs". Hours are not
// wrapped into days.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02dh %02dm %02ds", h, m, s)
}
