package main

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"

	"github.com/bekirdag/vdcdash/internal/workflow"
)

// The script driver runs an external command under a pty and feeds every
// protocol line it prints into the session, exactly like the demo keys.

type driverMsg interface {
	isDriver()
}

type driverStartedMsg struct {
	Command string
}

type driverEventMsg struct {
	Event workflow.Event
}

// driverLogMsg carries a line that is not protocol, shown in the logs.
type driverLogMsg struct {
	Line string
}

type driverFinishedMsg struct {
	Err error
}

type driverChannelClosedMsg struct{}

func (driverStartedMsg) isDriver()       {}
func (driverEventMsg) isDriver()         {}
func (driverLogMsg) isDriver()           {}
func (driverFinishedMsg) isDriver()      {}
func (driverChannelClosedMsg) isDriver() {}

type scriptDriver struct {
	command string
	events  workflow.Driver

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool

	// quit is closed once nobody receives from the run channel anymore.
	quit      chan struct{}
	closeOnce sync.Once
}

func newScriptDriver(command string) *scriptDriver {
	return &scriptDriver{
		command: strings.TrimSpace(command),
		events:  workflow.LineDriver{},
		quit:    make(chan struct{}),
	}
}

// Start launches the command and returns the first receive. Calling it
// while the command runs is a no-op.
func (d *scriptDriver) Start(ctx context.Context) tea.Cmd {
	if d == nil || d.command == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running || d.closed() {
		return nil
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.running = true

	ch := make(chan driverMsg)
	go d.run(ctx, ch)
	return waitForDriverMsg(ch)
}

// Stop cancels a running command. The run goroutine still reports
// driverFinishedMsg before closing its channel.
func (d *scriptDriver) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
}

// Close stops the command and releases the run goroutine even when the
// program no longer receives its messages.
func (d *scriptDriver) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() { close(d.quit) })
	d.Stop()
}

func (d *scriptDriver) closed() bool {
	select {
	case <-d.quit:
		return true
	default:
		return false
	}
}

// send delivers msg unless the driver was closed.
func (d *scriptDriver) send(ch chan<- driverMsg, msg driverMsg) bool {
	select {
	case ch <- msg:
		return true
	case <-d.quit:
		return false
	}
}

func (d *scriptDriver) Running() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *scriptDriver) markStopped() {
	d.mu.Lock()
	d.running = false
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
}

func (d *scriptDriver) run(ctx context.Context, ch chan<- driverMsg) {
	defer close(ch)
	defer d.markStopped()

	if !d.send(ch, driverStartedMsg{Command: d.command}) {
		return
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", d.command)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		d.send(ch, driverLogMsg{Line: err.Error()})
		d.send(ch, driverFinishedMsg{Err: err})
		return
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.scan(ptmx, ch)
	}()

	wg.Wait()
	_ = ptmx.Close()
	err = cmd.Wait()
	if ctx.Err() != nil && err != nil {
		err = context.Canceled
	}
	d.send(ch, driverFinishedMsg{Err: err})
}

// scan turns lines into events. Lines the event driver understands become
// driverEventMsg, anything else is passed through as a log line. After
// Close the output is still read to the end so the command never blocks
// on a full pty.
func (d *scriptDriver) scan(r io.Reader, ch chan<- driverMsg) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if workflow.SkipLine(line) {
			continue
		}
		if ev, ok := d.events.Translate(line); ok {
			d.send(ch, driverEventMsg{Event: ev})
			continue
		}
		d.send(ch, driverLogMsg{Line: line})
	}
}

func waitForDriverMsg(ch <-chan driverMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return driverChannelClosedMsg{}
		}
		return receivedDriverMsg{msg: msg, ch: ch}
	}
}

// receivedDriverMsg pairs a message with its channel so the model can
// keep receiving.
type receivedDriverMsg struct {
	msg driverMsg
	ch  <-chan driverMsg
}

func (r receivedDriverMsg) next() tea.Cmd {
	return waitForDriverMsg(r.ch)
}
