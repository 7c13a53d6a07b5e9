package dispatch

import (
	"fmt"
	"log"
	"sync"
	"time"

	"smoothlife-panel/params"
)

// Group names a set of parameters that is sent to the engine as one command.
type Group string

const (
	Kernel   Group = "kernel"
	Smoother Group = "smoother"
	Palette  Group = "palette"
	Brush    Group = "brush"
)

// DefaultDelay is the debounce window.
const DefaultDelay = 200 * time.Millisecond

// Sender delivers commands to the engine.
type Sender interface {
	Send(cmd params.Command) error
}

// Source returns the current command for a group. It is called when a
// debounce window closes, so the latest state is what gets sent.
type Source func(g Group) (params.Command, bool)

// Dispatcher coalesces parameter edits per group and sends at most one
// command per group per debounce window.
type Dispatcher struct {
	// sendMu serialises group sends so a debounced fire cannot land after
	// an ApplyNow that superseded it. Acquired before mu.
	sendMu sync.Mutex

	mu      sync.Mutex
	sender  Sender
	source  Source
	delay   time.Duration
	timers  map[Group]*time.Timer
	seq     map[Group]uint64
	pending *transition
	stopped bool
}

// transition tracks one preset application. Clear and Splat go out once
// every group has been acknowledged with the target command.
type transition struct {
	target map[Group]string
	acked  map[Group]bool
	done   bool
}

func New(sender Sender, source Source, delay time.Duration) *Dispatcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Dispatcher{
		sender: sender,
		source: source,
		delay:  delay,
		timers: make(map[Group]*time.Timer),
		seq:    make(map[Group]uint64),
	}
}

// Schedule (re)starts the debounce window for g. An edit arriving before the
// window closes replaces the pending one.
func (d *Dispatcher) Schedule(g Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked(g)
	n := d.seq[g]
	d.timers[g] = time.AfterFunc(d.delay, func() { d.fire(g, n) })
}

// cancelLocked stops the pending timer for g. Bumping seq also neutralises a
// timer whose callback has already started.
func (d *Dispatcher) cancelLocked(g Group) {
	if t, ok := d.timers[g]; ok {
		t.Stop()
		delete(d.timers, g)
	}
	d.seq[g]++
}

func (d *Dispatcher) fire(g Group, n uint64) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	d.mu.Lock()
	if d.seq[g] != n || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.timers, g)
	d.mu.Unlock()

	cmd, ok := d.source(g)
	if !ok {
		return
	}
	if err := d.send(g, cmd); err != nil {
		log.Printf("dispatch %s: %v", g, err)
	}
}

// Pending reports whether a group has an unsent edit.
func (d *Dispatcher) Pending(g Group) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[g]
	return ok
}

// Send forwards cmd immediately, bypassing the debounce.
func (d *Dispatcher) Send(cmd params.Command) error {
	return d.sender.Send(cmd)
}

func (d *Dispatcher) send(g Group, cmd params.Command) error {
	if err := d.sender.Send(cmd); err != nil {
		return err
	}
	if d.ack(g, cmd.String()) {
		return d.reseed()
	}
	return nil
}

// ack records a successful send and reports whether it completed the
// current transition.
func (d *Dispatcher) ack(g Group, line string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	tr := d.pending
	if tr == nil || tr.done {
		return false
	}
	want, ok := tr.target[g]
	if !ok || want != line {
		return false
	}
	tr.acked[g] = true
	for grp := range tr.target {
		if !tr.acked[grp] {
			return false
		}
	}
	tr.done = true
	return true
}

func (d *Dispatcher) reseed() error {
	if err := d.sender.Send(params.Clear(0)); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := d.sender.Send(params.Splat()); err != nil {
		return fmt.Errorf("splat: %w", err)
	}
	return nil
}

// ApplyNow sends the given group commands immediately, dropping any pending
// debounced edits for those groups, and reseeds the grid once all of them
// have been acknowledged. A failed group leaves the transition open; a later
// successful send of the same command completes it.
func (d *Dispatcher) ApplyNow(cmds map[Group]params.Command) error {
	tr := &transition{
		target: make(map[Group]string, len(cmds)),
		acked:  make(map[Group]bool, len(cmds)),
	}
	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	d.mu.Lock()
	for g, cmd := range cmds {
		d.cancelLocked(g)
		tr.target[g] = cmd.String()
	}
	d.pending = tr
	d.mu.Unlock()

	for _, g := range []Group{Kernel, Smoother, Palette, Brush} {
		cmd, ok := cmds[g]
		if !ok {
			continue
		}
		if err := d.send(g, cmd); err != nil {
			return fmt.Errorf("apply %s: %w", g, err)
		}
	}
	return nil
}

// Settled reports whether the last ApplyNow has been fully acknowledged
// and the reseed commands sent. It is true when no transition was started.
func (d *Dispatcher) Settled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending == nil || d.pending.done
}

// Flush sends every pending group now.
func (d *Dispatcher) Flush() {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	d.mu.Lock()
	var groups []Group
	for g := range d.timers {
		groups = append(groups, g)
		d.cancelLocked(g)
	}
	d.mu.Unlock()

	for _, g := range groups {
		if cmd, ok := d.source(g); ok {
			if err := d.send(g, cmd); err != nil {
				log.Printf("dispatch %s: %v", g, err)
			}
		}
	}
}

// Stop cancels all pending edits. Later Schedule calls are ignored.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for g := range d.timers {
		d.cancelLocked(g)
	}
	d.stopped = true
}
