package flow

import (
	"context"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. RealClock uses wall time; flowtest.Clock is
// advanced by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with time.AfterFunc.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Runner hosts a Controller outside of Bubble Tea. All operations and timer
// callbacks run under one mutex, so the controller sees a single logical
// thread. Reset stops every pending timer.
type Runner struct {
	mu      sync.Mutex
	ctrl    *Controller
	clock   Clock
	keep    bool
	timers  map[uint64]Timer
	nextID  uint64
	changed chan struct{}
}

// NewRunner creates a runner driving a new controller.
func NewRunner(surface Surface, cfg Config, clock Clock) *Runner {
	if clock == nil {
		clock = RealClock{}
	}
	return &Runner{
		ctrl:    New(surface, cfg),
		clock:   clock,
		keep:    cfg.KeepTimersOnReset,
		timers:  make(map[uint64]Timer),
		changed: make(chan struct{}),
	}
}

// Submit forwards to Controller.Submit.
func (r *Runner) Submit(text string) bool {
	return r.do(func() (Tick, bool) { return r.ctrl.Submit(text) })
}

// Generate forwards to Controller.RequestGenerate.
func (r *Runner) Generate() bool {
	return r.do(r.ctrl.RequestGenerate)
}

// Deploy forwards to Controller.RequestDeploy.
func (r *Runner) Deploy() bool {
	return r.do(r.ctrl.RequestDeploy)
}

// Advance forwards to Controller.Advance.
func (r *Runner) Advance() bool {
	return r.do(r.ctrl.Advance)
}

// Reset stops pending timers and resets the controller.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.keep {
		for id, t := range r.timers {
			t.Stop()
			delete(r.timers, id)
		}
	}
	r.ctrl.Reset()
	r.broadcast()
}

// Session returns the current session state.
func (r *Runner) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Session()
}

// Payload returns the payload of the current run.
func (r *Runner) Payload() Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Payload()
}

// AddObserver registers o on the underlying controller.
func (r *Runner) AddObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl.AddObserver(o)
}

// Pending returns the number of scheduled timers.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// WaitFor blocks until the session reaches step or ctx is done.
func (r *Runner) WaitFor(ctx context.Context, step Step) error {
	return r.WaitUntil(ctx, func(s Session) bool { return s.Step == step })
}

// WaitUntil blocks until cond holds for the session or ctx is done. cond
// runs under the runner lock and must not call back into the runner.
func (r *Runner) WaitUntil(ctx context.Context, cond func(Session) bool) error {
	for {
		r.mu.Lock()
		reached := cond(r.ctrl.Session())
		changed := r.changed
		r.mu.Unlock()

		if reached {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func (r *Runner) do(op func() (Tick, bool)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := op()
	if !ok {
		return false
	}
	r.schedule(t)
	r.broadcast()
	return true
}

// schedule must be called with r.mu held.
func (r *Runner) schedule(t Tick) {
	r.nextID++
	id := r.nextID
	r.timers[id] = r.clock.AfterFunc(t.Delay, func() { r.fire(id, t) })
}

func (r *Runner) fire(id uint64, t Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.timers, id)
	if next, ok := r.ctrl.Fire(t); ok {
		r.schedule(next)
	}
	r.broadcast()
}

// broadcast wakes every WaitFor caller. Must be called with r.mu held.
func (r *Runner) broadcast() {
	close(r.changed)
	r.changed = make(chan struct{})
}
