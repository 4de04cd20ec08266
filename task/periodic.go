// Package task runs cancellable background jobs on a fixed interval.
package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrStarted is returned when Start is called on a task that already ran.
	ErrStarted = errors.New("task: already started")
	// ErrStopped is returned when Start is called after Stop.
	ErrStopped = errors.New("task: stopped")
)

// Periodic calls a function once on Start and then every interval until stopped.
// Runs never overlap; a run that outlasts the interval delays the next one.
// A Periodic runs at most once: after Stop it cannot be started.
type Periodic struct {
	interval time.Duration
	run      func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	stopped bool

	wg   sync.WaitGroup
	runs atomic.Uint64
}

// NewPeriodic creates a stopped task.
func NewPeriodic(interval time.Duration, run func(ctx context.Context)) *Periodic {
	return &Periodic{interval: interval, run: run}
}

// Start launches the task goroutine. The context passed to each run is
// cancelled when ctx is done or Stop is called.
func (p *Periodic) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("task: interval must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.stopped:
		return ErrStopped
	case p.started:
		return ErrStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)
	return nil
}

func (p *Periodic) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.once(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.once(ctx)
		}
	}
}

func (p *Periodic) once(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	p.run(ctx)
	p.runs.Add(1)
}

// Stop cancels the task and waits for an in-flight run to return.
// Safe to call more than once, from any goroutine, and before Start.
func (p *Periodic) Stop() {
	p.mu.Lock()
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Runs returns how many runs have completed.
func (p *Periodic) Runs() uint64 {
	return p.runs.Load()
}
