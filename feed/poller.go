package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/ribbons/task"
)

// Update is one result delivered to the frame loop.
type Update struct {
	Percentages Percentages
	Fallback    bool // defaults substituted because no fetch has succeeded yet
	Err         error
	At          time.Time
}

// Poller fetches the split on a schedule and hands results to a single consumer.
//
// The consumer (the frame loop) is the only writer of the applied split; the
// poller never touches simulation state. Only the newest undelivered update is
// kept, so a slow consumer never blocks a fetch.
type Poller struct {
	source   Source
	timeout  time.Duration
	defaults Percentages
	updates  chan Update
	task     *task.Periodic

	// Owned by the task goroutine
	loaded   bool
	fellBack bool
	failures int
}

// NewPoller creates a stopped poller.
func NewPoller(source Source, interval, timeout time.Duration, defaults Percentages) *Poller {
	p := &Poller{
		source:   source,
		timeout:  timeout,
		defaults: defaults,
		updates:  make(chan Update, 1),
	}
	p.task = task.NewPeriodic(interval, p.Poll)
	return p
}

// Updates returns the channel the frame loop drains.
func (p *Poller) Updates() <-chan Update {
	return p.updates
}

// Start fetches immediately and then on every interval.
func (p *Poller) Start(ctx context.Context) error {
	return p.task.Start(ctx)
}

// Stop cancels polling and waits for an in-flight fetch.
func (p *Poller) Stop() {
	p.task.Stop()
}

// Poll performs one fetch. Exported so callers can drive the poller without the scheduler.
func (p *Poller) Poll(ctx context.Context) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	now := time.Now()
	pct, err := p.source.Fetch(ctx)
	if err == nil {
		p.loaded = true
		p.failures = 0
		slog.Info("split loaded", "full", pct.Full, "partial", pct.Partial, "manual", pct.Manual)
		p.publish(Update{Percentages: pct, At: now})
		return
	}

	p.failures++
	if p.loaded || p.fellBack {
		slog.Warn("split fetch failed, keeping last split", "error", err, "failures", p.failures)
		return
	}
	p.fellBack = true
	slog.Warn("split fetch failed, using defaults", "error", err,
		"full", p.defaults.Full, "partial", p.defaults.Partial)
	p.publish(Update{Percentages: p.defaults, Fallback: true, Err: err, At: now})
}

func (p *Poller) publish(u Update) {
	select {
	case p.updates <- u:
		return
	default:
	}
	// Replace the stale pending update; this goroutine is the only sender.
	select {
	case <-p.updates:
	default:
	}
	p.updates <- u
}
