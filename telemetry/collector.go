package telemetry

import (
	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/feed"
	"github.com/pthm-cable/ribbons/systems"
)

// Collector accumulates pool events within frame windows and produces WindowStats.
// It implements systems.PoolObserver.
type Collector struct {
	windowFrames     int32
	windowStartFrame int32

	spawned   [components.NumClasses]int
	removed   int
	lifetimes []float64
	last      systems.StepResult
}

var _ systems.PoolObserver = (*Collector)(nil)

// NewCollector creates a stats collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int32(windowFrames)}
}

// RibbonSpawned records a spawn of class.
func (c *Collector) RibbonSpawned(class components.ColorClass) {
	if class < components.NumClasses {
		c.spawned[class]++
	}
}

// RibbonRemoved records a removal and the ribbon's lifetime in frames.
func (c *Collector) RibbonRemoved(_ components.ColorClass, lifetimeFrames int32) {
	c.removed++
	c.lifetimes = append(c.lifetimes, float64(lifetimeFrames))
}

// RecordFrame keeps the latest pool occupancy.
func (c *Collector) RecordFrame(res systems.StepResult) {
	c.last = res
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int32) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats against the split in effect and resets counters.
func (c *Collector) Flush(frame int32, target feed.Percentages) WindowStats {
	observed := make([]float64, components.NumClasses)
	total := 0
	for i, n := range c.spawned {
		observed[i] = float64(n)
		total += n
	}

	var frac [components.NumClasses]float64
	if total > 0 {
		for i := range frac {
			frac[i] = observed[i] / float64(total)
		}
	}

	mean, std, p50, p90 := ComputeLifetimeStats(c.lifetimes)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,

		Alive: c.last.Alive,
		Dying: c.last.Dying,

		SpawnedFull:    c.spawned[components.ClassFull],
		SpawnedPartial: c.spawned[components.ClassPartial],
		SpawnedManual:  c.spawned[components.ClassManual],
		Removed:        c.removed,

		ObservedFull:    frac[components.ClassFull],
		ObservedPartial: frac[components.ClassPartial],
		ObservedManual:  frac[components.ClassManual],
		TargetFull:      target.Full,
		TargetPartial:   target.Partial,
		TargetManual:    target.Manual,
		ChiSquare:       ChiSquare(observed, target.Slice()),

		LifetimeMean: mean,
		LifetimeStd:  std,
		LifetimeP50:  p50,
		LifetimeP90:  p90,
	}

	// Reset for next window
	c.windowStartFrame = frame
	c.spawned = [components.NumClasses]int{}
	c.removed = 0
	c.lifetimes = c.lifetimes[:0]

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int32 {
	return c.windowFrames
}
