package telemetry

import (
	"log/slog"
	"math"
	"time"
)

// Phase names for the frame.
const (
	PhaseFeed   = "feed"
	PhaseDrift  = "drift"
	PhasePool   = "pool"
	PhaseRender = "render"
	PhasePanel  = "panel"
)

var allPhases = []string{PhaseFeed, PhaseDrift, PhasePool, PhaseRender, PhasePanel}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock spacing between frames
	lastPresent time.Time
	presentGap  time.Duration

	now func() time.Time
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		now:           time.Now,
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = p.now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent records the wall-clock time a frame reached the screen.
func (p *PerfCollector) RecordPresent() {
	now := p.now()
	if !p.lastPresent.IsZero() {
		p.presentGap = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of frame time, percent

	// Achieved presentation rate (0 until two frames were presented)
	FPS float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.presentGap > 0 {
		fps = float64(time.Second) / float64(p.presentGap)
	}
	if p.sampleCount == 0 {
		return PerfStats{FPS: fps}
	}

	var total, minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FPS:              fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range allPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd  int32   `csv:"window_end"`
	AvgFrameUS int64   `csv:"avg_frame_us"`
	MinFrameUS int64   `csv:"min_frame_us"`
	MaxFrameUS int64   `csv:"max_frame_us"`
	FPS        float64 `csv:"fps"`
	FeedPct    float64 `csv:"feed_pct"`
	DriftPct   float64 `csv:"drift_pct"`
	PoolPct    float64 `csv:"pool_pct"`
	RenderPct  float64 `csv:"render_pct"`
	PanelPct   float64 `csv:"panel_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:  windowEnd,
		AvgFrameUS: s.AvgFrameDuration.Microseconds(),
		MinFrameUS: s.MinFrameDuration.Microseconds(),
		MaxFrameUS: s.MaxFrameDuration.Microseconds(),
		FPS:        s.FPS,
		FeedPct:    s.PhasePct[PhaseFeed],
		DriftPct:   s.PhasePct[PhaseDrift],
		PoolPct:    s.PhasePct[PhasePool],
		RenderPct:  s.PhasePct[PhaseRender],
		PanelPct:   s.PhasePct[PhasePanel],
	}
}
