// Package game holds the ribbon display's simulation context and frame loop.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/config"
	"github.com/pthm-cable/ribbons/feed"
	"github.com/pthm-cable/ribbons/renderer"
	"github.com/pthm-cable/ribbons/systems"
	"github.com/pthm-cable/ribbons/telemetry"
	"github.com/pthm-cable/ribbons/ui"
)

// Options configures a Game beyond the loaded config.
type Options struct {
	Seed        int64  // RNG seed for spawns and, when field.seed is 0, the field
	LogStats    bool   // log window stats and bookmarks via slog
	StatsWindow int    // frames per stats window (0 = use config)
	OutputDir   string // CSV and config snapshot directory (empty = disabled)
	Width       int    // initial canvas size (0 = use config)
	Height      int
}

// Game holds the complete display state. It is driven by a single goroutine.
type Game struct {
	cfg  *config.Config
	opts Options

	// Field
	params  systems.FieldParams
	field   *systems.FlowField
	drifted systems.FlowField
	phase   float64

	// Ribbons
	bounds systems.Bounds
	pool   *systems.RibbonPool

	// Data
	pct      feed.Percentages
	fallback bool
	updates  <-chan feed.Update

	// Rendering
	palette renderer.Palette
	ribbons *renderer.RibbonRenderer
	panel   *ui.LegendPanel

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager

	// State
	frame int32
	last  systems.StepResult
	drawn int
}

// NewGameWithOptions creates a game with the default split applied and a full pool.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	defaults, err := feed.NewPercentages(cfg.Data.DefaultFull, cfg.Data.DefaultPartial)
	if err != nil {
		return nil, fmt.Errorf("default split: %w", err)
	}

	fieldSeed := cfg.Field.Seed
	if fieldSeed == 0 {
		fieldSeed = opts.Seed
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	width, height := cfg.Screen.Width, cfg.Screen.Height
	if opts.Width > 0 && opts.Height > 0 {
		width, height = opts.Width, opts.Height
	}

	anchor, err := ui.ParseAnchor(cfg.Panel.Anchor)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	palette := renderer.Palette{
		Background:   cfg.Derived.Background,
		Outline:      cfg.Derived.Outline,
		OutlineWidth: cfg.Palette.OutlineWidth,
		Classes: [components.NumClasses]color.RGBA{
			cfg.Derived.Full,
			cfg.Derived.Partial,
			cfg.Derived.Manual,
		},
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	g := &Game{
		cfg:  cfg,
		opts: opts,
		params: systems.FieldParams{
			Spacing: cfg.Field.Spacing,
			Scale:   cfg.Field.Scale,
			Seed:    fieldSeed,
			Noise:   cfg.Field.Noise,
		},
		pct: defaults,
		pool: systems.NewRibbonPool(
			cfg.Ribbons.Count,
			systems.NewSpawner(rng, cfg.Ribbons.MinLen, cfg.Ribbons.MaxLen),
			systems.Kinematics{Thickness: cfg.Ribbons.Thickness, StepSize: cfg.Ribbons.StepSize},
		),
		palette:   palette,
		ribbons:   renderer.NewRibbonRenderer(palette),
		panel:     ui.NewLegendPanel(cfg.Panel.Title, anchor, ui.ThemeFromConfig(cfg.Panel), palette.Classes),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(statsWindow),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    output,
	}
	g.pool.SetObserver(g.collector)

	if err := g.rebuild(width, height); err != nil {
		output.Close()
		return nil, err
	}
	return g, nil
}

// SetUpdates connects the channel the frame loop drains for new splits.
func (g *Game) SetUpdates(ch <-chan feed.Update) {
	g.updates = ch
}

// Update advances the display by one frame: apply any pending split,
// drift the field, then step the pool.
func (g *Game) Update() {
	g.perf.StartPhase(telemetry.PhaseFeed)
	g.drainUpdates()

	g.perf.StartPhase(telemetry.PhaseDrift)
	g.phase += g.cfg.Field.PhaseStep
	systems.DriftFieldInto(&g.drifted, g.field, g.phase)

	g.perf.StartPhase(telemetry.PhasePool)
	g.last = g.pool.Step(&g.drifted, g.bounds, g.pct, g.frame)
	g.collector.RecordFrame(g.last)

	g.frame++
	g.flushTelemetry()
}

// Draw renders the background, the ribbons in depth order and the legend panel.
func (g *Game) Draw(s renderer.Surface) {
	g.perf.StartPhase(telemetry.PhaseRender)
	s.Clear(g.palette.Background)
	g.drawn = g.ribbons.Draw(s, g.pool.DrawList())

	if g.cfg.Panel.Enabled {
		g.perf.StartPhase(telemetry.PhasePanel)
		g.panel.Draw(s, g.pct)
	}
}

// Frame runs Update and Draw as one timed frame.
func (g *Game) Frame(s renderer.Surface) {
	g.perf.StartFrame()
	g.Update()
	g.Draw(s)
	g.perf.EndFrame()
	g.perf.RecordPresent()
}

// Resize rebuilds the field for a new canvas size and respawns every ribbon.
func (g *Game) Resize(width, height int) error {
	if width == int(g.bounds.Width) && height == int(g.bounds.Height) {
		return nil
	}
	slog.Info("canvas resized", "width", width, "height", height, "frame", g.frame)
	return g.rebuild(width, height)
}

// ApplyPercentages replaces the split and respawns the pool in the new colours.
func (g *Game) ApplyPercentages(pct feed.Percentages, fallback bool) {
	g.pct = pct
	g.fallback = fallback
	g.pool.Respawn(g.bounds, g.pct, g.frame)
}

// Percentages returns the split in effect.
func (g *Game) Percentages() feed.Percentages {
	return g.pct
}

// UsingFallback reports whether the split in effect is the configured default
// substituted after a failed first fetch.
func (g *Game) UsingFallback() bool {
	return g.fallback
}

// Palette returns the display colours.
func (g *Game) Palette() renderer.Palette {
	return g.palette
}

// FrameCount returns the number of completed updates.
func (g *Game) FrameCount() int32 {
	return g.frame
}

// Field returns the static (undrifted) field.
func (g *Game) Field() *systems.FlowField {
	return g.field
}

// Pool returns the ribbon pool.
func (g *Game) Pool() *systems.RibbonPool {
	return g.pool
}

// Drawn returns the number of ribbons drawn by the last Draw.
func (g *Game) Drawn() int {
	return g.drawn
}

// LastStep returns the pool summary of the last update.
func (g *Game) LastStep() systems.StepResult {
	return g.last
}

// Close flushes and closes telemetry output.
func (g *Game) Close() error {
	return g.output.Close()
}

func (g *Game) rebuild(width, height int) error {
	field, err := systems.BuildField(width, height, g.params)
	if err != nil {
		return fmt.Errorf("building field: %w", err)
	}
	g.field = field
	g.bounds = systems.Bounds{Width: float64(width), Height: float64(height)}
	systems.DriftFieldInto(&g.drifted, g.field, g.phase)
	g.pool.Respawn(g.bounds, g.pct, g.frame)
	return nil
}

// drainUpdates applies every pending update without blocking.
func (g *Game) drainUpdates() {
	if g.updates == nil {
		return
	}
	for {
		select {
		case u, ok := <-g.updates:
			if !ok {
				g.updates = nil
				return
			}
			g.ApplyPercentages(u.Percentages, u.Fallback)
		default:
			return
		}
	}
}
