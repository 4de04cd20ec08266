package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ribbons/config"
	"github.com/pthm-cable/ribbons/feed"
	"github.com/pthm-cable/ribbons/game"
	"github.com/pthm-cable/ribbons/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window, rendering offscreen")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in frames (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	frameDir := flag.String("frame-dir", "", "Headless: directory for PNG frames (empty = none)")
	frameEvery := flag.Int("frame-every", 1, "Headless: save every Nth frame")
	dataSource := flag.String("data", "", "URL or path of the split document (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataSource != "" {
		cfg.Data.Source = *dataSource
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller, err := newPoller(cfg)
	if err != nil {
		slog.Error("failed to set up data feed", "error", err)
		os.Exit(1)
	}

	if *headless {
		err = runHeadless(ctx, cfg, opts, poller, *maxFrames, *frameDir, *frameEvery)
	} else {
		err = runWindow(ctx, cfg, opts, poller, *maxFrames)
	}
	if err != nil {
		slog.Error("display stopped", "error", err)
		os.Exit(1)
	}
}

func newPoller(cfg *config.Config) (*feed.Poller, error) {
	defaults, err := feed.NewPercentages(cfg.Data.DefaultFull, cfg.Data.DefaultPartial)
	if err != nil {
		return nil, fmt.Errorf("default split: %w", err)
	}
	client := &http.Client{Timeout: cfg.Derived.FetchTimeout}
	source := feed.NewSource(cfg.Data.Source, client)
	return feed.NewPoller(source, cfg.Derived.RefreshInterval, cfg.Derived.FetchTimeout, defaults), nil
}

// runHeadless drives the frame loop into an offscreen image as fast as possible.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, poller *feed.Poller, maxFrames int, frameDir string, frameEvery int) error {
	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	surface, err := renderer.NewImageSurface(cfg.Screen.Width, cfg.Screen.Height)
	if err != nil {
		return err
	}
	if frameDir != "" {
		if err := os.MkdirAll(frameDir, 0755); err != nil {
			return fmt.Errorf("creating frame directory: %w", err)
		}
	}
	if frameEvery < 1 {
		frameEvery = 1
	}

	g.SetUpdates(poller.Updates())
	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("starting data feed: %w", err)
	}
	defer poller.Stop()

	slog.Info("starting headless display",
		"seed", opts.Seed,
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"max_frames", maxFrames,
		"data", cfg.Data.Source,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "frame", g.FrameCount())
			return nil
		default:
		}

		g.Frame(surface)

		frame := int(g.FrameCount())
		if frameDir != "" && frame%frameEvery == 0 {
			path := filepath.Join(frameDir, fmt.Sprintf("frame_%06d.png", frame))
			if err := surface.SavePNG(path); err != nil {
				return err
			}
		}

		if maxFrames > 0 && frame >= maxFrames {
			slog.Info("max frames reached", "frame", frame)
			return nil
		}
	}
}

// runWindow drives the frame loop in a resizable raylib window.
func runWindow(ctx context.Context, cfg *config.Config, opts game.Options, poller *feed.Poller, maxFrames int) error {
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	opts.Width, opts.Height = rl.GetScreenWidth(), rl.GetScreenHeight()
	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	surface := NewRaylibSurface()
	defer surface.Unload()

	g.SetUpdates(poller.Updates())
	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("starting data feed: %w", err)
	}
	defer poller.Stop()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if rl.IsWindowResized() {
			if err := g.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
				return err
			}
		}

		rl.BeginDrawing()
		g.Frame(surface)
		rl.EndDrawing()

		if maxFrames > 0 && int(g.FrameCount()) >= maxFrames {
			break
		}
	}
	return nil
}
