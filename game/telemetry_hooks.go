package game

import "log/slog"

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	stats := g.collector.Flush(g.frame, g.pct)
	perfStats := g.perf.Stats()

	// Log stats if enabled (console output)
	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
