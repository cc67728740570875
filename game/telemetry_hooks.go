package game

import (
	"log/slog"

	"github.com/pthm-cable/gridsim/config"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.generation) {
		return
	}

	stats := g.collector.Flush(g.generation)
	stats.AddLifetimes(g.lifetimes.Aggregate(g.generation))
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndGen); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	g.writePending()

	// Bookmarks describe predator/prey dynamics only
	if g.mode != config.ModeEcosystem {
		return
	}
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// writePending writes population rows and finished lifetimes recorded since
// the last write. Without an output directory they are dropped.
func (g *Game) writePending() {
	rows := g.series.DrainRows()
	recs := g.lifetimes.DrainRecords()

	if err := g.outputManager.WritePopulation(rows); err != nil {
		slog.Error("failed to write population", "error", err)
	}
	if err := g.outputManager.WriteLifetimes(recs); err != nil {
		slog.Error("failed to write lifetimes", "error", err)
	}
}
