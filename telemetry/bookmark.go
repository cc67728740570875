package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsim/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkGrazingBoom      BookmarkType = "grazing_boom"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkPreyExtinction   BookmarkType = "herbivore_extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation from
// successive window stats. Herbivores are the prey; both predator kinds
// count as predators.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count in recent history
	recentPreyPeak     int // peak prey count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	preyExtinct        bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	if cfg.StableEcosystem.StableWindows < 1 {
		cfg.StableEcosystem.StableWindows = 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

func prey(s WindowStats) int { return s.Herbivores }
func pred(s WindowStats) int { return s.Predators + s.FastPredators }

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Hunt breakthrough: predations > 2x rolling average
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Grazing boom: grazes > 2x rolling average
		if b := bd.checkGrazingBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPreyExtinction(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Track predator minimum and prey peak
	if pred(stats) < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = pred(stats)
	}
	if prey(stats) > bd.recentPreyPeak {
		bd.recentPreyPeak = prey(stats)
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Predations
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Predations) > avg*2.0 && stats.Predations >= 3 {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Generation:  stats.WindowEndGen,
			Description: fmt.Sprintf("%d predations is %.1fx average (%.1f)", stats.Predations, float64(stats.Predations)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkGrazingBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Grazes
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Grazes) > avg*2.0 && stats.Grazes >= 5 {
		return &Bookmark{
			Type:        BookmarkGrazingBoom,
			Generation:  stats.WindowEndGen,
			Description: fmt.Sprintf("%d plants grazed is %.1fx average (%.1f)", stats.Grazes, float64(stats.Grazes)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	c := bd.cfg.PredatorRecovery
	if bd.recentPredMin == 0 || bd.recentPredMin > c.MinPopulation {
		return nil
	}

	threshold := bd.recentPredMin * c.RecoveryMultiplier
	if pred(stats) >= threshold && pred(stats) >= c.MinFinal {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = pred(stats)

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Generation:  stats.WindowEndGen,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, pred(stats)),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	c := bd.cfg.PreyCrash
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(prey(stats))/float64(bd.recentPreyPeak)
	if dropPercent > c.DropPercent && prey(stats) < bd.recentPreyPeak-c.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = prey(stats)

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Generation:  stats.WindowEndGen,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, prey(stats)),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyExtinction(stats WindowStats) *Bookmark {
	if bd.preyExtinct || prey(stats) > 0 {
		return nil
	}
	history := bd.getHistory()
	if prey(history[len(history)-1]) == 0 {
		return nil
	}
	bd.preyExtinct = true
	return &Bookmark{
		Type:        BookmarkPreyExtinction,
		Generation:  stats.WindowEndGen,
		Description: "All Herbivores have gone extinct",
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	c := bd.cfg.StableEcosystem

	// Need both populations present
	if prey(stats) < c.MinPrey || pred(stats) < c.MinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	preyCounts := make([]float64, len(recent))
	predCounts := make([]float64, len(recent))
	for i, h := range recent {
		preyCounts[i] = float64(prey(h))
		predCounts[i] = float64(pred(h))
	}

	if coefficientOfVariation(preyCounts) < c.CVThreshold && coefficientOfVariation(predCounts) < c.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.StableWindows { // trigger exactly once per stable stretch
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Generation:  stats.WindowEndGen,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d predators over %d+ windows", prey(stats), pred(stats), c.StableWindows),
		}
	}

	return nil
}

// coefficientOfVariation returns the population CV, or +Inf for a zero mean.
func coefficientOfVariation(x []float64) float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	if mean == 0 {
		return math.Inf(1)
	}
	return std / mean
}
