package telemetry

import (
	"testing"

	"github.com/pthm-cable/gridsim/config"
)

func testBookmarksConfig(t *testing.T) config.BookmarksConfig {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg.Bookmarks
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig(t))

	// Add some history with few predations
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndGen: i * 50, Herbivores: 40, Predators: 5, Predations: 2})
	}

	// Now add a window with 4x the average
	bookmarks := bd.Check(WindowStats{WindowEndGen: 250, Herbivores: 40, Predators: 5, Predations: 8})

	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_GrazingBoom(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig(t))

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndGen: i * 50, Herbivores: 20, Grazes: 4})
	}
	bookmarks := bd.Check(WindowStats{WindowEndGen: 200, Herbivores: 20, Grazes: 12})

	if !hasBookmark(bookmarks, BookmarkGrazingBoom) {
		t.Error("expected grazing_boom bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig(t))

	// Build up herbivore population
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndGen: i * 50, Herbivores: 100, Predators: 10})
	}

	// Now crash it
	bookmarks := bd.Check(WindowStats{WindowEndGen: 250, Herbivores: 50, Predators: 10})

	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig(t))

	// Predator population drops to critical level
	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndGen: i * 50, Herbivores: 100, Predators: 1, FastPredators: 1})
	}

	// Predators recover to 5x the minimum of 2
	bookmarks := bd.Check(WindowStats{WindowEndGen: 150, Herbivores: 100, Predators: 6, FastPredators: 4})

	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_PreyExtinctionOnce(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig(t))

	bd.Check(WindowStats{WindowEndGen: 50, Herbivores: 3})
	first := bd.Check(WindowStats{WindowEndGen: 100, Herbivores: 0})
	second := bd.Check(WindowStats{WindowEndGen: 150, Herbivores: 0})

	if !hasBookmark(first, BookmarkPreyExtinction) {
		t.Error("expected herbivore_extinction bookmark when herbivores vanish")
	}
	if hasBookmark(second, BookmarkPreyExtinction) {
		t.Error("expected herbivore_extinction bookmark only once")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	cfg := testBookmarksConfig(t)
	bd := NewBookmarkDetector(10, cfg)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndGen: i * 50, Herbivores: 100, Predators: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected stable_ecosystem bookmark once, got %d", fired)
	}
}

func TestBookmarkDetector_HistoryWrapsOldestFirst(t *testing.T) {
	bd := NewBookmarkDetector(5, testBookmarksConfig(t))
	for i := 1; i <= 7; i++ {
		bd.Check(WindowStats{WindowEndGen: i})
	}

	history := bd.getHistory()
	if len(history) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(history))
	}
	for i, h := range history {
		if want := i + 3; h.WindowEndGen != want {
			t.Errorf("expected window %d at %d, got %d", want, i, h.WindowEndGen)
		}
	}
}
