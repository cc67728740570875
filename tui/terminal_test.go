package tui

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
)

const smallWorld = `
grid: {rows: 5, columns: 5}
simulation: {plants_per_tick: 0}
seed: []
`

const smallLife = `
mode: life
grid: {rows: 5, columns: 5}
life: {pattern_dir: "", random_fill_percent: 0}
`

func newTestTerminal(t *testing.T, yaml string, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	g, err := game.NewGame(game.Options{Config: cfg, Seed: 1})
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("initializing screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)

	return New(g, screen, 10), screen
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := s.GetContents()
	cell := cells[y*w+x]
	if len(cell.Runes) == 0 {
		return ' '
	}
	return cell.Runes[0]
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawLifeBoard(t *testing.T) {
	term, screen := newTestTerminal(t, smallLife, 20, 8)
	for _, c := range []int{1, 2, 3} {
		if err := term.game.ToggleCell(2, c); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	term.Draw()
	for _, x := range []int{1, 2, 3} {
		if got := runeAt(screen, x, 2); got != lifeGlyph {
			t.Errorf("expected live glyph at (%d, 2), got %q", x, got)
		}
	}
	if got := runeAt(screen, 0, 0); got == lifeGlyph {
		t.Error("expected dead cell at (0, 0)")
	}

	// Blinker turns vertical
	term.HandleEvent(key('n'))
	term.Draw()
	if got := runeAt(screen, 2, 1); got != lifeGlyph {
		t.Errorf("expected live glyph at (2, 1) after a step, got %q", got)
	}
	if got := runeAt(screen, 1, 2); got == lifeGlyph {
		t.Error("expected (1, 2) dead after a step")
	}
}

func TestDrawEcosystemGlyphs(t *testing.T) {
	term, screen := newTestTerminal(t, smallWorld, 20, 8)
	if err := term.game.PlaceOrganism(components.KindHerbivore, 1, 3); err != nil {
		t.Fatalf("placing: %v", err)
	}

	term.Draw()
	if got := runeAt(screen, 3, 1); got != 'h' {
		t.Errorf("expected herbivore glyph at (3, 1), got %q", got)
	}
}

func TestKeys(t *testing.T) {
	term, _ := newTestTerminal(t, smallLife, 20, 8)

	term.HandleEvent(key(' '))
	if term.game.State() != game.Running {
		t.Fatalf("expected running after space, got %s", term.game.State())
	}

	term.HandleEvent(key('c'))
	if term.status != "pause to edit the board" {
		t.Errorf("expected edit rejected while running, got status %q", term.status)
	}

	term.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if term.game.State() != game.Paused {
		t.Errorf("expected paused after enter, got %s", term.game.State())
	}

	term.HandleEvent(key('.'))
	term.HandleEvent(key('.'))
	if term.game.StepsPerUpdate() != 3 {
		t.Errorf("expected speed 3, got %d", term.game.StepsPerUpdate())
	}

	if !term.HandleEvent(key('q')) {
		t.Error("expected q to quit")
	}
	if !term.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected escape to quit")
	}
}

func TestWrongModeStatus(t *testing.T) {
	term, _ := newTestTerminal(t, smallWorld, 20, 8)

	term.HandleEvent(key('r'))
	if term.status != "not available in ecosystem mode" {
		t.Errorf("expected wrong mode status, got %q", term.status)
	}
}

func TestMouseTogglesCell(t *testing.T) {
	term, _ := newTestTerminal(t, smallLife, 20, 8)

	term.HandleEvent(tcell.NewEventMouse(4, 3, tcell.Button1, tcell.ModNone))
	if !term.game.LifeSnapshot().Alive(3, 4) {
		t.Error("expected click to toggle (3, 4) alive")
	}

	// Clicks on the status lines are ignored
	term.HandleEvent(tcell.NewEventMouse(0, 7, tcell.Button1, tcell.ModNone))
	if term.game.LiveCells() != 1 {
		t.Errorf("expected 1 live cell, got %d", term.game.LiveCells())
	}
}

func TestPanStopsAtBoardEdge(t *testing.T) {
	term, _ := newTestTerminal(t, smallLife, 3, 4)

	for i := 0; i < 5; i++ {
		term.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
		term.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	if term.offCol != 2 || term.offRow != 3 {
		t.Errorf("expected offset (3, 2), got (%d, %d)", term.offRow, term.offCol)
	}

	term.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if term.offCol != 1 {
		t.Errorf("expected column offset 1, got %d", term.offCol)
	}
}

func TestQuietLogsRestores(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	restore := QuietLogs()
	slog.Error("while drawing")
	if buf.Len() != 0 {
		t.Errorf("expected no output while quiet, got %q", buf.String())
	}

	restore()
	slog.Error("invalid configuration", "key", "grid.rows")
	if !strings.Contains(buf.String(), "key=grid.rows") {
		t.Errorf("expected error logged after restore, got %q", buf.String())
	}
}
