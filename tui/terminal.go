// Package tui renders a game in a terminal with tcell and maps keys and
// mouse clicks onto the game's controls.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
)

// statusRows is the number of terminal rows below the board.
const statusRows = 2

var kindStyles = [components.NumKinds]tcell.Style{
	components.KindEmpty:        tcell.StyleDefault,
	components.KindPlant:        tcell.StyleDefault.Foreground(tcell.ColorGreen),
	components.KindHerbivore:    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	components.KindPredator:     tcell.StyleDefault.Foreground(tcell.ColorRed),
	components.KindFastPredator: tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
}

var (
	lifeStyle   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
)

const lifeGlyph = '█'

// Terminal drives a game from a tcell screen. All game access happens on
// the goroutine running Run.
type Terminal struct {
	screen   tcell.Screen
	game     *game.Game
	interval time.Duration

	// Top-left board cell shown at screen (0, 0)
	offRow, offCol int

	status string
}

// New creates a terminal front end on an initialized screen. fps sets how
// often Update is called; values <= 0 use 20.
func New(g *game.Game, screen tcell.Screen, fps int) *Terminal {
	if fps <= 0 {
		fps = 20
	}
	screen.EnableMouse()
	screen.HideCursor()
	return &Terminal{
		screen:   screen,
		game:     g,
		interval: time.Second / time.Duration(fps),
	}
}

// QuietLogs discards slog output while the terminal owns the screen and
// returns a function restoring the previous logger. Call it once the game
// is built so startup errors still reach the log output.
func QuietLogs() (restore func()) {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.DiscardHandler))
	return func() { slog.SetDefault(prev) }
}

// Run processes input and advances the game until the user quits or
// maxTicks generations have run (0 = unlimited).
func (t *Terminal) Run(maxTicks int) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go t.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if t.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			t.game.Update()
			t.game.RecordFrame()
			if maxTicks > 0 && t.game.Generation() >= maxTicks {
				slog.Info("max ticks reached", "generation", t.game.Generation())
				return nil
			}
		}
		t.Draw()
	}
}

// HandleEvent applies one input event and reports whether to quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		t.clampOffset()
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			t.editAt(y, x)
		}
	}
	return false
}

func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		t.report(t.game.Toggle())
	case tcell.KeyUp:
		t.pan(-1, 0)
	case tcell.KeyDown:
		t.pan(1, 0)
	case tcell.KeyLeft:
		t.pan(0, -1)
	case tcell.KeyRight:
		t.pan(0, 1)
	case tcell.KeyRune:
		return t.handleRune(ev.Rune())
	}
	return false
}

func (t *Terminal) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true
	case ' ':
		t.report(t.game.Toggle())
	case 'n':
		t.report(t.game.Step())
	case 'c':
		t.report(t.game.ClearBoard())
	case 'r':
		t.report(t.game.RandomizeBoard())
	case 'l':
		name, err := t.game.NextPattern()
		t.report(err)
		if err == nil {
			t.status = "loaded pattern " + name
			t.offRow, t.offCol = 0, 0
		}
	case ',':
		t.game.SetStepsPerUpdate(t.game.StepsPerUpdate() - 1)
	case '.':
		t.game.SetStepsPerUpdate(t.game.StepsPerUpdate() + 1)
	}
	return false
}

// editAt toggles the board cell under screen position (y, x).
func (t *Terminal) editAt(y, x int) {
	r, c := t.offRow+y, t.offCol+x
	if y >= t.boardRows() || r >= t.game.Rows() || c >= t.game.Cols() {
		return
	}
	t.report(t.game.ToggleCell(r, c))
}

// report turns a rejected action into a status line message.
func (t *Terminal) report(err error) {
	switch {
	case err == nil:
		t.status = ""
	case errors.Is(err, game.ErrRunning):
		t.status = "pause to edit the board"
	case errors.Is(err, game.ErrWrongMode):
		t.status = fmt.Sprintf("not available in %s mode", t.game.Mode())
	default:
		t.status = err.Error()
	}
}

func (t *Terminal) boardRows() int {
	_, h := t.screen.Size()
	return max(h-statusRows, 0)
}

func (t *Terminal) pan(dr, dc int) {
	t.offRow += dr
	t.offCol += dc
	t.clampOffset()
}

// clampOffset keeps the view inside the board.
func (t *Terminal) clampOffset() {
	w, _ := t.screen.Size()
	t.offRow = min(max(t.offRow, 0), max(t.game.Rows()-t.boardRows(), 0))
	t.offCol = min(max(t.offCol, 0), max(t.game.Cols()-w, 0))
}

// Draw renders the visible part of the board and the status lines.
func (t *Terminal) Draw() {
	t.screen.Clear()
	w, h := t.screen.Size()
	rows := t.boardRows()

	if t.game.Mode() == config.ModeLife {
		board := t.game.LifeSnapshot()
		for y := 0; y < rows; y++ {
			for x := 0; x < w; x++ {
				if board.Alive(t.offRow+y, t.offCol+x) {
					t.screen.SetContent(x, y, lifeGlyph, nil, lifeStyle)
				}
			}
		}
	} else {
		snap := t.game.Snapshot()
		for y := 0; y < rows; y++ {
			for x := 0; x < w; x++ {
				kind := snap.At(t.offRow+y, t.offCol+x)
				if kind == components.KindEmpty {
					continue
				}
				t.screen.SetContent(x, y, components.Traits(kind).Glyph, nil, kindStyles[kind])
			}
		}
	}

	if h >= statusRows {
		t.drawText(0, h-2, t.summary(), statusStyle)
		if t.status != "" {
			t.drawText(0, h-1, t.status, alertStyle)
		} else {
			t.drawText(0, h-1, "q quit | space run/pause | n step | c clear | r random | l pattern | , . speed | arrows pan", statusStyle)
		}
	}
	t.screen.Show()
}

// summary is the first status line.
func (t *Terminal) summary() string {
	g := t.game
	head := fmt.Sprintf("gen %d | %s | %dx", g.Generation(), g.State(), g.StepsPerUpdate())
	if g.Mode() == config.ModeLife {
		pattern := g.PatternName()
		if pattern == "" {
			pattern = "random"
		}
		return fmt.Sprintf("%s | live %d | %s", head, g.LiveCells(), pattern)
	}
	p := g.Population()
	return fmt.Sprintf("%s | plants %d | herbivores %d | predators %d | fast %d | births %d | eaten %d",
		head,
		p.Of(components.KindPlant), p.Of(components.KindHerbivore),
		p.Of(components.KindPredator), p.Of(components.KindFastPredator),
		g.Collector().Reproductions(), g.Collector().Consumption())
}

func (t *Terminal) drawText(x, y int, text string, style tcell.Style) {
	w, _ := t.screen.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
