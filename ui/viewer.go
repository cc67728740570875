package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/camera"
	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
)

const (
	inspectorWidth = 220
	statusDuration = 3 * time.Second
)

// placeKeys maps number keys to the species placed by a left click.
var placeKeys = map[int32]components.Kind{
	rl.KeyOne:   components.KindPlant,
	rl.KeyTwo:   components.KindHerbivore,
	rl.KeyThree: components.KindPredator,
	rl.KeyFour:  components.KindFastPredator,
}

// Viewer is the windowed front end. It owns the camera and panels and
// drives a game through its public API. The window must already be open.
type Viewer struct {
	game   *game.Game
	camera *camera.Camera

	overlays  *OverlayRegistry
	hud       *HUD
	perf      *PerfPanel
	inspector *Inspector
	controls  *ControlsPanel
	bar       *ControlBar
	theme     Theme

	screenW, screenH float32
	rows, cols       int

	// Selection for the inspector
	selected       bool
	selRow, selCol int

	placeKind components.Kind

	// Control bar output from the last frame
	pending Action

	status      string
	statusUntil time.Time
}

// NewViewer creates a viewer sized to the current window.
func NewViewer(g *game.Game) *Viewer {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cellSize := float32(g.Config().Screen.CellSize)

	v := &Viewer{
		game:      g,
		camera:    camera.New(w, h, g.Rows(), g.Cols(), cellSize),
		overlays:  NewOverlayRegistry(),
		hud:       NewHUD(),
		perf:      NewPerfPanel(10, 140),
		inspector: NewInspector(int32(w)-inspectorWidth-10, 110, inspectorWidth),
		controls:  NewControlsPanel(10, 140, 200),
		bar:       NewControlBar(),
		theme:     DefaultTheme(),
		screenW:   w,
		screenH:   h,
		rows:      g.Rows(),
		cols:      g.Cols(),
		placeKind: components.KindPlant,
	}
	return v
}

// Run drives the game until the window closes or maxTicks generations have
// run (0 = unlimited).
func (v *Viewer) Run(maxTicks int) {
	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if maxTicks > 0 && v.game.Generation() >= maxTicks {
			slog.Info("max ticks reached", "generation", v.game.Generation())
			return
		}
	}
}

// Update handles input and advances the game by one update.
func (v *Viewer) Update() {
	v.handleInput()
	v.game.Update()
	v.game.RecordFrame()
	v.syncGrid()
}

// syncGrid follows board size changes, e.g. a pattern that grew the board.
func (v *Viewer) syncGrid() {
	rows, cols := v.game.Rows(), v.game.Cols()
	if rows == v.rows && cols == v.cols {
		return
	}
	v.rows, v.cols = rows, cols
	v.camera.SetGrid(rows, cols)
	v.camera.Reset()
	if v.selRow >= rows || v.selCol >= cols {
		v.selected = false
	}
}

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if v.pending != ActionNone {
		v.perform(v.pending)
		v.pending = ActionNone
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace), rl.IsKeyPressed(rl.KeyEnter):
		v.perform(ActionToggleRun)
	case rl.IsKeyPressed(rl.KeyN):
		v.perform(ActionStep)
	case rl.IsKeyPressed(rl.KeyC):
		v.perform(ActionClear)
	case rl.IsKeyPressed(rl.KeyR):
		v.perform(ActionRandomize)
	case rl.IsKeyPressed(rl.KeyL):
		v.perform(ActionNextPattern)
	case rl.IsKeyPressed(rl.KeyHome):
		v.perform(ActionResetView)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}

	for key, kind := range placeKeys {
		if rl.IsKeyPressed(key) {
			v.placeKind = kind
			v.setStatus("placing " + kind.String())
		}
	}

	v.handleOverlayKeys()
	v.handleCameraInput()
	v.handleMouse()
}

// handleOverlayKeys toggles overlays whose key was pressed this frame.
func (v *Viewer) handleOverlayKeys() {
	mode := v.game.Mode()
	for _, o := range v.overlays.ForMode(mode) {
		if o.Key == 0 || !rl.IsKeyPressed(o.Key) {
			continue
		}
		if _, on, ok := v.overlays.HandleKeyPress(o.Key, mode); ok {
			state := "off"
			if on {
				state = "on"
			}
			v.setStatus(o.Name + " " + state)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h
	v.camera.Resize(w, h)
	v.inspector.SetPosition(int32(w)-inspectorWidth-10, 110)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / v.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		v.camera.ZoomBy(1.0 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}
}

// handleMouse edits the cell under a left click and selects the cell
// under a right click.
func (v *Viewer) handleMouse() {
	left := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	right := rl.IsMouseButtonPressed(rl.MouseButtonRight)
	if !left && !right {
		return
	}

	mouse := rl.GetMousePosition()
	if v.overPanel(mouse.X, mouse.Y) {
		return
	}
	row, col, ok := v.camera.ScreenToCell(mouse.X, mouse.Y)
	if !ok {
		if right {
			v.selected = false
		}
		return
	}

	if right {
		v.selected = true
		v.selRow, v.selCol = row, col
		return
	}
	v.edit(row, col)
}

// overPanel reports whether a screen point is covered by a panel.
func (v *Viewer) overPanel(x, y float32) bool {
	if y >= v.screenH-v.bar.Height() {
		return true
	}
	return v.inspectorVisible() && x >= v.screenW-inspectorWidth-10
}

// edit toggles a life cell, or in ecosystem mode places the selected
// species into an empty cell and removes the occupant of a full one.
func (v *Viewer) edit(row, col int) {
	var err error
	if v.game.Mode() == config.ModeEcosystem {
		occ, cellErr := v.game.Cell(row, col)
		switch {
		case cellErr != nil:
			err = cellErr
		case occ.IsEmpty():
			err = v.game.PlaceOrganism(v.placeKind, row, col)
		default:
			err = v.game.ToggleCell(row, col)
		}
	} else {
		err = v.game.ToggleCell(row, col)
	}
	if err != nil {
		v.reportError(err)
	}
}

// perform executes a control action.
func (v *Viewer) perform(a Action) {
	var err error
	switch a {
	case ActionToggleRun:
		err = v.game.Toggle()
	case ActionStep:
		err = v.game.Step()
	case ActionClear:
		err = v.game.ClearBoard()
	case ActionRandomize:
		err = v.game.RandomizeBoard()
	case ActionNextPattern:
		var name string
		if name, err = v.game.NextPattern(); err == nil {
			v.setStatus("loaded pattern " + name)
		}
	case ActionResetView:
		v.camera.Reset()
	}
	if err != nil {
		v.reportError(err)
	}
}

func (v *Viewer) reportError(err error) {
	slog.Debug("viewer action rejected", "error", err)
	switch {
	case errors.Is(err, game.ErrRunning):
		v.setStatus("pause to edit the board")
	case errors.Is(err, game.ErrWrongMode):
		v.setStatus(fmt.Sprintf("not available in %s mode", v.game.Mode()))
	default:
		v.setStatus(err.Error())
	}
}

func (v *Viewer) setStatus(msg string) {
	v.status = msg
	v.statusUntil = time.Now().Add(statusDuration)
}

func (v *Viewer) currentStatus() string {
	if time.Now().After(v.statusUntil) {
		return ""
	}
	return v.status
}

func (v *Viewer) inspectorVisible() bool {
	return v.selected && v.overlays.Active(OverlayInspector, v.game.Mode())
}
