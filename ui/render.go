package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
	"github.com/pthm-cable/gridsim/systems"
)

const (
	ecosystemControls = "Space: run/pause | N: step | C: clear | Click: place/remove | 1-4: species | Right-click: inspect | Tab: overlays"
	lifeControls      = "Space: run/pause | N: step | C: clear | R: random | L: next pattern | Click: toggle | Tab: overlays"
)

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(v.theme.Background)

	lifeMode := v.game.Mode() == config.ModeLife
	if lifeMode {
		v.drawLifeBoard()
	} else {
		v.drawEcosystem()
	}

	if v.overlays.Active(OverlayGridLines, v.game.Mode()) {
		v.drawGridLines()
	}
	v.drawSelection()

	v.drawUI(lifeMode)

	rl.EndDrawing()
}

// drawBoardBackground fills the grid extent so its edges are visible.
func (v *Viewer) drawBoardBackground() {
	x, y := v.camera.WorldToScreen(0, 0)
	rl.DrawRectangleRec(rl.Rectangle{
		X:      x,
		Y:      y,
		Width:  v.camera.WorldW() * v.camera.Zoom,
		Height: v.camera.WorldH() * v.camera.Zoom,
	}, KindColor(components.KindEmpty))
}

func (v *Viewer) drawEcosystem() {
	v.drawBoardBackground()

	snap := v.game.Snapshot()
	minRow, minCol, maxRow, maxCol := v.camera.VisibleCells()
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			kind := snap.At(r, c)
			if kind == components.KindEmpty {
				continue
			}
			v.fillCell(r, c, KindColor(kind))
		}
	}
}

func (v *Viewer) drawLifeBoard() {
	v.drawBoardBackground()

	board := v.game.LifeSnapshot()
	minRow, minCol, maxRow, maxCol := v.camera.VisibleCells()
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			if board.Alive(r, c) {
				v.fillCell(r, c, LifeColor)
			}
		}
	}
}

func (v *Viewer) fillCell(r, c int, color rl.Color) {
	x, y, size := v.camera.CellRect(r, c)
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, color)
}

// drawGridLines outlines every visible cell once cells are large enough.
func (v *Viewer) drawGridLines() {
	if v.camera.CellSize*v.camera.Zoom < 4 {
		return
	}
	minRow, minCol, maxRow, maxCol := v.camera.VisibleCells()
	x0, y0 := v.camera.WorldToScreen(float32(minCol)*v.camera.CellSize, float32(minRow)*v.camera.CellSize)
	x1, y1 := v.camera.WorldToScreen(float32(maxCol+1)*v.camera.CellSize, float32(maxRow+1)*v.camera.CellSize)
	for c := minCol; c <= maxCol+1; c++ {
		x, _ := v.camera.WorldToScreen(float32(c)*v.camera.CellSize, 0)
		rl.DrawLineV(rl.Vector2{X: x, Y: y0}, rl.Vector2{X: x, Y: y1}, v.theme.GridLine)
	}
	for r := minRow; r <= maxRow+1; r++ {
		_, y := v.camera.WorldToScreen(0, float32(r)*v.camera.CellSize)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y}, rl.Vector2{X: x1, Y: y}, v.theme.GridLine)
	}
}

// drawSelection outlines the selected cell and, for a mobile organism,
// the box it searches for food.
func (v *Viewer) drawSelection() {
	if !v.selected {
		return
	}

	x, y, size := v.camera.CellRect(v.selRow, v.selCol)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x - 1, Y: y - 1, Width: size + 2, Height: size + 2}, 2, v.theme.Highlight)

	if !v.overlays.Active(OverlaySightRadius, v.game.Mode()) {
		return
	}
	occ, err := v.game.Cell(v.selRow, v.selCol)
	if err != nil || occ.Org == nil || !components.Traits(occ.Kind).Mobile {
		return
	}
	rad := occ.Org.SightRadius
	minRow, minCol := max(0, v.selRow-rad), max(0, v.selCol-rad)
	maxRow, maxCol := min(v.rows-1, v.selRow+rad), min(v.cols-1, v.selCol+rad)

	x0, y0, _ := v.camera.CellRect(minRow, minCol)
	x1, y1, cell := v.camera.CellRect(maxRow, maxCol)
	color := KindColor(occ.Kind)
	color.A = 160
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 + cell - x0, Height: y1 + cell - y0}, 1, color)
}

func (v *Viewer) drawUI(lifeMode bool) {
	screenW, screenH := int32(v.screenW), int32(v.screenH)

	data := HUDData{
		Title:      "Grid Ecosystem",
		LifeMode:   lifeMode,
		Generation: v.game.Generation(),
		State:      v.game.State().String(),
		Speed:      v.game.StepsPerUpdate(),
		FPS:        rl.GetFPS(),
		Alerts:     v.game.AlertCount(),
		Status:     v.currentStatus(),
	}
	if lifeMode {
		data.Title = "Game of Life"
		data.LiveCells = v.game.LiveCells()
		data.Pattern = v.game.PatternName()
	} else {
		data.Population = v.game.Population()
		data.Reproductions = v.game.Collector().Reproductions()
		data.Consumption = v.game.Collector().Consumption()
	}
	v.hud.Draw(data)

	if v.overlays.Active(OverlayLegend, v.game.Mode()) {
		v.hud.DrawLegend(screenW, lifeMode)
	}

	panelY := int32(140)
	if v.controls.IsVisible() {
		v.controls.SetPosition(10, panelY)
		panelY = v.controls.Draw(v.overlays, v.game.Mode()) + 20
	}
	if v.overlays.Active(OverlayPerf, v.game.Mode()) {
		v.perf.SetPosition(18, panelY+8)
		v.drawPerf()
	}

	if v.inspectorVisible() {
		if occ, err := v.game.Cell(v.selRow, v.selCol); err == nil {
			v.inspector.Draw(v.inspectorData(occ, v.game.Snapshot()))
		}
	}

	barTop := screenH - int32(v.bar.Height())
	controls := ecosystemControls
	if lifeMode {
		controls = lifeControls
	}
	v.hud.DrawControls(barTop-20, controls)

	action, speed := v.bar.Draw(screenW, screenH, ControlBarData{
		Running:  v.game.State() == game.Running,
		LifeMode: lifeMode,
		Speed:    v.game.StepsPerUpdate(),
		MaxSpeed: game.MaxStepsPerUpdate,
	})
	if action != ActionNone {
		v.pending = action
	}
	if speed != v.game.StepsPerUpdate() {
		v.game.SetStepsPerUpdate(speed)
	}
}

func (v *Viewer) inspectorData(occ components.Occupant, snap systems.Snapshot) InspectorData {
	data := InspectorData{
		Row:        v.selRow,
		Col:        v.selCol,
		Generation: v.game.Generation(),
		Occupant:   occ,
		Snapshot:   snap,
	}
	if occ.Org != nil {
		data.Lifetime = v.game.Lifetimes().Get(occ.Org.ID)
	}
	return data
}

func (v *Viewer) drawPerf() {
	stats := v.game.PerfStats()
	v.perf.Draw(PerfPanelData{
		Stats:  stats,
		Phases: v.game.Registry().ForMode(v.game.Mode()),
	})
}
