package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	LifeMode      bool
	Generation    int
	State         string
	Population    components.Population
	LiveCells     int
	Reproductions int // herbivore births so far
	Consumption   int // animals eaten so far
	Pattern       string
	Alerts        int
	Speed         int
	FPS           int32
	Status        string // transient message, e.g. a rejected edit
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	if data.LifeMode {
		pattern := data.Pattern
		if pattern == "" {
			pattern = "random"
		}
		rl.DrawText(
			fmt.Sprintf("Live cells: %d | Pattern: %s", data.LiveCells, pattern),
			10, 35, 16, rl.LightGray,
		)
	} else {
		p := data.Population
		rl.DrawText(
			fmt.Sprintf("Plants: %d | Herbivores: %d | Predators: %d | Fast: %d",
				p.Of(components.KindPlant), p.Of(components.KindHerbivore),
				p.Of(components.KindPredator), p.Of(components.KindFastPredator)),
			10, 35, 16, rl.LightGray,
		)
	}

	rl.DrawText(
		fmt.Sprintf("Generation: %d | Speed: %dx | FPS: %d", data.Generation, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	y := int32(75)
	if !data.LifeMode {
		rl.DrawText(
			fmt.Sprintf("Herbivore Reproductions: %d | Animal Consumption: %d | Alerts: %d",
				data.Reproductions, data.Consumption, data.Alerts),
			10, y, 16, rl.LightGray,
		)
		y += 20
	}

	stateColor := rl.Yellow
	if data.State == "running" {
		stateColor = rl.Green
	}
	rl.DrawText(data.State, 10, y, 16, stateColor)

	if data.Status != "" {
		rl.DrawText(data.Status, 10, y+20, 14, rl.Orange)
	}
}

// DrawControls renders the control legend above the control bar.
func (h *HUD) DrawControls(y int32, controls string) {
	rl.DrawText(controls, 10, y, 14, rl.Gray)
}

// DrawLegend renders the species color key in the top right corner.
func (h *HUD) DrawLegend(screenWidth int32, lifeMode bool) {
	r := h.renderer
	width := int32(150)
	x := screenWidth - width - 10
	y := int32(10)

	if lifeMode {
		r.DrawPanel(x, y, width, r.Theme.LineHeight+r.Theme.Padding*2)
		r.DrawColorSwatch(x+r.Theme.Padding, y+r.Theme.Padding, "Live", LifeColor, "")
		return
	}

	species := components.Species()
	r.DrawPanel(x, y, width, int32(len(species))*r.Theme.LineHeight+r.Theme.Padding*2)
	y += r.Theme.Padding
	for _, k := range species {
		y = r.DrawColorSwatch(x+r.Theme.Padding, y, "", KindColor(k), k.String())
	}
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats  telemetry.PerfStats
	Phases []systems.SystemInfo // phases to list, in tick order
}

// PerfPanel renders the tick phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	height := int32(76 + 14*len(data.Phases))
	p.renderer.DrawPanel(x-8, y-8, 260, height)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	stats := data.Stats
	rl.DrawText(fmt.Sprintf("Tick: %s | %.0f gen/s", stats.AvgTick.Round(time.Microsecond), stats.GenerationsPerSecond), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.2fM cells/s", stats.CellsPerSecond/1e6), x, y, 12, rl.Gray)
	y += 16

	for _, phase := range data.Phases {
		ph, ok := telemetry.PhaseByName(phase.ID)
		if !ok {
			continue
		}
		avg, pct := stats.Phase(ph).Avg, stats.Phase(ph).Pct

		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
