package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, mode string) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories(mode)
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat, mode)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category, mode) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc Overlay, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "perception":
		return "Perception"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Action is a command issued from the control bar or keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionToggleRun
	ActionStep
	ActionClear
	ActionRandomize
	ActionNextPattern
	ActionResetView
)

// ControlBarData is the state the control bar reflects.
type ControlBarData struct {
	Running  bool
	LifeMode bool
	Speed    int // steps per update
	MaxSpeed int
}

// ControlBar renders the button strip and speed slider along the bottom edge.
type ControlBar struct {
	renderer *Renderer
	height   float32
}

// NewControlBar creates a control bar.
func NewControlBar() *ControlBar {
	return &ControlBar{renderer: NewRenderer(), height: 36}
}

// Height returns the bar height in pixels.
func (b *ControlBar) Height() float32 {
	return b.height
}

// Draw renders the bar and returns the clicked action and the slider speed.
func (b *ControlBar) Draw(screenW, screenH int32, data ControlBarData) (Action, int) {
	top := float32(screenH) - b.height
	b.renderer.DrawPanel(0, int32(top), screenW, int32(b.height))

	const (
		btnW = 80
		btnH = 24
		gap  = 8
	)
	x := float32(gap)
	y := top + (b.height-btnH)/2
	next := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: btnW, Height: btnH}
		x += btnW + gap
		return r
	}

	action := ActionNone
	runLabel := "Start"
	if data.Running {
		runLabel = "Pause"
	}
	if gui.Button(next(), runLabel) {
		action = ActionToggleRun
	}
	if gui.Button(next(), "Step") {
		action = ActionStep
	}
	if gui.Button(next(), "Clear") {
		action = ActionClear
	}
	if data.LifeMode {
		if gui.Button(next(), "Random") {
			action = ActionRandomize
		}
		if gui.Button(next(), "Pattern") {
			action = ActionNextPattern
		}
	}
	if gui.Button(next(), "Fit") {
		action = ActionResetView
	}

	x += 40
	maxSpeed := max(data.MaxSpeed, 1)
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 160, Height: btnH},
		"Speed", fmt.Sprintf("%dx", data.Speed),
		float32(data.Speed), 1, float32(maxSpeed),
	)

	return action, clampSpeed(int(speed+0.5), maxSpeed)
}

func clampSpeed(speed, maxSpeed int) int {
	return min(max(speed, 1), maxSpeed)
}
