package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Row, Col   int
	Generation int
	Occupant   components.Occupant
	Lifetime   *telemetry.LifetimeStats // nil when not tracked
	Snapshot   systems.Snapshot         // for the neighborhood preview
}

func inspected(d any) InspectorData {
	data, _ := d.(InspectorData)
	return data
}

func hasOrganism(d any) bool {
	return inspected(d).Occupant.Org != nil
}

func traitsOf(d any) components.KindTraits {
	return components.Traits(inspected(d).Occupant.Kind)
}

// inspectorSections describes the inspector layout.
var inspectorSections = []SectionDescriptor{
	{
		ID:    "cell",
		Title: "Cell",
		Fields: []FieldDescriptor{
			{ID: "position", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				data := inspected(d)
				return fmt.Sprintf("(%d, %d)", data.Row, data.Col)
			}},
			{ID: "kind", Label: "Kind", Widget: WidgetColorSwatch,
				ColorGetter: func(d any) rl.Color { return KindColor(inspected(d).Occupant.Kind) },
				TextGetter:  func(d any) string { return inspected(d).Occupant.Kind.String() }},
		},
	},
	{
		ID:      "organism",
		Title:   "Organism",
		Visible: hasOrganism,
		Fields: []FieldDescriptor{
			{ID: "id", Label: "ID", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("#%d", inspected(d).Occupant.Org.ID)
			}},
			{ID: "age", Label: "Age", Widget: WidgetText, TextGetter: func(d any) string {
				data := inspected(d)
				return fmt.Sprintf("%d gen", data.Occupant.Org.AgeAt(data.Generation))
			}},
			{ID: "lifespan", Label: "Lifespan", Widget: WidgetBar, Getter: func(d any) float32 {
				org := inspected(d).Occupant.Org
				if org.Lifespan <= 0 {
					return 0
				}
				return float32(org.CurrentLifespan) / float32(org.Lifespan)
			}},
			{ID: "remaining", Label: "Remaining", Widget: WidgetText, TextGetter: func(d any) string {
				org := inspected(d).Occupant.Org
				return fmt.Sprintf("%d / %d", org.CurrentLifespan, org.Lifespan)
			}},
			{ID: "sight", Label: "Sight", Widget: WidgetText,
				Visible: func(d any) bool { return traitsOf(d).Mobile },
				TextGetter: func(d any) string {
					return fmt.Sprintf("%d cells", inspected(d).Occupant.Org.SightRadius)
				}},
			{ID: "speed", Label: "Speed", Widget: WidgetText,
				Visible: func(d any) bool { return traitsOf(d).Mobile },
				Getter:  func(d any) float32 { return float32(traitsOf(d).Speed) },
				Format:  "%.0f steps"},
			{ID: "cooldown", Label: "Cooldown", Widget: WidgetText,
				Visible: func(d any) bool { return traitsOf(d).Reproduces },
				TextGetter: func(d any) string {
					org := inspected(d).Occupant.Org
					if org.CurrentCooldown <= 0 {
						return "ready"
					}
					return fmt.Sprintf("%d / %d", org.CurrentCooldown, org.ReproductionCooldown)
				}},
		},
	},
	{
		ID:      "history",
		Title:   "History",
		Visible: func(d any) bool { return inspected(d).Lifetime != nil },
		Fields: []FieldDescriptor{
			{ID: "origin", Label: "Origin", Widget: WidgetText, TextGetter: func(d any) string {
				lt := inspected(d).Lifetime
				return fmt.Sprintf("%s at %d", lt.Cause, lt.Born)
			}},
			{ID: "meals", Label: "Meals", Widget: WidgetText,
				Visible: func(d any) bool { return traitsOf(d).Mobile },
				Getter:  func(d any) float32 { return float32(inspected(d).Lifetime.Meals) }},
			{ID: "children", Label: "Children", Widget: WidgetText,
				Visible: func(d any) bool { return traitsOf(d).Reproduces },
				Getter:  func(d any) float32 { return float32(inspected(d).Lifetime.Children) }},
		},
	},
}

// Inspector renders the cell inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// previewRadius is the neighborhood shown around the inspected cell.
const previewRadius = 3

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2
	previewHeight := int32(100)

	panelHeight := padding*2 + previewHeight + 8
	for _, sd := range inspectorSections {
		panelHeight += r.SectionHeight(sd, data)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	y := ins.y + padding
	y = ins.drawNeighborhood(ins.x+padding, y, contentWidth, previewHeight, data)
	y = r.DrawSpacer(y, 8)

	for _, sd := range inspectorSections {
		y = r.DrawSection(ins.x+padding, y, sd, data, contentWidth)
	}
	return y
}

// drawNeighborhood renders the cells around the inspected one, with the
// inspected cell outlined.
func (ins *Inspector) drawNeighborhood(x, y, width, height int32, data InspectorData) int32 {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	span := int32(2*previewRadius + 1)
	cell := min((width-10)/span, (height-10)/span)
	if cell <= 0 {
		return y + height
	}
	offsetX := x + (width-cell*span)/2
	offsetY := y + (height-cell*span)/2

	for dr := -previewRadius; dr <= previewRadius; dr++ {
		for dc := -previewRadius; dc <= previewRadius; dc++ {
			row, col := data.Row+dr, data.Col+dc
			cx := offsetX + int32(dc+previewRadius)*cell
			cy := offsetY + int32(dr+previewRadius)*cell
			if row < 0 || col < 0 || row >= data.Snapshot.Rows || col >= data.Snapshot.Cols {
				continue
			}
			rl.DrawRectangle(cx, cy, cell-1, cell-1, KindColor(data.Snapshot.At(row, col)))
		}
	}

	center := rl.Rectangle{
		X:      float32(offsetX + previewRadius*cell),
		Y:      float32(offsetY + previewRadius*cell),
		Width:  float32(cell),
		Height: float32(cell),
	}
	rl.DrawRectangleLinesEx(center, 1, ins.renderer.Theme.Highlight)

	return y + height
}
