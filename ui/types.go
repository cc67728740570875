// Package ui provides a descriptor-driven UI system for the simulation.
// Instead of hard-coding field names and layouts, UI elements are defined
// through metadata that can be updated alongside the underlying systems.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/components"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string             // Unique identifier for the field
	Label       string             // Display label
	Widget      WidgetType         // How to render
	Format      string             // Printf format for text (e.g., "%.2f")
	Color       rl.Color           // Optional color override
	Visible     func(any) bool     // Optional visibility check (nil = always visible)
	Getter      func(any) float32  // Value extractor (for numeric fields)
	TextGetter  func(any) string   // Value extractor (for text fields)
	ColorGetter func(any) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	Background     rl.Color
	GridLine       rl.Color
	Highlight      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 200, B: 100, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		Background:     rl.Color{R: 8, G: 9, B: 12, A: 255},
		GridLine:       rl.Color{R: 40, G: 44, B: 52, A: 255},
		Highlight:      rl.Color{R: 255, G: 255, B: 255, A: 200},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     72,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// kindColors is the cell palette indexed by components.Kind.
var kindColors = [components.NumKinds]rl.Color{
	components.KindEmpty:        {R: 18, G: 21, B: 26, A: 255},
	components.KindPlant:        {R: 60, G: 170, B: 75, A: 255},
	components.KindHerbivore:    {R: 230, G: 200, B: 80, A: 255},
	components.KindPredator:     {R: 210, G: 70, B: 60, A: 255},
	components.KindFastPredator: {R: 200, G: 90, B: 220, A: 255},
}

// LifeColor is the color of a live Game-of-Life cell.
var LifeColor = rl.Color{R: 120, G: 200, B: 255, A: 255}

// KindColor returns the cell color for a kind.
func KindColor(k components.Kind) rl.Color {
	if int(k) >= components.NumKinds {
		return kindColors[components.KindEmpty]
	}
	return kindColors[k]
}
