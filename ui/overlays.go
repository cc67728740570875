package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/config"
)

// OverlayID identifies a toggleable overlay.
type OverlayID uint8

const (
	OverlayGridLines OverlayID = iota
	OverlayLegend
	OverlaySightRadius
	OverlayInspector
	OverlayPerf
)

// Overlay describes a toggleable layer of the viewer.
type Overlay struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // toggle key, 0 for none
	KeyLabel    string // shown in the controls panel
	Category    string // "visual", "perception" or "debug"
	Mode        string // simulation mode it applies to, "" for both
	Default     bool   // enabled at startup
}

// appliesTo reports whether the overlay has anything to show in mode.
func (o Overlay) appliesTo(mode string) bool {
	return o.Mode == "" || o.Mode == mode
}

// OverlayRegistry holds the overlays in display order and their state.
// Overlays keep their state across mode switches.
type OverlayRegistry struct {
	overlays []Overlay
	enabled  []bool
	index    map[OverlayID]int
}

// NewOverlayRegistry creates a registry with the viewer's overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{index: make(map[OverlayID]int)}
	r.Register(Overlay{
		ID: OverlayGridLines, Name: "Grid Lines", Description: "Outline every cell",
		Key: rl.KeyG, KeyLabel: "G", Category: "visual",
	})
	r.Register(Overlay{
		ID: OverlayLegend, Name: "Legend", Description: "Show the color of each species",
		Key: rl.KeyK, KeyLabel: "K", Category: "visual", Default: true,
	})
	r.Register(Overlay{
		ID: OverlaySightRadius, Name: "Sight Radius", Description: "Show the search box of the selected organism",
		Key: rl.KeyV, KeyLabel: "V", Category: "perception", Mode: config.ModeEcosystem, Default: true,
	})
	r.Register(Overlay{
		ID: OverlayInspector, Name: "Inspector", Description: "Show details of the selected cell",
		Key: rl.KeyI, KeyLabel: "I", Category: "perception", Mode: config.ModeEcosystem, Default: true,
	})
	r.Register(Overlay{
		ID: OverlayPerf, Name: "Performance", Description: "Show tick phase timing",
		Key: rl.KeyF3, KeyLabel: "F3", Category: "debug",
	})
	return r
}

// Register adds an overlay, replacing one with the same ID.
func (r *OverlayRegistry) Register(o Overlay) {
	if i, ok := r.index[o.ID]; ok {
		r.overlays[i] = o
		r.enabled[i] = o.Default
		return
	}
	r.index[o.ID] = len(r.overlays)
	r.overlays = append(r.overlays, o)
	r.enabled = append(r.enabled, o.Default)
}

// Get returns the overlay with the given ID.
func (r *OverlayRegistry) Get(id OverlayID) (Overlay, bool) {
	i, ok := r.index[id]
	if !ok {
		return Overlay{}, false
	}
	return r.overlays[i], true
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.enabled[i] = !r.enabled[i]
	return r.enabled[i]
}

// SetEnabled sets an overlay's state. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if i, ok := r.index[id]; ok {
		r.enabled[i] = enabled
	}
}

// IsEnabled reports whether an overlay is switched on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i, ok := r.index[id]
	return ok && r.enabled[i]
}

// Active reports whether an overlay is switched on and applies to mode.
func (r *OverlayRegistry) Active(id OverlayID, mode string) bool {
	i, ok := r.index[id]
	return ok && r.enabled[i] && r.overlays[i].appliesTo(mode)
}

// ForMode returns the overlays that apply to mode, in display order.
func (r *OverlayRegistry) ForMode(mode string) []Overlay {
	var result []Overlay
	for _, o := range r.overlays {
		if o.appliesTo(mode) {
			result = append(result, o)
		}
	}
	return result
}

// Categories returns the categories with at least one overlay for mode,
// in first-seen order.
func (r *OverlayRegistry) Categories(mode string) []string {
	var cats []string
	for _, o := range r.ForMode(mode) {
		if !slices.Contains(cats, o.Category) {
			cats = append(cats, o.Category)
		}
	}
	return cats
}

// ByCategory returns the overlays of one category that apply to mode.
func (r *OverlayRegistry) ByCategory(category, mode string) []Overlay {
	var result []Overlay
	for _, o := range r.ForMode(mode) {
		if o.Category == category {
			result = append(result, o)
		}
	}
	return result
}

// HandleKeyPress toggles the overlay bound to key, if it applies to mode.
// It returns the overlay, its new state and whether a toggle happened.
func (r *OverlayRegistry) HandleKeyPress(key int32, mode string) (OverlayID, bool, bool) {
	for _, o := range r.ForMode(mode) {
		if o.Key != 0 && o.Key == key {
			return o.ID, r.Toggle(o.ID), true
		}
	}
	return 0, false, false
}
