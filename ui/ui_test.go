package ui

import (
	"testing"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/telemetry"
)

func TestOverlayToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayPerf) || !reg.IsEnabled(OverlayPerf) {
		t.Error("expected perf enabled after toggle")
	}
	reg.SetEnabled(OverlayPerf, false)
	if reg.IsEnabled(OverlayPerf) {
		t.Error("expected perf disabled")
	}
	if reg.Toggle(OverlayID(99)) || reg.IsEnabled(OverlayID(99)) {
		t.Error("expected unknown overlay to stay disabled")
	}

	reg.Register(Overlay{ID: OverlayPerf, Name: "Timing", Category: "debug", Default: true})
	if o, _ := reg.Get(OverlayPerf); o.Name != "Timing" || !reg.IsEnabled(OverlayPerf) {
		t.Errorf("expected re-register to replace perf, got %+v", o)
	}
	if got := len(reg.ForMode(config.ModeEcosystem)); got != 5 {
		t.Errorf("expected 5 overlays after replace, got %d", got)
	}
}

func TestOverlayModes(t *testing.T) {
	reg := NewOverlayRegistry()

	tests := []struct {
		mode string
		cats []string
	}{
		{config.ModeEcosystem, []string{"visual", "perception", "debug"}},
		{config.ModeLife, []string{"visual", "debug"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cats := reg.Categories(tt.mode)
			if len(cats) != len(tt.cats) {
				t.Fatalf("expected categories %v, got %v", tt.cats, cats)
			}
			for i := range tt.cats {
				if cats[i] != tt.cats[i] {
					t.Errorf("expected category %d to be %s, got %s", i, tt.cats[i], cats[i])
				}
			}
		})
	}

	if !reg.Active(OverlayInspector, config.ModeEcosystem) {
		t.Error("expected inspector active in ecosystem mode")
	}
	if reg.Active(OverlayInspector, config.ModeLife) {
		t.Error("expected inspector inactive in life mode")
	}
	if reg.Active(OverlayGridLines, config.ModeLife) {
		t.Error("expected grid lines off by default")
	}
	if got := reg.ByCategory("perception", config.ModeEcosystem); len(got) != 2 {
		t.Errorf("expected 2 perception overlays, got %d", len(got))
	}
}

func TestOverlayKeys(t *testing.T) {
	reg := NewOverlayRegistry()
	sight, _ := reg.Get(OverlaySightRadius)

	if _, _, handled := reg.HandleKeyPress(sight.Key, config.ModeLife); handled {
		t.Error("expected sight radius key ignored in life mode")
	}
	id, enabled, handled := reg.HandleKeyPress(sight.Key, config.ModeEcosystem)
	if !handled || id != OverlaySightRadius || enabled {
		t.Errorf("expected key to turn sight radius off, got (%d, %v, %v)", id, enabled, handled)
	}

	grid, _ := reg.Get(OverlayGridLines)
	if _, enabled, _ := reg.HandleKeyPress(grid.Key, config.ModeLife); !enabled {
		t.Error("expected grid lines on after key press")
	}
}

func findField(t *testing.T, sectionID, fieldID string) (SectionDescriptor, FieldDescriptor) {
	t.Helper()
	for _, sd := range inspectorSections {
		if sd.ID != sectionID {
			continue
		}
		for _, fd := range sd.Fields {
			if fd.ID == fieldID {
				return sd, fd
			}
		}
	}
	t.Fatalf("field %s.%s not found", sectionID, fieldID)
	return SectionDescriptor{}, FieldDescriptor{}
}

func TestInspectorFields(t *testing.T) {
	org := &components.Organism{
		ID:                   7,
		Kind:                 components.KindHerbivore,
		Born:                 4,
		Lifespan:             10,
		CurrentLifespan:      5,
		SightRadius:          5,
		ReproductionCooldown: 5,
		CurrentCooldown:      2,
	}
	data := InspectorData{
		Row:        3,
		Col:        9,
		Generation: 10,
		Occupant:   components.Occupy(org),
		Lifetime:   &telemetry.LifetimeStats{OrganismID: 7, Kind: components.KindHerbivore, Born: 4, Cause: telemetry.CauseBirth, Children: 2},
	}

	tests := []struct {
		section, field string
		want           string
	}{
		{"cell", "position", "(3, 9)"},
		{"organism", "id", "#7"},
		{"organism", "age", "6 gen"},
		{"organism", "remaining", "5 / 10"},
		{"organism", "speed", "1 steps"},
		{"organism", "cooldown", "2 / 5"},
		{"history", "origin", "birth at 4"},
		{"history", "children", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.section+"."+tt.field, func(t *testing.T) {
			_, fd := findField(t, tt.section, tt.field)
			if got := FieldText(fd, data); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	_, bar := findField(t, "organism", "lifespan")
	if got := bar.Getter(data); got != 0.5 {
		t.Errorf("expected lifespan bar 0.5, got %f", got)
	}
}

func TestInspectorVisibility(t *testing.T) {
	plant := &components.Organism{ID: 1, Kind: components.KindPlant, Lifespan: 3, CurrentLifespan: 3}
	data := InspectorData{Occupant: components.Occupy(plant)}

	orgSection, sight := findField(t, "organism", "sight")
	if !orgSection.Visible(data) {
		t.Error("expected organism section visible for a plant")
	}
	if sight.Visible(data) {
		t.Error("expected sight hidden for a static plant")
	}

	history, _ := findField(t, "history", "origin")
	if history.Visible(data) {
		t.Error("expected history hidden without lifetime stats")
	}

	empty := InspectorData{Occupant: components.Empty}
	if orgSection.Visible(empty) {
		t.Error("expected organism section hidden for an empty cell")
	}
	r := NewRenderer()
	if h := r.SectionHeight(orgSection, empty); h != 0 {
		t.Errorf("expected hidden section height 0, got %d", h)
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{5, 5},
		{14, 10},
	}
	for _, tt := range tests {
		if got := clampSpeed(tt.in, 10); got != tt.want {
			t.Errorf("clampSpeed(%d) expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
