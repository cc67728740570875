package systems

// SystemInfo describes one phase of the tick for UI display.
type SystemInfo struct {
	ID          string // perf phase name
	Name        string // display name
	Description string
	Mode        string // "ecosystem", "life" or "" for both
}

// SystemRegistry lists the tick phases in execution order.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{}
	reg.registerDefaults()
	return reg
}

func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "snapshot", Name: "Snapshot", Description: "Copies the live grid into the working buffer", Mode: "ecosystem"})
	r.Register(SystemInfo{ID: "scan", Name: "Scan", Description: "Ages, moves, feeds and breeds entities in row-major order", Mode: "ecosystem"})
	r.Register(SystemInfo{ID: "plants", Name: "Plants", Description: "Injects new plants into random empty cells", Mode: "ecosystem"})
	r.Register(SystemInfo{ID: "life", Name: "Life Rule", Description: "Applies the Game-of-Life rule to the board", Mode: "life"})
	r.Register(SystemInfo{ID: "swap", Name: "Swap", Description: "Promotes the working buffer to the live grid"})
	r.Register(SystemInfo{ID: "publish", Name: "Publish", Description: "Publishes population and alert events"})
}

// Register appends a phase.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
}

// ForMode returns the phases that run in the given mode, in order.
func (r *SystemRegistry) ForMode(mode string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Mode == "" || info.Mode == mode {
			result = append(result, info)
		}
	}
	return result
}
