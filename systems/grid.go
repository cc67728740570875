// Package systems implements the grid, entity behavior and automaton rules.
package systems

import "github.com/pthm-cable/gridsim/components"

// Cell is a grid coordinate.
type Cell struct {
	Row, Col int
}

// Moore neighborhood offsets in enumeration order NW, N, NE, W, E, SW, S, SE.
var mooreOffsets = [8]Cell{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is a rows x cols matrix of occupants with an occupancy index
// mirroring which cells are empty. Every write goes through put, which
// updates both so they never disagree.
type Grid struct {
	rows, cols int
	cells      []components.Occupant
	empty      []bool // occupancy index: true when the cell holds nothing
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]components.Occupant, rows*cols),
		empty: make([]bool, rows*cols),
	}
	for i := range g.empty {
		g.empty[i] = true
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (r, c) lies inside the grid.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

func (g *Grid) outOfBounds(r, c int) error {
	return &OutOfBoundsError{Row: r, Col: c, Rows: g.rows, Cols: g.cols}
}

// Get returns the occupant at (r, c).
func (g *Grid) Get(r, c int) (components.Occupant, error) {
	if !g.InBounds(r, c) {
		return components.Empty, g.outOfBounds(r, c)
	}
	return g.cells[r*g.cols+c], nil
}

// Set overwrites the cell at (r, c) and its occupancy flag.
// An organism placed in a cell takes that cell's position.
func (g *Grid) Set(r, c int, occ components.Occupant) error {
	if !g.InBounds(r, c) {
		return g.outOfBounds(r, c)
	}
	g.put(Cell{r, c}, occ)
	return nil
}

// Clear empties the cell at (r, c).
func (g *Grid) Clear(r, c int) error {
	return g.Set(r, c, components.Empty)
}

// IsEmpty reads the occupancy index. Cells outside the grid are not empty.
func (g *Grid) IsEmpty(r, c int) bool {
	return g.InBounds(r, c) && g.empty[r*g.cols+c]
}

func (g *Grid) at(p Cell) components.Occupant {
	return g.cells[p.Row*g.cols+p.Col]
}

func (g *Grid) put(p Cell, occ components.Occupant) {
	i := p.Row*g.cols + p.Col
	g.cells[i] = occ
	g.empty[i] = occ.IsEmpty()
	if occ.Org != nil {
		occ.Org.Row, occ.Org.Col = p.Row, p.Col
	}
}

// Neighbors8 returns the in-bounds Moore neighbors of (r, c), clipped at
// the edges, in the order NW, N, NE, W, E, SW, S, SE.
func (g *Grid) Neighbors8(r, c int) []Cell {
	out := make([]Cell, 0, 8)
	for _, off := range mooreOffsets {
		nr, nc := r+off.Row, c+off.Col
		if g.InBounds(nr, nc) {
			out = append(out, Cell{nr, nc})
		}
	}
	return out
}

// EmptyNeighbors returns the Moore neighbors of (r, c) whose occupancy
// flag marks them empty, in the same fixed order as Neighbors8.
func (g *Grid) EmptyNeighbors(r, c int) []Cell {
	out := make([]Cell, 0, 8)
	for _, off := range mooreOffsets {
		nr, nc := r+off.Row, c+off.Col
		if g.InBounds(nr, nc) && g.empty[nr*g.cols+nc] {
			out = append(out, Cell{nr, nc})
		}
	}
	return out
}

// FindNearestInRadius scans the box [r-radius, r+radius] x [c-radius, c+radius]
// clipped to the grid for cells matching pred, excluding (r, c) itself.
// Distance is Manhattan; among equal distances the first cell in row-major
// order wins.
func (g *Grid) FindNearestInRadius(r, c, radius int, pred func(components.Occupant) bool) (Cell, bool) {
	if radius <= 0 {
		return Cell{}, false
	}

	minRow, maxRow := max(0, r-radius), min(g.rows-1, r+radius)
	minCol, maxCol := max(0, c-radius), min(g.cols-1, c+radius)

	best := Cell{}
	bestDist := -1
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if row == r && col == c {
				continue
			}
			if !pred(g.cells[row*g.cols+col]) {
				continue
			}
			d := absInt(row-r) + absInt(col-c)
			if bestDist < 0 || d < bestDist {
				best = Cell{row, col}
				bestDist = d
			}
		}
	}
	return best, bestDist >= 0
}

// EmptyCells lists all empty cells in row-major order.
func (g *Grid) EmptyCells() []Cell {
	var out []Cell
	for i, e := range g.empty {
		if e {
			out = append(out, Cell{i / g.cols, i % g.cols})
		}
	}
	return out
}

// RandomEmptyCell picks a uniformly random empty cell.
func (g *Grid) RandomEmptyCell(rng RNG) (Cell, bool) {
	empties := g.EmptyCells()
	if len(empties) == 0 {
		return Cell{}, false
	}
	return empties[rng.Intn(len(empties))], true
}

// CopyFrom makes g an exact copy of src, reallocating if the sizes differ.
// Occupants are copied by value; organisms are shared.
func (g *Grid) CopyFrom(src *Grid) {
	if g.rows != src.rows || g.cols != src.cols {
		g.rows, g.cols = src.rows, src.cols
		g.cells = make([]components.Occupant, len(src.cells))
		g.empty = make([]bool, len(src.empty))
	}
	copy(g.cells, src.cells)
	copy(g.empty, src.empty)
}

// Counts tallies occupants per kind.
func (g *Grid) Counts() components.Population {
	var p components.Population
	for _, occ := range g.cells {
		p[occ.Kind]++
	}
	return p
}

// Each calls fn for every occupied cell in row-major order.
func (g *Grid) Each(fn func(p Cell, occ components.Occupant)) {
	for i, occ := range g.cells {
		if !occ.IsEmpty() {
			fn(Cell{i / g.cols, i % g.cols}, occ)
		}
	}
}

// Snapshot returns a read-only view of the occupant kinds for rendering.
func (g *Grid) Snapshot() Snapshot {
	kinds := make([]components.Kind, len(g.cells))
	for i, occ := range g.cells {
		kinds[i] = occ.Kind
	}
	return Snapshot{Rows: g.rows, Cols: g.cols, Kinds: kinds}
}

// Snapshot is a detached copy of the occupant kind in every cell.
type Snapshot struct {
	Rows, Cols int
	Kinds      []components.Kind
}

// At returns the kind at (r, c), or KindEmpty outside the snapshot.
func (s Snapshot) At(r, c int) components.Kind {
	if r < 0 || r >= s.Rows || c < 0 || c >= s.Cols {
		return components.KindEmpty
	}
	return s.Kinds[r*s.Cols+c]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
