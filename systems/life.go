package systems

// LifeBoard is a boolean Game-of-Life grid stored row-major.
type LifeBoard struct {
	Rows, Cols int
	Cells      []bool
}

// NewLifeBoard creates an all-dead board.
func NewLifeBoard(rows, cols int) LifeBoard {
	return LifeBoard{Rows: rows, Cols: cols, Cells: make([]bool, rows*cols)}
}

// InBounds reports whether (r, c) lies on the board.
func (b LifeBoard) InBounds(r, c int) bool {
	return r >= 0 && r < b.Rows && c >= 0 && c < b.Cols
}

// Alive reports whether (r, c) is live. Cells off the board are dead.
func (b LifeBoard) Alive(r, c int) bool {
	return b.InBounds(r, c) && b.Cells[r*b.Cols+c]
}

// Set marks (r, c) live or dead.
func (b *LifeBoard) Set(r, c int, alive bool) error {
	if !b.InBounds(r, c) {
		return &OutOfBoundsError{Row: r, Col: c, Rows: b.Rows, Cols: b.Cols}
	}
	b.Cells[r*b.Cols+c] = alive
	return nil
}

// Toggle flips (r, c).
func (b *LifeBoard) Toggle(r, c int) error {
	return b.Set(r, c, !b.Alive(r, c))
}

// Clear kills every cell.
func (b *LifeBoard) Clear() {
	clear(b.Cells)
}

// LiveCount returns the number of live cells.
func (b LifeBoard) LiveCount() int {
	n := 0
	for _, alive := range b.Cells {
		if alive {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (b LifeBoard) Clone() LifeBoard {
	c := LifeBoard{Rows: b.Rows, Cols: b.Cols, Cells: make([]bool, len(b.Cells))}
	copy(c.Cells, b.Cells)
	return c
}

// Equal reports whether both boards have the same size and cells.
func (b LifeBoard) Equal(o LifeBoard) bool {
	if b.Rows != o.Rows || b.Cols != o.Cols {
		return false
	}
	for i := range b.Cells {
		if b.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

func (b LifeBoard) liveNeighbors(r, c int) int {
	n := 0
	for _, off := range mooreOffsets {
		if b.Alive(r+off.Row, c+off.Col) {
			n++
		}
	}
	return n
}

// NextGeneration applies the Life rule to b and returns a new board.
// b is not modified.
func NextGeneration(b LifeBoard) LifeBoard {
	next := NewLifeBoard(b.Rows, b.Cols)
	StepInto(&next, b)
	return next
}

// StepInto writes the next generation of src into dst, reusing dst's
// storage when the sizes match. dst must not share storage with src.
// A live cell survives with 2 or 3 live neighbors; a dead cell with
// exactly 3 becomes live. Edges do not wrap.
func StepInto(dst *LifeBoard, src LifeBoard) {
	if dst.Rows != src.Rows || dst.Cols != src.Cols || len(dst.Cells) != len(src.Cells) {
		*dst = NewLifeBoard(src.Rows, src.Cols)
	}
	for r := 0; r < src.Rows; r++ {
		for c := 0; c < src.Cols; c++ {
			n := src.liveNeighbors(r, c)
			alive := src.Cells[r*src.Cols+c]
			dst.Cells[r*src.Cols+c] = (alive && (n == 2 || n == 3)) || (!alive && n == 3)
		}
	}
}

// RandomFill makes each cell live with probability percent/100.
func RandomFill(b *LifeBoard, rng RNG, percent int) {
	for i := range b.Cells {
		b.Cells[i] = rng.Intn(100) < percent
	}
}
