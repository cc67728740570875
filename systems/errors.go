package systems

import "fmt"

// OutOfBoundsError reports a grid access outside [0,Rows)x[0,Cols).
type OutOfBoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cell (%d,%d) out of bounds for %dx%d grid", e.Row, e.Col, e.Rows, e.Cols)
}
