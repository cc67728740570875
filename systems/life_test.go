package systems

import (
	"errors"
	"testing"
)

func boardFrom(t *testing.T, rows, cols int, live ...Cell) LifeBoard {
	t.Helper()
	b := NewLifeBoard(rows, cols)
	for _, p := range live {
		if err := b.Set(p.Row, p.Col, true); err != nil {
			t.Fatalf("set %v: %v", p, err)
		}
	}
	return b
}

func TestNextGeneration_BlockIsStill(t *testing.T) {
	block := boardFrom(t, 4, 4, Cell{1, 1}, Cell{1, 2}, Cell{2, 1}, Cell{2, 2})
	next := NextGeneration(block)
	if !next.Equal(block) {
		t.Error("expected block to be a still life")
	}
}

func TestNextGeneration_BlinkerOscillates(t *testing.T) {
	horizontal := boardFrom(t, 5, 5, Cell{2, 1}, Cell{2, 2}, Cell{2, 3})
	vertical := boardFrom(t, 5, 5, Cell{1, 2}, Cell{2, 2}, Cell{3, 2})

	gen1 := NextGeneration(horizontal)
	if !gen1.Equal(vertical) {
		t.Error("expected blinker to turn vertical after one generation")
	}
	gen2 := NextGeneration(gen1)
	if !gen2.Equal(horizontal) {
		t.Error("expected blinker to return to horizontal after two generations")
	}
}

func TestNextGeneration_DoesNotMutateInput(t *testing.T) {
	b := boardFrom(t, 5, 5, Cell{2, 1}, Cell{2, 2}, Cell{2, 3})
	before := b.Clone()
	NextGeneration(b)
	if !b.Equal(before) {
		t.Error("expected input board to be unchanged")
	}
}

func TestNextGeneration_EdgesDoNotWrap(t *testing.T) {
	// A vertical blinker on the left edge. With wraparound the far column
	// would gain live cells.
	b := boardFrom(t, 5, 5, Cell{1, 0}, Cell{2, 0}, Cell{3, 0})
	next := NextGeneration(b)

	for r := 0; r < 5; r++ {
		if next.Alive(r, 4) {
			t.Errorf("expected (%d,4) dead without wraparound", r)
		}
	}
	if !next.Alive(2, 0) || !next.Alive(2, 1) {
		t.Error("expected middle row cells (2,0) and (2,1) alive")
	}
	if got := next.LiveCount(); got != 2 {
		t.Errorf("expected 2 live cells, got %d", got)
	}
}

func TestNextGeneration_LonelyCellDies(t *testing.T) {
	b := boardFrom(t, 3, 3, Cell{1, 1})
	if got := NextGeneration(b).LiveCount(); got != 0 {
		t.Errorf("expected isolated cell to die, got %d live", got)
	}
}

func TestStepInto_ReusesDestination(t *testing.T) {
	src := boardFrom(t, 5, 5, Cell{2, 1}, Cell{2, 2}, Cell{2, 3})
	dst := NewLifeBoard(5, 5)
	cells := dst.Cells

	StepInto(&dst, src)

	if &dst.Cells[0] != &cells[0] {
		t.Error("expected destination storage to be reused")
	}
	if !dst.Alive(1, 2) || !dst.Alive(3, 2) {
		t.Error("expected vertical blinker in destination")
	}
}

func TestLifeBoard_SetOutOfBounds(t *testing.T) {
	b := NewLifeBoard(2, 2)
	err := b.Set(2, 0, true)
	if err == nil {
		t.Fatal("expected error for out of bounds set")
	}
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Errorf("expected OutOfBoundsError, got %T", err)
	}
}

func TestRandomFill(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		want    int
	}{
		{"none", 0, 0},
		{"all", 100, 9},
		{"scripted", 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewLifeBoard(3, 3)
			// 0..80 in steps of 10: five values below 50.
			rng := &scriptedRNG{vals: []int{0, 10, 20, 30, 40, 50, 60, 70, 80}}
			RandomFill(&b, rng, tt.percent)
			if got := b.LiveCount(); got != tt.want {
				t.Errorf("expected %d live cells, got %d", tt.want, got)
			}
		})
	}
}
