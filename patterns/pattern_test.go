package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/gridsim/systems"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows int
		wantCols int
		wantLive int
	}{
		{"blinker", ".O.\n.O.\n.O.\n", 3, 3, 3},
		{"mixed live runes", "1X\nO0\n", 2, 2, 3},
		{"dead runes", "0.-\n", 1, 3, 0},
		{"blank lines skipped", "\nOO\n\n  \nOO\n", 2, 2, 4},
		{"windows line endings", "OO\r\nOO\r\n", 2, 2, 4},
		{"ragged rows padded", "O\nOOO\n", 2, 3, 4},
		{"empty", "", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.name, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Rows != tt.wantRows || p.Cols != tt.wantCols {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantRows, tt.wantCols, p.Rows, p.Cols)
			}
			if got := p.LiveCount(); got != tt.wantLive {
				t.Errorf("expected %d live cells, got %d", tt.wantLive, got)
			}
			for i, row := range p.Cells {
				if len(row) != p.Cols {
					t.Errorf("row %d: expected width %d, got %d", i, p.Cols, len(row))
				}
			}
		})
	}
}

func TestParse_InvalidCharacter(t *testing.T) {
	_, err := Parse("bad.txt", strings.NewReader("OO\n\nO#O\n"))
	var perr *PatternFormatError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PatternFormatError, got %v", err)
	}
	if perr.Path != "bad.txt" || perr.Line != 3 || perr.Column != 2 || perr.Char != '#' {
		t.Errorf("expected bad.txt line 3 column 2 '#', got %+v", perr)
	}
	if !strings.Contains(perr.Error(), "'#'") {
		t.Errorf("expected message to name the character, got %q", perr.Error())
	}
}

func TestLoadAndList(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("glider.txt", ".O.\n..O\nOOO\n")
	write("block.txt", "OO\nOO\n")
	write("notes.md", "not a pattern")
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join(dir, "block.txt"), filepath.Join(dir, "glider.txt")}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, files[i])
		}
	}

	p, err := Load(files[1])
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.LiveCount() != 5 {
		t.Errorf("expected glider with 5 live cells, got %d", p.LiveCount())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestPlace_CentersPattern(t *testing.T) {
	p, err := Parse("blinker", strings.NewReader(".O.\n.O.\n.O.\n"))
	if err != nil {
		t.Fatal(err)
	}
	board := systems.NewLifeBoard(7, 7)
	_ = board.Set(0, 0, true)

	out := Place(board, p)

	if out.Rows != 7 || out.Cols != 7 {
		t.Fatalf("expected 7x7 board, got %dx%d", out.Rows, out.Cols)
	}
	if out.Alive(0, 0) {
		t.Error("expected board cleared before placing")
	}
	for r := 2; r <= 4; r++ {
		if !out.Alive(r, 3) {
			t.Errorf("expected (%d,3) alive", r)
		}
	}
	if out.LiveCount() != 3 {
		t.Errorf("expected 3 live cells, got %d", out.LiveCount())
	}
}

func TestPlace_GrowsBoard(t *testing.T) {
	p, err := Parse("wide", strings.NewReader("OOOOOO\n"))
	if err != nil {
		t.Fatal(err)
	}
	out := Place(systems.NewLifeBoard(4, 4), p)

	if out.Rows != 4 || out.Cols != 6 {
		t.Fatalf("expected 4x6 board, got %dx%d", out.Rows, out.Cols)
	}
	for c := 0; c < 6; c++ {
		if !out.Alive(1, c) {
			t.Errorf("expected (1,%d) alive", c)
		}
	}
}

func TestBundledPatternsParse(t *testing.T) {
	files, err := List(filepath.Join("..", "assets", "patterns"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected bundled patterns")
	}
	for _, f := range files {
		if _, err := Load(f); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
}
