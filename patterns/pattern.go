// Package patterns loads Game-of-Life seed patterns from text files.
//
// A pattern file is a grid of characters, one row per line. The characters
// '1', 'X' and 'O' mark live cells and '0', '.' and '-' mark dead ones.
// Blank lines are ignored and short rows are padded with dead cells.
package patterns

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm-cable/gridsim/systems"
)

// Ext is the file extension listed by List.
const Ext = ".txt"

// PatternFormatError reports a character that is neither live nor dead.
type PatternFormatError struct {
	Path   string
	Line   int // 1-based line in the file
	Column int // 1-based rune column
	Char   rune
}

func (e *PatternFormatError) Error() string {
	return fmt.Sprintf("pattern %s: line %d, column %d: invalid character %q", e.Path, e.Line, e.Column, e.Char)
}

// Pattern is a parsed rectangle of cells.
type Pattern struct {
	Name  string
	Rows  int
	Cols  int
	Cells [][]bool
}

// LiveCount returns the number of live cells in the pattern.
func (p Pattern) LiveCount() int {
	n := 0
	for _, row := range p.Cells {
		for _, alive := range row {
			if alive {
				n++
			}
		}
	}
	return n
}

func cellState(ch rune) (alive, ok bool) {
	switch ch {
	case '1', 'X', 'O':
		return true, true
	case '0', '.', '-':
		return false, true
	}
	return false, false
}

// Parse reads a pattern from r. name is used in error messages.
func Parse(name string, r io.Reader) (Pattern, error) {
	p := Pattern{Name: name}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		var row []bool
		col := 0
		for _, ch := range text {
			col++
			alive, ok := cellState(ch)
			if !ok {
				return Pattern{}, &PatternFormatError{Path: name, Line: line, Column: col, Char: ch}
			}
			row = append(row, alive)
		}
		p.Cells = append(p.Cells, row)
		if len(row) > p.Cols {
			p.Cols = len(row)
		}
	}
	if err := sc.Err(); err != nil {
		return Pattern{}, fmt.Errorf("reading pattern %s: %w", name, err)
	}

	for i, row := range p.Cells {
		if len(row) < p.Cols {
			p.Cells[i] = append(row, make([]bool, p.Cols-len(row))...)
		}
	}
	p.Rows = len(p.Cells)
	return p, nil
}

// Load reads and parses the pattern file at path.
func Load(path string) (Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("opening pattern: %w", err)
	}
	defer f.Close()
	return Parse(path, f)
}

// List returns the pattern files in dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Place returns a cleared board with p centered on it. The board grows in
// either dimension that is smaller than the pattern; otherwise board's
// storage is reused.
func Place(board systems.LifeBoard, p Pattern) systems.LifeBoard {
	rows, cols := board.Rows, board.Cols
	if p.Rows > rows {
		rows = p.Rows
	}
	if p.Cols > cols {
		cols = p.Cols
	}

	out := board
	if rows != board.Rows || cols != board.Cols {
		out = systems.NewLifeBoard(rows, cols)
	} else {
		out.Clear()
	}

	top := (rows - p.Rows) / 2
	left := (cols - p.Cols) / 2
	for r, row := range p.Cells {
		for c, alive := range row {
			if alive {
				out.Cells[(top+r)*cols+left+c] = true
			}
		}
	}
	return out
}
