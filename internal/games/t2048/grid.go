package t2048

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is the classic board dimension.
const DefaultSize = 4

// MinSize is the smallest board the engine accepts.
const MinSize = 2

var (
	ErrGridTooSmall  = errors.New("t2048: grid is smaller than 2x2")
	ErrGridNotSquare = errors.New("t2048: grid is not square")
	ErrInvalidTile   = errors.New("t2048: tile is not a power of two")
	ErrGridFull      = errors.New("t2048: no empty cell")
)

// Cell is a board coordinate. X is the column, Y the row.
type Cell struct {
	X, Y int
}

// Grid is a square board of tile values. Zero marks an empty cell.
// Grid values are treated as immutable by the engine: every operation
// returns a fresh grid.
type Grid [][]int

// NewGrid returns an empty n x n grid.
func NewGrid(n int) Grid {
	g := make(Grid, n)
	for y := range g {
		g[y] = make([]int, n)
	}
	return g
}

// GridFromRows copies rows into a new grid and validates it.
func GridFromRows(rows [][]int) (Grid, error) {
	g := Grid(rows).Clone()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Size returns the side length.
func (g Grid) Size() int {
	return len(g)
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether both grids have the same shape and values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Validate checks shape and tile values.
func (g Grid) Validate() error {
	n := len(g)
	if n < MinSize {
		return ErrGridTooSmall
	}
	for y, row := range g {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrGridNotSquare, y, len(row), n)
		}
		for x, v := range row {
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, v, x, y)
			}
		}
	}
	return nil
}

// EmptyCells returns all empty cells in row-major order.
func (g Grid) EmptyCells() []Cell {
	var cells []Cell
	for y, row := range g {
		for x, v := range row {
			if v == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (g Grid) HasEmptyCell() bool {
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any two orthogonal neighbours hold the
// same nonzero value.
func (g Grid) HasPossibleMerge() bool {
	n := len(g)
	for y := range n {
		for x := range n {
			val := g[y][x]
			if val == 0 {
				continue
			}
			if x < n-1 && g[y][x+1] == val {
				return true
			}
			if y < n-1 && g[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// MaxTile returns the highest tile value on the board.
func (g Grid) MaxTile() int {
	maxVal := 0
	for _, row := range g {
		for _, v := range row {
			maxVal = max(maxVal, v)
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for _, row := range g {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// String renders the grid as right-aligned columns, one row per line.
func (g Grid) String() string {
	width := len(strconv.Itoa(g.MaxTile()))
	var sb strings.Builder
	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x, v := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			sb.WriteString(strings.Repeat(" ", width-len(cell)))
			sb.WriteString(cell)
		}
	}
	return sb.String()
}
