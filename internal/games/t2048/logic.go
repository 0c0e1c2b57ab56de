package t2048

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// AllDirections lists every direction in a fixed order.
func AllDirections() []Direction {
	return []Direction{DirUp, DirDown, DirLeft, DirRight}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "up", "down", "left", "right" (any case) and the
// single-letter forms u/d/l/r.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("t2048: unknown direction %q", s)
}

// MoveResult is the outcome of sliding a grid in one direction.
type MoveResult struct {
	Grid       Grid
	ScoreDelta int
	Changed    bool
}

// slideRow compacts a row to the left and merges equal neighbours once.
// Returns the new row and the score gained from merges.
func slideRow(row []int) (result []int, score int) {
	result = make([]int, len(row))
	writePos := 0
	merged := false // whether result[writePos-1] came from a merge

	for _, v := range row {
		if v == 0 {
			continue
		}

		if writePos > 0 && !merged && result[writePos-1] == v {
			result[writePos-1] *= 2
			score += result[writePos-1]
			merged = true
			continue
		}

		result[writePos] = v
		writePos++
		merged = false
	}

	return result, score
}

// orient rewrites the grid so that dir becomes a left slide.
func orient(g Grid, dir Direction) Grid {
	switch dir {
	case DirRight:
		return reverseRows(g)
	case DirUp:
		return transpose(g)
	case DirDown:
		return reverseRows(transpose(g))
	default:
		return g.Clone()
	}
}

// unorient inverts orient.
func unorient(g Grid, dir Direction) Grid {
	switch dir {
	case DirRight:
		return reverseRows(g)
	case DirUp:
		return transpose(g)
	case DirDown:
		return transpose(reverseRows(g))
	default:
		return g
	}
}

// transpose returns the matrix transpose.
func transpose(g Grid) Grid {
	n := len(g)
	out := NewGrid(n)
	for y := range n {
		for x := range n {
			out[y][x] = g[x][y]
		}
	}
	return out
}

// reverseRows mirrors every row left-to-right.
func reverseRows(g Grid) Grid {
	n := len(g)
	out := NewGrid(n)
	for y := range n {
		for x := range n {
			out[y][x] = g[y][n-1-x]
		}
	}
	return out
}

// ApplyMove slides every tile in dir and merges equal neighbours.
// The input grid is never modified. Unknown directions leave the grid as is.
func ApplyMove(grid Grid, dir Direction) MoveResult {
	switch dir {
	case DirUp, DirDown, DirLeft, DirRight:
	default:
		return MoveResult{Grid: grid.Clone()}
	}

	work := orient(grid, dir)
	total := 0
	for y, row := range work {
		newRow, score := slideRow(row)
		work[y] = newRow
		total += score
	}
	out := unorient(work, dir)

	return MoveResult{
		Grid:       out,
		ScoreDelta: total,
		Changed:    !out.Equal(grid),
	}
}

// ApplyMoveChecked validates the grid before applying the move.
func ApplyMoveChecked(grid Grid, dir Direction) (MoveResult, error) {
	if err := grid.Validate(); err != nil {
		return MoveResult{}, err
	}
	return ApplyMove(grid, dir), nil
}

// CanMove returns true if the grid has an empty cell or an adjacent equal pair.
func CanMove(grid Grid) bool {
	return grid.HasEmptyCell() || grid.HasPossibleMerge()
}

// IsTerminal returns true if the grid is full and no adjacent pair can merge.
// For any grid holding at least one tile this matches "no direction changes
// the grid". An empty grid slides nowhere but is not terminal: a spawn is
// still possible.
func IsTerminal(grid Grid) bool {
	return !CanMove(grid)
}
