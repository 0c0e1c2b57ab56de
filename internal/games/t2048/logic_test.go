package t2048

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func mustGrid(t *testing.T, rows [][]int) Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows(%v) failed: %v", rows, err)
	}
	return g
}

func TestSlideRowMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
	}{
		{"simple merge", []int{2, 2, 0, 0}, []int{4, 0, 0, 0}, 4},
		{"merge with trailing tile", []int{2, 2, 2, 0}, []int{4, 2, 0, 0}, 4},
		{"double merge", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}, 8},
		{"merged tile does not merge again", []int{2, 2, 4, 0}, []int{4, 4, 0, 0}, 4},
		{"two different pairs", []int{4, 4, 8, 8}, []int{8, 16, 0, 0}, 24},
		{"no merge possible", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}, 0},
		{"slide with gap", []int{0, 0, 2, 2}, []int{4, 0, 0, 0}, 4},
		{"slide with multiple gaps", []int{2, 0, 0, 2}, []int{4, 0, 0, 0}, 4},
		{"no change needed", []int{4, 2, 0, 0}, []int{4, 2, 0, 0}, 0},
		{"empty row", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}, 0},
		{"single tile", []int{0, 4, 0, 0}, []int{4, 0, 0, 0}, 0},
		{"short row", []int{2, 2}, []int{4, 0}, 4},
		{"five wide", []int{2, 0, 2, 4, 4}, []int{4, 8, 0, 0, 0}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := slideRow(tt.input)
			if !slices.Equal(result, tt.expected) {
				t.Errorf("slideRow(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("slideRow(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestApplyMoveScenarios(t *testing.T) {
	tests := []struct {
		name     string
		grid     [][]int
		dir      Direction
		expected [][]int
		score    int
		changed  bool
	}{
		{
			name:     "pair merges left",
			grid:     [][]int{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:      DirLeft,
			expected: [][]int{{4, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			score:    4,
			changed:  true,
		},
		{
			name:     "rightmost pair merges right",
			grid:     [][]int{{2, 0, 2, 2}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:      DirRight,
			expected: [][]int{{0, 0, 2, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			score:    4,
			changed:  true,
		},
		{
			name:     "three equal tiles left",
			grid:     [][]int{{2, 2, 2, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:      DirLeft,
			expected: [][]int{{4, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			score:    4,
			changed:  true,
		},
		{
			name:     "full row of four left",
			grid:     [][]int{{2, 2, 2, 2}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:      DirLeft,
			expected: [][]int{{4, 4, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			score:    8,
			changed:  true,
		},
		{
			name:     "compacted row is a no-op",
			grid:     [][]int{{4, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:      DirLeft,
			expected: [][]int{{4, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			score:    0,
			changed:  false,
		},
		{
			name: "mixed rows left",
			grid: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			dir: DirLeft,
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score:   20,
			changed: true,
		},
		{
			name: "mixed rows right",
			grid: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			dir: DirRight,
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score:   20,
			changed: true,
		},
		{
			name: "columns up",
			grid: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			dir: DirUp,
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score:   20,
			changed: true,
		},
		{
			name: "columns down merge bottom pair first",
			grid: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{2, 4, 2, 0},
				{0, 0, 2, 0},
			},
			dir: DirDown,
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{2, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score:   20,
			changed: true,
		},
		{
			name:     "3x3 up",
			grid:     [][]int{{0, 2, 0}, {0, 2, 0}, {4, 2, 0}},
			dir:      DirUp,
			expected: [][]int{{4, 4, 0}, {0, 2, 0}, {0, 0, 0}},
			score:    4,
			changed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := mustGrid(t, tt.grid)
			res := ApplyMove(grid, tt.dir)

			if !res.Grid.Equal(Grid(tt.expected)) {
				t.Errorf("ApplyMove(%s): got\n%v\nwant\n%v", tt.dir, res.Grid, Grid(tt.expected))
			}
			if res.ScoreDelta != tt.score {
				t.Errorf("ScoreDelta = %d, want %d", res.ScoreDelta, tt.score)
			}
			if res.Changed != tt.changed {
				t.Errorf("Changed = %v, want %v", res.Changed, tt.changed)
			}
		})
	}
}

func TestApplyMoveDoesNotMutateInput(t *testing.T) {
	grid := mustGrid(t, [][]int{{2, 2, 0, 0}, {0, 4, 0, 4}, {8, 0, 8, 0}, {2, 0, 0, 2}})
	before := grid.Clone()

	for _, dir := range AllDirections() {
		ApplyMove(grid, dir)
		if !grid.Equal(before) {
			t.Fatalf("ApplyMove(%s) mutated its input", dir)
		}
	}
}

func TestApplyMoveUnknownDirection(t *testing.T) {
	grid := mustGrid(t, [][]int{{2, 0}, {0, 0}})
	res := ApplyMove(grid, Direction(42))

	if res.Changed || res.ScoreDelta != 0 || !res.Grid.Equal(grid) {
		t.Errorf("unknown direction should be a no-op, got %+v", res)
	}
}

func TestApplyMoveChecked(t *testing.T) {
	_, err := ApplyMoveChecked(Grid{{2, 3}, {0, 0}}, DirLeft)
	if !errors.Is(err, ErrInvalidTile) {
		t.Errorf("ApplyMoveChecked with tile 3: err = %v, want ErrInvalidTile", err)
	}

	res, err := ApplyMoveChecked(Grid{{2, 2}, {0, 0}}, DirLeft)
	if err != nil {
		t.Fatalf("ApplyMoveChecked() failed: %v", err)
	}
	if res.ScoreDelta != 4 {
		t.Errorf("ScoreDelta = %d, want 4", res.ScoreDelta)
	}
}

func TestIsTerminal(t *testing.T) {
	locked := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}
	if !IsTerminal(locked) {
		t.Error("Board with no moves should be terminal")
	}
	for _, dir := range AllDirections() {
		if ApplyMove(locked, dir).Changed {
			t.Errorf("ApplyMove(%s) changed a terminal board", dir)
		}
	}

	withMerge := locked.Clone()
	withMerge[0][1] = 2
	if IsTerminal(withMerge) {
		t.Error("Board with possible horizontal merge should not be terminal")
	}

	withVerticalMerge := locked.Clone()
	withVerticalMerge[3][3] = 4096
	if IsTerminal(withVerticalMerge) {
		t.Error("Board with possible vertical merge should not be terminal")
	}

	withEmpty := locked.Clone()
	withEmpty[2][2] = 0
	if IsTerminal(withEmpty) {
		t.Error("Board with empty cell should not be terminal")
	}
}

func TestIsTerminalEmptyGrid(t *testing.T) {
	for _, n := range []int{2, 4} {
		grid := NewGrid(n)
		for _, dir := range AllDirections() {
			if ApplyMove(grid, dir).Changed {
				t.Errorf("%dx%d empty: ApplyMove(%s) reported a change", n, n, dir)
			}
		}
		if IsTerminal(grid) {
			t.Errorf("%dx%d empty grid is terminal, want playable", n, n)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"up", DirUp, true},
		{"DOWN", DirDown, true},
		{" left ", DirLeft, true},
		{"r", DirRight, true},
		{"sideways", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDirection(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, d := range AllDirections() {
		back, err := ParseDirection(d.String())
		if err != nil || back != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), back, err)
		}
	}
}

// referenceSlideLeft follows the textbook steps literally: compact, merge
// pairs scanning left to right while consuming the second cell, compact again.
func referenceSlideLeft(row []int) ([]int, int) {
	var compact []int
	for _, v := range row {
		if v != 0 {
			compact = append(compact, v)
		}
	}
	score := 0
	for i := 0; i+1 < len(compact); i++ {
		if compact[i] != 0 && compact[i] == compact[i+1] {
			compact[i] *= 2
			score += compact[i]
			compact[i+1] = 0
			i++
		}
	}
	out := make([]int, 0, len(row))
	for _, v := range compact {
		if v != 0 {
			out = append(out, v)
		}
	}
	for len(out) < len(row) {
		out = append(out, 0)
	}
	return out, score
}

func randomGrid(rng *rand.Rand, n int) Grid {
	g := NewGrid(n)
	for y := range n {
		for x := range n {
			if rng.Intn(3) == 0 {
				continue
			}
			g[y][x] = 1 << (1 + rng.Intn(4))
		}
	}
	return g
}

func nonzeroSorted(g Grid) []int {
	var vals []int
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				vals = append(vals, v)
			}
		}
	}
	slices.Sort(vals)
	return vals
}

func TestApplyMoveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := range 2000 {
		n := 2 + iter%5
		grid := randomGrid(rng, n)

		allUnchanged := true
		for _, dir := range AllDirections() {
			res := ApplyMove(grid, dir)

			if err := res.Grid.Validate(); err != nil {
				t.Fatalf("result is not a valid grid: %v\n%v", err, res.Grid)
			}

			// Merging preserves the tile sum.
			if res.Grid.Sum() != grid.Sum() {
				t.Fatalf("%s changed tile sum %d -> %d\n%v", dir, grid.Sum(), res.Grid.Sum(), grid)
			}

			// Without merges the tiles are only moved.
			if res.ScoreDelta == 0 && !slices.Equal(nonzeroSorted(grid), nonzeroSorted(res.Grid)) {
				t.Fatalf("%s without merges changed tile multiset\n%v\n->\n%v", dir, grid, res.Grid)
			}

			// Every oriented row matches the literal algorithm and is compact.
			in := orient(grid, dir)
			out := orient(res.Grid, dir)
			wantScore := 0
			for y := range n {
				want, score := referenceSlideLeft(in[y])
				wantScore += score
				if !slices.Equal(out[y], want) {
					t.Fatalf("%s row %d: got %v want %v (input %v)", dir, y, out[y], want, in[y])
				}
				seenZero := false
				for _, v := range out[y] {
					if v == 0 {
						seenZero = true
					} else if seenZero {
						t.Fatalf("%s row %d has a gap: %v", dir, y, out[y])
					}
				}
			}
			if res.ScoreDelta != wantScore {
				t.Fatalf("%s ScoreDelta = %d, want %d", dir, res.ScoreDelta, wantScore)
			}

			if res.Changed != !res.Grid.Equal(grid) {
				t.Fatalf("%s Changed=%v does not match grid comparison", dir, res.Changed)
			}
			if !res.Changed {
				if !res.Grid.Equal(grid) {
					t.Fatalf("%s no-op returned a different grid", dir)
				}
			} else {
				allUnchanged = false
			}
		}

		// An empty board cannot slide but is still playable.
		if grid.Sum() == 0 {
			continue
		}
		if IsTerminal(grid) != allUnchanged {
			t.Fatalf("IsTerminal = %v but all-directions-unchanged = %v\n%v", IsTerminal(grid), allUnchanged, grid)
		}
	}
}

func TestOrientRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	grid := randomGrid(rng, 5)

	for _, dir := range AllDirections() {
		if back := unorient(orient(grid, dir), dir); !back.Equal(grid) {
			t.Errorf("unorient(orient(g, %s)) != g", dir)
		}
	}
}
