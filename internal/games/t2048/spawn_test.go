package t2048

import (
	"errors"
	"math/rand"
	"testing"
)

// stubRand replays fixed values.
type stubRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (r *stubRand) Intn(n int) int {
	v := 0
	if len(r.ints) > 0 {
		v = r.ints[r.i%len(r.ints)]
		r.i++
	}
	return v % n
}

func (r *stubRand) Float64() float64 {
	v := 0.5
	if len(r.floats) > 0 {
		v = r.floats[r.f%len(r.floats)]
		r.f++
	}
	return v
}

func TestSpawnTilePicksEmptyCell(t *testing.T) {
	grid := Grid{
		{2, 0, 4},
		{0, 8, 0},
		{16, 4, 2},
	}
	before := grid.Clone()

	// Index 2 of the empty cells in row-major order is (2,1).
	out, cell, err := SpawnTile(grid, &stubRand{ints: []int{2}, floats: []float64{0.5}})
	if err != nil {
		t.Fatalf("SpawnTile() failed: %v", err)
	}
	if cell != (Cell{X: 2, Y: 1}) {
		t.Errorf("spawned at %v, want (2,1)", cell)
	}
	if out[1][2] != 2 {
		t.Errorf("spawned value = %d, want 2", out[1][2])
	}
	if !grid.Equal(before) {
		t.Error("SpawnTile mutated its input")
	}
}

func TestSpawnTileValueOdds(t *testing.T) {
	grid := NewGrid(4)

	out, cell, err := SpawnTile(grid, &stubRand{floats: []float64{0.05}})
	if err != nil {
		t.Fatalf("SpawnTile() failed: %v", err)
	}
	if got := out[cell.Y][cell.X]; got != 4 {
		t.Errorf("low roll spawned %d, want 4", got)
	}

	out, cell, _ = SpawnTileOdds(grid, &stubRand{floats: []float64{0.05}}, 0)
	if got := out[cell.Y][cell.X]; got != 2 {
		t.Errorf("zero odds spawned %d, want 2", got)
	}

	out, cell, _ = SpawnTileOdds(grid, &stubRand{floats: []float64{0.99}}, 1)
	if got := out[cell.Y][cell.X]; got != 4 {
		t.Errorf("certain odds spawned %d, want 4", got)
	}
}

func TestSpawnTileFullGrid(t *testing.T) {
	full := Grid{{2, 4}, {8, 16}}
	out, _, err := SpawnTile(full, &stubRand{})
	if !errors.Is(err, ErrGridFull) {
		t.Fatalf("SpawnTile on full grid: err = %v, want ErrGridFull", err)
	}
	if !out.Equal(full) {
		t.Error("full grid should be returned unchanged")
	}
}

func TestSpawnTileLegality(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for iter := range 500 {
		grid := randomGrid(rng, 2+iter%4)
		if !grid.HasEmptyCell() {
			continue
		}
		out, cell, err := SpawnTile(grid, rng)
		if err != nil {
			t.Fatalf("SpawnTile() failed: %v", err)
		}
		if grid[cell.Y][cell.X] != 0 {
			t.Fatalf("spawned on occupied cell %v", cell)
		}
		diff := 0
		for y := range grid {
			for x := range grid[y] {
				if grid[y][x] != out[y][x] {
					diff++
				}
			}
		}
		if diff != 1 {
			t.Fatalf("spawn changed %d cells, want 1", diff)
		}
		if v := out[cell.Y][cell.X]; v != 2 && v != 4 {
			t.Fatalf("spawned value %d", v)
		}
	}
}
