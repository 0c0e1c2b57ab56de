package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultT2048Config().Validate(); err != nil {
		t.Fatalf("DefaultT2048Config() invalid: %v", err)
	}
}

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadT2048("")
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}

	want := DefaultT2048Config()
	if cfg.Board != want.Board || cfg.Endless != want.Endless {
		t.Errorf("embedded board/endless = %+v %+v, want %+v %+v", cfg.Board, cfg.Endless, want.Board, want.Endless)
	}
	if len(cfg.Campaign.Levels) != len(want.Campaign.Levels) {
		t.Fatalf("embedded has %d levels, want %d", len(cfg.Campaign.Levels), len(want.Campaign.Levels))
	}
	for i := range want.Campaign.Levels {
		if cfg.Campaign.Levels[i] != want.Campaign.Levels[i] {
			t.Errorf("level %d = %+v, want %+v", i, cfg.Campaign.Levels[i], want.Campaign.Levels[i])
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t2048.yaml")
	data := `
board:
  size: 5
  spawn4_odds: 0.2
endless:
  spawn4_odds: 0.3
campaign:
  levels:
    - { name: "Only", target: 64, spawn4_odds: 0 }
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path)
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}
	if cfg.Board.Size != 5 || cfg.Endless.Spawn4Odds != 0.3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Campaign.Levels) != 1 || cfg.Campaign.Levels[0].Target != 64 {
		t.Errorf("unexpected levels: %+v", cfg.Campaign.Levels)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadT2048(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadT2048(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("board:\n  size: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadT2048(invalid)
	if err == nil || !strings.Contains(err.Error(), "board.size") {
		t.Errorf("out-of-range size err = %v", err)
	}
}

func TestLoadSkipsBrokenLocalFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "t2048.yaml"), []byte("::not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048("")
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}
	if cfg.Board.Size != 4 {
		t.Errorf("should fall back to defaults, got size %d", cfg.Board.Size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*T2048Config)
		field  string
	}{
		{"size too small", func(c *T2048Config) { c.Board.Size = 1 }, "board.size"},
		{"board odds", func(c *T2048Config) { c.Board.Spawn4Odds = 1.5 }, "board.spawn4_odds"},
		{"endless odds", func(c *T2048Config) { c.Endless.Spawn4Odds = -0.1 }, "endless.spawn4_odds"},
		{"no levels", func(c *T2048Config) { c.Campaign.Levels = nil }, "campaign.levels"},
		{"target not power of two", func(c *T2048Config) { c.Campaign.Levels[0].Target = 100 }, "target"},
		{"target too small", func(c *T2048Config) { c.Campaign.Levels[0].Target = 2 }, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultT2048Config()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.field)
			}
		})
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{"hard", DifficultyHard, true},
		{"fixed", DifficultyFixed, true},
		{"nightmare", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDifficultyPreset(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDifficultyPreset(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyPreset(t *testing.T) {
	easy := DefaultT2048Config()
	ApplyT2048Preset(&easy, DifficultyEasy)
	if !approx(easy.Board.Spawn4Odds, 0.05) {
		t.Errorf("easy board odds = %v, want 0.05", easy.Board.Spawn4Odds)
	}

	hard := DefaultT2048Config()
	ApplyT2048Preset(&hard, DifficultyHard)
	last := hard.Campaign.Levels[len(hard.Campaign.Levels)-1]
	if !approx(last.Spawn4Odds, 0.35) {
		t.Errorf("hard last level odds = %v, want 0.35", last.Spawn4Odds)
	}
	for i, lvl := range hard.Campaign.Levels {
		if lvl.Spawn4Odds > maxSpawn4Odds {
			t.Errorf("level %d odds %v above cap", i, lvl.Spawn4Odds)
		}
	}

	fixed := DefaultT2048Config()
	ApplyT2048Preset(&fixed, DifficultyFixed)
	for i, lvl := range fixed.Campaign.Levels {
		if lvl.Spawn4Odds != fixed.Board.Spawn4Odds {
			t.Errorf("fixed level %d odds = %v", i, lvl.Spawn4Odds)
		}
	}

	normal := DefaultT2048Config()
	ApplyT2048Preset(&normal, DifficultyNormal)
	if normal.Campaign.Levels[9].Spawn4Odds != 0.25 {
		t.Error("normal preset should leave odds untouched")
	}
}
