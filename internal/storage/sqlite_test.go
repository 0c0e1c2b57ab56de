package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("2048", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("2048", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("2048", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different game
	_, err = store.SaveScore("2048_5x5", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for classic
	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for 5x5
	bigScores, err := store.TopScores("2048_5x5", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(bigScores) != 1 {
		t.Errorf("Expected 1 5x5 score, got %d", len(bigScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)
	store.SaveScore("2048", 200)

	high, err = store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 200)
	store.SaveScore("2048_5x5", 300)

	// Clear only classic scores
	err = store.ClearScores("2048")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// Classic should be empty
	classicScores, _ := store.TopScores("2048", 10)
	if len(classicScores) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(classicScores))
	}

	// 5x5 should still have scores
	bigScores, _ := store.TopScores("2048_5x5", 10)
	if len(bigScores) != 1 {
		t.Errorf("5x5 scores should not be affected by clearing classic")
	}
}

func TestStoreAllScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many scores
	for i := 0; i < 20; i++ {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.arcade/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".arcade", "scores.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || stats.HighScore != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)
	store.SaveScore("2048_3x3", 40)

	stats, err = store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 || stats.AvgScore != 200 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["2048_3x3"].HighScore != 40 {
		t.Errorf("all stats = %v", all)
	}
}

func TestStoreSavedGames(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("LoadGame(missing) err = %v, want ErrGameNotFound", err)
	}

	snap := t2048.SessionSnapshot{
		GameID:  "2048",
		Size:    2,
		Grid:    [][]int{{2, 4}, {0, 8}},
		Score:   12,
		Best:    40,
		Moves:   3,
		MaxTile: 8,
		State:   t2048.StateActive,
	}
	if err := store.SaveGame("abc", snap); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	snap.Score = 20
	if err := store.SaveGame("abc", snap); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}

	saved, err := store.LoadGame("abc")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if saved.Snapshot.Score != 20 || saved.Snapshot.Grid[1][1] != 8 || saved.Snapshot.GameID != "2048" {
		t.Errorf("loaded snapshot = %+v", saved.Snapshot)
	}

	if err := store.DeleteGame("abc"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, err := store.LoadGame("abc"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame after delete err = %v", err)
	}
}

func TestStorePruneGames(t *testing.T) {
	store := openTestStore(t)

	snap := t2048.SessionSnapshot{GameID: "2048", Size: 2, Grid: [][]int{{2, 0}, {0, 0}}}
	store.SaveGame("old", snap)

	n, err := store.PruneGames(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PruneGames() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("fresh game pruned, n = %d", n)
	}

	n, err = store.PruneGames(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneGames() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("PruneGames removed %d rows, want 1", n)
	}
}

func TestStoreAsRecorder(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("2048", 64)

	sess, err := t2048.NewSession(t2048.SessionOptions{
		GameID:   "2048",
		Rand:     fixedRand{},
		Recorder: store,
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if sess.Best() != 64 {
		t.Errorf("session best = %d, want stored 64", sess.Best())
	}
}

type fixedRand struct{}

func (fixedRand) Intn(int) int      { return 0 }
func (fixedRand) Float64() float64 { return 0.5 }
