package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tryangles/internal/core"
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

func sampleResult(gameID string, winner int, moves ...string) Result {
	return Result{
		GameID:       gameID,
		Width:        10,
		Height:       10,
		Moves:        moves,
		Winner:       winner,
		EndReason:    "triangle",
		Player1:      "Blue",
		Player2:      "Green",
		DurationSecs: 42,
	}
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

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveResult(sampleResult("tryangles", 1, "A1-B1"))
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	r, err := store.ResultByID(id)
	if err != nil || r == nil {
		t.Fatalf("ResultByID() = %v, %v, expected the saved result", r, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	in := sampleResult("tryangles", 2, "A1-B1", "B1-A2", "A2-A1")
	id, err := store.SaveResult(in)
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveResult() id = %q, expected a UUID: %v", id, err)
	}

	got, err := store.ResultByID(id)
	if err != nil {
		t.Fatalf("ResultByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("ResultByID() returned nil for a saved result")
	}

	if !reflect.DeepEqual(got.Moves, in.Moves) {
		t.Errorf("Moves = %v, expected %v", got.Moves, in.Moves)
	}
	if got.Winner != 2 || got.EndReason != "triangle" || got.Player1 != "Blue" || got.Player2 != "Green" {
		t.Errorf("ResultByID() = %+v, fields do not match %+v", got, in)
	}
	if got.Width != 10 || got.Height != 10 || got.DurationSecs != 42 {
		t.Errorf("ResultByID() = %+v, board or duration lost", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreExplicitID(t *testing.T) {
	store := openTestStore(t)

	in := sampleResult("tryangles", 0)
	in.ID = "fixed-id"
	id, err := store.SaveResult(in)
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("SaveResult() id = %q, expected fixed-id", id)
	}

	// Same ID twice violates the primary key
	if _, err := store.SaveResult(in); err == nil {
		t.Error("SaveResult() with a duplicate ID should fail")
	}

	got, _ := store.ResultByID(id)
	if got == nil || len(got.Moves) != 0 {
		t.Errorf("ResultByID() = %+v, expected an empty move list", got)
	}
}

func TestStoreResultByIDMissing(t *testing.T) {
	store := openTestStore(t)

	r, err := store.ResultByID("nope")
	if err != nil {
		t.Fatalf("ResultByID() failed: %v", err)
	}
	if r != nil {
		t.Errorf("ResultByID() = %+v, expected nil", r)
	}
}

func TestStoreSaveOutcome(t *testing.T) {
	store := openTestStore(t)

	o := core.Outcome{
		GameID:   "tryangles_cpu",
		Width:    5,
		Height:   4,
		Moves:    []string{"A1-E4"},
		Winner:   1,
		Reason:   "triangle",
		Players:  [2]string{"Blue", "Green (CPU hard)"},
		Duration: 90*time.Second + 500*time.Millisecond,
	}
	id, err := store.SaveOutcome(o)
	if err != nil {
		t.Fatalf("SaveOutcome() failed: %v", err)
	}

	got, err := store.ResultByID(id)
	if err != nil || got == nil {
		t.Fatalf("ResultByID() = %v, %v", got, err)
	}
	if got.GameID != o.GameID || got.Player2 != o.Players[1] || got.DurationSecs != 90 {
		t.Errorf("ResultByID() = %+v, expected fields from %+v", got, o)
	}
}

func TestStoreRecentResults(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.SaveResult(sampleResult("tryangles", 1, "A1-B1")); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	last, _ := store.SaveResult(sampleResult("tryangles", 2, "A1-B1", "C3-D4"))
	store.SaveResult(sampleResult("tryangles_cpu", 0))

	results, err := store.RecentResults("tryangles", 3)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(results))
	}
	if results[0].ID != last {
		t.Errorf("Newest result = %s, expected %s", results[0].ID, last)
	}

	all, err := store.RecentResults("", 0)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(all) != 7 {
		t.Errorf("Expected 7 results across modes, got %d", len(all))
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(sampleResult("tryangles", 1))
	store.SaveResult(sampleResult("tryangles", 2))
	store.SaveResult(sampleResult("tryangles_cpu", 1))

	// Clear only hot seat results
	n, err := store.ClearResults("tryangles")
	if err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ClearResults() = %d, expected 2", n)
	}

	cpu, _ := store.RecentResults("tryangles_cpu", 10)
	if len(cpu) != 1 {
		t.Errorf("CPU results should not be affected by clearing hot seat")
	}

	n, _ = store.ClearResults("")
	if n != 1 {
		t.Errorf("ClearResults(\"\") = %d, expected 1", n)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	// No games yet
	stats, err := store.GetGameStats("tryangles")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("GetGameStats() = %+v, expected empty stats", stats)
	}

	store.SaveResult(sampleResult("tryangles", 1, "a", "b", "c"))
	store.SaveResult(sampleResult("tryangles", 1, "a"))
	store.SaveResult(sampleResult("tryangles", 2, "a", "b", "c", "d", "e"))
	store.SaveResult(sampleResult("tryangles", 0, "a", "b", "c"))
	store.SaveResult(sampleResult("tryangles_cpu", 2, "a"))

	stats, err = store.GetGameStats("tryangles")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}

	expected := GameStats{GameID: "tryangles", GamesCount: 4, Player1Wins: 2, Player2Wins: 1, Draws: 1, AvgMoves: 3, LongestGame: 5}
	stats.LastPlayed = time.Time{}
	if *stats != expected {
		t.Errorf("GetGameStats() = %+v, expected %+v", *stats, expected)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 modes, got %d", len(all))
	}
	if cpu := all["tryangles_cpu"]; cpu == nil || cpu.Player2Wins != 1 || cpu.LastPlayed.IsZero() {
		t.Errorf("tryangles_cpu stats = %+v", cpu)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.tryangles/deep/results.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created under the home directory
	if _, err := os.Stat(filepath.Join(home, ".tryangles", "deep", "results.db")); os.IsNotExist(err) {
		t.Error("Database file was not created in the home directory")
	}
}
