package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/beamforge/internal/verify"
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
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

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

func TestStoreMigrationsRunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		store, err := Open(path)
		if err != nil {
			t.Fatalf("Open() #%d failed: %v", i+1, err)
		}
		v, err := store.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion() failed: %v", err)
		}
		if v != len(migrations) {
			t.Errorf("schema version = %d, want %d", v, len(migrations))
		}
		store.Close()
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	board := []byte("version: 2\nlevel: detour\n")
	id, err := store.SaveSolution(Solution{
		SubmissionID: "sub-1",
		LevelID:      "detour",
		Player:       "alice",
		Cost:         4,
		Latency:      5,
		Ticks:        12,
		BoardHash:    0xdeadbeefcafef00d,
		Board:        board,
	})
	if err != nil {
		t.Fatalf("SaveSolution() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive ID, got %d", id)
	}

	sol, err := store.SolutionByID("sub-1")
	if err != nil {
		t.Fatalf("SolutionByID() failed: %v", err)
	}
	if sol == nil {
		t.Fatal("expected solution, got nil")
	}
	if sol.LevelID != "detour" || sol.Player != "alice" {
		t.Errorf("unexpected identity: %+v", sol)
	}
	if sol.Cost != 4 || sol.Latency != 5 || sol.Ticks != 12 {
		t.Errorf("unexpected metrics: cost=%d latency=%d ticks=%d", sol.Cost, sol.Latency, sol.Ticks)
	}
	if sol.BoardHash != 0xdeadbeefcafef00d {
		t.Errorf("hash = %x, want deadbeefcafef00d", sol.BoardHash)
	}
	if string(sol.Board) != string(board) {
		t.Errorf("board = %q", sol.Board)
	}

	missing, err := store.SolutionByID("nope")
	if err != nil {
		t.Fatalf("SolutionByID() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown submission, got %+v", missing)
	}
}

func TestStoreDuplicateSubmission(t *testing.T) {
	store := openTestStore(t)

	sol := Solution{SubmissionID: "dup", LevelID: "fork", Player: "bob", Cost: 2, Latency: 5}
	if _, err := store.SaveSolution(sol); err != nil {
		t.Fatalf("SaveSolution() failed: %v", err)
	}
	if _, err := store.SaveSolution(sol); err == nil {
		t.Error("expected error for duplicate submission ID")
	}
}

func TestStoreTopSolutionsOrdering(t *testing.T) {
	store := openTestStore(t)

	entries := []Solution{
		{SubmissionID: "a", LevelID: "detour", Player: "alice", Cost: 6, Latency: 5},
		{SubmissionID: "b", LevelID: "detour", Player: "bob", Cost: 4, Latency: 7},
		{SubmissionID: "c", LevelID: "detour", Player: "carol", Cost: 4, Latency: 5},
		{SubmissionID: "d", LevelID: "fork", Player: "dave", Cost: 1, Latency: 1},
	}
	for _, e := range entries {
		if _, err := store.SaveSolution(e); err != nil {
			t.Fatalf("SaveSolution(%s) failed: %v", e.SubmissionID, err)
		}
	}

	top, err := store.TopSolutions("detour", 10)
	if err != nil {
		t.Fatalf("TopSolutions() failed: %v", err)
	}
	want := []string{"c", "b", "a"}
	if len(top) != len(want) {
		t.Fatalf("expected %d solutions, got %d", len(want), len(top))
	}
	for i, id := range want {
		if top[i].SubmissionID != id {
			t.Errorf("top[%d] = %s, want %s", i, top[i].SubmissionID, id)
		}
	}

	limited, err := store.TopSolutions("detour", 2)
	if err != nil {
		t.Fatalf("TopSolutions() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 solutions with limit, got %d", len(limited))
	}

	none, err := store.TopSolutions("unknown", 10)
	if err != nil {
		t.Fatalf("TopSolutions() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no solutions, got %d", len(none))
	}
}

func TestStoreCompletedAndPlayerSolutions(t *testing.T) {
	store := openTestStore(t)

	for i, lvl := range []string{"first-light", "detour", "first-light"} {
		_, err := store.SaveSolution(Solution{
			SubmissionID: string(rune('a' + i)),
			LevelID:      lvl,
			Player:       "alice",
			Cost:         i,
		})
		if err != nil {
			t.Fatalf("SaveSolution() failed: %v", err)
		}
	}

	done, err := store.Completed("alice")
	if err != nil {
		t.Fatalf("Completed() failed: %v", err)
	}
	if len(done) != 2 || !done["first-light"] || !done["detour"] {
		t.Errorf("unexpected completed set: %v", done)
	}

	other, err := store.Completed("bob")
	if err != nil {
		t.Fatalf("Completed() failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty set for unknown player, got %v", other)
	}

	recent, err := store.PlayerSolutions("alice", 2)
	if err != nil {
		t.Fatalf("PlayerSolutions() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].SubmissionID != "c" {
		t.Errorf("expected newest first, got %+v", recent)
	}
}

func TestStoreClearLevel(t *testing.T) {
	store := openTestStore(t)

	store.SaveSolution(Solution{SubmissionID: "1", LevelID: "detour", Player: "a"})
	store.SaveSolution(Solution{SubmissionID: "2", LevelID: "fork", Player: "a"})

	if err := store.ClearLevel("detour"); err != nil {
		t.Fatalf("ClearLevel() failed: %v", err)
	}

	cleared, _ := store.TopSolutions("detour", 10)
	if len(cleared) != 0 {
		t.Errorf("expected no detour solutions after clear, got %d", len(cleared))
	}
	kept, _ := store.TopSolutions("fork", 10)
	if len(kept) != 1 {
		t.Errorf("fork solutions should be unaffected, got %d", len(kept))
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveSolution(Solution{SubmissionID: "1", LevelID: "detour", Player: "alice", Cost: 6, Latency: 5})
	store.SaveSolution(Solution{SubmissionID: "2", LevelID: "detour", Player: "alice", Cost: 4, Latency: 7})
	store.SaveSolution(Solution{SubmissionID: "3", LevelID: "detour", Player: "bob", Cost: 5, Latency: 4})
	store.SaveSolution(Solution{SubmissionID: "4", LevelID: "fork", Player: "bob", Cost: 2, Latency: 5})

	stats, err := store.GetLevelStats("detour")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Solutions != 3 || stats.Players != 2 {
		t.Errorf("solutions=%d players=%d, want 3/2", stats.Solutions, stats.Players)
	}
	if stats.BestCost != 4 || stats.BestLatency != 4 {
		t.Errorf("best cost=%d latency=%d, want 4/4", stats.BestCost, stats.BestLatency)
	}

	empty, err := store.GetLevelStats("unknown")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if empty.Solutions != 0 || empty.BestCost != 0 {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected stats for 2 levels, got %d", len(all))
	}
	if all["fork"].Solutions != 1 || all["fork"].BestCost != 2 {
		t.Errorf("unexpected fork stats: %+v", all["fork"])
	}
}

func TestStoreSaveVerified(t *testing.T) {
	store := openTestStore(t)

	var saver verify.SolutionSaver = store
	err := saver.SaveVerified(verify.Record{
		SubmissionID: "rec-1",
		LevelID:      "first-light",
		Player:       "alice",
		Cost:         0,
		Latency:      2,
		Ticks:        9,
		BoardHash:    42,
	})
	if err != nil {
		t.Fatalf("SaveVerified() failed: %v", err)
	}

	sol, err := store.SolutionByID("rec-1")
	if err != nil || sol == nil {
		t.Fatalf("SolutionByID() = %v, %v", sol, err)
	}
	if sol.Latency != 2 || sol.Ticks != 9 || sol.BoardHash != 42 {
		t.Errorf("unexpected record: %+v", sol)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/.beamforge-test/solutions.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, ".beamforge-test", "solutions.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}
