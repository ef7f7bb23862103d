package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
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
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("normal", score, "s"); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("hard", 500, "h"); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("normal", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Preset != "normal" || scores[0].SessionID != "s" {
		t.Errorf("Unexpected entry fields: %+v", scores[0])
	}

	// Empty preset matches all
	all, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 4 || all[0].Score != 500 {
		t.Errorf("Expected 4 scores led by 500, got %v", all)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100, "")
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("easy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty table, got %d", high)
	}

	store.SaveScore("easy", 100, "")
	store.SaveScore("easy", 300, "")
	store.SaveScore("hard", 900, "")

	high, err = store.HighScore("easy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("easy", 100, "")
	store.SaveScore("easy", 200, "")
	store.SaveScore("hard", 300, "")

	if err := store.ClearScores("easy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	easy, _ := store.TopScores("easy", 10)
	if len(easy) != 0 {
		t.Errorf("Expected 0 easy scores after clear, got %d", len(easy))
	}
	hard, _ := store.TopScores("hard", 10)
	if len(hard) != 1 {
		t.Errorf("Hard scores should not be affected by clearing easy")
	}
}

func TestStoreSessionRecords(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := []SessionRecord{
		{SessionID: "a", RecordedAt: base, Distance: 100, Score: 10},
		{SessionID: "a", RecordedAt: base.Add(10 * time.Second), Distance: 250, Score: 40},
		{SessionID: "a", RecordedAt: base.Add(12 * time.Second), Distance: 300, Coins: 5, Jumps: 7, Score: 50, CompletionTime: 12.5, DeathCause: "falling", Final: true},
		{SessionID: "b", RecordedAt: base.Add(time.Minute), Distance: 80, Score: 150, CompletionTime: 3, Final: true},
	}
	for _, r := range rows {
		if _, err := store.SaveSessionRecord(r); err != nil {
			t.Fatalf("SaveSessionRecord() failed: %v", err)
		}
	}

	got, err := store.SessionRecords("a")
	if err != nil {
		t.Fatalf("SessionRecords() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 rows for session a, got %d", len(got))
	}
	last := got[2]
	if !last.Final || last.DeathCause != "falling" || last.Jumps != 7 || last.CompletionTime != 12.5 {
		t.Errorf("Final row mismatch: %+v", last)
	}
	if !last.RecordedAt.Equal(base.Add(12 * time.Second)) {
		t.Errorf("RecordedAt = %v, expected %v", last.RecordedAt, base.Add(12*time.Second))
	}
	if got[0].Final {
		t.Error("Intermediate row should not be final")
	}

	finals, err := store.FinalRecords(10)
	if err != nil {
		t.Fatalf("FinalRecords() failed: %v", err)
	}
	if len(finals) != 2 || finals[0].SessionID != "b" {
		t.Errorf("Expected 2 finals newest first, got %+v", finals)
	}
}

func TestStoreSessionStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetSessionStats()
	if err != nil {
		t.Fatalf("GetSessionStats() failed: %v", err)
	}
	if empty.Sessions != 0 || empty.AvgScore != 0 {
		t.Errorf("Empty stats should be zero, got %+v", empty)
	}

	now := time.Now()
	store.SaveSessionRecord(SessionRecord{SessionID: "a", RecordedAt: now, Score: 10})
	store.SaveSessionRecord(SessionRecord{SessionID: "a", RecordedAt: now, Score: 20, Coins: 2, DeathCause: "obstacle", Final: true})
	store.SaveSessionRecord(SessionRecord{SessionID: "b", RecordedAt: now, Score: 40, Coins: 4, DeathCause: "obstacle", Final: true})
	store.SaveSessionRecord(SessionRecord{SessionID: "c", RecordedAt: now, Score: 60, DeathCause: "", Final: true})

	stats, err := store.GetSessionStats()
	if err != nil {
		t.Fatalf("GetSessionStats() failed: %v", err)
	}
	if stats.Sessions != 3 {
		t.Errorf("Sessions = %d, expected 3", stats.Sessions)
	}
	if stats.HighScore != 60 || stats.AvgScore != 40 {
		t.Errorf("HighScore/AvgScore = %d/%v, expected 60/40", stats.HighScore, stats.AvgScore)
	}
	if stats.TotalCoins != 6 {
		t.Errorf("TotalCoins = %d, expected 6", stats.TotalCoins)
	}
	if stats.DeathCauses["obstacle"] != 2 || stats.DeathCauses[""] != 1 {
		t.Errorf("DeathCauses = %v", stats.DeathCauses)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
