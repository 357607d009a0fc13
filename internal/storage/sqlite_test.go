package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
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
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.RecordRun(core.RunOutcome{Mode: "rules", Score: 10, Coins: 4}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.TotalRuns != 1 || st.Balance != 4 {
		t.Errorf("Stats() = %+v after reopen", st)
	}
}

func TestRecordRunUpdatesStats(t *testing.T) {
	store := openTestStore(t)

	outcomes := []core.RunOutcome{
		{Mode: "rules", Seed: 1, Score: 120.7, Coins: 5, Level: 1},
		{Mode: "rules", Seed: 2, Score: 80, Coins: 12, Level: 1},
		{Mode: "classic", Seed: 3, Score: 300.2, Coins: 0, Level: 3},
	}
	for _, o := range outcomes {
		if _, err := store.RecordRun(o); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	expected := Stats{TotalRuns: 3, TotalCoins: 17, BestScore: 300, BestCoins: 12, Balance: 17}
	if st != expected {
		t.Errorf("Stats() = %+v, expected %+v", st, expected)
	}
}

func TestTopRuns(t *testing.T) {
	store := openTestStore(t)

	for i, score := range []float64{100, 50, 200, 500} {
		mode := "rules"
		if i == 3 {
			mode = "classic"
		}
		if _, err := store.RecordRun(core.RunOutcome{Mode: mode, Seed: int64(i), Score: score}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns("rules", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	for i, expected := range []int{200, 100, 50} {
		if runs[i].Score != expected {
			t.Errorf("runs[%d].Score = %d, expected %d", i, runs[i].Score, expected)
		}
	}

	all, err := store.TopRuns("", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(all) != 2 || all[0].Score != 500 || all[0].Mode != "classic" {
		t.Errorf("TopRuns(\"\", 2) = %+v", all)
	}

	high, err := store.HighScore("rules")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 200 {
		t.Errorf("HighScore() = %d, expected 200", high)
	}
	none, err := store.HighScore("nonexistent")
	if err != nil || none != 0 {
		t.Errorf("HighScore(nonexistent) = %d, %v, expected 0", none, err)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	step := 0
	store.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	for seed := int64(1); seed <= 3; seed++ {
		if _, err := store.RecordRun(core.RunOutcome{Mode: "rules", Seed: seed}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	for i, seed := range []int64{3, 2, 1} {
		if runs[i].Seed != seed {
			t.Errorf("runs[%d].Seed = %d, expected %d", i, runs[i].Seed, seed)
		}
	}
	if !runs[0].CreatedAt.Equal(base.Add(3 * time.Second)) {
		t.Errorf("CreatedAt = %v", runs[0].CreatedAt)
	}
	if runs[0].ID.Time() != uint64(base.Add(3*time.Second).UnixMilli()) {
		t.Errorf("run ID does not carry its creation time")
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)
	store.RecordRun(core.RunOutcome{Mode: "rules", Score: 10, Coins: 1})
	store.RecordRun(core.RunOutcome{Mode: "classic", Score: 20})

	if err := store.ClearRuns("rules"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ := store.TopRuns("", 10)
	if len(runs) != 1 || runs[0].Mode != "classic" {
		t.Errorf("runs after clear = %+v", runs)
	}
	st, _ := store.Stats()
	if st.TotalRuns != 2 {
		t.Errorf("ClearRuns touched lifetime stats: %+v", st)
	}
}

func TestPurchase(t *testing.T) {
	store := openTestStore(t)

	if err := store.Purchase("coin_boost", 120); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("Purchase() with no coins = %v, expected ErrInsufficientCoins", err)
	}

	if err := store.Grant(200); err != nil {
		t.Fatalf("Grant() failed: %v", err)
	}
	if err := store.Purchase("coin_boost", 120); err != nil {
		t.Fatalf("Purchase() failed: %v", err)
	}
	if err := store.Purchase("coin_boost", 120); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("second Purchase() = %v, expected ErrAlreadyOwned", err)
	}
	if err := store.Purchase("start_shield", 200); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("Purchase() over balance = %v, expected ErrInsufficientCoins", err)
	}

	balance, err := store.Balance()
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 80 {
		t.Errorf("Balance() = %d, expected 80", balance)
	}

	owned, err := store.Owned()
	if err != nil {
		t.Fatalf("Owned() failed: %v", err)
	}
	if !owned["coin_boost"] || owned["start_shield"] || len(owned) != 1 {
		t.Errorf("Owned() = %v", owned)
	}

	st, _ := store.Stats()
	if st.TotalCoins != 0 {
		t.Errorf("granted coins counted as earned: %+v", st)
	}
}

func TestUnlock(t *testing.T) {
	store := openTestStore(t)
	store.Grant(500)
	store.Purchase("score_boost", 150)

	if err := store.Unlock("score_boost", "turbo_plus", "secret_guide"); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	owned, _ := store.Owned()
	for _, id := range []string{"score_boost", "turbo_plus", "secret_guide"} {
		if !owned[id] {
			t.Errorf("%s not owned after Unlock()", id)
		}
	}
	if b, _ := store.Balance(); b != 350 {
		t.Errorf("Balance() = %d, expected 350", b)
	}
}

func TestFeatureSettings(t *testing.T) {
	store := openTestStore(t)
	defaults := config.DefaultRunnerConfig().Features

	got, err := store.Features(defaults)
	if err != nil {
		t.Fatalf("Features() failed: %v", err)
	}
	if got != defaults {
		t.Errorf("Features() on empty store = %+v, expected defaults", got)
	}

	if err := store.SetFeature("wind", false); err != nil {
		t.Fatalf("SetFeature() failed: %v", err)
	}
	if err := store.SetFeature("sound", true); err != nil {
		t.Fatalf("SetFeature() failed: %v", err)
	}
	if err := store.SetFeature("wind", false); err != nil {
		t.Fatalf("SetFeature() twice failed: %v", err)
	}
	if err := store.SetFeature("gravity", true); !errors.Is(err, config.ErrUnknownFeature) {
		t.Errorf("SetFeature(gravity) = %v, expected ErrUnknownFeature", err)
	}

	got, err = store.Features(defaults)
	if err != nil {
		t.Fatalf("Features() failed: %v", err)
	}
	expected := defaults
	expected.Wind = false
	expected.Sound = true
	if got != expected {
		t.Errorf("Features() = %+v, expected %+v", got, expected)
	}
}
