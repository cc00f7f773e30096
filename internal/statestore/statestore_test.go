package statestore

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(resting, paused bool) *models.Session {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	completedAt := start.Add(5 * time.Minute)
	weight := 100.0
	reps := 8
	s := &models.Session{
		ID:          "8e2f4c1a-0000-0000-0000-000000000001",
		ProgramID:   "prog-1",
		ProgramName: "Push Day",
		StartedAt:   start,
		Exercises: []models.ExerciseProgress{
			{
				ExerciseID: "bench-press",
				Sets: []models.SetRecord{
					{Number: 1, Completed: true, CompletedAt: &completedAt, Weight: &weight, Reps: &reps},
					{Number: 2},
				},
				CurrentSet: 1,
			},
		},
		Paused: paused,
	}
	if resting {
		restStart := start.Add(6 * time.Minute)
		s.Resting = true
		s.RestStartedAt = &restStart
		s.RestDuration = 75 * time.Second
	}
	return s
}

// TestSessionRoundTrip verifies that save/load preserves every session field
// for each resting/paused combination.
func TestSessionRoundTrip(t *testing.T) {
	cases := []struct {
		name            string
		resting, paused bool
	}{
		{"active", false, false},
		{"resting", true, false},
		{"paused", false, true},
		{"resting paused", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := openTemp(t)
			want := sampleSession(tc.resting, tc.paused)
			if err := store.SaveSession(want); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}
			got, err := store.LoadSession()
			if err != nil {
				t.Fatalf("LoadSession: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
			}
		})
	}
}

// TestLoadSessionAbsent verifies that a fresh store reports no session
// without error.
func TestLoadSessionAbsent(t *testing.T) {
	store := openTemp(t)
	got, err := store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

// TestSaveOverwrites verifies the single-active-session invariant: saving a
// second session replaces the first.
func TestSaveOverwrites(t *testing.T) {
	store := openTemp(t)
	first := sampleSession(false, false)
	second := sampleSession(true, false)
	second.ID = "8e2f4c1a-0000-0000-0000-000000000002"

	if err := store.SaveSession(first); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSession(second); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != second.ID {
		t.Errorf("loaded session ID = %q, want %q", got.ID, second.ID)
	}
}

// TestClearSession verifies that clearing removes the snapshot and is safe
// to call when nothing is stored.
func TestClearSession(t *testing.T) {
	store := openTemp(t)
	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession on empty store: %v", err)
	}
	if err := store.SaveSession(sampleSession(false, false)); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	got, err := store.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil session after clear, got %+v", got)
	}
}

// TestCorruptSessionTreatedAsAbsent verifies that a malformed snapshot blob
// is recovered as "no session" rather than an error.
func TestCorruptSessionTreatedAsAbsent(t *testing.T) {
	store := openTemp(t)
	if err := store.put(keyActiveSession, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session for corrupt blob, got %+v", got)
	}
}

// TestWeightMemory verifies the per-exercise last-weight map: absent keys,
// writes, overwrites, and corruption falling back to empty.
func TestWeightMemory(t *testing.T) {
	store := openTemp(t)

	if _, ok := store.LastWeight("bench-press"); ok {
		t.Error("expected no weight for unknown exercise")
	}

	if err := store.SetLastWeight("bench-press", 100); err != nil {
		t.Fatal(err)
	}
	if err := store.SetLastWeight("squat", 140); err != nil {
		t.Fatal(err)
	}
	if err := store.SetLastWeight("bench-press", 102.5); err != nil {
		t.Fatal(err)
	}

	if w, ok := store.LastWeight("bench-press"); !ok || w != 102.5 {
		t.Errorf("bench-press = %v, %v; want 102.5, true", w, ok)
	}
	if w, ok := store.LastWeight("squat"); !ok || w != 140 {
		t.Errorf("squat = %v, %v; want 140, true", w, ok)
	}

	// Corruption falls back to an empty map and stays writable.
	if err := store.put(keyLastWeights, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.LastWeight("squat"); ok {
		t.Error("expected empty weight memory after corruption")
	}
	if err := store.SetLastWeight("squat", 145); err != nil {
		t.Fatalf("SetLastWeight after corruption: %v", err)
	}
	if w, ok := store.LastWeight("squat"); !ok || w != 145 {
		t.Errorf("squat after rewrite = %v, %v; want 145, true", w, ok)
	}
}
