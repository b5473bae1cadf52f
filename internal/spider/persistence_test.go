package spider

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func snapshotFixture(t *testing.T) Snapshot {
	t.Helper()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))
	p := NewPlayer("0x1", "Alice", Balance{Spider: 500, Feeders: 50}, now)
	c := NewCreature("Webster", "0x1", Rare, "SA", Female, rng, now)
	return Snapshot{TakenAt: now, Players: []Player{p}, Creatures: []Creature{c}}
}

func TestValidateSnapshot(t *testing.T) {
	base := snapshotFixture(t)
	if err := ValidateSnapshot(base); err != nil {
		t.Fatalf("Expected valid snapshot, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantSub string
	}{
		{"empty wallet", func(s *Snapshot) { s.Players[0].WalletAddress = "" }, "empty wallet"},
		{"duplicate wallet", func(s *Snapshot) { s.Players = append(s.Players, s.Players[0]) }, "duplicate player wallet"},
		{"negative balance", func(s *Snapshot) { s.Players[0].Balance.Spider = -1 }, "negative balance"},
		{"empty creature id", func(s *Snapshot) { s.Creatures[0].ID = "" }, "empty ID"},
		{"duplicate creature id", func(s *Snapshot) { s.Creatures = append(s.Creatures, s.Creatures[0]) }, "duplicate creature ID"},
		{"unknown owner", func(s *Snapshot) { s.Creatures[0].Owner = "0xghost" }, "unknown owner"},
		{"level above cap", func(s *Snapshot) { s.Creatures[0].Level = 200 }, "outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshotFixture(t)
			tt.mutate(&s)
			err := ValidateSnapshot(s)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Expected error containing %q, got %v", tt.wantSub, err)
			}
		})
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	s := snapshotFixture(t)
	data, err := EncodeSnapshotJSON(s)
	if err != nil {
		t.Fatalf("EncodeSnapshotJSON failed: %v", err)
	}

	decoded, err := DecodeSnapshotJSON(data)
	if err != nil {
		t.Fatalf("DecodeSnapshotJSON failed: %v", err)
	}
	if len(decoded.Players) != 1 || len(decoded.Creatures) != 1 {
		t.Fatalf("Expected 1 player and 1 creature, got %d and %d", len(decoded.Players), len(decoded.Creatures))
	}
	if decoded.Creatures[0].ID != s.Creatures[0].ID {
		t.Errorf("Expected creature ID %s, got %s", s.Creatures[0].ID, decoded.Creatures[0].ID)
	}
	if decoded.Players[0].Balance != s.Players[0].Balance {
		t.Errorf("Expected balance %+v, got %+v", s.Players[0].Balance, decoded.Players[0].Balance)
	}

	if _, err := DecodeSnapshotJSON([]byte("{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestWorld_SaveAndLoadSnapshot(t *testing.T) {
	w, clock := testWorld(t)
	_, c := registerWithCreature(t, w)
	*clock = clock.Add(time.Hour)

	path := filepath.Join(t.TempDir(), "data", "world.json")
	if err := w.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	fresh := NewWorld(DefaultTuning(), rand.New(rand.NewSource(2)))
	if err := fresh.LoadSnapshot(path); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	loaded, ok := fresh.Creature(c.ID)
	if !ok {
		t.Fatal("Expected creature to survive the round trip")
	}
	if loaded.Name != "Webster" || loaded.Owner != "0xabc" {
		t.Errorf("Unexpected creature after load: %+v", loaded)
	}
	p, ok := fresh.Player("0xabc")
	if !ok {
		t.Fatal("Expected player to survive the round trip")
	}
	if p.Balance.Spider != 900 {
		t.Errorf("Expected balance 900 after load, got %v", p.Balance.Spider)
	}
}

func TestWorld_LoadSnapshotMissingFile(t *testing.T) {
	w, _ := testWorld(t)
	if err := w.LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error loading a missing snapshot file")
	}
}

func TestWorld_RestoreReplacesState(t *testing.T) {
	w, _ := testWorld(t)
	registerWithCreature(t, w)

	if err := w.Restore(snapshotFixture(t)); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, ok := w.Player("0xabc"); ok {
		t.Error("Expected previous players replaced")
	}
	if _, ok := w.Player("0x1"); !ok {
		t.Error("Expected snapshot player present")
	}
	if len(w.CreaturesOf("0x1")) != 1 {
		t.Errorf("Expected 1 creature for snapshot owner, got %d", len(w.CreaturesOf("0x1")))
	}
}

func TestWorld_RestoreRejectsInvalidSnapshot(t *testing.T) {
	w, _ := testWorld(t)
	registerWithCreature(t, w)

	bad := snapshotFixture(t)
	bad.Creatures[0].Owner = "0xghost"
	if err := w.Restore(bad); err == nil {
		t.Fatal("Expected error for invalid snapshot")
	}
	// The world kept its previous state.
	if _, ok := w.Player("0xabc"); !ok {
		t.Error("Expected world untouched after failed restore")
	}
}
