package spider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is a point-in-time capture of the world: every player and
// creature. It backs the periodic save from the sweeper and the sim
// runner's seed/restore cycle.
type Snapshot struct {
	TakenAt   time.Time  `json:"taken_at"`
	Players   []Player   `json:"players"`
	Creatures []Creature `json:"creatures"`
}

// ValidateSnapshot performs consistency checks on a snapshot:
//   - all creature and player IDs are non-empty and unique
//   - every creature's owner is a player in the snapshot
//   - every creature's level respects its rarity cap
//
// Returns an error describing the first violation, nil otherwise.
func ValidateSnapshot(s Snapshot) error {
	wallets := make(map[string]struct{}, len(s.Players))
	for i, p := range s.Players {
		if p.WalletAddress == "" {
			return fmt.Errorf("player at index %d has empty wallet address", i)
		}
		if _, exists := wallets[p.WalletAddress]; exists {
			return fmt.Errorf("duplicate player wallet: %s", p.WalletAddress)
		}
		wallets[p.WalletAddress] = struct{}{}
		if p.Balance.Spider < 0 || p.Balance.Feeders < 0 {
			return fmt.Errorf("player %s has negative balance", p.WalletAddress)
		}
	}

	ids := make(map[CreatureID]struct{}, len(s.Creatures))
	for i, c := range s.Creatures {
		if c.ID == "" {
			return fmt.Errorf("creature at index %d has empty ID", i)
		}
		if _, exists := ids[c.ID]; exists {
			return fmt.Errorf("duplicate creature ID: %s", c.ID)
		}
		ids[c.ID] = struct{}{}
		if _, exists := wallets[c.Owner]; !exists {
			return fmt.Errorf("creature %s has unknown owner: %s", c.ID, c.Owner)
		}
		if err := c.CheckInvariants(); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON.
func EncodeSnapshotJSON(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// Snapshot captures the current world state.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := Snapshot{TakenAt: w.now()}
	for _, p := range w.players {
		s.Players = append(s.Players, p)
	}
	for _, c := range w.creatures {
		s.Creatures = append(s.Creatures, c)
	}
	return s
}

// Restore replaces the world's players and creatures with the snapshot
// contents. The snapshot is validated first; on error the world is left
// untouched.
func (w *World) Restore(s Snapshot) error {
	if err := ValidateSnapshot(s); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.players = make(map[string]Player, len(s.Players))
	w.creatures = make(map[CreatureID]Creature, len(s.Creatures))
	w.byOwner = make(map[string][]CreatureID)
	for _, p := range s.Players {
		w.players[p.WalletAddress] = p
	}
	for _, c := range s.Creatures {
		w.creatures[c.ID] = c
		w.byOwner[c.Owner] = append(w.byOwner[c.Owner], c.ID)
	}
	return nil
}

// SaveSnapshot writes the current world state to a JSON file, creating the
// directory if needed.
func (w *World) SaveSnapshot(path string) error {
	data, err := EncodeSnapshotJSON(w.Snapshot())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores the world from a JSON snapshot file.
func (w *World) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	s, err := DecodeSnapshotJSON(data)
	if err != nil {
		return err
	}
	return w.Restore(s)
}
