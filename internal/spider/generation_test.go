package spider

import (
	"testing"
	"time"
)

func testGenerationEngine() GenerationEngine {
	return NewGenerationEngine(DefaultTuning().Generation)
}

func TestTokensGenerated_Continuous(t *testing.T) {
	engine := testGenerationEngine()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, start)
	c.Power = 100

	// 100 power x 0.1 rate x 2 hours.
	if got := engine.TokensGenerated(c, start.Add(2*time.Hour)); got != 20.00 {
		t.Errorf("Expected 20.00 tokens, got %v", got)
	}
}

func TestTokensGenerated_FlooredToTwoDecimals(t *testing.T) {
	engine := testGenerationEngine()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, start)
	c.Power = 7

	// 7 x 0.1 x (1/6)h = 0.11666... floors to 0.11.
	if got := engine.TokensGenerated(c, start.Add(10*time.Minute)); got != 0.11 {
		t.Errorf("Expected floor to 0.11 tokens, got %v", got)
	}
}

func TestTokensGenerated_HibernatingAndDead(t *testing.T) {
	engine := testGenerationEngine()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	c := newDecayCreature(t, start)
	c.IsHibernating = true
	if got := engine.TokensGenerated(c, start.Add(5*time.Hour)); got != 0 {
		t.Errorf("Expected 0 tokens while hibernating, got %v", got)
	}

	c = newDecayCreature(t, start)
	c.IsAlive = false
	if got := engine.TokensGenerated(c, start.Add(5*time.Hour)); got != 0 {
		t.Errorf("Expected 0 tokens when dead, got %v", got)
	}
}

func TestTokensGenerated_NoNegativeWindow(t *testing.T) {
	engine := testGenerationEngine()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, start)

	if got := engine.TokensGenerated(c, start.Add(-time.Hour)); got != 0 {
		t.Errorf("Expected 0 tokens for a past timestamp, got %v", got)
	}
}

func TestSweepGeneration_ActivePlayers(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	player := NewPlayer("0x1", "Alice", Balance{}, now)
	common := newDecayCreature(t, now)
	mythical := newDecayCreature(t, now)
	mythical.Rarity = Mythical

	credits := engine.SweepGeneration(
		map[string]Player{"0x1": player},
		map[string][]Creature{"0x1": {common, mythical}},
		false, now,
	)

	if len(credits) != 1 {
		t.Fatalf("Expected 1 credit, got %d", len(credits))
	}
	// Common 10/h x 1 + Mythical 10/h x 6.
	if credits[0].Amount != 70 {
		t.Errorf("Expected 70 tokens, got %v", credits[0].Amount)
	}
	if credits[0].Owner != "0x1" {
		t.Errorf("Expected owner 0x1, got %s", credits[0].Owner)
	}
	if credits[0].Offline {
		t.Error("Expected credit not flagged offline")
	}
	if len(credits[0].Creatures) != 2 {
		t.Errorf("Expected 2 touched creatures, got %d", len(credits[0].Creatures))
	}
}

func TestSweepGeneration_OfflineExcludedByDefault(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	player := NewPlayer("0x1", "Alice", Balance{}, now.Add(-time.Hour))
	c := newDecayCreature(t, now)

	credits := engine.SweepGeneration(
		map[string]Player{"0x1": player},
		map[string][]Creature{"0x1": {c}},
		false, now,
	)
	if len(credits) != 0 {
		t.Fatalf("Expected offline player skipped, got %d credits", len(credits))
	}
}

func TestSweepGeneration_OfflinePenalty(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// Offline for 6 hours: 10 x 0.5 x 6/3 = 10 per Common creature.
	player := NewPlayer("0x1", "Alice", Balance{}, now.Add(-6*time.Hour))
	c := newDecayCreature(t, now)

	credits := engine.SweepGeneration(
		map[string]Player{"0x1": player},
		map[string][]Creature{"0x1": {c}},
		true, now,
	)
	if len(credits) != 1 {
		t.Fatalf("Expected 1 credit, got %d", len(credits))
	}
	if credits[0].Amount != 10 {
		t.Errorf("Expected 10 tokens for 6h offline Common, got %v", credits[0].Amount)
	}
	if !credits[0].Offline {
		t.Error("Expected credit flagged offline")
	}
}

func TestSweepGeneration_OfflineHoursCapped(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	// A week inactive caps at 24 hours: 10 x 0.5 x 24/3 = 40.
	player := NewPlayer("0x1", "Alice", Balance{}, now.Add(-7*24*time.Hour))
	c := newDecayCreature(t, now)

	credits := engine.SweepGeneration(
		map[string]Player{"0x1": player},
		map[string][]Creature{"0x1": {c}},
		true, now,
	)
	if len(credits) != 1 {
		t.Fatalf("Expected 1 credit, got %d", len(credits))
	}
	if credits[0].Amount != 40 {
		t.Errorf("Expected capped 40 tokens, got %v", credits[0].Amount)
	}
}

func TestSweepGeneration_SkipsDeadAndHibernating(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	player := NewPlayer("0x1", "Alice", Balance{}, now)
	dead := newDecayCreature(t, now)
	dead.IsAlive = false
	sleeping := newDecayCreature(t, now)
	sleeping.IsHibernating = true

	credits := engine.SweepGeneration(
		map[string]Player{"0x1": player},
		map[string][]Creature{"0x1": {dead, sleeping}},
		false, now,
	)
	if len(credits) != 0 {
		t.Fatalf("Expected zero credits dropped, got %d", len(credits))
	}
}

func TestSweepGeneration_UnknownOwnerSkipped(t *testing.T) {
	engine := testGenerationEngine()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, now)

	credits := engine.SweepGeneration(
		map[string]Player{},
		map[string][]Creature{"0xghost": {c}},
		false, now,
	)
	if len(credits) != 0 {
		t.Fatalf("Expected no credits without a registered owner, got %d", len(credits))
	}
}
