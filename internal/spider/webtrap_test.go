package spider

import (
	"errors"
	"testing"
	"time"
)

func testWebtrapEngine() WebtrapEngine {
	return NewWebtrapEngine(DefaultTuning())
}

func TestWebtrapUpgrade_UnlocksFirst(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Now()
	p := NewPlayer("0x1", "Alice", Balance{Spider: 1200}, now)

	upgraded, cost, err := engine.Upgrade(p)
	if err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if cost != 1000 {
		t.Errorf("Expected unlock cost 1000, got %v", cost)
	}
	if !upgraded.Webtrap.IsUnlocked || upgraded.Webtrap.Level != 1 {
		t.Errorf("Expected unlocked level-1 trap, got %+v", upgraded.Webtrap)
	}
	if upgraded.Balance.Spider != 200 {
		t.Errorf("Expected balance 200 after unlock, got %v", upgraded.Balance.Spider)
	}
}

func TestWebtrapUpgrade_CostScalesWithLevel(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Now()
	p := NewPlayer("0x1", "Alice", Balance{Spider: 10000}, now)
	p.Webtrap = Webtrap{IsUnlocked: true, Level: 3}

	upgraded, cost, err := engine.Upgrade(p)
	if err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	// 500 x current level.
	if cost != 1500 {
		t.Errorf("Expected upgrade cost 1500 at level 3, got %v", cost)
	}
	if upgraded.Webtrap.Level != 4 {
		t.Errorf("Expected level 4, got %d", upgraded.Webtrap.Level)
	}
	if upgraded.Balance.Spider != 8500 {
		t.Errorf("Expected balance 8500, got %v", upgraded.Balance.Spider)
	}
}

func TestWebtrapUpgrade_InsufficientBalance(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Now()

	p := NewPlayer("0x1", "Alice", Balance{Spider: 999}, now)
	if _, _, err := engine.Upgrade(p); !errors.Is(err, ErrInsufficientResources) {
		t.Errorf("Expected ErrInsufficientResources on unlock, got %v", err)
	}

	p.Balance.Spider = 400
	p.Webtrap = Webtrap{IsUnlocked: true, Level: 1}
	if _, _, err := engine.Upgrade(p); !errors.Is(err, ErrInsufficientResources) {
		t.Errorf("Expected ErrInsufficientResources on upgrade, got %v", err)
	}
}

func TestWebtrapCollect(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	p := NewPlayer("0x1", "Alice", Balance{Spider: 50, Feeders: 5}, now)
	p.Webtrap = Webtrap{IsUnlocked: true, Level: 2, LastCollection: now.Add(-25 * time.Hour)}

	collected, reward, err := engine.Collect(p, now)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	// 5 feeders and 10 tokens per level.
	if reward.Feeders != 10 || reward.Tokens != 20 {
		t.Errorf("Expected reward {10 feeders, 20 tokens}, got %+v", reward)
	}
	if collected.Balance.Feeders != 15 {
		t.Errorf("Expected 15 feeders, got %d", collected.Balance.Feeders)
	}
	if collected.Balance.Spider != 70 {
		t.Errorf("Expected 70 SPIDER, got %v", collected.Balance.Spider)
	}
	if !collected.Webtrap.LastCollection.Equal(now) {
		t.Errorf("Expected collection timestamp updated, got %v", collected.Webtrap.LastCollection)
	}
}

func TestWebtrapCollect_Locked(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Now()
	p := NewPlayer("0x1", "Alice", Balance{}, now)

	if _, _, err := engine.Collect(p, now); !errors.Is(err, ErrWebtrapLocked) {
		t.Errorf("Expected ErrWebtrapLocked, got %v", err)
	}
}

func TestWebtrapCollect_CooldownActive(t *testing.T) {
	engine := testWebtrapEngine()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	p := NewPlayer("0x1", "Alice", Balance{}, now)
	p.Webtrap = Webtrap{IsUnlocked: true, Level: 1, LastCollection: now.Add(-23 * time.Hour)}

	if _, _, err := engine.Collect(p, now); !errors.Is(err, ErrCooldownActive) {
		t.Errorf("Expected ErrCooldownActive within 24h, got %v", err)
	}

	// Exactly 24 hours later the cooldown has elapsed.
	p.Webtrap.LastCollection = now.Add(-24 * time.Hour)
	if _, _, err := engine.Collect(p, now); err != nil {
		t.Errorf("Expected collection at the cooldown boundary, got %v", err)
	}
}
