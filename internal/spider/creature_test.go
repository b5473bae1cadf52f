package spider

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestNewCreature(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewCreature("Webster", "0x1", Legendary, "SA", Female, rng, now)
	if !strings.HasPrefix(string(c.ID), "spider_") {
		t.Errorf("Expected spider_ ID prefix, got %q", c.ID)
	}
	if c.Level != 1 || c.Experience != 0 || c.Generation != 1 {
		t.Errorf("Expected fresh level-1 gen-1 creature, got %+v", c)
	}
	if c.Stats != (Stats{Attack: 10, Defense: 10, Agility: 10, Luck: 10}) {
		t.Errorf("Expected base stats of 10, got %+v", c.Stats)
	}
	r := Legendary.PowerRange()
	if c.Power < r.Min || c.Power > r.Max {
		t.Errorf("Power %d outside [%d, %d]", c.Power, r.Min, r.Max)
	}
	if !c.IsAlive || c.IsHibernating || c.IsListed {
		t.Errorf("Unexpected flags on new creature: %+v", c)
	}
	for _, ts := range []time.Time{c.LastFed, c.LastHydrated, c.LastDecayed, c.LastTokenGeneration, c.CreatedAt} {
		if !ts.Equal(now) {
			t.Errorf("Expected all timestamps at %v, got %v", now, ts)
		}
	}
}

func TestStats_AddAndTotal(t *testing.T) {
	a := Stats{Attack: 1, Defense: 2, Agility: 3, Luck: 4}
	b := Stats{Attack: 10, Defense: 20, Agility: 30, Luck: 40}

	sum := a.Add(b)
	if sum != (Stats{Attack: 11, Defense: 22, Agility: 33, Luck: 44}) {
		t.Errorf("Unexpected sum %+v", sum)
	}
	if sum.Total() != 110 {
		t.Errorf("Expected total 110, got %d", sum.Total())
	}
}

func TestEffectivePower(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	now := time.Now()
	c := NewCreature("Webster", "0x1", Common, "S", Male, rng, now)
	c.Dresses = []string{"dress_1", "dress_2", "dress_ghost"}

	wardrobe := map[string]Dress{
		"dress_1": {ID: "dress_1", Rarity: DressEpic, Type: DressTypeBasic},
		"dress_2": {ID: "dress_2", Rarity: DressSpecial, Type: DressTypeShiny},
	}

	// 70 + 500; the unknown reference contributes nothing.
	if got := c.EffectivePower(wardrobe); got != c.Power+570 {
		t.Errorf("Expected effective power %d, got %d", c.Power+570, got)
	}
	c.Dresses = nil
	if got := c.EffectivePower(wardrobe); got != c.Power {
		t.Errorf("Expected bare power %d, got %d", c.Power, got)
	}
}

func TestCreature_CheckInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	now := time.Now()
	c := NewCreature("Webster", "0x1", Common, "S", Male, rng, now)

	if err := c.CheckInvariants(); err != nil {
		t.Fatalf("Expected fresh creature to be valid, got %v", err)
	}

	var invErr *InvariantError
	over := c
	over.Level = Common.MaxLevel() + 1
	if err := over.CheckInvariants(); !errors.As(err, &invErr) {
		t.Errorf("Expected InvariantError for level above cap, got %v", err)
	}

	under := c
	under.Level = 0
	if err := under.CheckInvariants(); !errors.As(err, &invErr) {
		t.Errorf("Expected InvariantError for level zero, got %v", err)
	}

	negative := c
	negative.Experience = -1
	if err := negative.CheckInvariants(); !errors.As(err, &invErr) {
		t.Errorf("Expected InvariantError for negative experience, got %v", err)
	}
}

func TestPlayer_IsOffline(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewPlayer("0x1", "Alice", Balance{}, now)

	if p.IsOffline(now.Add(15 * time.Minute)) {
		t.Error("Expected player active at exactly 15 minutes")
	}
	if !p.IsOffline(now.Add(16 * time.Minute)) {
		t.Error("Expected player offline after 16 minutes")
	}
}

func TestNewID(t *testing.T) {
	a := NewID("tx")
	b := NewID("tx")
	if !strings.HasPrefix(a, "tx_") {
		t.Errorf("Expected tx_ prefix, got %q", a)
	}
	if a == b {
		t.Error("Expected distinct IDs")
	}
	if len(a) != len("tx_")+16 {
		t.Errorf("Expected 16 hex chars after the prefix, got %q", a)
	}
}
