package spider

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func testActionEngine(seed int64) ActionEngine {
	return NewActionEngine(DefaultTuning(), rand.New(rand.NewSource(seed)))
}

func TestFeed_RestoresGaugeAndGrantsExperience(t *testing.T) {
	engine := testActionEngine(1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, now)
	c.Condition.Hunger = 50

	fed, cost, err := engine.Feed(c, 1000, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if cost != 7 {
		t.Errorf("Expected level-1 feed cost 7, got %d", cost)
	}
	if fed.Condition.Hunger != 70 {
		t.Errorf("Expected hunger 70 after feed, got %.3f", fed.Condition.Hunger)
	}
	if fed.Experience != 1 {
		t.Errorf("Expected 1 XP after one feed, got %d", fed.Experience)
	}
	if !fed.LastFed.Equal(now.Add(time.Hour)) {
		t.Errorf("Expected LastFed updated, got %v", fed.LastFed)
	}
}

func TestFeed_ThreeFeedsReachLevelTwo(t *testing.T) {
	engine := testActionEngine(2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, now)
	basePower := c.Power
	baseStats := c.Stats.Total()

	var err error
	for i := 0; i < 3; i++ {
		c, _, err = engine.Feed(c, 1000, now)
		if err != nil {
			t.Fatalf("Feed %d failed: %v", i+1, err)
		}
	}

	if c.Experience != 3 {
		t.Errorf("Expected 3 XP after three feeds, got %d", c.Experience)
	}
	if c.Level != 2 {
		t.Errorf("Expected level 2 after three feeds, got %d", c.Level)
	}

	gained := c.Power - basePower
	r := Common.PowerRange()
	if gained < r.Min || gained > r.Max {
		t.Errorf("Power gain %d outside roll range [%d, %d]", gained, r.Min, r.Max)
	}
	// The stat split of the level-up sums to the power gain.
	if c.Stats.Total()-baseStats != gained {
		t.Errorf("Stat gain %d does not match power gain %d", c.Stats.Total()-baseStats, gained)
	}
}

func TestFeed_GaugeClampsAtFull(t *testing.T) {
	engine := testActionEngine(3)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.Condition.Hunger = 95

	fed, _, err := engine.Feed(c, 1000, now)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if fed.Condition.Hunger != 100 {
		t.Errorf("Expected hunger clamped at 100, got %.3f", fed.Condition.Hunger)
	}
}

func TestFeed_InsufficientFeeders(t *testing.T) {
	engine := testActionEngine(4)
	now := time.Now()
	c := newDecayCreature(t, now)

	same, cost, err := engine.Feed(c, 6, now)
	if !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("Expected ErrInsufficientResources, got %v", err)
	}
	if cost != 0 {
		t.Errorf("Expected zero cost on rejection, got %d", cost)
	}
	if same.Experience != c.Experience || same.Condition.Hunger != c.Condition.Hunger {
		t.Error("Expected creature unchanged on rejection")
	}
}

func TestFeed_DeadCreatureRejected(t *testing.T) {
	engine := testActionEngine(5)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.IsAlive = false

	if _, _, err := engine.Feed(c, 1000, now); !errors.Is(err, ErrCreatureNotAlive) {
		t.Errorf("Expected ErrCreatureNotAlive, got %v", err)
	}
}

func TestFeed_ListedCreatureRejected(t *testing.T) {
	engine := testActionEngine(6)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.IsListed = true

	if _, _, err := engine.Feed(c, 1000, now); !errors.Is(err, ErrCreatureListed) {
		t.Errorf("Expected ErrCreatureListed, got %v", err)
	}
}

func TestFeed_CorruptRecordIsHardError(t *testing.T) {
	engine := testActionEngine(7)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.Level = Common.MaxLevel() + 1

	var invErr *InvariantError
	if _, _, err := engine.Feed(c, 1000, now); !errors.As(err, &invErr) {
		t.Errorf("Expected InvariantError for corrupt level, got %v", err)
	}
}

func TestFeed_AtCapRestoresGaugeWithoutExperience(t *testing.T) {
	engine := testActionEngine(8)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.Level = Common.MaxLevel()
	c.Experience = CumulativeExperienceForLevel(c.Level)
	c.Condition.Hunger = 40

	fed, _, err := engine.Feed(c, 1000, now)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if fed.Condition.Hunger != 60 {
		t.Errorf("Expected gauge restore at cap, got hunger %.3f", fed.Condition.Hunger)
	}
	if fed.Experience != c.Experience {
		t.Errorf("Expected no XP at cap, got %d", fed.Experience)
	}
	if fed.Level != c.Level {
		t.Errorf("Expected level unchanged at cap, got %d", fed.Level)
	}
}

func TestHydrate(t *testing.T) {
	engine := testActionEngine(9)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newDecayCreature(t, now)
	c.Condition.Hydration = 30

	hydrated, cost, err := engine.Hydrate(c, 1000, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	if cost != 7 {
		t.Errorf("Expected level-1 hydration cost 7, got %d", cost)
	}
	if hydrated.Condition.Hydration != 50 {
		t.Errorf("Expected hydration 50, got %.3f", hydrated.Condition.Hydration)
	}
	if hydrated.Experience != 1 {
		t.Errorf("Expected 1 XP from hydrate, got %d", hydrated.Experience)
	}
	if !hydrated.LastHydrated.Equal(now.Add(time.Hour)) {
		t.Errorf("Expected LastHydrated updated, got %v", hydrated.LastHydrated)
	}
}

func TestHeal(t *testing.T) {
	engine := testActionEngine(10)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.Condition.Health = 45

	healed, cost, err := engine.Heal(c, 1000)
	if err != nil {
		t.Fatalf("Heal failed: %v", err)
	}
	if cost != 50 {
		t.Errorf("Expected heal cost 50, got %v", cost)
	}
	if healed.Condition.Health != 65 {
		t.Errorf("Expected health 65, got %.3f", healed.Condition.Health)
	}
	if healed.Experience != 0 {
		t.Errorf("Expected no XP from healing, got %d", healed.Experience)
	}
}

func TestHeal_InsufficientBalance(t *testing.T) {
	engine := testActionEngine(11)
	now := time.Now()
	c := newDecayCreature(t, now)

	if _, _, err := engine.Heal(c, 49.99); !errors.Is(err, ErrInsufficientResources) {
		t.Errorf("Expected ErrInsufficientResources, got %v", err)
	}
}

func TestHeal_ClampsAtFullHealth(t *testing.T) {
	engine := testActionEngine(12)
	now := time.Now()
	c := newDecayCreature(t, now)
	c.Condition.Health = 90

	healed, _, err := engine.Heal(c, 1000)
	if err != nil {
		t.Fatalf("Heal failed: %v", err)
	}
	if healed.Condition.Health != 100 {
		t.Errorf("Expected health clamped at 100, got %.3f", healed.Condition.Health)
	}
}
