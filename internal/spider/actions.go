package spider

import (
	"math/rand"
	"time"
)

// ActionEngine implements the player-triggered creature actions: feed,
// hydrate and heal. Each is a pure transformation returning the new
// creature state and the resources spent, or a typed rejection; callers
// persist the result and debit the player.
type ActionEngine struct {
	tuning Tuning
	rng    *rand.Rand
}

// NewActionEngine creates an action engine. The rand source drives the
// power and stat rolls on level-up and is injectable for deterministic
// tests.
func NewActionEngine(tuning Tuning, rng *rand.Rand) ActionEngine {
	return ActionEngine{tuning: tuning, rng: rng}
}

// actionable rejects actions on dead or market-listed creatures and
// surfaces corrupted records as hard errors.
func actionable(c Creature) error {
	if err := c.CheckInvariants(); err != nil {
		return err
	}
	if !c.IsAlive {
		return ErrCreatureNotAlive
	}
	if c.IsListed {
		return ErrCreatureListed
	}
	return nil
}

// Feed spends feeders to raise hunger by the gauge restore amount (capped
// at 100). Below the rarity cap a feed also grants exactly one experience
// point; every level gained applies one power roll and one stat split. At
// the cap feeding still restores the gauge but changes nothing else.
func (a ActionEngine) Feed(c Creature, availableFeeders int, now time.Time) (Creature, int, error) {
	if err := actionable(c); err != nil {
		return c, 0, err
	}
	cost := FeedingCost(c.Level)
	if availableFeeders < cost {
		return c, 0, insufficient("feeders", float64(availableFeeders), float64(cost))
	}

	c.Condition.Hunger = clampGauge(c.Condition.Hunger + a.tuning.Actions.GaugeRestore)
	c.LastFed = now
	if CanLevelUp(c) {
		c = a.grantExperience(c, a.tuning.Actions.XPPerFeed)
	}
	return c, cost, nil
}

// Hydrate is the hydration counterpart of Feed: same gauge restore and
// experience rules, applied to hydration with the hydration cost table.
func (a ActionEngine) Hydrate(c Creature, availableFeeders int, now time.Time) (Creature, int, error) {
	if err := actionable(c); err != nil {
		return c, 0, err
	}
	cost := HydrationCost(c.Level)
	if availableFeeders < cost {
		return c, 0, insufficient("feeders", float64(availableFeeders), float64(cost))
	}

	c.Condition.Hydration = clampGauge(c.Condition.Hydration + a.tuning.Actions.GaugeRestore)
	c.LastHydrated = now
	if CanLevelUp(c) {
		c = a.grantExperience(c, a.tuning.Actions.XPPerHydrate)
	}
	return c, cost, nil
}

// Heal raises health by the heal restore amount (capped at 100) for a flat
// SPIDER cost. Healing grants no experience.
func (a ActionEngine) Heal(c Creature, availableBalance float64) (Creature, float64, error) {
	if err := actionable(c); err != nil {
		return c, 0, err
	}
	cost := a.tuning.Actions.HealCost
	if availableBalance < cost {
		return c, 0, insufficient("SPIDER", availableBalance, cost)
	}

	c.Condition.Health = clampGauge(c.Condition.Health + a.tuning.Actions.HealRestore)
	c.IsAlive = c.Condition.Health > 0
	return c, cost, nil
}

// grantExperience adds experience, recomputes the level from the band
// table, and applies one power roll plus one stat split per level gained,
// clamping the level at the rarity cap.
func (a ActionEngine) grantExperience(c Creature, xp int) Creature {
	c.Experience += xp
	newLevel := LevelFromExperience(c.Experience)
	if cap := c.Rarity.MaxLevel(); newLevel > cap {
		newLevel = cap
	}

	for level := c.Level; level < newLevel; level++ {
		powerIncrease := RollPowerIncrease(c.Rarity, a.rng)
		c.Power += powerIncrease
		c.Stats = c.Stats.Add(RollCombatStatIncrease(powerIncrease, a.rng))
	}
	c.Level = newLevel
	return c
}
