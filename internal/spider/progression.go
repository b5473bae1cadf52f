package spider

import "math/rand"

// The progression calculator: pure lookups and rolls mapping experience to
// levels and level-ups to power and stat growth. Level is always a function
// of experience via the band table below; the creature's stored level is a
// cached projection of it, clamped at the rarity cap.

// absoluteLevelCap is the hard ceiling regardless of rarity.
const absoluteLevelCap = 100

// expBand maps a closed level band to the experience cost of advancing one
// level inside it.
type expBand struct {
	upTo int // band covers levels (previous upTo)+1 .. upTo
	cost int
}

var expBands = []expBand{
	{4, 3},
	{10, 5},
	{20, 6},
	{30, 8},
	{40, 10},
	{50, 12},
	{60, 14},
	{70, 17},
	{80, 21},
	{90, 26},
	{100, 35},
}

var feederBands = []expBand{
	{10, 7},
	{20, 10},
	{25, 12},
	{30, 15},
	{45, 20},
	{60, 25},
	{80, 30},
	{100, 40},
}

// bandLookup finds the cost for a level in a band table. Levels above the
// last band use the last band's cost.
func bandLookup(bands []expBand, level int) int {
	for _, b := range bands {
		if level <= b.upTo {
			return b.cost
		}
	}
	return bands[len(bands)-1].cost
}

// ExperienceRequiredForLevel returns the experience cost to advance from
// the given level to the next.
func ExperienceRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return bandLookup(expBands, level)
}

// CumulativeExperienceForLevel returns the total experience needed to reach
// the given level from level 1. Zero for level <= 1.
func CumulativeExperienceForLevel(level int) int {
	total := 0
	for i := 1; i < level; i++ {
		total += ExperienceRequiredForLevel(i)
	}
	return total
}

// LevelFromExperience maps accumulated experience to a level: the smallest
// L whose next-level threshold exceeds the experience, capped at 100.
func LevelFromExperience(experience int) int {
	level := 1
	threshold := 0
	for level <= absoluteLevelCap {
		threshold += ExperienceRequiredForLevel(level)
		if experience < threshold {
			return level
		}
		level++
	}
	return absoluteLevelCap
}

// FeedingCost returns the feeders consumed by one feed at the given level.
func FeedingCost(level int) int {
	if level < 1 {
		level = 1
	}
	return bandLookup(feederBands, level)
}

// HydrationCost returns the feeders consumed by one hydration at the given
// level. The table currently matches FeedingCost but the two are exposed
// separately so they can diverge.
func HydrationCost(level int) int {
	if level < 1 {
		level = 1
	}
	return bandLookup(feederBands, level)
}

// CanLevelUp reports whether the creature is below its rarity's level cap.
func CanLevelUp(c Creature) bool {
	return c.Level < c.Rarity.MaxLevel()
}

// RollPowerIncrease draws the power gained by one level-up, uniform within
// the rarity's power range.
func RollPowerIncrease(rarity Rarity, rng *rand.Rand) int {
	return rollRange(rarity.PowerRange(), rng)
}

// RollCombatStatIncrease splits a power increase across the four combat
// stats. Four independent uniform weights are normalized and floored; the
// rounding loss lands on one randomly chosen stat, so the four increases
// always sum exactly to powerIncrease.
func RollCombatStatIncrease(powerIncrease int, rng *rand.Rand) Stats {
	if powerIncrease <= 0 {
		return Stats{}
	}

	weights := [4]float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
	total := weights[0] + weights[1] + weights[2] + weights[3]
	if total == 0 {
		// All-zero draws are vanishingly unlikely; fall back to an even
		// split.
		weights = [4]float64{1, 1, 1, 1}
		total = 4
	}

	var split [4]int
	distributed := 0
	for i, w := range weights {
		split[i] = int(float64(powerIncrease) * w / total)
		distributed += split[i]
	}
	if remaining := powerIncrease - distributed; remaining > 0 {
		split[rng.Intn(4)] += remaining
	}

	return Stats{Attack: split[0], Defense: split[1], Agility: split[2], Luck: split[3]}
}
