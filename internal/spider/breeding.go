package spider

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// BreedingResolver combines two parent creatures into an offspring:
// compatibility checks, cost computation, genetics merge, rarity roll and
// stat inheritance. The resolver itself never mutates the parents; the
// caller applies the parent tax and debits the breeding cost.
type BreedingResolver struct {
	tuning BreedingTuning
	rng    *rand.Rand
}

// NewBreedingResolver creates a breeding resolver.
func NewBreedingResolver(tuning BreedingTuning, rng *rand.Rand) BreedingResolver {
	return BreedingResolver{tuning: tuning, rng: rng}
}

// Compatibility reasons, phrased for direct display. The full list of
// violated conditions is returned so the caller can render all of them at
// once.
const (
	ReasonSameGender = "Same gender"
	ReasonListed     = "Spider(s) listed on market"
	ReasonUnhealthy  = "Spider(s) unhealthy"
	ReasonHungry     = "Spider(s) hungry"
)

// CheckCompatibility reports whether the pair can breed. Compatible iff
// the genders differ, neither is listed on the market, and both have
// health and hunger strictly above the tuning thresholds.
func (b BreedingResolver) CheckCompatibility(x, y Creature) (bool, []string) {
	var reasons []string
	if x.Gender == y.Gender {
		reasons = append(reasons, ReasonSameGender)
	}
	if x.IsListed || y.IsListed {
		reasons = append(reasons, ReasonListed)
	}
	if x.Condition.Health <= b.tuning.MinParentHealth || y.Condition.Health <= b.tuning.MinParentHealth {
		reasons = append(reasons, ReasonUnhealthy)
	}
	if x.Condition.Hunger <= b.tuning.MinParentHunger || y.Condition.Hunger <= b.tuning.MinParentHunger {
		reasons = append(reasons, ReasonHungry)
	}
	return len(reasons) == 0, reasons
}

// BreedingCost is the SPIDER price of breeding the pair: the base cost
// scaled by the mean of the parents' rarity weights.
func (b BreedingResolver) BreedingCost(x, y Creature) float64 {
	return b.tuning.BaseCost * float64(x.Rarity.Weight()+y.Rarity.Weight()) / 2
}

// ResolveOffspring creates the child of a compatible pair. Genetics are the
// ordered unique union of both parents' symbols (argument order does not
// matter); rarity keeps the parents' best tier with the configured chance,
// otherwise shifts one tier down or up, clamped at the enumeration bounds;
// gender is a uniform draw; generation is max(parents)+1; each combat stat
// is floor((father+mother) x inheritance). Level, experience and condition
// reset to new-creature defaults. Returns an IncompatibilityError when the
// pair cannot breed.
func (b BreedingResolver) ResolveOffspring(father, mother Creature, requestedName string, now time.Time) (Creature, error) {
	if compatible, reasons := b.CheckCompatibility(father, mother); !compatible {
		return Creature{}, &IncompatibilityError{Reasons: reasons}
	}

	name := requestedName
	if name == "" {
		name = fmt.Sprintf("Baby Spider #%d", now.UnixMilli())
	}

	gender := Male
	if b.rng.Float64() < 0.5 {
		gender = Female
	}

	child := NewCreature(name, father.Owner, b.rollOffspringRarity(father.Rarity, mother.Rarity), MergeGenetics(father.Genetics, mother.Genetics), gender, b.rng, now)
	child.Generation = max(father.Generation, mother.Generation) + 1
	child.Parents = &ParentRef{Father: father.ID, Mother: mother.ID}
	child.Stats = Stats{
		Attack:  inheritStat(father.Stats.Attack, mother.Stats.Attack, b.tuning.StatInheritance),
		Defense: inheritStat(father.Stats.Defense, mother.Stats.Defense, b.tuning.StatInheritance),
		Agility: inheritStat(father.Stats.Agility, mother.Stats.Agility, b.tuning.StatInheritance),
		Luck:    inheritStat(father.Stats.Luck, mother.Stats.Luck, b.tuning.StatInheritance),
	}
	return child, nil
}

// ApplyParentTax returns the parent with the post-breeding condition cost
// applied: health and hunger drop by the configured taxes, floored at 0.
func (b BreedingResolver) ApplyParentTax(c Creature) Creature {
	c.Condition.Health = clampGauge(c.Condition.Health - b.tuning.ParentHealthTax)
	c.Condition.Hunger = clampGauge(c.Condition.Hunger - b.tuning.ParentHungerTax)
	c.IsAlive = c.Condition.Health > 0
	return c
}

// rollOffspringRarity keeps the parents' best tier with SameRarityChance,
// drops one tier with LowerRarityChance, and promotes one tier with the
// remaining probability, clamped to the Common..Mythical bounds.
func (b BreedingResolver) rollOffspringRarity(father, mother Rarity) Rarity {
	best := father
	if mother > best {
		best = mother
	}

	switch roll := b.rng.Float64(); {
	case roll < b.tuning.SameRarityChance:
		return best
	case roll < b.tuning.SameRarityChance+b.tuning.LowerRarityChance:
		if best > Common {
			return best - 1
		}
		return best
	default:
		if best < Mythical {
			return best + 1
		}
		return best
	}
}

func inheritStat(father, mother int, inheritance float64) int {
	return int(math.Floor(float64(father+mother) * inheritance))
}
