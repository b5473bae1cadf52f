package spider

import (
	"math/rand"
	"time"
)

// Summoner rolls brand-new creatures against the tunable rarity odds.
type Summoner struct {
	tuning SummonTuning
	rng    *rand.Rand
}

// NewSummoner creates a summoner.
func NewSummoner(tuning SummonTuning, rng *rand.Rand) Summoner {
	return Summoner{tuning: tuning, rng: rng}
}

// summonOrder fixes the cumulative-walk order from rarest to commonest so
// the map-backed odds table resolves deterministically.
var summonOrder = []Rarity{Mythical, Legendary, Epic, Rare, Common}

// RollRarity draws a rarity from the odds table. The walk accumulates
// probabilities from the rarest tier down; any residual probability mass
// falls back to Common.
func (s Summoner) RollRarity() Rarity {
	roll := s.rng.Float64()
	cumulative := 0.0
	for _, r := range summonOrder {
		cumulative += s.tuning.Odds[r.String()]
		if roll < cumulative {
			return r
		}
	}
	return Common
}

// Cost returns the SPIDER price of one summon.
func (s Summoner) Cost() float64 {
	return s.tuning.Cost
}

// Summon creates a level-1 creature for the owner: rarity from the odds
// wheel, a random base genetics symbol, uniform gender, and a power roll in
// the rarity's range. The caller validates and debits the summon cost.
func (s Summoner) Summon(owner, name string, now time.Time) Creature {
	rarity := s.RollRarity()
	genetics := baseGenetics[s.rng.Intn(len(baseGenetics))]
	gender := Male
	if s.rng.Float64() < 0.5 {
		gender = Female
	}
	return NewCreature(name, owner, rarity, genetics, gender, s.rng, now)
}
