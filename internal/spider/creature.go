package spider

import (
	"fmt"
	"math/rand"
	"time"
)

// CreatureID is a unique identifier for a creature.
type CreatureID string

// Gender of a creature. Breeding requires opposite genders.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Stats are the four combat attributes. Level-ups distribute each power
// roll across them, so their growth tracks power growth additively.
type Stats struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Agility int `json:"agility"`
	Luck    int `json:"luck"`
}

// Add returns the component-wise sum of two stat blocks.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Agility: s.Agility + o.Agility,
		Luck:    s.Luck + o.Luck,
	}
}

// Total returns attack+defense+agility+luck.
func (s Stats) Total() int {
	return s.Attack + s.Defense + s.Agility + s.Luck
}

// Condition is the vital gauge triplet. Each value lives in [0, 100].
// Hunger and hydration decay with wall-clock time; health only drops once
// both are exhausted (see ApplyDecay).
type Condition struct {
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	Hydration float64 `json:"hydration"`
}

// ParentRef points at the two creatures a bred creature came from.
// The creature does not own its parents; this is a lookup relation.
type ParentRef struct {
	Father CreatureID `json:"father"`
	Mother CreatureID `json:"mother"`
}

// DressType distinguishes the dress slots. A creature can wear at most one
// dress per type.
type DressType string

const (
	DressTypeBasic   DressType = "Basic"
	DressTypeShiny   DressType = "Shiny"
	DressTypeEffects DressType = "Effects"
)

// Dress is an equippable cosmetic that adds a rarity-dependent power bonus.
// Dresses live in the player's inventory and are referenced by ID.
type Dress struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Rarity DressRarity `json:"rarity"`
	Type   DressType   `json:"type"`
}

// maxEquippedDresses caps how many dresses a creature can wear at once.
const maxEquippedDresses = 3

// Creature is the collectible entity with progression and condition state.
type Creature struct {
	ID         CreatureID `json:"id"`
	Name       string     `json:"name"`
	Owner      string     `json:"owner"`
	Rarity     Rarity     `json:"rarity"`
	Genetics   Genetics   `json:"genetics"`
	Gender     Gender     `json:"gender"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	Power      int        `json:"power"`
	Stats      Stats      `json:"stats"`
	Condition  Condition  `json:"condition"`

	Generation int        `json:"generation"`
	Parents    *ParentRef `json:"parents,omitempty"`

	LastFed             time.Time `json:"last_fed"`
	LastHydrated        time.Time `json:"last_hydrated"`
	LastDecayed         time.Time `json:"last_decayed"`
	LastTokenGeneration time.Time `json:"last_token_generation"`

	IsHibernating bool     `json:"is_hibernating"`
	IsAlive       bool     `json:"is_alive"`
	IsListed      bool     `json:"is_listed"`
	Dresses       []string `json:"dresses,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCreature creates a level-1 creature with full condition gauges and a
// power roll drawn from the rarity's range. All timestamps start at now.
func NewCreature(name, owner string, rarity Rarity, genetics Genetics, gender Gender, rng *rand.Rand, now time.Time) Creature {
	return Creature{
		ID:                  CreatureID(NewID("spider")),
		Name:                name,
		Owner:               owner,
		Rarity:              rarity,
		Genetics:            genetics,
		Gender:              gender,
		Level:               1,
		Experience:          0,
		Power:               rollRange(rarity.PowerRange(), rng),
		Stats:               Stats{Attack: 10, Defense: 10, Agility: 10, Luck: 10},
		Condition:           Condition{Health: 100, Hunger: 100, Hydration: 100},
		Generation:          1,
		LastFed:             now,
		LastHydrated:        now,
		LastDecayed:         now,
		LastTokenGeneration: now,
		IsAlive:             true,
		CreatedAt:           now,
	}
}

// EffectivePower is the creature's power plus the bonuses of its equipped
// dresses, resolved against the owning player's inventory.
func (c Creature) EffectivePower(wardrobe map[string]Dress) int {
	power := c.Power
	for _, id := range c.Dresses {
		if d, ok := wardrobe[id]; ok {
			power += d.Rarity.PowerBonus()
		}
	}
	return power
}

// CheckInvariants reports data corruption that should never arise from the
// engine itself, such as a level above the rarity cap. Callers treat a
// non-nil result as a hard error, not a user-facing rejection.
func (c Creature) CheckInvariants() error {
	if c.Level < 1 || c.Level > c.Rarity.MaxLevel() {
		return &InvariantError{
			Creature: c.ID,
			Detail:   fmt.Sprintf("level %d outside 1..%d for rarity %s", c.Level, c.Rarity.MaxLevel(), c.Rarity),
		}
	}
	if c.Experience < 0 {
		return &InvariantError{Creature: c.ID, Detail: fmt.Sprintf("negative experience %d", c.Experience)}
	}
	return nil
}

// rollRange draws a uniform integer from an inclusive range.
func rollRange(r IntRange, rng *rand.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}
