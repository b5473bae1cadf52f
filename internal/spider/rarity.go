package spider

import "fmt"

// Rarity is the tier of a creature. Tiers are ordered: Common is the
// lowest, Mythical the highest.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
	Mythical
)

var rarityNames = [...]string{"Common", "Rare", "Epic", "Legendary", "Mythical"}

// String returns the display name of the rarity.
func (r Rarity) String() string {
	if r < Common || r > Mythical {
		return "Unknown"
	}
	return rarityNames[r]
}

// ParseRarity converts a display name back into a Rarity.
// Returns an error for unknown names.
func ParseRarity(name string) (Rarity, error) {
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i), nil
		}
	}
	return Common, fmt.Errorf("unknown rarity: %q", name)
}

// Weight returns the 1..5 ordinal rank of the rarity, used for breeding
// cost computation.
func (r Rarity) Weight() int {
	return int(r) + 1
}

// MarshalText implements encoding.TextMarshaler so rarities serialize as
// their display names in JSON snapshots and events.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// rarityInfo holds the per-tier table entries.
type rarityInfo struct {
	maxLevel      int
	powerRange    IntRange
	statRange     IntRange
	batchMultiple float64
}

// The per-rarity table: level cap, power roll range on level-up, per-level
// combat stat increase range, and the batch generation multiplier.
var rarityTable = map[Rarity]rarityInfo{
	Common:    {maxLevel: 25, powerRange: IntRange{18, 33}, statRange: IntRange{1, 2}, batchMultiple: 1},
	Rare:      {maxLevel: 55, powerRange: IntRange{46, 60}, statRange: IntRange{3, 4}, batchMultiple: 1.5},
	Epic:      {maxLevel: 70, powerRange: IntRange{61, 90}, statRange: IntRange{4, 6}, batchMultiple: 2.5},
	Legendary: {maxLevel: 80, powerRange: IntRange{91, 150}, statRange: IntRange{6, 8}, batchMultiple: 4},
	Mythical:  {maxLevel: 100, powerRange: IntRange{151, 300}, statRange: IntRange{8, 12}, batchMultiple: 6},
}

// MaxLevel returns the level cap for the rarity.
func (r Rarity) MaxLevel() int {
	return rarityTable[r].maxLevel
}

// PowerRange returns the inclusive range a power roll on level-up is drawn
// from.
func (r Rarity) PowerRange() IntRange {
	return rarityTable[r].powerRange
}

// StatIncreaseRange returns the inclusive per-level combat stat increase
// range.
func (r Rarity) StatIncreaseRange() IntRange {
	return rarityTable[r].statRange
}

// GenerationMultiplier returns the rarity multiplier used by the scheduled
// batch token generation model.
func (r Rarity) GenerationMultiplier() float64 {
	return rarityTable[r].batchMultiple
}

// DressRarity is the tier of a dress. Dresses use a wider ladder than
// creatures: Excellent sits between Common and Rare, and Special is a
// promotional tier above Mythical.
type DressRarity int

const (
	DressCommon DressRarity = iota
	DressExcellent
	DressRare
	DressEpic
	DressLegendary
	DressMythical
	DressSpecial
)

var dressRarityNames = [...]string{"Common", "Excellent", "Rare", "Epic", "Legendary", "Mythical", "Special"}

func (d DressRarity) String() string {
	if d < DressCommon || d > DressSpecial {
		return "Unknown"
	}
	return dressRarityNames[d]
}

var dressPowerBonus = map[DressRarity]int{
	DressCommon:    25,
	DressExcellent: 35,
	DressRare:      55,
	DressEpic:      70,
	DressLegendary: 80,
	DressMythical:  100,
	DressSpecial:   500,
}

// PowerBonus returns the effective power added by an equipped dress of this
// rarity.
func (d DressRarity) PowerBonus() int {
	return dressPowerBonus[d]
}
