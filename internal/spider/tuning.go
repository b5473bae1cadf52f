package spider

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tuning.yaml
var defaultTuningYAML []byte

// Tuning holds the balance knobs of the game economy. Values load from an
// embedded default document and can be overridden from a YAML file, so
// balance changes do not require a rebuild.
type Tuning struct {
	Decay      DecayTuning      `yaml:"decay"`
	Actions    ActionTuning     `yaml:"actions"`
	Generation GenerationTuning `yaml:"generation"`
	Breeding   BreedingTuning   `yaml:"breeding"`
	Webtrap    WebtrapTuning    `yaml:"webtrap"`
	Summon     SummonTuning     `yaml:"summon"`
}

// DecayTuning controls the condition decay engine.
type DecayTuning struct {
	// Percent of the gauge lost per minute. The default 0.0231 empties a
	// full gauge over 72 hours.
	HungerRatePerMinute    float64 `yaml:"hunger_rate_per_minute"`
	HydrationRatePerMinute float64 `yaml:"hydration_rate_per_minute"`
	HealthRatePerMinute    float64 `yaml:"health_rate_per_minute"`
}

// ActionTuning controls feed/hydrate/heal.
type ActionTuning struct {
	GaugeRestore float64 `yaml:"gauge_restore"`  // gauge points per action
	XPPerFeed    int     `yaml:"xp_per_feed"`    // flat XP per feed below the cap
	XPPerHydrate int     `yaml:"xp_per_hydrate"` // flat XP per hydration below the cap
	HealCost     float64 `yaml:"heal_cost"`      // SPIDER per heal
	HealRestore  float64 `yaml:"heal_restore"`   // health points per heal
}

// GenerationTuning controls both token accrual models.
type GenerationTuning struct {
	// Continuous model: tokens per power point per hour.
	ContinuousRatePerPowerHour float64 `yaml:"continuous_rate_per_power_hour"`
	// Batch model: base tokens per hour for a Common creature, scaled by
	// the rarity multiplier.
	BatchBaseRatePerHour float64 `yaml:"batch_base_rate_per_hour"`
	// Offline owners earn this fraction of the batch rate.
	OfflinePenalty float64 `yaml:"offline_penalty"`
	// Offline accrual is capped at this many hours of inactivity.
	MaxOfflineHours float64 `yaml:"max_offline_hours"`
	// Cadence of the include-offline sweep, in hours. The offline accrual
	// is scaled by hoursInactive/this, so the divisor must track the
	// scheduler cadence if it ever changes.
	OfflineSweepHours float64 `yaml:"offline_sweep_hours"`
}

// BreedingTuning controls the breeding resolver.
type BreedingTuning struct {
	BaseCost          float64 `yaml:"base_cost"`           // multiplied by mean parent rarity weight
	StatInheritance   float64 `yaml:"stat_inheritance"`    // offspring stat = floor((f+m) * this)
	ParentHealthTax   float64 `yaml:"parent_health_tax"`   // health lost by each parent
	ParentHungerTax   float64 `yaml:"parent_hunger_tax"`   // hunger lost by each parent
	MinParentHealth   float64 `yaml:"min_parent_health"`   // exclusive compatibility threshold
	MinParentHunger   float64 `yaml:"min_parent_hunger"`   // exclusive compatibility threshold
	SameRarityChance  float64 `yaml:"same_rarity_chance"`  // P(offspring keeps parent max rarity)
	LowerRarityChance float64 `yaml:"lower_rarity_chance"` // P(one tier lower); remainder goes one tier higher
}

// WebtrapTuning controls the secondary passive-income unlock.
type WebtrapTuning struct {
	UnlockCost          float64 `yaml:"unlock_cost"`
	UpgradeCostPerLevel float64 `yaml:"upgrade_cost_per_level"`
	FeedersPerLevel     int     `yaml:"feeders_per_level"`
	TokensPerLevel      float64 `yaml:"tokens_per_level"`
	CooldownHours       float64 `yaml:"cooldown_hours"`
}

// SummonTuning controls the summon rarity wheel and price.
type SummonTuning struct {
	Cost float64 `yaml:"cost"`
	// Cumulative-walk odds per tier; anything left over falls back to
	// Common.
	Odds map[string]float64 `yaml:"odds"`
}

// DefaultTuning returns the embedded default balance values.
func DefaultTuning() Tuning {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuningYAML, &t); err != nil {
		// The embedded document is part of the build; failing to parse it
		// is a programming error.
		panic(fmt.Sprintf("parsing embedded tuning defaults: %v", err))
	}
	return t
}

// LoadTuning reads a tuning override file on top of the defaults.
// Fields absent from the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("reading tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parsing tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate rejects tuning values that would break engine invariants.
func (t Tuning) Validate() error {
	if t.Decay.HungerRatePerMinute < 0 || t.Decay.HydrationRatePerMinute < 0 || t.Decay.HealthRatePerMinute < 0 {
		return fmt.Errorf("decay rates must be non-negative")
	}
	if t.Actions.GaugeRestore <= 0 {
		return fmt.Errorf("actions.gauge_restore must be positive")
	}
	if t.Generation.OfflineSweepHours <= 0 {
		return fmt.Errorf("generation.offline_sweep_hours must be positive")
	}
	if t.Breeding.SameRarityChance+t.Breeding.LowerRarityChance > 1 {
		return fmt.Errorf("breeding rarity chances exceed 1")
	}
	if t.Webtrap.CooldownHours <= 0 {
		return fmt.Errorf("webtrap.cooldown_hours must be positive")
	}
	return nil
}

// WebtrapCooldown returns the collection cooldown as a duration.
func (t Tuning) WebtrapCooldown() time.Duration {
	return time.Duration(t.Webtrap.CooldownHours * float64(time.Hour))
}
