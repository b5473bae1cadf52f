package spider

import (
	"math"
	"time"
)

// The token generation engine. Two accrual models coexist, on purpose:
//
//   - Continuous: evaluated on demand per creature, tokens = power x rate x
//     hours since the last generation timestamp. Power already encodes
//     rarity strength, so no multiplier applies.
//   - Batch: the scheduled sweep credits each owner a flat per-creature
//     hourly rate scaled by the rarity multiplier, with an offline penalty.
//
// The two are not economically reconciled; they are invoked from different
// triggers (balance check vs. scheduled job) and deliberately kept as
// separately testable functions.

// GenerationEngine computes passive token accrual.
type GenerationEngine struct {
	tuning GenerationTuning
}

// NewGenerationEngine creates a generation engine.
func NewGenerationEngine(tuning GenerationTuning) GenerationEngine {
	return GenerationEngine{tuning: tuning}
}

// TokensGenerated is the continuous model: power x rate x elapsed hours
// since the creature's last generation, floored to 2 decimals. Hibernating
// and dead creatures generate nothing.
func (g GenerationEngine) TokensGenerated(c Creature, now time.Time) float64 {
	if c.IsHibernating || !c.IsAlive {
		return 0
	}
	hours := now.Sub(c.LastTokenGeneration).Hours()
	if hours <= 0 {
		return 0
	}
	tokens := float64(c.Power) * g.tuning.ContinuousRatePerPowerHour * hours
	return math.Floor(tokens*100) / 100
}

// GenerationCredit describes one owner's credit from a batch sweep. The
// engine emits credits; the caller applies them to balances, stamps the
// creatures, and records the ledger transaction.
type GenerationCredit struct {
	Owner     string
	Amount    float64
	Creatures []CreatureID
	Offline   bool
	Timestamp time.Time
}

// SweepGeneration is the batch model. For every owner it sums, over living
// non-hibernating creatures, the base hourly rate times the rarity
// multiplier. Owners inactive for more than 15 minutes are skipped unless
// includeOffline is set; when included they take the offline penalty and
// an additional scale of min(maxOfflineHours, hoursInactive) divided by
// the offline sweep cadence. Totals are rounded to the nearest integer and
// zero credits are dropped.
func (g GenerationEngine) SweepGeneration(players map[string]Player, creaturesByOwner map[string][]Creature, includeOffline bool, now time.Time) []GenerationCredit {
	credits := make([]GenerationCredit, 0, len(creaturesByOwner))

	for owner, creatures := range creaturesByOwner {
		player, ok := players[owner]
		if !ok {
			continue
		}
		offline := player.IsOffline(now)
		if offline && !includeOffline {
			continue
		}

		var total float64
		var touched []CreatureID
		for _, c := range creatures {
			if !c.IsAlive || c.IsHibernating {
				continue
			}
			accrual := g.tuning.BatchBaseRatePerHour * c.Rarity.GenerationMultiplier()
			if offline {
				accrual *= g.tuning.OfflinePenalty
				hoursInactive := math.Min(g.tuning.MaxOfflineHours, now.Sub(player.LastActivity).Hours())
				// The divisor is the sweep cadence in hours; the ratio
				// keeps offline accrual proportional to real elapsed time.
				accrual *= hoursInactive / g.tuning.OfflineSweepHours
			}
			total += accrual
			touched = append(touched, c.ID)
		}

		amount := math.Round(total)
		if amount <= 0 {
			continue
		}
		credits = append(credits, GenerationCredit{
			Owner:     owner,
			Amount:    amount,
			Creatures: touched,
			Offline:   offline,
			Timestamp: now,
		})
	}

	return credits
}
