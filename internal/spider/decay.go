package spider

import "time"

// The condition decay engine. Decay is a pure function of (state, now): it
// advances the gauges from the creature's decay anchor, so re-running it
// against a refreshed record is safe and calling it twice with the same
// now is a no-op.
//
// Health policy: hunger and hydration decay independently over time, and
// health starts draining only once BOTH are fully exhausted. The
// alternative rule (health drains whenever either gauge is below a
// threshold) is intentionally not implemented; the engine and the
// scheduled sweep share this single policy.

// DecayEngine applies time-based condition decay.
type DecayEngine struct {
	tuning DecayTuning
}

// NewDecayEngine creates a decay engine with the given rates.
func NewDecayEngine(tuning DecayTuning) DecayEngine {
	return DecayEngine{tuning: tuning}
}

// decayBasis is the timestamp decay resumes from: the latest of the last
// feed, hydration and decay application.
func decayBasis(c Creature) time.Time {
	basis := c.LastFed
	if c.LastHydrated.After(basis) {
		basis = c.LastHydrated
	}
	if c.LastDecayed.After(basis) {
		basis = c.LastDecayed
	}
	return basis
}

// ApplyDecay returns the creature with its condition advanced to now.
// Gauges floor at 0; IsAlive tracks health > 0. Dead creatures and
// non-advancing timestamps pass through unchanged.
func (e DecayEngine) ApplyDecay(c Creature, now time.Time) Creature {
	if !c.IsAlive {
		return c
	}

	minutes := now.Sub(decayBasis(c)).Minutes()
	if minutes <= 0 {
		return c
	}

	hunger := clampGauge(c.Condition.Hunger - e.tuning.HungerRatePerMinute*minutes)
	hydration := clampGauge(c.Condition.Hydration - e.tuning.HydrationRatePerMinute*minutes)

	health := c.Condition.Health
	if hunger == 0 && hydration == 0 {
		// Health drains at its own rate, but only for the stretch of the
		// window with both gauges already empty. Draining over the whole
		// window would punish time the gauges spent above zero.
		hungerEmptyAfter := minutesToEmpty(c.Condition.Hunger, e.tuning.HungerRatePerMinute)
		hydrationEmptyAfter := minutesToEmpty(c.Condition.Hydration, e.tuning.HydrationRatePerMinute)
		bothEmptyAfter := max(hungerEmptyAfter, hydrationEmptyAfter)
		if starved := minutes - bothEmptyAfter; starved > 0 {
			health = clampGauge(health - e.tuning.HealthRatePerMinute*starved)
		}
	}

	c.Condition = Condition{Health: health, Hunger: hunger, Hydration: hydration}
	c.LastDecayed = now
	c.IsAlive = health > 0
	return c
}

// ApplyDecayBatch decays every creature independently. Order does not
// matter; each element depends only on its own prior state and now, so
// callers may shard the slice across goroutines.
func (e DecayEngine) ApplyDecayBatch(creatures []Creature, now time.Time) []Creature {
	out := make([]Creature, len(creatures))
	for i, c := range creatures {
		out[i] = e.ApplyDecay(c, now)
	}
	return out
}

// minutesToEmpty returns how many minutes a gauge at the given value takes
// to reach 0 at the given rate. Zero-rate gauges never empty.
func minutesToEmpty(value, ratePerMinute float64) float64 {
	if ratePerMinute <= 0 {
		return 1e18
	}
	if value <= 0 {
		return 0
	}
	return value / ratePerMinute
}

// clampGauge bounds a condition gauge to [0, 100].
func clampGauge(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
