package spider

import "time"

// Webtrap operations: a secondary passive-income unlock with a daily
// collection cooldown and a linear upgrade cost curve. Pure player
// transformations, same contract style as the creature actions.

// WebtrapEngine applies webtrap collection and upgrades.
type WebtrapEngine struct {
	tuning Tuning
}

// NewWebtrapEngine creates a webtrap engine.
func NewWebtrapEngine(tuning Tuning) WebtrapEngine {
	return WebtrapEngine{tuning: tuning}
}

// WebtrapReward is what one collection yields.
type WebtrapReward struct {
	Feeders int     `json:"feeders"`
	Tokens  float64 `json:"tokens"`
}

// Collect claims the webtrap reward: feeders and tokens scale linearly
// with the trap level. Rejects when the trap is locked or the cooldown has
// not elapsed since the last collection.
func (w WebtrapEngine) Collect(p Player, now time.Time) (Player, WebtrapReward, error) {
	if !p.Webtrap.IsUnlocked {
		return p, WebtrapReward{}, ErrWebtrapLocked
	}
	if now.Sub(p.Webtrap.LastCollection) < w.tuning.WebtrapCooldown() {
		return p, WebtrapReward{}, ErrCooldownActive
	}

	reward := WebtrapReward{
		Feeders: w.tuning.Webtrap.FeedersPerLevel * p.Webtrap.Level,
		Tokens:  w.tuning.Webtrap.TokensPerLevel * float64(p.Webtrap.Level),
	}
	p.Balance.Feeders += reward.Feeders
	p.Balance.Spider += reward.Tokens
	p.Webtrap.LastCollection = now
	return p, reward, nil
}

// Upgrade unlocks the webtrap on first call (for the unlock cost) and
// raises its level afterwards (for upgrade cost x current level). The
// balance is validated before any debit.
func (w WebtrapEngine) Upgrade(p Player) (Player, float64, error) {
	if !p.Webtrap.IsUnlocked {
		cost := w.tuning.Webtrap.UnlockCost
		if p.Balance.Spider < cost {
			return p, 0, insufficient("SPIDER", p.Balance.Spider, cost)
		}
		p.Balance.Spider -= cost
		p.Webtrap.IsUnlocked = true
		p.Webtrap.Level = 1
		return p, cost, nil
	}

	cost := w.tuning.Webtrap.UpgradeCostPerLevel * float64(p.Webtrap.Level)
	if p.Balance.Spider < cost {
		return p, 0, insufficient("SPIDER", p.Balance.Spider, cost)
	}
	p.Balance.Spider -= cost
	p.Webtrap.Level++
	return p, cost, nil
}
