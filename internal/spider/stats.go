package spider

import (
	"gonum.org/v1/gonum/stat"
)

// EconomyStats is an aggregate picture of the world economy, reported by
// the stats endpoint and the sim runner summary.
type EconomyStats struct {
	Players        int            `json:"players"`
	Creatures      int            `json:"creatures"`
	AliveCreatures int            `json:"alive_creatures"`
	ByRarity       map[string]int `json:"by_rarity"`

	MeanPower   float64 `json:"mean_power"`
	StdDevPower float64 `json:"std_dev_power"`
	MeanLevel   float64 `json:"mean_level"`

	TotalSpider  float64 `json:"total_spider"`
	TotalFeeders int     `json:"total_feeders"`

	Transactions     int     `json:"transactions"`
	TokensGenerated  float64 `json:"tokens_generated"`
	MeanCreditAmount float64 `json:"mean_credit_amount"`
}

// Stats computes the current economy aggregates.
func (w *World) Stats() EconomyStats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := EconomyStats{
		Players:   len(w.players),
		Creatures: len(w.creatures),
		ByRarity:  make(map[string]int),
	}

	powers := make([]float64, 0, len(w.creatures))
	levels := make([]float64, 0, len(w.creatures))
	for _, c := range w.creatures {
		s.ByRarity[c.Rarity.String()]++
		if c.IsAlive {
			s.AliveCreatures++
		}
		powers = append(powers, float64(c.Power))
		levels = append(levels, float64(c.Level))
	}
	if len(powers) > 0 {
		s.MeanPower = stat.Mean(powers, nil)
		s.MeanLevel = stat.Mean(levels, nil)
	}
	if len(powers) > 1 {
		s.StdDevPower = stat.StdDev(powers, nil)
	}

	for _, p := range w.players {
		s.TotalSpider += p.Balance.Spider
		s.TotalFeeders += p.Balance.Feeders
	}

	var credits []float64
	for _, tx := range w.ledger.Records() {
		s.Transactions++
		if tx.Type == TxGeneration && tx.Amount > 0 {
			s.TokensGenerated += tx.Amount
			credits = append(credits, tx.Amount)
		}
	}
	if len(credits) > 0 {
		s.MeanCreditAmount = stat.Mean(credits, nil)
	}
	return s
}
