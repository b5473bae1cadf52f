package spider

import "time"

// Balance holds the two player currencies: the tradeable SPIDER token and
// the consumable feeder resource. Debits must validate sufficiency first;
// neither value ever goes negative.
type Balance struct {
	Spider  float64 `json:"spider"`
	Feeders int     `json:"feeders"`
}

// Webtrap is the secondary passive-income unlock. It can be collected once
// per 24 hours and upgraded for an increasing cost.
type Webtrap struct {
	IsUnlocked     bool      `json:"is_unlocked"`
	Level          int       `json:"level"`
	LastCollection time.Time `json:"last_collection"`
}

// Player owns creatures (by ID, through the world's owner index) and a
// dress inventory. The wallet address is the primary external identity.
type Player struct {
	WalletAddress string           `json:"wallet_address"`
	Name          string           `json:"name"`
	Balance       Balance          `json:"balance"`
	Webtrap       Webtrap          `json:"webtrap"`
	Dresses       map[string]Dress `json:"dresses,omitempty"`
	LastActivity  time.Time        `json:"last_activity"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewPlayer creates a player with the given starting balance.
func NewPlayer(wallet, name string, starting Balance, now time.Time) Player {
	return Player{
		WalletAddress: wallet,
		Name:          name,
		Balance:       starting,
		Webtrap:       Webtrap{},
		Dresses:       make(map[string]Dress),
		LastActivity:  now,
		CreatedAt:     now,
	}
}

// offlineAfter is how long without activity a player counts as offline for
// the batch generation sweep.
const offlineAfter = 15 * time.Minute

// IsOffline reports whether the player has been inactive long enough to
// receive the offline generation penalty.
func (p Player) IsOffline(now time.Time) bool {
	return now.Sub(p.LastActivity) > offlineAfter
}
