package spider

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// World is the in-memory store of players and creatures plus the command
// surface the server and sweeper call. It stands in for the storage
// collaborator: every command is a read-modify-write under the world lock,
// which gives the single-document atomicity the engines assume. The
// engines themselves stay pure; the world wires their results into
// balances, the ledger and the notification fan-out.
type World struct {
	mu sync.RWMutex

	tuning    Tuning
	players   map[string]Player
	creatures map[CreatureID]Creature
	byOwner   map[string][]CreatureID

	decay      DecayEngine
	actions    ActionEngine
	generation GenerationEngine
	breeding   BreedingResolver
	summoner   Summoner
	webtrap    WebtrapEngine

	ledger   *Ledger
	notifier *NotificationManager
	logger   Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewWorld creates a world with the given tuning and random source.
func NewWorld(tuning Tuning, rng *rand.Rand) *World {
	return &World{
		tuning:     tuning,
		players:    make(map[string]Player),
		creatures:  make(map[CreatureID]Creature),
		byOwner:    make(map[string][]CreatureID),
		decay:      NewDecayEngine(tuning.Decay),
		actions:    NewActionEngine(tuning, rng),
		generation: NewGenerationEngine(tuning.Generation),
		breeding:   NewBreedingResolver(tuning.Breeding, rng),
		summoner:   NewSummoner(tuning.Summon, rng),
		webtrap:    NewWebtrapEngine(tuning),
		ledger:     NewLedger(),
		logger:     NewNoOpLogger(),
		now:        time.Now,
	}
}

// SetLogger replaces the world's logger.
func (w *World) SetLogger(logger Logger) {
	w.logger = logger
}

// SetNotificationManager attaches the notification fan-out.
func (w *World) SetNotificationManager(nm *NotificationManager) {
	w.notifier = nm
}

// SetClock overrides the time source; for tests and the sim runner.
func (w *World) SetClock(now func() time.Time) {
	w.now = now
}

// Ledger returns the world's transaction log.
func (w *World) Ledger() *Ledger {
	return w.ledger
}

// Tuning returns the world's balance configuration.
func (w *World) Tuning() Tuning {
	return w.tuning
}

// --- player registry ---

// RegisterPlayer creates a player with the default starting balance.
// Fails if the wallet is already registered.
func (w *World) RegisterPlayer(wallet, name string) (Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.players[wallet]; exists {
		return Player{}, fmt.Errorf("player %s already registered", wallet)
	}
	p := NewPlayer(wallet, name, Balance{Spider: 1000, Feeders: 100}, w.now())
	w.players[wallet] = p
	w.logger.Infof("player registered: wallet=%s name=%s", wallet, name)
	return p, nil
}

// Player returns a player by wallet address.
func (w *World) Player(wallet string) (Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[wallet]
	return p, ok
}

// TouchActivity marks the player active now, for the offline
// classification of the generation sweep.
func (w *World) TouchActivity(wallet string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.players[wallet]; ok {
		p.LastActivity = w.now()
		w.players[wallet] = p
	}
}

// --- creature registry ---

// Creature returns a creature by ID, with decay caught up to now so
// readers never see stale gauges.
func (w *World) Creature(id CreatureID) (Creature, bool) {
	w.mu.RLock()
	c, ok := w.creatures[id]
	now := w.now()
	w.mu.RUnlock()
	if !ok {
		return Creature{}, false
	}
	return w.decay.ApplyDecay(c, now), true
}

// CreaturesOf returns the creatures owned by a wallet, decay caught up.
func (w *World) CreaturesOf(wallet string) []Creature {
	w.mu.RLock()
	defer w.mu.RUnlock()
	now := w.now()
	out := make([]Creature, 0, len(w.byOwner[wallet]))
	for _, id := range w.byOwner[wallet] {
		if c, ok := w.creatures[id]; ok {
			out = append(out, w.decay.ApplyDecay(c, now))
		}
	}
	return out
}

// insertCreature stores a new creature, indexes it by owner and emits the
// update event. Caller holds the lock.
func (w *World) insertCreature(c Creature) {
	w.creatures[c.ID] = c
	w.byOwner[c.Owner] = append(w.byOwner[c.Owner], c.ID)
	w.emit(GameEvent{Kind: EventCreatureUpdate, Wallet: c.Owner, Timestamp: w.now(), Creature: &c})
}

// storeCreature persists an updated creature and emits the update event.
// Caller holds the lock.
func (w *World) storeCreature(prev, next Creature) {
	w.creatures[next.ID] = next
	w.emit(GameEvent{Kind: EventCreatureUpdate, Wallet: next.Owner, Timestamp: w.now(), Creature: &next})
	if prev.IsAlive && !next.IsAlive {
		w.logger.Infof("creature died of neglect: id=%s name=%s owner=%s", next.ID, next.Name, next.Owner)
		w.emit(GameEvent{Kind: EventCreatureDeath, Wallet: next.Owner, Timestamp: w.now(), Creature: &next})
	}
}

// storePlayer persists an updated player and emits the update event.
// Caller holds the lock.
func (w *World) storePlayer(p Player) {
	w.players[p.WalletAddress] = p
	w.emit(GameEvent{Kind: EventPlayerUpdate, Wallet: p.WalletAddress, Timestamp: w.now(), Player: &p})
}

func (w *World) emit(event GameEvent) {
	if w.notifier != nil {
		w.notifier.Broadcast(event)
	}
}

func (w *World) record(tx Transaction) {
	w.ledger.Append(tx)
	w.emit(GameEvent{Kind: EventTransaction, Wallet: tx.UserID, Timestamp: tx.CreatedAt, Transaction: &tx})
}

// loadOwned fetches a creature and its owning player, verifying ownership.
// Caller holds the lock.
func (w *World) loadOwned(wallet string, id CreatureID) (Creature, Player, error) {
	c, ok := w.creatures[id]
	if !ok || c.Owner != wallet {
		return Creature{}, Player{}, fmt.Errorf("creature %s: %w", id, ErrNotFound)
	}
	p, ok := w.players[wallet]
	if !ok {
		return Creature{}, Player{}, fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}
	return c, p, nil
}

// --- creature commands ---

// FeedCreature catches the creature up on decay, applies the feed action,
// debits the player's feeders and persists both records.
func (w *World) FeedCreature(wallet string, id CreatureID) (Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, p, err := w.loadOwned(wallet, id)
	if err != nil {
		return Creature{}, err
	}
	now := w.now()
	caught := w.decay.ApplyDecay(c, now)

	fed, spent, err := w.actions.Feed(caught, p.Balance.Feeders, now)
	if err != nil {
		// Persist the decay catch-up even when the action is rejected.
		w.storeCreature(c, caught)
		return Creature{}, err
	}

	p.Balance.Feeders -= spent
	p.LastActivity = now
	w.storeCreature(c, fed)
	w.storePlayer(p)
	return fed, nil
}

// HydrateCreature is the hydration counterpart of FeedCreature.
func (w *World) HydrateCreature(wallet string, id CreatureID) (Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, p, err := w.loadOwned(wallet, id)
	if err != nil {
		return Creature{}, err
	}
	now := w.now()
	caught := w.decay.ApplyDecay(c, now)

	hydrated, spent, err := w.actions.Hydrate(caught, p.Balance.Feeders, now)
	if err != nil {
		w.storeCreature(c, caught)
		return Creature{}, err
	}

	p.Balance.Feeders -= spent
	p.LastActivity = now
	w.storeCreature(c, hydrated)
	w.storePlayer(p)
	return hydrated, nil
}

// HealCreature applies the heal action and debits the flat SPIDER cost.
func (w *World) HealCreature(wallet string, id CreatureID) (Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, p, err := w.loadOwned(wallet, id)
	if err != nil {
		return Creature{}, err
	}
	now := w.now()
	caught := w.decay.ApplyDecay(c, now)

	healed, spent, err := w.actions.Heal(caught, p.Balance.Spider)
	if err != nil {
		w.storeCreature(c, caught)
		return Creature{}, err
	}

	p.Balance.Spider -= spent
	p.LastActivity = now
	w.storeCreature(c, healed)
	w.storePlayer(p)
	w.record(NewTransaction(wallet, TxHeal, -spent, fmt.Sprintf("Healed %s", healed.Name), now))
	return healed, nil
}

// SummonCreature rolls a new creature for the summon cost.
func (w *World) SummonCreature(wallet, name string) (Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[wallet]
	if !ok {
		return Creature{}, fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}
	cost := w.summoner.Cost()
	if p.Balance.Spider < cost {
		return Creature{}, insufficient("SPIDER", p.Balance.Spider, cost)
	}

	now := w.now()
	if name == "" {
		name = fmt.Sprintf("Spider #%d", now.UnixMilli())
	}
	c := w.summoner.Summon(wallet, name, now)

	p.Balance.Spider -= cost
	p.LastActivity = now
	w.insertCreature(c)
	w.storePlayer(p)
	w.record(NewTransaction(wallet, TxSummon, -cost, fmt.Sprintf("Summoned %s (%s)", c.Name, c.Rarity), now))
	w.logger.Infof("creature summoned: id=%s rarity=%s owner=%s", c.ID, c.Rarity, wallet)
	return c, nil
}

// ListCreature puts a creature on the market hold; listed creatures refuse
// actions and breeding.
func (w *World) ListCreature(wallet string, id CreatureID) error {
	return w.setListed(wallet, id, true)
}

// DelistCreature releases the market hold.
func (w *World) DelistCreature(wallet string, id CreatureID) error {
	return w.setListed(wallet, id, false)
}

func (w *World) setListed(wallet string, id CreatureID, listed bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.loadOwned(wallet, id)
	if err != nil {
		return err
	}
	if !c.IsAlive {
		return ErrCreatureNotAlive
	}
	c.IsListed = listed
	w.storeCreature(c, c)
	return nil
}

// SetHibernating toggles hibernation, which suppresses token generation.
// Waking stamps LastTokenGeneration so the hibernation window never
// accrues retroactively.
func (w *World) SetHibernating(wallet string, id CreatureID, hibernating bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.loadOwned(wallet, id)
	if err != nil {
		return err
	}
	if !hibernating && c.IsHibernating {
		c.LastTokenGeneration = w.now()
	}
	c.IsHibernating = hibernating
	w.storeCreature(c, c)
	return nil
}

// TransferCreature moves ownership to another registered player. Listed
// creatures must be delisted first.
func (w *World) TransferCreature(fromWallet, toWallet string, id CreatureID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.loadOwned(fromWallet, id)
	if err != nil {
		return err
	}
	if _, ok := w.players[toWallet]; !ok {
		return fmt.Errorf("player %s: %w", toWallet, ErrNotFound)
	}
	if c.IsListed {
		return ErrCreatureListed
	}

	owned := w.byOwner[fromWallet]
	for i, ownedID := range owned {
		if ownedID == id {
			w.byOwner[fromWallet] = append(owned[:i], owned[i+1:]...)
			break
		}
	}
	c.Owner = toWallet
	w.byOwner[toWallet] = append(w.byOwner[toWallet], id)
	w.storeCreature(c, c)
	return nil
}

// --- dress commands ---

// GrantDress adds a dress to the player's inventory.
func (w *World) GrantDress(wallet string, d Dress) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[wallet]
	if !ok {
		return fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}
	if p.Dresses == nil {
		p.Dresses = make(map[string]Dress)
	}
	p.Dresses[d.ID] = d
	w.storePlayer(p)
	return nil
}

// EquipDress puts a dress from the player's inventory onto a creature.
// A creature wears at most three dresses and at most one per dress type.
func (w *World) EquipDress(wallet string, id CreatureID, dressID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, p, err := w.loadOwned(wallet, id)
	if err != nil {
		return err
	}
	dress, ok := p.Dresses[dressID]
	if !ok {
		return fmt.Errorf("dress %s: %w", dressID, ErrNotFound)
	}
	if len(c.Dresses) >= maxEquippedDresses {
		return fmt.Errorf("creature %s already wears %d dresses", id, maxEquippedDresses)
	}
	for _, equippedID := range c.Dresses {
		if equippedID == dressID {
			return fmt.Errorf("dress %s already equipped", dressID)
		}
		if equipped, ok := p.Dresses[equippedID]; ok && equipped.Type == dress.Type {
			return fmt.Errorf("creature %s already wears a %s dress", id, dress.Type)
		}
	}

	c.Dresses = append(c.Dresses, dressID)
	w.storeCreature(c, c)
	return nil
}

// --- breeding commands ---

// CheckBreedingCompatibility reports the pair's compatibility, the full
// reasons list for a refusal, and the breeding cost.
func (w *World) CheckBreedingCompatibility(idA, idB CreatureID) (bool, []string, float64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.creatures[idA]
	if !ok {
		return false, nil, 0, fmt.Errorf("creature %s: %w", idA, ErrNotFound)
	}
	b, ok := w.creatures[idB]
	if !ok {
		return false, nil, 0, fmt.Errorf("creature %s: %w", idB, ErrNotFound)
	}

	now := w.now()
	a = w.decay.ApplyDecay(a, now)
	b = w.decay.ApplyDecay(b, now)
	compatible, reasons := w.breeding.CheckCompatibility(a, b)
	return compatible, reasons, w.breeding.BreedingCost(a, b), nil
}

// BreedCreatures resolves an offspring from two of the player's creatures,
// debits the breeding cost and applies the parent condition tax.
func (w *World) BreedCreatures(wallet string, idA, idB CreatureID, name string) (Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, p, err := w.loadOwned(wallet, idA)
	if err != nil {
		return Creature{}, err
	}
	b, _, err := w.loadOwned(wallet, idB)
	if err != nil {
		return Creature{}, err
	}

	now := w.now()
	a = w.decay.ApplyDecay(a, now)
	b = w.decay.ApplyDecay(b, now)

	father, mother := a, b
	if father.Gender != Male {
		father, mother = b, a
	}

	cost := w.breeding.BreedingCost(father, mother)
	if p.Balance.Spider < cost {
		return Creature{}, insufficient("SPIDER", p.Balance.Spider, cost)
	}

	child, err := w.breeding.ResolveOffspring(father, mother, name, now)
	if err != nil {
		return Creature{}, err
	}

	father = w.breeding.ApplyParentTax(father)
	mother = w.breeding.ApplyParentTax(mother)
	p.Balance.Spider -= cost
	p.LastActivity = now

	w.insertCreature(child)
	w.storeCreature(a, father)
	w.storeCreature(b, mother)
	w.storePlayer(p)
	w.record(NewTransaction(wallet, TxBreeding, -cost, fmt.Sprintf("Bred %s from %s and %s", child.Name, father.Name, mother.Name), now))
	w.logger.Infof("creature bred: id=%s rarity=%s generation=%d owner=%s", child.ID, child.Rarity, child.Generation, wallet)
	return child, nil
}

// --- webtrap commands ---

// CollectWebtrap claims the daily webtrap reward.
func (w *World) CollectWebtrap(wallet string) (WebtrapReward, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[wallet]
	if !ok {
		return WebtrapReward{}, fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}
	now := w.now()
	updated, reward, err := w.webtrap.Collect(p, now)
	if err != nil {
		return WebtrapReward{}, err
	}
	updated.LastActivity = now
	w.storePlayer(updated)
	w.record(NewTransaction(wallet, TxWebtrap, reward.Tokens, fmt.Sprintf("Webtrap collection at level %d", updated.Webtrap.Level), now))
	return reward, nil
}

// UpgradeWebtrap unlocks or levels up the player's webtrap.
func (w *World) UpgradeWebtrap(wallet string) (Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[wallet]
	if !ok {
		return Player{}, fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}
	now := w.now()
	updated, cost, err := w.webtrap.Upgrade(p)
	if err != nil {
		return Player{}, err
	}
	updated.LastActivity = now
	w.storePlayer(updated)
	w.record(NewTransaction(wallet, TxWebtrap, -cost, fmt.Sprintf("Webtrap upgraded to level %d", updated.Webtrap.Level), now))
	return updated, nil
}

// --- generation commands ---

// CollectGeneration settles the continuous accrual model for one player:
// every living, non-hibernating creature contributes power x rate x hours
// since its last generation stamp. Credits the balance and resets the
// stamps.
func (w *World) CollectGeneration(wallet string) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[wallet]
	if !ok {
		return 0, fmt.Errorf("player %s: %w", wallet, ErrNotFound)
	}

	now := w.now()
	var total float64
	for _, id := range w.byOwner[wallet] {
		c, ok := w.creatures[id]
		if !ok {
			continue
		}
		tokens := w.generation.TokensGenerated(c, now)
		if tokens > 0 {
			total += tokens
			c.LastTokenGeneration = now
			w.creatures[id] = c
		}
	}

	if total > 0 {
		p.Balance.Spider += total
		w.record(NewTransaction(wallet, TxGeneration, total, fmt.Sprintf("Token accrual from %d spiders", len(w.byOwner[wallet])), now))
	}
	p.LastActivity = now
	w.storePlayer(p)
	return total, nil
}

// SweepTokenGeneration runs the batch accrual model over every owner and
// applies the resulting credits. Returns the credits for reporting.
func (w *World) SweepTokenGeneration(includeOffline bool) []GenerationCredit {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	byOwner := make(map[string][]Creature, len(w.byOwner))
	for owner, ids := range w.byOwner {
		for _, id := range ids {
			if c, ok := w.creatures[id]; ok {
				byOwner[owner] = append(byOwner[owner], c)
			}
		}
	}

	credits := w.generation.SweepGeneration(w.players, byOwner, includeOffline, now)
	for _, credit := range credits {
		p := w.players[credit.Owner]
		p.Balance.Spider += credit.Amount
		w.storePlayer(p)

		for _, id := range credit.Creatures {
			if c, ok := w.creatures[id]; ok {
				c.LastTokenGeneration = now
				w.creatures[id] = c
			}
		}

		mode := "active"
		if credit.Offline {
			mode = "offline"
		}
		w.record(NewTransaction(credit.Owner, TxGeneration, credit.Amount,
			fmt.Sprintf("Token generation from %d spiders (%s)", len(credit.Creatures), mode), now))
	}

	w.logger.Infof("generation sweep: include_offline=%t credits=%d", includeOffline, len(credits))
	return credits
}

// SweepConditionDecay catches every creature up on condition decay.
// Returns how many creatures were updated.
func (w *World) SweepConditionDecay() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	updated := 0
	for _, c := range w.creatures {
		next := w.decay.ApplyDecay(c, now)
		// ApplyDecay stamps LastDecayed whenever it changed anything.
		if next.LastDecayed.Equal(c.LastDecayed) {
			continue
		}
		w.storeCreature(c, next)
		updated++
	}
	w.logger.Infof("decay sweep: updated=%d", updated)
	return updated
}
