package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/webspin/spiderden/internal/spider"
)

// spiderden-sim runs the game economy offline under a simulated clock:
// it seeds a population of players and spiders, advances time through the
// decay and generation sweeps while players feed, hydrate and breed, then
// prints an economy summary and optionally dumps the transaction ledger.
func main() {
	var (
		players    = flag.Int("players", 10, "number of players to seed")
		perPlayer  = flag.Int("spiders-per-player", 3, "spiders summoned per player")
		days       = flag.Int("days", 7, "simulated days to run")
		seed       = flag.Int64("seed", 1, "random seed")
		activity   = flag.Float64("activity", 0.5, "probability a player tends their spiders each hour")
		ledgerOut  = flag.String("ledger-out", "", "path to write the transaction ledger CSV (optional)")
		tuningFile = flag.String("tuning-file", "", "path to a YAML tuning override file (optional)")
	)
	flag.Parse()

	tuning := spider.DefaultTuning()
	if *tuningFile != "" {
		var err error
		tuning, err = spider.LoadTuning(*tuningFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading tuning: %v\n", err)
			os.Exit(1)
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	world := spider.NewWorld(tuning, rng)

	// Drive the world on a simulated clock so a week runs in milliseconds.
	simTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	world.SetClock(func() time.Time { return simTime })

	wallets := seedWorld(world, rng, *players, *perPlayer)

	fmt.Printf("Simulating %d days: players=%d spiders=%d seed=%d\n",
		*days, *players, *players**perPlayer, *seed)

	hours := *days * 24
	for h := 0; h < hours; h++ {
		// Decay runs on the half hour, matching the scheduler cadence.
		simTime = simTime.Add(30 * time.Minute)
		world.SweepConditionDecay()
		simTime = simTime.Add(30 * time.Minute)
		world.SweepConditionDecay()

		for _, wallet := range wallets {
			if rng.Float64() < *activity {
				tendSpiders(world, wallet, rng)
			}
		}

		world.SweepTokenGeneration(false)
		if h%3 == 2 {
			world.SweepTokenGeneration(true)
		}
	}

	printSummary(world, *days)

	if *ledgerOut != "" {
		if err := world.Ledger().WriteFile(*ledgerOut); err != nil {
			fmt.Fprintf(os.Stderr, "error writing ledger: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ledger written to %s (%d transactions)\n", *ledgerOut, world.Ledger().Len())
	}
}

// seedWorld registers players and summons their starting spiders.
func seedWorld(world *spider.World, rng *rand.Rand, players, perPlayer int) []string {
	wallets := make([]string, 0, players)
	for i := 0; i < players; i++ {
		wallet := fmt.Sprintf("0xsim%04d", i)
		if _, err := world.RegisterPlayer(wallet, fmt.Sprintf("sim-player-%d", i)); err != nil {
			fmt.Fprintf(os.Stderr, "error seeding player: %v\n", err)
			os.Exit(1)
		}
		wallets = append(wallets, wallet)

		for j := 0; j < perPlayer; j++ {
			if _, err := world.SummonCreature(wallet, ""); err != nil {
				// Summons cost SPIDER; a player running out just keeps
				// fewer spiders.
				if errors.Is(err, spider.ErrInsufficientResources) {
					break
				}
				fmt.Fprintf(os.Stderr, "error summoning: %v\n", err)
				os.Exit(1)
			}
		}
	}
	return wallets
}

// tendSpiders plays one activity round for a player: top up the hungriest
// gauges, collect accrued tokens, and occasionally try to breed.
func tendSpiders(world *spider.World, wallet string, rng *rand.Rand) {
	creatures := world.CreaturesOf(wallet)

	for _, c := range creatures {
		if !c.IsAlive {
			continue
		}
		if c.Condition.Hunger < 80 {
			_, _ = world.FeedCreature(wallet, c.ID)
		}
		if c.Condition.Hydration < 80 {
			_, _ = world.HydrateCreature(wallet, c.ID)
		}
		if c.Condition.Health < 50 {
			_, _ = world.HealCreature(wallet, c.ID)
		}
	}

	_, _ = world.CollectGeneration(wallet)

	// Every so often, try to pair off two spiders.
	if rng.Float64() < 0.05 && len(creatures) >= 2 {
		a := creatures[rng.Intn(len(creatures))]
		b := creatures[rng.Intn(len(creatures))]
		if a.ID != b.ID {
			_, _ = world.BreedCreatures(wallet, a.ID, b.ID, "")
		}
	}
}

func printSummary(world *spider.World, days int) {
	stats := world.Stats()

	fmt.Printf("\nSimulation finished (%d days)\n", days)
	fmt.Printf("Players:          %d\n", stats.Players)
	fmt.Printf("Spiders:          %d (%d alive)\n", stats.Creatures, stats.AliveCreatures)
	fmt.Println("By rarity:")

	rarities := make([]string, 0, len(stats.ByRarity))
	for r := range stats.ByRarity {
		rarities = append(rarities, r)
	}
	sort.Strings(rarities)
	for _, r := range rarities {
		fmt.Printf("  %-10s %d\n", r, stats.ByRarity[r])
	}

	fmt.Printf("Mean power:       %.1f (stddev %.1f)\n", stats.MeanPower, stats.StdDevPower)
	fmt.Printf("Mean level:       %.1f\n", stats.MeanLevel)
	fmt.Printf("Total SPIDER:     %.2f\n", stats.TotalSpider)
	fmt.Printf("Total feeders:    %d\n", stats.TotalFeeders)
	fmt.Printf("Transactions:     %d\n", stats.Transactions)
	fmt.Printf("Tokens generated: %.2f (mean credit %.2f)\n", stats.TokensGenerated, stats.MeanCreditAmount)
}
