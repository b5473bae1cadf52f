package spider

import (
	"sync"
	"time"
)

// Sweeper drives the scheduled game mechanics the original ran as cron
// jobs: the condition decay sweep, the active-player generation sweep, the
// offline-inclusive generation sweep, and the periodic snapshot. Each
// cadence is tunable; the offline sweep interval must stay in step with
// Tuning.Generation.OfflineSweepHours, since the offline accrual divides
// by that figure.
type Sweeper struct {
	world  *World
	logger Logger

	decayEvery        time.Duration
	generationEvery   time.Duration
	offlineSweepEvery time.Duration
	snapshotEvery     time.Duration
	snapshotPath      string

	mu        sync.Mutex
	stopCh    chan struct{}
	wg        sync.WaitGroup
	isRunning bool
}

// SweeperConfig holds the sweep cadences. Zero durations disable the
// corresponding loop.
type SweeperConfig struct {
	DecayEvery        time.Duration
	GenerationEvery   time.Duration
	OfflineSweepEvery time.Duration
	SnapshotEvery     time.Duration
	SnapshotPath      string
}

// DefaultSweeperConfig mirrors the original cron schedule: decay every 30
// minutes, active generation hourly, offline generation every 3 hours.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		DecayEvery:        30 * time.Minute,
		GenerationEvery:   time.Hour,
		OfflineSweepEvery: 3 * time.Hour,
	}
}

// NewSweeper creates a sweeper over the given world.
func NewSweeper(world *World, cfg SweeperConfig, logger Logger) *Sweeper {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &Sweeper{
		world:             world,
		logger:            logger,
		decayEvery:        cfg.DecayEvery,
		generationEvery:   cfg.GenerationEvery,
		offlineSweepEvery: cfg.OfflineSweepEvery,
		snapshotEvery:     cfg.SnapshotEvery,
		snapshotPath:      cfg.SnapshotPath,
	}
}

// Run starts the sweep loops. Calling Run on a running sweeper is a no-op.
func (s *Sweeper) Run() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopCh = make(chan struct{})

	s.startLoop(s.decayEvery, func() {
		s.world.SweepConditionDecay()
	})
	s.startLoop(s.generationEvery, func() {
		s.world.SweepTokenGeneration(false)
	})
	s.startLoop(s.offlineSweepEvery, func() {
		s.world.SweepTokenGeneration(true)
	})
	if s.snapshotPath != "" {
		s.startLoop(s.snapshotEvery, func() {
			if err := s.world.SaveSnapshot(s.snapshotPath); err != nil {
				s.logger.Errorf("snapshot save failed: path=%s error=%v", s.snapshotPath, err)
			}
		})
	}
	s.logger.Infof("sweeper started: decay=%s generation=%s offline=%s", s.decayEvery, s.generationEvery, s.offlineSweepEvery)
}

// startLoop runs fn on the given cadence until Stop. Caller holds the
// sweeper lock; a zero interval disables the loop.
func (s *Sweeper) startLoop(every time.Duration, fn func()) {
	if every <= 0 {
		return
	}
	stopCh := s.stopCh
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Stop halts all loops and waits for them to exit. After stopping, Run can
// be called again.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}
