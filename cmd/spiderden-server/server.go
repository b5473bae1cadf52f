package main

import (
	"math/rand"
	"net/http"

	"github.com/webspin/spiderden/internal/spider"
	"github.com/webspin/spiderden/internal/spider/notifiers"
)

// spiderLoggerAdapter adapts the server's Logger to the spider.Logger interface
type spiderLoggerAdapter struct {
	logger *Logger
}

func (a *spiderLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *spiderLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *spiderLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *spiderLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}

// Server is the HTTP front of the game world: it owns the world store, the
// background sweeper and the notification fan-out.
type Server struct {
	world       *World
	sweeper     *spider.Sweeper
	notifierMgr *spider.NotificationManager
	wsNotifier  *notifiers.WebSocketNotifier
	logger      *Logger
}

// World aliases the game store so handler signatures stay short.
type World = spider.World

// NewServer wires a world, its sweeper and the notification channels from
// the resolved configuration.
func NewServer(cfg ServerConfig, tuning spider.Tuning, rng *rand.Rand, logger *Logger) *Server {
	gameLogger := &spiderLoggerAdapter{logger: logger}

	world := spider.NewWorld(tuning, rng)
	world.SetLogger(gameLogger)

	notifierMgr := spider.NewNotificationManagerWithLogger(gameLogger)
	world.SetNotificationManager(notifierMgr)

	wsNotifier := notifiers.NewWebSocketNotifier("ws-broadcast")
	if err := notifierMgr.Register(wsNotifier); err != nil {
		logger.Errorf("Failed to register websocket notifier: %v", err)
	}

	if cfg.WebhookURL != "" {
		wh := notifiers.NewWebhookNotifier("webhook", cfg.WebhookURL)
		if err := notifierMgr.Register(wh); err != nil {
			logger.Errorf("Failed to register webhook notifier: url=%s error=%v", cfg.WebhookURL, err)
		} else {
			logger.Infof("Webhook notifier registered: url=%s", cfg.WebhookURL)
		}
	}

	sweeper := spider.NewSweeper(world, spider.SweeperConfig{
		DecayEvery:        cfg.DecayEvery,
		GenerationEvery:   cfg.GenerationEvery,
		OfflineSweepEvery: cfg.OfflineEvery,
		SnapshotEvery:     cfg.SnapshotEvery,
		SnapshotPath:      cfg.SnapshotPath,
	}, gameLogger)

	return &Server{
		world:       world,
		sweeper:     sweeper,
		notifierMgr: notifierMgr,
		wsNotifier:  wsNotifier,
		logger:      logger,
	}
}

// Routes registers all HTTP handlers on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/players", s.handleRegisterPlayer)
	mux.HandleFunc("/players/", s.handlePlayerRoutes)
	mux.HandleFunc("/creatures/", s.handleCreatureRoutes)
	mux.HandleFunc("/breeding/compatibility", s.handleCompatibility)
	mux.HandleFunc("/breeding/breed", s.handleBreed)
	mux.HandleFunc("/sweep/decay", s.handleSweepDecay)
	mux.HandleFunc("/sweep/generation", s.handleSweepGeneration)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/ledger.csv", s.handleLedgerCSV)
	mux.HandleFunc("/ws", s.handleWebSocket)
}

// Close shuts down the sweeper and notification channels.
func (s *Server) Close() {
	s.sweeper.Stop()
	if err := s.notifierMgr.Close(); err != nil {
		s.logger.Errorf("Failed to close notification manager: %v", err)
	}
}
