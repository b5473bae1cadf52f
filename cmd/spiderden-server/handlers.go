package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/webspin/spiderden/internal/spider"
)

// extractPathID extracts the ID from a path like "/{prefix}/{id}/..."
// Returns the ID and the remaining path, or empty strings if not found
func extractPathID(path, prefix string) (string, string) {
	if !strings.HasPrefix(path, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(path, prefix)

	idx := strings.Index(rest, "/")
	if idx == -1 {
		// No more path segments, the whole thing is the ID
		return rest, ""
	}
	return rest[:idx], rest[idx:]
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// writeGameError maps game rejections to HTTP statuses: missing records are
// 404, invariant corruption is 500, every other refusal (cost, cooldown,
// compatibility, market hold) is a plain 400 with the message.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	var invErr *spider.InvariantError
	switch {
	case errors.Is(err, spider.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &invErr):
		s.logger.Errorf("Invariant violation: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /players
// Body: { "wallet": "...", "name": "..." }
type registerPlayerRequest struct {
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
}

func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req registerPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Wallet == "" {
		http.Error(w, "wallet is required", http.StatusBadRequest)
		return
	}

	p, err := s.world.RegisterPlayer(req.Wallet, req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.logger.Infof("Player registered: wallet=%s", req.Wallet)
	writeJSON(w, p)
}

// handlePlayerRoutes routes requests like /players/{wallet}/...
func (s *Server) handlePlayerRoutes(w http.ResponseWriter, r *http.Request) {
	wallet, remainingPath := extractPathID(r.URL.Path, "/players/")
	if wallet == "" {
		http.Error(w, "wallet is required in path: /players/{wallet}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodGet:
		s.handleGetPlayer(w, r, wallet)
	case remainingPath == "/creatures" && r.Method == http.MethodGet:
		s.handleListCreatures(w, r, wallet)
	case remainingPath == "/summon" && r.Method == http.MethodPost:
		s.handleSummon(w, r, wallet)
	case remainingPath == "/webtrap/collect" && r.Method == http.MethodPost:
		s.handleWebtrapCollect(w, r, wallet)
	case remainingPath == "/webtrap/upgrade" && r.Method == http.MethodPost:
		s.handleWebtrapUpgrade(w, r, wallet)
	case remainingPath == "/generation/collect" && r.Method == http.MethodPost:
		s.handleGenerationCollect(w, r, wallet)
	case remainingPath == "/transactions" && r.Method == http.MethodGet:
		s.handleListTransactions(w, r, wallet)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /players/{wallet}
func (s *Server) handleGetPlayer(w http.ResponseWriter, _ *http.Request, wallet string) {
	p, ok := s.world.Player(wallet)
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

// GET /players/{wallet}/creatures
func (s *Server) handleListCreatures(w http.ResponseWriter, _ *http.Request, wallet string) {
	if _, ok := s.world.Player(wallet); !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s.world.CreaturesOf(wallet))
}

// POST /players/{wallet}/summon
// Body: { "name": "..." } (name optional)
func (s *Server) handleSummon(w http.ResponseWriter, r *http.Request, wallet string) {
	defer r.Body.Close()

	var req struct {
		Name string `json:"name"`
	}
	// An empty body is fine, the summon names the creature itself.
	_ = json.NewDecoder(r.Body).Decode(&req)

	c, err := s.world.SummonCreature(wallet, req.Name)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.logger.Infof("Creature summoned: id=%s rarity=%s wallet=%s", c.ID, c.Rarity, wallet)
	writeJSON(w, c)
}

// POST /players/{wallet}/webtrap/collect
func (s *Server) handleWebtrapCollect(w http.ResponseWriter, _ *http.Request, wallet string) {
	reward, err := s.world.CollectWebtrap(wallet)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, reward)
}

// POST /players/{wallet}/webtrap/upgrade
func (s *Server) handleWebtrapUpgrade(w http.ResponseWriter, _ *http.Request, wallet string) {
	p, err := s.world.UpgradeWebtrap(wallet)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, p)
}

// POST /players/{wallet}/generation/collect
// Settles the continuous token accrual for all the player's creatures
func (s *Server) handleGenerationCollect(w http.ResponseWriter, _ *http.Request, wallet string) {
	total, err := s.world.CollectGeneration(wallet)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]float64{"collected": total})
}

// GET /players/{wallet}/transactions
func (s *Server) handleListTransactions(w http.ResponseWriter, _ *http.Request, wallet string) {
	if _, ok := s.world.Player(wallet); !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s.world.Ledger().RecordsFor(wallet))
}

// creatureActionRequest carries the acting wallet for creature commands
type creatureActionRequest struct {
	Wallet      string `json:"wallet"`
	Hibernating bool   `json:"hibernating"`
}

// handleCreatureRoutes routes requests like /creatures/{id}/...
func (s *Server) handleCreatureRoutes(w http.ResponseWriter, r *http.Request) {
	id, remainingPath := extractPathID(r.URL.Path, "/creatures/")
	if id == "" {
		http.Error(w, "creature ID is required in path: /creatures/{id}/...", http.StatusBadRequest)
		return
	}
	creatureID := spider.CreatureID(id)

	if remainingPath == "" && r.Method == http.MethodGet {
		c, ok := s.world.Creature(creatureID)
		if !ok {
			http.Error(w, "creature not found", http.StatusNotFound)
			return
		}
		writeJSON(w, c)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req creatureActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Wallet == "" {
		http.Error(w, "wallet is required", http.StatusBadRequest)
		return
	}

	switch remainingPath {
	case "/feed":
		c, err := s.world.FeedCreature(req.Wallet, creatureID)
		if err != nil {
			s.writeGameError(w, err)
			return
		}
		writeJSON(w, c)
	case "/hydrate":
		c, err := s.world.HydrateCreature(req.Wallet, creatureID)
		if err != nil {
			s.writeGameError(w, err)
			return
		}
		writeJSON(w, c)
	case "/heal":
		c, err := s.world.HealCreature(req.Wallet, creatureID)
		if err != nil {
			s.writeGameError(w, err)
			return
		}
		writeJSON(w, c)
	case "/list":
		if err := s.world.ListCreature(req.Wallet, creatureID); err != nil {
			s.writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("listed"))
	case "/delist":
		if err := s.world.DelistCreature(req.Wallet, creatureID); err != nil {
			s.writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("delisted"))
	case "/hibernate":
		if err := s.world.SetHibernating(req.Wallet, creatureID, req.Hibernating); err != nil {
			s.writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /breeding/compatibility?a={id}&b={id}
type compatibilityResponse struct {
	Compatible bool     `json:"compatible"`
	Reasons    []string `json:"reasons,omitempty"`
	Cost       float64  `json:"cost"`
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		http.Error(w, "query params a and b are required", http.StatusBadRequest)
		return
	}

	compatible, reasons, cost, err := s.world.CheckBreedingCompatibility(spider.CreatureID(a), spider.CreatureID(b))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, compatibilityResponse{Compatible: compatible, Reasons: reasons, Cost: cost})
}

// POST /breeding/breed
// Body: { "wallet": "...", "parent_a": "...", "parent_b": "...", "name": "..." }
type breedRequest struct {
	Wallet  string `json:"wallet"`
	ParentA string `json:"parent_a"`
	ParentB string `json:"parent_b"`
	Name    string `json:"name"`
}

func (s *Server) handleBreed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req breedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Wallet == "" || req.ParentA == "" || req.ParentB == "" {
		http.Error(w, "wallet, parent_a and parent_b are required", http.StatusBadRequest)
		return
	}

	child, err := s.world.BreedCreatures(req.Wallet, spider.CreatureID(req.ParentA), spider.CreatureID(req.ParentB), req.Name)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.logger.Infof("Creature bred: id=%s generation=%d wallet=%s", child.ID, child.Generation, req.Wallet)
	writeJSON(w, child)
}

// POST /sweep/decay
// Manually trigger a condition decay sweep (the sweeper also runs this on a timer)
func (s *Server) handleSweepDecay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	updated := s.world.SweepConditionDecay()
	writeJSON(w, map[string]int{"updated": updated})
}

// POST /sweep/generation?include_offline=true
// Manually trigger a token generation sweep
func (s *Server) handleSweepGeneration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	includeOffline := r.URL.Query().Get("include_offline") == "true"
	credits := s.world.SweepTokenGeneration(includeOffline)
	writeJSON(w, credits)
}

// GET /stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.world.Stats())
}

// GET /ledger.csv
// Full transaction log as CSV
func (s *Server) handleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	if err := s.world.Ledger().ExportCSV(w); err != nil {
		s.logger.Errorf("Failed to export ledger: %v", err)
	}
}

// GET /ws
// Upgrades to a WebSocket connection receiving game events
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	s.wsNotifier.RegisterClient(conn)
	s.logger.Debugf("WebSocket client connected: remote=%s", conn.RemoteAddr())

	// Drain the read side so we notice client disconnects.
	go func() {
		defer s.wsNotifier.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
