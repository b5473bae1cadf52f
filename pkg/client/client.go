// Package client is a small Go client for the spiderden server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/webspin/spiderden/internal/spider"
)

// Client talks to a spiderden server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client, for custom timeouts
// or transports.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// do sends a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// walletBody is the request body shared by creature commands.
type walletBody struct {
	Wallet      string `json:"wallet"`
	Hibernating bool   `json:"hibernating,omitempty"`
}

// RegisterPlayer creates a player for the given wallet.
func (c *Client) RegisterPlayer(ctx context.Context, wallet, name string) (spider.Player, error) {
	var p spider.Player
	err := c.do(ctx, http.MethodPost, "/players", map[string]string{"wallet": wallet, "name": name}, &p)
	return p, err
}

// Player fetches a player by wallet address.
func (c *Client) Player(ctx context.Context, wallet string) (spider.Player, error) {
	var p spider.Player
	err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(wallet), nil, &p)
	return p, err
}

// Creatures fetches all creatures owned by a wallet.
func (c *Client) Creatures(ctx context.Context, wallet string) ([]spider.Creature, error) {
	var out []spider.Creature
	err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(wallet)+"/creatures", nil, &out)
	return out, err
}

// Creature fetches a single creature by ID.
func (c *Client) Creature(ctx context.Context, id spider.CreatureID) (spider.Creature, error) {
	var out spider.Creature
	err := c.do(ctx, http.MethodGet, "/creatures/"+url.PathEscape(string(id)), nil, &out)
	return out, err
}

// Summon rolls a new creature for the wallet. An empty name lets the
// server pick one.
func (c *Client) Summon(ctx context.Context, wallet, name string) (spider.Creature, error) {
	var out spider.Creature
	err := c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(wallet)+"/summon", map[string]string{"name": name}, &out)
	return out, err
}

// Feed feeds a creature, restoring hunger and granting experience.
func (c *Client) Feed(ctx context.Context, wallet string, id spider.CreatureID) (spider.Creature, error) {
	return c.creatureAction(ctx, wallet, id, "feed")
}

// Hydrate hydrates a creature, restoring hydration and granting experience.
func (c *Client) Hydrate(ctx context.Context, wallet string, id spider.CreatureID) (spider.Creature, error) {
	return c.creatureAction(ctx, wallet, id, "hydrate")
}

// Heal restores a creature's health for a flat SPIDER cost.
func (c *Client) Heal(ctx context.Context, wallet string, id spider.CreatureID) (spider.Creature, error) {
	return c.creatureAction(ctx, wallet, id, "heal")
}

func (c *Client) creatureAction(ctx context.Context, wallet string, id spider.CreatureID, action string) (spider.Creature, error) {
	var out spider.Creature
	path := "/creatures/" + url.PathEscape(string(id)) + "/" + action
	err := c.do(ctx, http.MethodPost, path, walletBody{Wallet: wallet}, &out)
	return out, err
}

// List puts a creature on the market hold.
func (c *Client) List(ctx context.Context, wallet string, id spider.CreatureID) error {
	path := "/creatures/" + url.PathEscape(string(id)) + "/list"
	return c.do(ctx, http.MethodPost, path, walletBody{Wallet: wallet}, nil)
}

// Delist releases a creature's market hold.
func (c *Client) Delist(ctx context.Context, wallet string, id spider.CreatureID) error {
	path := "/creatures/" + url.PathEscape(string(id)) + "/delist"
	return c.do(ctx, http.MethodPost, path, walletBody{Wallet: wallet}, nil)
}

// SetHibernating toggles a creature's hibernation state.
func (c *Client) SetHibernating(ctx context.Context, wallet string, id spider.CreatureID, hibernating bool) error {
	path := "/creatures/" + url.PathEscape(string(id)) + "/hibernate"
	return c.do(ctx, http.MethodPost, path, walletBody{Wallet: wallet, Hibernating: hibernating}, nil)
}

// Compatibility is the server's answer to a breeding compatibility check.
type Compatibility struct {
	Compatible bool     `json:"compatible"`
	Reasons    []string `json:"reasons,omitempty"`
	Cost       float64  `json:"cost"`
}

// CheckCompatibility asks whether two creatures can breed and what it
// would cost.
func (c *Client) CheckCompatibility(ctx context.Context, a, b spider.CreatureID) (Compatibility, error) {
	var out Compatibility
	path := "/breeding/compatibility?a=" + url.QueryEscape(string(a)) + "&b=" + url.QueryEscape(string(b))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Breed breeds two of the wallet's creatures and returns the offspring.
func (c *Client) Breed(ctx context.Context, wallet string, a, b spider.CreatureID, name string) (spider.Creature, error) {
	var out spider.Creature
	body := map[string]string{
		"wallet":   wallet,
		"parent_a": string(a),
		"parent_b": string(b),
		"name":     name,
	}
	err := c.do(ctx, http.MethodPost, "/breeding/breed", body, &out)
	return out, err
}

// CollectWebtrap claims the wallet's webtrap reward.
func (c *Client) CollectWebtrap(ctx context.Context, wallet string) (spider.WebtrapReward, error) {
	var out spider.WebtrapReward
	err := c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(wallet)+"/webtrap/collect", nil, &out)
	return out, err
}

// UpgradeWebtrap unlocks or levels up the wallet's webtrap.
func (c *Client) UpgradeWebtrap(ctx context.Context, wallet string) (spider.Player, error) {
	var out spider.Player
	err := c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(wallet)+"/webtrap/upgrade", nil, &out)
	return out, err
}

// CollectGeneration settles the wallet's accrued generation tokens and
// returns the amount credited.
func (c *Client) CollectGeneration(ctx context.Context, wallet string) (float64, error) {
	var out map[string]float64
	err := c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(wallet)+"/generation/collect", nil, &out)
	return out["collected"], err
}

// Transactions fetches the wallet's transaction history.
func (c *Client) Transactions(ctx context.Context, wallet string) ([]spider.Transaction, error) {
	var out []spider.Transaction
	err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(wallet)+"/transactions", nil, &out)
	return out, err
}

// Stats fetches the world economy aggregates.
func (c *Client) Stats(ctx context.Context) (spider.EconomyStats, error) {
	var out spider.EconomyStats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
