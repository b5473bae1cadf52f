package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/webspin/spiderden/internal/spider"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr            string
	TuningFile      string
	SnapshotPath    string
	SnapshotEvery   time.Duration
	DecayEvery      time.Duration
	GenerationEvery time.Duration
	OfflineEvery    time.Duration
	WebhookURL      string
	LogLevel        string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// durationSetter parses a duration value with a fallback default.
func durationSetter(assign func(*ServerConfig, time.Duration), fallback time.Duration) func(*ServerConfig, string) {
	return func(c *ServerConfig, v string) {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Invalid duration %q, using default %s", v, fallback)
			d = fallback
		}
		assign(c, d)
	}
}

// loadServerConfig loads server configuration from CLI flags and environment variables.
// Uses a resolver pattern to make it easy to add new configuration options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "SPIDERDEN_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "tuning-file",
			envVarName:  "SPIDERDEN_TUNING_FILE",
			defaultVal:  "",
			description: "optional path to a YAML tuning file overriding the built-in balance values",
			setter:      func(c *ServerConfig, v string) { c.TuningFile = v },
		},
		{
			flagName:    "snapshot-path",
			envVarName:  "SPIDERDEN_SNAPSHOT_PATH",
			defaultVal:  "./data/world.json",
			description: "file where world snapshots are stored; empty disables snapshots",
			setter:      func(c *ServerConfig, v string) { c.SnapshotPath = v },
		},
		{
			flagName:    "snapshot-every",
			envVarName:  "SPIDERDEN_SNAPSHOT_EVERY",
			defaultVal:  "5m",
			description: "how often to write world snapshots",
			setter:      durationSetter(func(c *ServerConfig, d time.Duration) { c.SnapshotEvery = d }, 5*time.Minute),
		},
		{
			flagName:    "decay-every",
			envVarName:  "SPIDERDEN_DECAY_EVERY",
			defaultVal:  "30m",
			description: "cadence of the condition decay sweep",
			setter:      durationSetter(func(c *ServerConfig, d time.Duration) { c.DecayEvery = d }, 30*time.Minute),
		},
		{
			flagName:    "generation-every",
			envVarName:  "SPIDERDEN_GENERATION_EVERY",
			defaultVal:  "1h",
			description: "cadence of the active-player token generation sweep",
			setter:      durationSetter(func(c *ServerConfig, d time.Duration) { c.GenerationEvery = d }, time.Hour),
		},
		{
			flagName:    "offline-every",
			envVarName:  "SPIDERDEN_OFFLINE_EVERY",
			defaultVal:  "3h",
			description: "cadence of the offline-inclusive generation sweep; must match the tuning's offline_sweep_hours",
			setter:      durationSetter(func(c *ServerConfig, d time.Duration) { c.OfflineEvery = d }, 3*time.Hour),
		},
		{
			flagName:    "webhook-url",
			envVarName:  "SPIDERDEN_WEBHOOK_URL",
			defaultVal:  "",
			description: "optional webhook URL receiving game events",
			setter:      func(c *ServerConfig, v string) { c.WebhookURL = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "SPIDERDEN_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}

// loadTuning returns the built-in balance values, overridden from the
// given YAML file when one is configured.
func loadTuning(path string) (spider.Tuning, error) {
	if path == "" {
		return spider.DefaultTuning(), nil
	}
	return spider.LoadTuning(path)
}
