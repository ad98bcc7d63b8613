// Package config loads peer and relay settings from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Peer holds settings for the peer binary.
type Peer struct {
	Transport          string
	RelayURL           string
	NATSURL            string
	ShareBase          string
	PingInterval       time.Duration
	RefreshInterval    time.Duration
	MaxPredictedFrames int
	LatencyDecay       float64
}

// Relay holds settings for the relay server binary.
type Relay struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// NewPeerFromEnv reads NETPLAY_* environment variables (with defaults).
func NewPeerFromEnv() Peer {
	return Peer{
		Transport:          getEnv("NETPLAY_TRANSPORT", "ws"),
		RelayURL:           getEnv("NETPLAY_RELAY_URL", "ws://localhost:8080"),
		NATSURL:            getEnv("NETPLAY_NATS_URL", "nats://localhost:4222"),
		ShareBase:          getEnv("NETPLAY_SHARE_BASE", "http://localhost:8080"),
		PingInterval:       getEnvAsDuration("NETPLAY_PING_INTERVAL", time.Second),
		RefreshInterval:    getEnvAsDuration("NETPLAY_REFRESH_INTERVAL", 0),
		MaxPredictedFrames: getEnvAsInt("NETPLAY_MAX_PREDICTED_FRAMES", 8),
		LatencyDecay:       getEnvAsFloat("NETPLAY_LATENCY_DECAY", 0),
	}
}

// NewRelayFromEnv reads NETPLAY_RELAY_* environment variables (with defaults).
func NewRelayFromEnv() Relay {
	return Relay{
		Addr:           getEnv("NETPLAY_RELAY_ADDR", ":8080"),
		AllowedOrigins: []string{getEnv("NETPLAY_RELAY_ORIGIN", "*")},
	}
}

// peerFile mirrors Peer with string durations, since YAML has no
// native duration scalar.
type peerFile struct {
	Transport          string  `yaml:"transport"`
	RelayURL           string  `yaml:"relay_url"`
	NATSURL            string  `yaml:"nats_url"`
	ShareBase          string  `yaml:"share_base"`
	PingInterval       string  `yaml:"ping_interval"`
	RefreshInterval    string  `yaml:"refresh_interval"`
	MaxPredictedFrames int     `yaml:"max_predicted_frames"`
	LatencyDecay       float64 `yaml:"latency_decay"`
}

// LoadPeer reads a YAML peer config file, then applies environment
// overrides on top.
func LoadPeer(path string) (Peer, error) {
	cfg := NewPeerFromEnv()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Peer{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var raw peerFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Peer{}, fmt.Errorf("failed to parse config: %w", err)
	}
	file := Peer{
		Transport:          raw.Transport,
		RelayURL:           raw.RelayURL,
		NATSURL:            raw.NATSURL,
		ShareBase:          raw.ShareBase,
		MaxPredictedFrames: raw.MaxPredictedFrames,
		LatencyDecay:       raw.LatencyDecay,
	}
	if raw.PingInterval != "" {
		d, err := time.ParseDuration(raw.PingInterval)
		if err != nil {
			return Peer{}, fmt.Errorf("failed to parse ping_interval: %w", err)
		}
		file.PingInterval = d
	}
	if raw.RefreshInterval != "" {
		d, err := time.ParseDuration(raw.RefreshInterval)
		if err != nil {
			return Peer{}, fmt.Errorf("failed to parse refresh_interval: %w", err)
		}
		file.RefreshInterval = d
	}
	merged := mergePeer(file, cfg)
	return merged, nil
}

// mergePeer takes file values where set, falling back to env/defaults.
func mergePeer(file, env Peer) Peer {
	out := env
	if file.Transport != "" {
		out.Transport = file.Transport
	}
	if file.RelayURL != "" {
		out.RelayURL = file.RelayURL
	}
	if file.NATSURL != "" {
		out.NATSURL = file.NATSURL
	}
	if file.ShareBase != "" {
		out.ShareBase = file.ShareBase
	}
	if file.PingInterval > 0 {
		out.PingInterval = file.PingInterval
	}
	if file.RefreshInterval > 0 {
		out.RefreshInterval = file.RefreshInterval
	}
	if file.MaxPredictedFrames > 0 {
		out.MaxPredictedFrames = file.MaxPredictedFrames
	}
	if file.LatencyDecay > 0 {
		out.LatencyDecay = file.LatencyDecay
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
