package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPeerDefaults(t *testing.T) {
	cfg := NewPeerFromEnv()
	if cfg.Transport != "ws" {
		t.Fatalf("Transport = %q, want ws", cfg.Transport)
	}
	if cfg.RelayURL != "ws://localhost:8080" {
		t.Fatalf("RelayURL = %q", cfg.RelayURL)
	}
	if cfg.PingInterval != time.Second {
		t.Fatalf("PingInterval = %v, want 1s", cfg.PingInterval)
	}
	if cfg.MaxPredictedFrames != 8 {
		t.Fatalf("MaxPredictedFrames = %d, want 8", cfg.MaxPredictedFrames)
	}
}

func TestPeerEnvOverrides(t *testing.T) {
	t.Setenv("NETPLAY_TRANSPORT", "nats")
	t.Setenv("NETPLAY_PING_INTERVAL", "250ms")
	t.Setenv("NETPLAY_MAX_PREDICTED_FRAMES", "4")
	t.Setenv("NETPLAY_LATENCY_DECAY", "0.25")

	cfg := NewPeerFromEnv()
	if cfg.Transport != "nats" {
		t.Fatalf("Transport = %q, want nats", cfg.Transport)
	}
	if cfg.PingInterval != 250*time.Millisecond {
		t.Fatalf("PingInterval = %v, want 250ms", cfg.PingInterval)
	}
	if cfg.MaxPredictedFrames != 4 {
		t.Fatalf("MaxPredictedFrames = %d, want 4", cfg.MaxPredictedFrames)
	}
	if cfg.LatencyDecay != 0.25 {
		t.Fatalf("LatencyDecay = %v, want 0.25", cfg.LatencyDecay)
	}
}

func TestPeerEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("NETPLAY_MAX_PREDICTED_FRAMES", "lots")
	t.Setenv("NETPLAY_PING_INTERVAL", "soon")

	cfg := NewPeerFromEnv()
	if cfg.MaxPredictedFrames != 8 {
		t.Fatalf("MaxPredictedFrames = %d, want default 8", cfg.MaxPredictedFrames)
	}
	if cfg.PingInterval != time.Second {
		t.Fatalf("PingInterval = %v, want default 1s", cfg.PingInterval)
	}
}

func TestLoadPeerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer.yaml")
	body := `
transport: nats
relay_url: ws://relay.example:9000
ping_interval: 500ms
max_predicted_frames: 12
latency_decay: 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPeer(path)
	if err != nil {
		t.Fatalf("LoadPeer: %v", err)
	}
	if cfg.Transport != "nats" {
		t.Fatalf("Transport = %q, want nats", cfg.Transport)
	}
	if cfg.RelayURL != "ws://relay.example:9000" {
		t.Fatalf("RelayURL = %q", cfg.RelayURL)
	}
	if cfg.PingInterval != 500*time.Millisecond {
		t.Fatalf("PingInterval = %v, want 500ms", cfg.PingInterval)
	}
	if cfg.MaxPredictedFrames != 12 {
		t.Fatalf("MaxPredictedFrames = %d, want 12", cfg.MaxPredictedFrames)
	}
	// Fields absent from the file keep their defaults.
	if cfg.ShareBase != "http://localhost:8080" {
		t.Fatalf("ShareBase = %q, want default", cfg.ShareBase)
	}
}

func TestLoadPeerBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer.yaml")
	if err := os.WriteFile(path, []byte("ping_interval: whenever\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPeer(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoadPeerMissingFile(t *testing.T) {
	if _, err := LoadPeer(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadPeerEmptyPathUsesEnv(t *testing.T) {
	t.Setenv("NETPLAY_RELAY_URL", "ws://env-relay:8080")
	cfg, err := LoadPeer("")
	if err != nil {
		t.Fatalf("LoadPeer: %v", err)
	}
	if cfg.RelayURL != "ws://env-relay:8080" {
		t.Fatalf("RelayURL = %q", cfg.RelayURL)
	}
}

func TestRelayDefaults(t *testing.T) {
	cfg := NewRelayFromEnv()
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}
