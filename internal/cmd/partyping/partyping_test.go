package partyping

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("partyping", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.RelayURL != "ws://127.0.0.1:8787" {
		t.Fatalf("expected default relay url, got %q", cfg.RelayURL)
	}
	if cfg.Player != "unknown" {
		t.Fatalf("expected default player, got %q", cfg.Player)
	}
	if cfg.Space != "overworld" {
		t.Fatalf("expected default space, got %q", cfg.Space)
	}
	if cfg.LifetimeSeconds != 30 {
		t.Fatalf("expected default lifetime, got %d", cfg.LifetimeSeconds)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("PARTYPING_RELAY_URL", "ws://env:8787")
	t.Setenv("PARTYPING_PLAYER", "env-player")

	fs := flag.NewFlagSet("partyping", flag.ContinueOnError)
	args := []string{
		"-relay-url", "ws://flag:8787",
		"-party", "ABC123",
		"-scope", "servera",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.RelayURL != "ws://flag:8787" {
		t.Fatalf("expected flag relay url, got %q", cfg.RelayURL)
	}
	if cfg.Player != "env-player" {
		t.Fatalf("expected env player, got %q", cfg.Player)
	}
	if cfg.PartyCode != "ABC123" {
		t.Fatalf("expected flag party code, got %q", cfg.PartyCode)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, Config{
			RelayURL:        "ws://127.0.0.1:1",
			Player:          "tester",
			LifetimeSeconds: 30,
		})
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}
