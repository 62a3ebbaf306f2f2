// Package partyping parses client command flags and composes the headless
// ping client entrypoint.
package partyping

import (
	"context"
	"flag"
	"log"
	"time"

	entrypoint "github.com/mikov/partyping/internal/platform/cmd"

	"github.com/mikov/partyping/internal/driver"
	"github.com/mikov/partyping/internal/settings"
	"github.com/mikov/partyping/internal/waypoint"
)

// tickInterval approximates the 20 Hz simulation tick the client is normally
// driven by.
const tickInterval = 50 * time.Millisecond

// Config holds client command configuration.
type Config struct {
	RelayURL        string `env:"PARTYPING_RELAY_URL"        envDefault:"ws://127.0.0.1:8787"`
	Player          string `env:"PARTYPING_PLAYER"           envDefault:"unknown"`
	PartyCode       string `env:"PARTYPING_PARTY_CODE"`
	Scope           string `env:"PARTYPING_SCOPE"`
	Space           string `env:"PARTYPING_SPACE"            envDefault:"overworld"`
	LifetimeSeconds int    `env:"PARTYPING_LIFETIME_SECONDS" envDefault:"30"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.RelayURL, "relay-url", cfg.RelayURL, "relay websocket endpoint")
	fs.StringVar(&cfg.Player, "player", cfg.Player, "local player display name")
	fs.StringVar(&cfg.PartyCode, "party", cfg.PartyCode, "party code to join on startup")
	fs.StringVar(&cfg.Scope, "scope", cfg.Scope, "server scope the party is bound to")
	fs.StringVar(&cfg.Space, "space", cfg.Space, "dimension to report pings from")
	fs.IntVar(&cfg.LifetimeSeconds, "lifetime", cfg.LifetimeSeconds, "ping lifetime in seconds (5-300)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the client and drives the tick loop until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceClient, func(context.Context) error {
		s := settings.Default()
		s.SetRelayURL(cfg.RelayURL)
		s.SetPlayer(cfg.Player)
		s.SetLifetimeSeconds(cfg.LifetimeSeconds)

		d := driver.New(s)
		defer d.Close()
		waypoint.NewBridge(d.Registry(), waypoint.LogSink{})

		if cfg.PartyCode != "" && cfg.Scope != "" {
			d.JoinParty(cfg.PartyCode, cfg.Scope)
		}

		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		lastState := d.LinkState()
		log.Printf("client started relay=%s player=%s", cfg.RelayURL, cfg.Player)
		for {
			select {
			case <-ctx.Done():
				if d.Session().InParty() {
					d.LeaveParty()
				}
				return nil
			case <-ticker.C:
				d.Tick()
				if state := d.LinkState(); state != lastState {
					log.Printf("relay state: %s", state)
					lastState = state
				}
			}
		}
	})
}
