// Package driver runs the per-tick orchestration: it reconciles the relay
// link against the configured endpoint, drives reconnection, and translates
// user intent into party and relay calls. Protocol complexity stays in the
// relay package; this layer is glue.
package driver

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mikov/partyping/internal/party"
	"github.com/mikov/partyping/internal/ping"
	"github.com/mikov/partyping/internal/relay"
	"github.com/mikov/partyping/internal/settings"
)

// ErrNotInParty reports a ping attempt outside a party. It is a usage
// outcome surfaced as a transient status message, never a crash.
var ErrNotInParty = errors.New("not in a party")

// Driver owns the session, registry, and the current relay link, and is
// stepped once per simulation tick.
type Driver struct {
	settings *settings.Settings
	session  *party.Session
	registry *ping.Registry
	link     *relay.Link

	mu    sync.Mutex
	tasks []func()
}

// New builds a driver around a settings provider. The registry reads the
// ping lifetime from settings on every add.
func New(s *settings.Settings) *Driver {
	d := &Driver{
		settings: s,
		session:  party.NewSession(),
	}
	d.registry = ping.NewRegistry(s.Lifetime)
	d.link = d.newLink(relay.NormalizeEndpoint(s.RelayURL()))
	return d
}

func (d *Driver) newLink(endpoint string) *relay.Link {
	return relay.NewLink(endpoint, d.session, d.registry, d.settings.Player, d.enqueue)
}

// enqueue hands work from the network context to the next tick. This keeps
// all registry mutation on one execution context relative to the tick loop.
func (d *Driver) enqueue(task func()) {
	d.mu.Lock()
	d.tasks = append(d.tasks, task)
	d.mu.Unlock()
}

// Tick runs one orchestration step: drain handed-off work, reconcile the
// endpoint, and advance the link's reconnect state machine.
func (d *Driver) Tick() {
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()
	for _, task := range tasks {
		task()
	}

	endpoint := relay.NormalizeEndpoint(d.settings.RelayURL())
	if endpoint != d.link.Endpoint() {
		log.Printf("driver: relay endpoint changed %s -> %s", d.link.Endpoint(), endpoint)
		d.link.Close()
		d.link = d.newLink(endpoint)
	}

	d.link.Tick()
}

// JoinParty stores membership and announces it to the relay. Inputs are
// trimmed; scope comparison against inbound pings stays exact, so the caller
// supplies the scope the way the server reports it.
func (d *Driver) JoinParty(code string, scope string) {
	code = strings.TrimSpace(code)
	scope = strings.TrimSpace(scope)
	d.session.Join(code, scope)
	d.link.SendJoin(code, scope)
}

// LeaveParty clears membership and announces the departure.
func (d *Driver) LeaveParty() {
	d.session.Leave()
	d.link.SendLeave()
}

// SendPing adds a local marker and publishes it to the party. Outside a
// party it returns ErrNotInParty and nothing is sent.
func (d *Driver) SendPing(pos ping.Position, space string, kind ping.Kind) (ping.Annotation, error) {
	if !d.session.InParty() {
		return ping.Annotation{}, ErrNotInParty
	}
	created := d.registry.Add(d.settings.Player(), pos, d.session.Scope(), space, kind)
	d.link.SendPing(pos, space, kind)
	return created, nil
}

// ActivePings returns the unexpired markers for a scope and space in
// insertion order. This is the read path for rendering.
func (d *Driver) ActivePings(now time.Time, scope string, space string) []ping.Annotation {
	return d.registry.ActiveFiltered(now, scope, space)
}

// Session exposes membership for status display.
func (d *Driver) Session() *party.Session {
	return d.session
}

// Registry exposes the annotation store for event subscribers.
func (d *Driver) Registry() *ping.Registry {
	return d.registry
}

// LinkState reports the relay transport state for a passive indicator.
func (d *Driver) LinkState() relay.State {
	return d.link.State()
}

// Connected reports whether the relay connection is live.
func (d *Driver) Connected() bool {
	return d.link.Connected()
}

// Close shuts down the current link. Queued handed-off work is discarded.
func (d *Driver) Close() {
	d.link.Close()
}
