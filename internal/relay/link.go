// Package relay implements the reconnecting client connection to the party
// ping relay: the wire protocol it speaks, the validation applied to inbound
// frames, and the throttled reconnect state machine driven by the tick loop.
package relay

import (
	"encoding/json"
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/mikov/partyping/internal/party"
	"github.com/mikov/partyping/internal/ping"
	"github.com/mikov/partyping/internal/platform/timeouts"
)

// reconnectCooldown throttles connect attempts. This is a flat cool-down, not
// exponential backoff: the relay is small-scale and a bounded retry latency
// matters more than connection-storm protection.
const reconnectCooldown = 5 * time.Second

// State is the transport state of a Link.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the state name for status display and logs.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Link is a single reconnecting duplex connection to a relay endpoint.
//
// The tick context drives reconnection through Tick; the network context
// reports connect results, inbound frames, and closes. Both funnel through
// one mutex, so readers never observe a half-updated state.
type Link struct {
	endpoint string
	origin   string
	session  *party.Session
	registry *ping.Registry
	player   func() string
	execute  func(func())

	mu          sync.Mutex
	conn        *websocket.Conn
	connecting  bool
	lastAttempt time.Time
	generation  int
	closed      bool
}

// NewLink creates a link targeting a normalized endpoint. The player provider
// is read at send time; execute marshals accepted inbound pings onto the tick
// context before they touch the registry.
func NewLink(endpoint string, session *party.Session, registry *ping.Registry, player func() string, execute func(func())) *Link {
	return &Link{
		endpoint: endpoint,
		origin:   originFor(endpoint),
		session:  session,
		registry: registry,
		player:   player,
		execute:  execute,
	}
}

// Endpoint returns the endpoint this link targets.
func (l *Link) Endpoint() string {
	return l.endpoint
}

// State returns the current transport state.
func (l *Link) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return StateConnected
	}
	if l.connecting {
		return StateConnecting
	}
	return StateDisconnected
}

// Connected reports whether a live connection exists.
func (l *Link) Connected() bool {
	return l.State() == StateConnected
}

// Tick initiates an asynchronous connect when disconnected and the cool-down
// since the last attempt has elapsed. It never blocks.
func (l *Link) Tick() {
	l.mu.Lock()
	if l.closed || l.conn != nil || l.connecting {
		l.mu.Unlock()
		return
	}
	if time.Since(l.lastAttempt) < reconnectCooldown {
		l.mu.Unlock()
		return
	}
	l.lastAttempt = time.Now()
	l.connecting = true
	generation := l.generation
	l.mu.Unlock()

	log.Printf("relay: connecting to %s", l.endpoint)
	go l.connect(generation)
}

func (l *Link) connect(generation int) {
	config, err := websocket.NewConfig(l.endpoint, l.origin)
	if err == nil {
		config.Dialer = &net.Dialer{Timeout: timeouts.RelayDial}
	}

	var conn *websocket.Conn
	if err == nil {
		conn, err = websocket.DialConfig(config)
	}

	l.mu.Lock()
	l.connecting = false
	if err != nil {
		l.mu.Unlock()
		log.Printf("relay: connection to %s failed: %v", l.endpoint, err)
		return
	}
	if generation != l.generation {
		// The link was closed while the dial was in flight; a stale success
		// must not resurrect it.
		l.mu.Unlock()
		_ = conn.Close()
		return
	}
	l.conn = conn
	l.mu.Unlock()

	log.Printf("relay: connected to %s", l.endpoint)
	if l.session.InParty() {
		// Re-associate this connection with the party after any reconnect.
		l.SendJoin(l.session.Code(), l.session.Scope())
	}
	go l.readLoop(conn, generation)
}

func (l *Link) readLoop(conn *websocket.Conn, generation int) {
	for {
		var message string
		if err := websocket.Message.Receive(conn, &message); err != nil {
			l.dropConnection(conn, generation, err)
			return
		}
		l.handleMessage(message)
	}
}

func (l *Link) dropConnection(conn *websocket.Conn, generation int, cause error) {
	l.mu.Lock()
	current := l.generation == generation && l.conn == conn
	if current {
		l.conn = nil
	}
	l.mu.Unlock()

	_ = conn.Close()
	if current {
		log.Printf("relay: connection closed: %v", cause)
	}
}

// handleMessage validates one inbound frame and, when accepted, hands the
// ping to the registry on the tick context. Every rejection is silent.
func (l *Link) handleMessage(message string) {
	in, ok := decodeInbound(message)
	if !ok {
		return
	}

	// A party is scoped to one server instance; identity is self-reported, so
	// scope equality is the whole authorization boundary.
	if !l.session.InParty() || l.session.Scope() != in.Scope {
		return
	}

	log.Printf("relay: ping received sender=%s kind=%s pos=(%.0f, %.0f, %.0f) space=%s",
		in.Sender, in.Kind, in.Position.X, in.Position.Y, in.Position.Z, in.Space)

	add := func() {
		l.registry.Add(in.Sender, in.Position, in.Scope, in.Space, in.Kind)
	}
	if l.execute != nil {
		l.execute(add)
		return
	}
	add()
}

// SendJoin announces party membership to the relay.
func (l *Link) SendJoin(code string, scope string) {
	player := l.player()
	l.sendJSON(joinMessage{Type: "join", Party: code, ScopeID: scope, Player: player})
	log.Printf("relay: join sent party=%s scope=%s player=%s", code, scope, player)
}

// SendLeave announces leaving the party.
func (l *Link) SendLeave() {
	player := l.player()
	l.sendJSON(leaveMessage{Type: "leave", Player: player})
	log.Printf("relay: leave sent player=%s", player)
}

// SendPing publishes a marker to the party. Party and scope are read from the
// session at send time; outside a party nothing is sent.
func (l *Link) SendPing(pos ping.Position, space string, kind ping.Kind) {
	if !l.session.InParty() {
		return
	}
	l.sendJSON(pingMessage{
		Type:     "ping",
		Party:    l.session.Code(),
		ScopeID:  l.session.Scope(),
		Player:   l.player(),
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		SpaceID:  space,
		PingKind: kind.WireValue(),
	})
	log.Printf("relay: ping sent party=%s scope=%s kind=%s pos=(%.0f, %.0f, %.0f) space=%s",
		l.session.Code(), l.session.Scope(), kind, pos.X, pos.Y, pos.Z, space)
}

// sendJSON transmits one frame when a live connection exists and drops it
// silently otherwise. There is no outbound queue.
func (l *Link) sendJSON(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("relay: marshal outbound frame: %v", err)
		return
	}

	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		return
	}

	if err := websocket.Message.Send(conn, string(data)); err != nil {
		log.Printf("relay: send failed: %v", err)
	}
}

// Close shuts the link down best-effort and prevents reconnection. An
// in-flight connect is not aborted; its result is discarded via the
// generation check when it completes.
func (l *Link) Close() {
	l.mu.Lock()
	l.generation++
	l.closed = true
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}
