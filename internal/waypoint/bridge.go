// Package waypoint bridges ping lifecycle events to an optional minimap
// integration. The core only emits create/remove pairs keyed by a stable
// ping identity; adapting them to a concrete addon lives behind the Sink
// interface, outside this module.
package waypoint

import (
	"log"
	"sync"

	"github.com/mikov/partyping/internal/ping"
)

// Waypoint names shown on the map per ping kind.
const (
	pingName        = "Ping"
	pingWarningName = "Ping Warning"
	pingGoName      = "Ping Go"
)

// Waypoint is the marker handed to the minimap integration.
type Waypoint struct {
	Name      string
	Position  ping.Position
	Kind      ping.Kind
	Temporary bool
}

// Sink receives waypoint updates. Implementations must tolerate removal of
// keys they never saw.
type Sink interface {
	UpsertWaypoint(key string, w Waypoint)
	RemoveWaypoint(key string)
}

// Bridge subscribes to a ping registry and mirrors live pings into a sink.
// Create and remove events for one ping carry the same identity key, so the
// sink never leaks markers.
type Bridge struct {
	sink Sink

	mu     sync.Mutex
	active map[string]struct{}
}

// NewBridge wires a bridge to a sink and subscribes it to the registry.
func NewBridge(registry *ping.Registry, sink Sink) *Bridge {
	b := &Bridge{
		sink:   sink,
		active: make(map[string]struct{}),
	}
	registry.Subscribe(b)
	return b
}

// PingCreated mirrors a new ping into the sink, replacing any stale waypoint
// under the same key.
func (b *Bridge) PingCreated(a ping.Annotation) {
	key := a.Key()

	b.mu.Lock()
	_, existed := b.active[key]
	b.active[key] = struct{}{}
	b.mu.Unlock()

	if existed {
		b.sink.RemoveWaypoint(key)
	}
	b.sink.UpsertWaypoint(key, Waypoint{
		Name:      nameFor(a.Kind),
		Position:  a.Position,
		Kind:      a.Kind,
		Temporary: true,
	})
}

// PingRemoved drops the ping's waypoint from the sink.
func (b *Bridge) PingRemoved(a ping.Annotation) {
	key := a.Key()

	b.mu.Lock()
	_, existed := b.active[key]
	delete(b.active, key)
	b.mu.Unlock()

	if existed {
		b.sink.RemoveWaypoint(key)
	}
}

// ActiveCount returns how many waypoints the bridge currently tracks.
func (b *Bridge) ActiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.active)
}

func nameFor(kind ping.Kind) string {
	switch kind {
	case ping.KindWarning:
		return pingWarningName
	case ping.KindGo:
		return pingGoName
	default:
		return pingName
	}
}

// LogSink writes waypoint updates to the process log. It stands in when no
// minimap integration is installed.
type LogSink struct{}

// UpsertWaypoint logs a waypoint placement.
func (LogSink) UpsertWaypoint(key string, w Waypoint) {
	log.Printf("waypoint: upsert %s at (%.0f, %.0f, %.0f) key=%s", w.Name, w.Position.X, w.Position.Y, w.Position.Z, key)
}

// RemoveWaypoint logs a waypoint removal.
func (LogSink) RemoveWaypoint(key string) {
	log.Printf("waypoint: remove key=%s", key)
}
