// Package ping owns the set of live location annotations shared with the
// party, their expiry, and the per-sender eviction policy.
package ping

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a ping marker.
type Kind int

const (
	KindNormal Kind = iota
	KindWarning
	KindGo
)

// WireValue returns the protocol representation of the kind.
func (k Kind) WireValue() string {
	switch k {
	case KindWarning:
		return "warning"
	case KindGo:
		return "go"
	default:
		return "normal"
	}
}

// String returns the wire value for logging.
func (k Kind) String() string {
	return k.WireValue()
}

// KindFromWire maps a protocol value to a Kind. Matching is case-insensitive
// and lenient: anything unrecognized (including blank) is Normal, so future
// kinds degrade to a plain marker instead of being rejected.
func KindFromWire(value string) Kind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "warning":
		return KindWarning
	case "go", "move":
		return KindGo
	default:
		return KindNormal
	}
}

// Position is a point in world coordinates.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Annotation is one live marker. Annotations are immutable once created;
// lifecycle ends by expiry sweep or capacity eviction.
type Annotation struct {
	Sender    string
	Position  Position
	Scope     string
	Space     string
	Kind      Kind
	ExpiresAt time.Time
}

// Expired reports whether the annotation is logically gone at now.
func (a Annotation) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// Key returns a stable identity for the annotation, used by event consumers
// (minimap bridge) to pair create and remove notifications.
func (a Annotation) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%.3f,%.3f,%.3f|%d",
		senderKey(a.Sender),
		a.Scope,
		a.Space,
		a.Kind.WireValue(),
		a.Position.X,
		a.Position.Y,
		a.Position.Z,
		a.ExpiresAt.UnixMilli(),
	)
}

func senderKey(sender string) string {
	return strings.ToLower(strings.TrimSpace(sender))
}
