package relay

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mikov/partyping/internal/ping"
)

// Inbound validation limits. Peers are untrusted; anything outside these
// bounds is dropped without a reply.
const (
	maxInboundMessageChars = 4096
	maxPlayerChars         = 32
	maxScopeChars          = 96
	maxSpaceChars          = 96

	maxAbsCoordinate = 30_000_000.0
	minY             = -2048.0
	maxY             = 4096.0
)

// identifierPattern is the allow-list for scope and space identifiers after
// lowercasing. A `//` substring is rejected separately to keep path-like
// values out of the marker namespace.
var identifierPattern = regexp.MustCompile(`^[a-z0-9._:/\-]+$`)

type joinMessage struct {
	Type    string `json:"type"`
	Party   string `json:"party"`
	ScopeID string `json:"scopeId"`
	Player  string `json:"player"`
}

type leaveMessage struct {
	Type   string `json:"type"`
	Player string `json:"player"`
}

type pingMessage struct {
	Type     string  `json:"type"`
	Party    string  `json:"party"`
	ScopeID  string  `json:"scopeId"`
	Player   string  `json:"player"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	SpaceID  string  `json:"spaceId"`
	PingKind string  `json:"pingKind"`
}

// inboundFrame mirrors the wire shape of a received message. Coordinates are
// pointers so a missing field is distinguishable from zero; a field of the
// wrong JSON type fails the unmarshal and drops the whole message.
type inboundFrame struct {
	Type     string   `json:"type"`
	Player   string   `json:"player"`
	ScopeID  string   `json:"scopeId"`
	SpaceID  string   `json:"spaceId"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Z        *float64 `json:"z"`
	PingKind string   `json:"pingKind"`
}

// inboundPing is a validated incoming ping, pre party-scope authorization.
type inboundPing struct {
	Sender   string
	Position ping.Position
	Scope    string
	Space    string
	Kind     ping.Kind
}

// decodeInbound parses and validates a received frame. The false return is
// the silent-drop path: malformed, oversized, or out-of-bounds input from a
// hostile or buggy peer must not crash the client or produce an error reply.
func decodeInbound(message string) (inboundPing, bool) {
	if message == "" || utf8.RuneCountInString(message) > maxInboundMessageChars {
		return inboundPing{}, false
	}

	var frame inboundFrame
	if err := json.Unmarshal([]byte(message), &frame); err != nil {
		return inboundPing{}, false
	}
	// Other message kinds exist on the wire; this client only interprets pings.
	if frame.Type != "ping" {
		return inboundPing{}, false
	}

	sender, ok := requiredText(frame.Player, maxPlayerChars)
	if !ok {
		return inboundPing{}, false
	}
	scope, ok := requiredText(frame.ScopeID, maxScopeChars)
	if !ok {
		return inboundPing{}, false
	}
	space, ok := requiredText(frame.SpaceID, maxSpaceChars)
	if !ok {
		return inboundPing{}, false
	}
	if !validIdentifier(scope) || !validIdentifier(space) {
		return inboundPing{}, false
	}

	x, ok := requiredFinite(frame.X)
	if !ok {
		return inboundPing{}, false
	}
	y, ok := requiredFinite(frame.Y)
	if !ok {
		return inboundPing{}, false
	}
	z, ok := requiredFinite(frame.Z)
	if !ok {
		return inboundPing{}, false
	}
	if !withinWorldBounds(x, y, z) {
		return inboundPing{}, false
	}

	return inboundPing{
		Sender:   sender,
		Position: ping.Position{X: x, Y: y, Z: z},
		Scope:    scope,
		Space:    space,
		Kind:     ping.KindFromWire(frame.PingKind),
	}, true
}

func requiredText(value string, maxChars int) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxChars {
		return "", false
	}
	return trimmed, true
}

func requiredFinite(value *float64) (float64, bool) {
	if value == nil {
		return 0, false
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return 0, false
	}
	return *value, true
}

func validIdentifier(value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if utf8.RuneCountInString(normalized) > maxScopeChars {
		return false
	}
	return identifierPattern.MatchString(normalized) && !strings.Contains(normalized, "//")
}

func withinWorldBounds(x, y, z float64) bool {
	if math.Abs(x) > maxAbsCoordinate || math.Abs(z) > maxAbsCoordinate {
		return false
	}
	return y >= minY && y <= maxY
}
