package relay

import (
	"net/url"
	"strings"

	"github.com/mikov/partyping/internal/settings"
)

// NormalizeEndpoint turns a user-entered relay address into a websocket URL.
// Bare host:port becomes ws://host:port, http(s) schemes map to ws(s), and
// anything blank or unparseable falls back to the compiled-in default.
func NormalizeEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return settings.DefaultRelayURL
	}

	var candidate string
	switch {
	case strings.HasPrefix(trimmed, "ws://"), strings.HasPrefix(trimmed, "wss://"):
		candidate = trimmed
	case strings.HasPrefix(trimmed, "http://"):
		candidate = "ws://" + strings.TrimPrefix(trimmed, "http://")
	case strings.HasPrefix(trimmed, "https://"):
		candidate = "wss://" + strings.TrimPrefix(trimmed, "https://")
	case strings.Contains(trimmed, "://"):
		return settings.DefaultRelayURL
	default:
		candidate = "ws://" + trimmed
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return settings.DefaultRelayURL
	}
	return candidate
}

// originFor derives the HTTP origin handed to the websocket handshake from a
// normalized endpoint.
func originFor(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "wss://"):
		return "https://" + strings.TrimPrefix(endpoint, "wss://")
	case strings.HasPrefix(endpoint, "ws://"):
		return "http://" + strings.TrimPrefix(endpoint, "ws://")
	default:
		return endpoint
	}
}
