// Package settings holds the mutable client configuration the core polls
// each tick, plus the clamping and parsing rules applied to user input.
//
// The settings UI that edits these values lives outside the core; the core
// only reads current values, never caches them.
package settings

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	MinLifetimeSeconds     = 5
	MaxLifetimeSeconds     = 300
	DefaultLifetimeSeconds = 30

	MinPingScale     = 0.5
	MaxPingScale     = 2.0
	DefaultPingScale = 1.0

	DefaultPingColorRGB = 0xE66D00

	// DefaultRelayURL is the compiled-in fallback when the configured
	// endpoint is blank or unusable.
	DefaultRelayURL = "ws://127.0.0.1:8787"
)

// ClampLifetimeSeconds bounds a lifetime to the allowed range.
func ClampLifetimeSeconds(seconds int) int {
	if seconds < MinLifetimeSeconds {
		return MinLifetimeSeconds
	}
	if seconds > MaxLifetimeSeconds {
		return MaxLifetimeSeconds
	}
	return seconds
}

// ClampPingScale bounds a marker scale to the allowed range.
func ClampPingScale(scale float64) float64 {
	if scale < MinPingScale {
		return MinPingScale
	}
	if scale > MaxPingScale {
		return MaxPingScale
	}
	return scale
}

// ParsePingScaleOrDefault parses a user-entered scale, accepting a comma as
// the decimal separator. Unparseable input yields fallback.
func ParsePingScaleOrDefault(value string, fallback float64) float64 {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if normalized == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return fallback
	}
	return ClampPingScale(parsed)
}

// NormalizeRGB masks a color to its 24-bit RGB value.
func NormalizeRGB(rgb int) int {
	return rgb & 0xFFFFFF
}

// ParseRGBOrDefault parses a "#RRGGBB" color. A missing leading "#" is
// tolerated; anything else yields fallback.
func ParseRGBOrDefault(value string, fallback int) int {
	normalized := strings.TrimSpace(value)
	normalized = strings.TrimPrefix(normalized, "#")
	if len(normalized) != 6 {
		return NormalizeRGB(fallback)
	}
	parsed, err := strconv.ParseUint(normalized, 16, 32)
	if err != nil {
		return NormalizeRGB(fallback)
	}
	return NormalizeRGB(int(parsed))
}

// Settings is the configuration snapshot provider. Writers (the settings UI)
// and readers (tick loop, registry) may call from different goroutines.
type Settings struct {
	mu                  sync.Mutex
	lifetimeSeconds     int
	pingColorRGB        int
	pingScale           float64
	relayURL            string
	player              string
	playerColorsEnabled bool
	showSenderName      bool
}

// Default returns settings populated with compiled-in defaults.
func Default() *Settings {
	return &Settings{
		lifetimeSeconds:     DefaultLifetimeSeconds,
		pingColorRGB:        DefaultPingColorRGB,
		pingScale:           DefaultPingScale,
		relayURL:            DefaultRelayURL,
		playerColorsEnabled: true,
		showSenderName:      true,
	}
}

// LifetimeSeconds returns the configured ping lifetime in seconds.
func (s *Settings) LifetimeSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifetimeSeconds
}

// Lifetime returns the configured ping lifetime as a duration.
func (s *Settings) Lifetime() time.Duration {
	return time.Duration(s.LifetimeSeconds()) * time.Second
}

// SetLifetimeSeconds stores a clamped lifetime.
func (s *Settings) SetLifetimeSeconds(seconds int) {
	seconds = ClampLifetimeSeconds(seconds)
	s.mu.Lock()
	s.lifetimeSeconds = seconds
	s.mu.Unlock()
}

// PingColorRGB returns the marker color as a 24-bit RGB value.
func (s *Settings) PingColorRGB() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingColorRGB
}

// SetPingColorRGB stores a normalized marker color.
func (s *Settings) SetPingColorRGB(rgb int) {
	rgb = NormalizeRGB(rgb)
	s.mu.Lock()
	s.pingColorRGB = rgb
	s.mu.Unlock()
}

// PingScale returns the marker scale factor.
func (s *Settings) PingScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingScale
}

// SetPingScale stores a clamped marker scale.
func (s *Settings) SetPingScale(scale float64) {
	scale = ClampPingScale(scale)
	s.mu.Lock()
	s.pingScale = scale
	s.mu.Unlock()
}

// RelayURL returns the configured relay endpoint, unnormalized.
func (s *Settings) RelayURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.relayURL
}

// SetRelayURL stores a relay endpoint.
func (s *Settings) SetRelayURL(url string) {
	s.mu.Lock()
	s.relayURL = url
	s.mu.Unlock()
}

// Player returns the local display name used on outbound messages.
func (s *Settings) Player() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// SetPlayer stores the local display name.
func (s *Settings) SetPlayer(name string) {
	s.mu.Lock()
	s.player = name
	s.mu.Unlock()
}

// PlayerColorsEnabled reports whether per-player marker colors are on.
func (s *Settings) PlayerColorsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerColorsEnabled
}

// SetPlayerColorsEnabled toggles per-player marker colors.
func (s *Settings) SetPlayerColorsEnabled(enabled bool) {
	s.mu.Lock()
	s.playerColorsEnabled = enabled
	s.mu.Unlock()
}

// ShowSenderName reports whether marker labels include the sender.
func (s *Settings) ShowSenderName() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showSenderName
}

// SetShowSenderName toggles sender labels on markers.
func (s *Settings) SetShowSenderName(enabled bool) {
	s.mu.Lock()
	s.showSenderName = enabled
	s.mu.Unlock()
}
