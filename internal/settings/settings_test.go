package settings

import "testing"

func TestClampLifetimeSeconds(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 5},
		{4, 5},
		{5, 5},
		{25, 25},
		{300, 300},
		{301, 300},
		{-10, 5},
	}
	for _, tc := range cases {
		if got := ClampLifetimeSeconds(tc.in); got != tc.want {
			t.Fatalf("ClampLifetimeSeconds(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClampPingScale(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0.5},
		{0.5, 0.5},
		{1.25, 1.25},
		{2.0, 2.0},
		{3.5, 2.0},
	}
	for _, tc := range cases {
		if got := ClampPingScale(tc.in); got != tc.want {
			t.Fatalf("ClampPingScale(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePingScaleOrDefault(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{" 0.75 ", 0.75},
		{"9", 2.0},
		{"", DefaultPingScale},
		{"big", DefaultPingScale},
	}
	for _, tc := range cases {
		if got := ParsePingScaleOrDefault(tc.in, DefaultPingScale); got != tc.want {
			t.Fatalf("ParsePingScaleOrDefault(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRGBOrDefault(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"#E66D00", 0xE66D00},
		{"e66d00", 0xE66D00},
		{" #FFFFFF ", 0xFFFFFF},
		{"#FFF", DefaultPingColorRGB},
		{"#GGGGGG", DefaultPingColorRGB},
		{"", DefaultPingColorRGB},
	}
	for _, tc := range cases {
		if got := ParseRGBOrDefault(tc.in, DefaultPingColorRGB); got != tc.want {
			t.Fatalf("ParseRGBOrDefault(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestSettersClamp(t *testing.T) {
	s := Default()

	s.SetLifetimeSeconds(1000)
	if s.LifetimeSeconds() != MaxLifetimeSeconds {
		t.Fatalf("lifetime = %d, want %d", s.LifetimeSeconds(), MaxLifetimeSeconds)
	}

	s.SetPingScale(0.1)
	if s.PingScale() != MinPingScale {
		t.Fatalf("scale = %v, want %v", s.PingScale(), MinPingScale)
	}

	s.SetPingColorRGB(0x11FF0000)
	if s.PingColorRGB() != 0xFF0000 {
		t.Fatalf("color = %#x, want 0xFF0000", s.PingColorRGB())
	}
}

func TestDefaults(t *testing.T) {
	s := Default()
	if s.LifetimeSeconds() != DefaultLifetimeSeconds {
		t.Fatalf("default lifetime = %d", s.LifetimeSeconds())
	}
	if s.RelayURL() != DefaultRelayURL {
		t.Fatalf("default relay URL = %q", s.RelayURL())
	}
	if !s.PlayerColorsEnabled() || !s.ShowSenderName() {
		t.Fatal("expected display toggles on by default")
	}
}
