// Package timeouts defines shared timeout constants used across the client.
// Centralizing these values prevents drift between transport and lifecycle
// layers and makes the durations discoverable.
package timeouts

import "time"

// RelayDial caps the TCP dial when connecting to the relay endpoint.
const RelayDial = 5 * time.Second

// Shutdown limits how long the client waits for telemetry teardown during
// graceful shutdown.
const Shutdown = 5 * time.Second
