package ping

import (
	"sync"
	"time"
)

// MaxPingsPerSender caps how many unexpired markers a single sender may have
// visible at once. Adding beyond the cap evicts that sender's oldest marker,
// so a flooding sender displaces their own pings rather than everyone else's.
const MaxPingsPerSender = 2

// Observer receives annotation lifecycle events. Notifications happen outside
// the registry lock; implementations may call back into the registry.
type Observer interface {
	PingCreated(Annotation)
	PingRemoved(Annotation)
}

// Registry is the mutation domain for live annotations. One mutex serializes
// adds, sweeps, and reads; callers arrive from both the tick context and the
// network context.
type Registry struct {
	lifetime func() time.Duration

	mu        sync.Mutex
	pings     []Annotation
	observers []Observer
}

// NewRegistry creates a registry. The lifetime provider is consulted on every
// add so configuration changes apply without restarting.
func NewRegistry(lifetime func() time.Duration) *Registry {
	return &Registry{lifetime: lifetime}
}

// Subscribe registers an observer for create/remove events.
func (r *Registry) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, observer)
	r.mu.Unlock()
}

// Add inserts a marker for sender, sweeping expired entries and evicting the
// sender's oldest marker when at capacity. Insertion always succeeds.
func (r *Registry) Add(sender string, pos Position, scope string, space string, kind Kind) Annotation {
	now := time.Now()

	r.mu.Lock()
	removed := r.sweepLocked(now)

	key := senderKey(sender)
	sameSender := 0
	oldestIndex := -1
	var oldestExpiry time.Time
	for i, existing := range r.pings {
		if senderKey(existing.Sender) != key {
			continue
		}
		sameSender++
		if oldestIndex == -1 || existing.ExpiresAt.Before(oldestExpiry) {
			oldestExpiry = existing.ExpiresAt
			oldestIndex = i
		}
	}
	if sameSender >= MaxPingsPerSender && oldestIndex >= 0 {
		removed = append(removed, r.pings[oldestIndex])
		r.pings = append(r.pings[:oldestIndex], r.pings[oldestIndex+1:]...)
	}

	created := Annotation{
		Sender:    sender,
		Position:  pos,
		Scope:     scope,
		Space:     space,
		Kind:      kind,
		ExpiresAt: now.Add(r.lifetime()),
	}
	r.pings = append(r.pings, created)
	observers := r.observersLocked()
	r.mu.Unlock()

	for _, observer := range observers {
		for _, annotation := range removed {
			observer.PingRemoved(annotation)
		}
		observer.PingCreated(created)
	}
	return created
}

// ActiveFiltered sweeps expired entries and returns, in insertion order, the
// unexpired annotations whose scope and space exactly match. This is the sole
// read path for rendering.
func (r *Registry) ActiveFiltered(now time.Time, scope string, space string) []Annotation {
	r.mu.Lock()
	removed := r.sweepLocked(now)

	filtered := make([]Annotation, 0, len(r.pings))
	for _, annotation := range r.pings {
		if annotation.Scope == scope && annotation.Space == space {
			filtered = append(filtered, annotation)
		}
	}
	observers := r.observersLocked()
	r.mu.Unlock()

	for _, observer := range observers {
		for _, annotation := range removed {
			observer.PingRemoved(annotation)
		}
	}
	return filtered
}

func (r *Registry) sweepLocked(now time.Time) []Annotation {
	var removed []Annotation
	kept := r.pings[:0]
	for _, annotation := range r.pings {
		if annotation.Expired(now) {
			removed = append(removed, annotation)
			continue
		}
		kept = append(kept, annotation)
	}
	r.pings = kept
	return removed
}

func (r *Registry) observersLocked() []Observer {
	if len(r.observers) == 0 {
		return nil
	}
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	return observers
}
