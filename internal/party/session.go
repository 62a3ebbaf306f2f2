// Package party tracks the client's current party membership.
//
// Membership is a single mutable slot scoped to one server instance; it is
// either fully empty or fully populated. Callers own input hygiene — a blank
// code is not rejected here.
package party

import "sync"

// Session holds the current party code and server scope.
//
// All methods are safe to call from both the tick and network contexts and
// never block.
type Session struct {
	mu    sync.Mutex
	code  string
	scope string
}

// NewSession returns an empty membership slot.
func NewSession() *Session {
	return &Session{}
}

// Join replaces the membership unconditionally. Last writer wins.
func (s *Session) Join(code string, scope string) {
	s.mu.Lock()
	s.code = code
	s.scope = scope
	s.mu.Unlock()
}

// Leave clears both fields.
func (s *Session) Leave() {
	s.mu.Lock()
	s.code = ""
	s.scope = ""
	s.mu.Unlock()
}

// InParty reports whether both the code and scope are non-blank.
func (s *Session) InParty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code != "" && s.scope != ""
}

// Code returns the current party code.
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Scope returns the server scope the party is bound to.
func (s *Session) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}
