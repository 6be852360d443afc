package types

import "time"

// SessionState is the cached authentication state of one job's browser
// context against the portal. It is owned by the session manager and never
// shared across concurrent jobs.
type SessionState struct {
	Authenticated bool
	EstablishedAt time.Time
	TTL           time.Duration
}

// Valid reports whether the cached session may still be trusted. A session
// older than its TTL is treated as unauthenticated even if earlier checks
// passed.
func (s SessionState) Valid(now time.Time) bool {
	if !s.Authenticated {
		return false
	}
	if s.TTL <= 0 {
		return false
	}
	return now.Sub(s.EstablishedAt) < s.TTL
}
