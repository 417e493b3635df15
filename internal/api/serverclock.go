package api

import "time"

// ServerClock compensates for the server's fixed clock skew. Every timestamp
// the API returns is behind real wall time by Offset; FromServer corrects it
// on ingress and ToServer undoes the correction before re-submission. This is
// the only place the offset exists.
type ServerClock struct {
	Offset time.Duration
}

// FromServer corrects a server timestamp for display and comparison.
func (c ServerClock) FromServer(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Add(c.Offset)
}

// ToServer converts a corrected timestamp back into the server's clock.
func (c ServerClock) ToServer(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Add(-c.Offset)
}
