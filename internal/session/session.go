// Package session issues identifiers for a running pet session.
//
// Every process that loads the pet gets one session ID. Journal entries are
// tagged with it so history can be grouped by run.
package session

import "github.com/google/uuid"

// Generator produces session IDs.
type Generator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so sessions sort
// by start time in the journal.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
