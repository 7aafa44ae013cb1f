// Package store provides SQLite-backed durable storage for bitty.
//
// The store holds two kinds of records:
//   - KV: one row per persisted value cell (happiness, zone), keyed by name
//   - Journal: append-only log of pet mutations, tagged with a session ID
//
// # Key-Value Semantics
//
// Get distinguishes an absent key from a read failure. Callers that need
// fail-soft loading (see internal/cell) treat both as "use the default".
// Put is a synchronous upsert; there is no batching and no write-behind.
// Each logical update touches exactly one key, so no transaction spans keys.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Two processes sharing one database file get last-write-wins per key.
package store
