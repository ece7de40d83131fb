// Package store provides SQLite-backed durable storage for entries.
//
// One table, entries, keyed by the canonical UUID string. The engine writes
// through to it after every mutating intent; the CLI reads from it directly.
//
// # Conventions
//
//   - Timestamps are RFC 3339 text in UTC with all nine fraction digits, so
//     round trips are exact and the text sorts chronologically.
//   - Enum columns are parsed leniently on read: unknown values fall back to
//     note, text, active and no cadence.
//   - List queries order by created_at DESC, id ASC.
//   - Lists return empty slices, never nil.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
