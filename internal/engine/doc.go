// Package engine implements the Murmur state actor.
//
// ARCHITECTURE:
//
// Single-Writer Run Loop:
// One goroutine owns the authoritative AppState and applies intents to it
// strictly in FIFO order. No two intents are ever applied concurrently.
//
// Per-intent flow inside Run:
//  1. classify the storage write the intent implies (decided before mutation)
//  2. apply the reducer
//  3. write through to the Repository using the post-mutation state
//  4. publish a deep copy of the state as the shared snapshot
//  5. push exactly one notification carrying the new revision
//
// Producers never block: Dispatch appends to an unbounded queue. Long-latency
// work such as reasoning calls happens on producer goroutines and re-enters
// as ordinary intents (ApplyBatch or ReportFailure).
//
// Readers call Snapshot. The snapshot lock is taken for writing only while
// the freshly cloned state is swapped in, never during reducer application
// or storage I/O, so slow storage never blocks readers.
//
// ERROR HANDLING:
// Storage is best effort relative to memory. A failed write is logged,
// counted in murmur_engine_storage_failures_total and otherwise ignored.
//
// KNOWN GAPS:
//   - The intent queue has no capacity limit (no backpressure).
//   - A crash between publish and a successful write loses that write.
package engine
