// Package entry defines the Entry aggregate and its enumerations.
//
// Entries are plain values. Lifecycle methods take the current time as an
// argument so callers (the reducer in particular) decide what "now" is.
//
// # Short ids
//
// Users and the reasoning service refer to entries by the first six
// characters of the canonical UUID. Resolution back to an entry is a
// case-insensitive prefix match that succeeds only on exactly one
// candidate. Resolve keeps the three-way outcome; Find collapses it to
// found or not found.
package entry
