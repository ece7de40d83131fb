// Package capture connects transcripts to the state actor through the
// reasoning service.
package capture
