// Package state holds the application aggregate and the pure functions that
// change it.
//
// Apply is the only place state invariants are enforced. It performs no
// I/O. The only outside input it reads is the current time and fresh ids,
// both injected through Reducer so tests can pin them.
package state

import (
	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/entry"
)

// AppState is the aggregate root. Exactly one authoritative instance exists
// per process, owned by the engine's run loop.
type AppState struct {
	Entries []entry.Entry `json:"entries"`

	// Rev increments once per effective mutation. A batch adds one extra
	// increment for the processing flag transition.
	Rev uint64 `json:"rev"`

	Toast *string `json:"toast,omitempty"`

	// CurrentTranscript and CurrentSource describe the text awaiting a
	// reasoning response. They are only meaningful while Processing is true.
	CurrentTranscript *string      `json:"current_transcript,omitempty"`
	CurrentSource     entry.Source `json:"current_source"`
	Processing        bool         `json:"processing"`
}

// New returns an empty state seeded with entries. The slice is copied.
func New(entries []entry.Entry) AppState {
	return AppState{
		Entries:       entry.CloneAll(entries),
		CurrentSource: entry.SourceVoice,
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s AppState) Clone() AppState {
	c := s
	c.Entries = entry.CloneAll(s.Entries)
	if s.Toast != nil {
		t := *s.Toast
		c.Toast = &t
	}
	if s.CurrentTranscript != nil {
		t := *s.CurrentTranscript
		c.CurrentTranscript = &t
	}
	return c
}

// Index returns the position of the entry with the given id, or -1.
func (s *AppState) Index(id uuid.UUID) int {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) bumpRev() {
	s.Rev++
}
