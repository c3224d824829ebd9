package hearts

import "maps"

// MaxLives is the number of lives a learner starts with and is reset to
// after running out.
const MaxLives = 5

// State is a learner's remaining lives and per-question check counts.
// It is a value: transitions return a new State.
type State struct {
	// Lives is in [0, MaxLives].
	Lives int

	// Attempts counts checks per question id, correct or not.
	Attempts map[string]int
}

// New returns a full-hearts state.
func New() State {
	return State{Lives: MaxLives, Attempts: make(map[string]int)}
}

// Decrement removes one life, never going below zero.
func (s State) Decrement() State {
	out := s.clone()
	if out.Lives > 0 {
		out.Lives--
	}
	return out
}

// Exhausted reports whether no lives remain.
func (s State) Exhausted() bool {
	return s.Lives <= 0
}

// Reset restores full lives. Attempt counts are kept.
func (s State) Reset() State {
	out := s.clone()
	out.Lives = MaxLives
	return out
}

// WithAttempts records the authoritative attempt count for questionID.
func (s State) WithAttempts(questionID string, n int) State {
	out := s.clone()
	out.Attempts[questionID] = n
	return out
}

func (s State) clone() State {
	out := State{Lives: s.Lives, Attempts: maps.Clone(s.Attempts)}
	if out.Attempts == nil {
		out.Attempts = make(map[string]int)
	}
	return out
}
