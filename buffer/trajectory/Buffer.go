// Package trajectory implements a bounded buffer holding the
// transitions of a single rollout
package trajectory

import (
	"fmt"

	ts "github.com/samuelfneumann/goppo/timestep"
)

// Buffer stores the transitions of one episode in insertion order,
// which is also their temporal order. A Buffer never holds more than
// its capacity: once full, Append fails and the Buffer is left
// unchanged. There is no eviction; the Buffer is emptied as a whole
// with Clear at the end of each episode.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	transitions []ts.Transition
	capacity    int
}

// New returns a new, empty Buffer holding at most capacity transitions
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("new: capacity must be positive, have(%v)",
			capacity)
	}

	return &Buffer{
		transitions: make([]ts.Transition, 0, capacity),
		capacity:    capacity,
	}, nil
}

// Append adds t to the end of the Buffer
func (b *Buffer) Append(t ts.Transition) error {
	if len(b.transitions) >= b.capacity {
		return &Error{Op: "append", Err: ErrCapacityExceeded}
	}
	b.transitions = append(b.transitions, t)
	return nil
}

// Clear removes all transitions from the Buffer
func (b *Buffer) Clear() {
	for i := range b.transitions {
		b.transitions[i] = ts.Transition{}
	}
	b.transitions = b.transitions[:0]
}

// At returns the transition stored at index i
func (b *Buffer) At(i int) (ts.Transition, error) {
	if i < 0 || i >= len(b.transitions) {
		return ts.Transition{}, &Error{
			Op:  "at",
			Err: fmt.Errorf("%w: index %v, length %v", ErrIndexOutOfRange, i,
				len(b.transitions)),
		}
	}
	return b.transitions[i], nil
}

// Len returns the number of stored transitions
func (b *Buffer) Len() int {
	return len(b.transitions)
}

// Cap returns the maximum number of transitions the Buffer can hold
func (b *Buffer) Cap() int {
	return b.capacity
}

// Full returns whether the Buffer is at capacity
func (b *Buffer) Full() bool {
	return len(b.transitions) == b.capacity
}

// Rewards returns a copy of the rewards of all stored transitions in
// temporal order
func (b *Buffer) Rewards() []float64 {
	rewards := make([]float64, len(b.transitions))
	for i, t := range b.transitions {
		rewards[i] = t.Reward
	}
	return rewards
}

// States returns the states of all stored transitions in temporal
// order. The returned slices alias the stored states and must not be
// modified.
func (b *Buffer) States() [][]float64 {
	states := make([][]float64, len(b.transitions))
	for i, t := range b.transitions {
		states[i] = t.State
	}
	return states
}
