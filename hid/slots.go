package hid

import (
	"fmt"
	"sync"
)

// SlotID identifies one touch slot, 0..MaxTouchCount-1.
type SlotID int

type slotState int

const (
	slotFree slotState = iota
	slotAllocated
	slotActive
)

// SlotRegistry tracks the lifecycle of up to MaxTouchCount concurrently
// active touches and rejects phase sequences other than
// began, (stationary|moved)*, (ended|canceled).
type SlotRegistry struct {
	mu    sync.Mutex
	slots [MaxTouchCount]slotState
}

// NewSlotRegistry returns a registry with all slots free.
func NewSlotRegistry() *SlotRegistry {
	return &SlotRegistry{}
}

// Allocate reserves a free slot. The slot must receive a "began"
// transition before any other phase.
func (r *SlotRegistry) Allocate() (SlotID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i] == slotFree {
			r.slots[i] = slotAllocated
			return SlotID(i), nil
		}
	}
	return -1, fmt.Errorf("%w: %d touches already active", ErrSlotsExhausted, MaxTouchCount)
}

// Transition applies one phase to a slot, enforcing the touch state
// machine. Terminal phases free the slot.
func (r *SlotRegistry) Transition(id SlotID, phase Phase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || int(id) >= len(r.slots) {
		return fmt.Errorf("%w: slot %d out of range", ErrIllegalTransition, id)
	}

	state := r.slots[id]
	switch phase {
	case PhaseBegan:
		if state != slotAllocated {
			return fmt.Errorf("%w: began on slot %d in state %d", ErrIllegalTransition, id, state)
		}
		r.slots[id] = slotActive

	case PhaseMoved, PhaseStationary:
		if state != slotActive {
			return fmt.Errorf("%w: %s on inactive slot %d", ErrIllegalTransition, phase, id)
		}

	case PhaseEnded, PhaseCanceled:
		if state != slotActive {
			return fmt.Errorf("%w: %s on inactive slot %d", ErrIllegalTransition, phase, id)
		}
		r.slots[id] = slotFree

	default:
		return fmt.Errorf("%w: unknown phase %q", ErrIllegalTransition, phase)
	}
	return nil
}

// Release force-frees a slot regardless of state. Used for recovery
// after a failed compilation.
func (r *SlotRegistry) Release(id SlotID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id >= 0 && int(id) < len(r.slots) {
		r.slots[id] = slotFree
	}
}

// snapshot and restore let the compiler roll the whole table back when
// a stream turns out to be malformed partway through expansion.
func (r *SlotRegistry) snapshot() [MaxTouchCount]slotState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots
}

func (r *SlotRegistry) restore(slots [MaxTouchCount]slotState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = slots
}

// ActiveCount returns the number of slots currently allocated or active.
func (r *SlotRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.slots {
		if s != slotFree {
			n++
		}
	}
	return n
}
