package hid

import "errors"

var (
	// ErrSlotsExhausted is returned when more than MaxTouchCount touches
	// are active at the same time.
	ErrSlotsExhausted = errors.New("touch slots exhausted")

	// ErrIllegalTransition is returned when a phase is applied to a slot
	// whose lifecycle does not permit it.
	ErrIllegalTransition = errors.New("illegal touch phase transition")

	// ErrMalformedSpec is returned for event streams with missing or
	// invalid fields. A malformed stream is never partially dispatched.
	ErrMalformedSpec = errors.New("malformed event stream")
)
