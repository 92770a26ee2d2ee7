package hid

import (
	"fmt"
	"time"
)

// Step is one scheduled instant of a compiled stream: every record in
// Records is dispatched before time advances past Offset. A step with
// no records is a keep-alive heartbeat.
type Step struct {
	Offset  time.Duration `json:"timeOffset"`
	Records []TouchRecord `json:"records"`
}

// Compiler turns declarative stream specs into time-ordered steps,
// assigning slots and validating phase sequences against a shared
// registry. Touch identifiers left active by one stream (a touch-down
// with no lift) stay active for the next, so split down/move/up streams
// compose. Not safe for concurrent use; the generator serializes all
// compilation and dispatch on one worker.
type Compiler struct {
	reg    *SlotRegistry
	active map[int]SlotID
}

// NewCompiler returns a compiler bound to a slot registry.
func NewCompiler(reg *SlotRegistry) *Compiler {
	return &Compiler{
		reg:    reg,
		active: make(map[int]SlotID),
	}
}

// ActiveTouches returns the number of touch identifiers still held
// across streams.
func (c *Compiler) ActiveTouches() int {
	return len(c.active)
}

// Compile validates and expands a stream spec into dispatch steps.
// The whole stream is checked before anything is returned: on error the
// registry and the active-touch table are left exactly as they were,
// and no partial stream escapes.
func (c *Compiler) Compile(spec *StreamSpec) ([]Step, error) {
	if spec == nil || len(spec.Events) == 0 {
		return nil, fmt.Errorf("%w: no events", ErrMalformedSpec)
	}

	savedSlots := c.reg.snapshot()
	savedActive := make(map[int]SlotID, len(c.active))
	for id, slot := range c.active {
		savedActive[id] = slot
	}

	steps, err := c.compile(spec)
	if err != nil {
		c.reg.restore(savedSlots)
		c.active = savedActive
		return nil, err
	}
	return steps, nil
}

func (c *Compiler) compile(spec *StreamSpec) ([]Step, error) {
	var steps []Step
	lastOffset := -1.0

	for i, ev := range spec.Events {
		var (
			expanded []Step
			err      error
		)
		switch e := ev.(type) {
		case LiteralEvent:
			expanded, err = c.expandLiteral(e, lastOffset)
		case InterpolatedEvent:
			expanded, err = c.expandInterpolated(e, lastOffset)
		default:
			err = fmt.Errorf("%w: unknown sub-event variant %T", ErrMalformedSpec, ev)
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if len(expanded) > 0 {
			lastOffset = expanded[len(expanded)-1].Offset.Seconds()
		}
		steps = append(steps, expanded...)
	}
	return steps, nil
}

func (c *Compiler) expandLiteral(e LiteralEvent, lastOffset float64) ([]Step, error) {
	if err := validateEvent(e.InputType, e.CoordinateSpace, e.TimeOffset, lastOffset, len(e.Touches)); err != nil {
		return nil, err
	}
	if !e.Phase.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrMalformedSpec, e.Phase)
	}

	records := make([]TouchRecord, 0, len(e.Touches))
	for _, touch := range e.Touches {
		slot, err := c.transition(touch.ID, e.Phase)
		if err != nil {
			return nil, err
		}
		records = append(records, TouchRecord{
			Touch:           touch,
			Slot:            slot,
			Phase:           e.Phase,
			InputType:       e.InputType,
			CoordinateSpace: e.CoordinateSpace,
		})
	}
	return []Step{{Offset: seconds(e.TimeOffset), Records: records}}, nil
}

func (c *Compiler) expandInterpolated(e InterpolatedEvent, lastOffset float64) ([]Step, error) {
	if err := validateEvent(e.InputType, e.CoordinateSpace, e.Start.TimeOffset, lastOffset, len(e.Start.Touches)); err != nil {
		return nil, err
	}
	if !e.Curve.IsValid() {
		return nil, fmt.Errorf("%w: unknown curve %q", ErrMalformedSpec, e.Curve)
	}
	if e.Timestep <= 0 {
		return nil, fmt.Errorf("%w: timestep must be positive", ErrMalformedSpec)
	}
	if len(e.Start.Touches) != len(e.End.Touches) {
		return nil, fmt.Errorf("%w: start has %d touches, end has %d",
			ErrMalformedSpec, len(e.Start.Touches), len(e.End.Touches))
	}
	if !e.End.Phase.IsTerminal() {
		return nil, fmt.Errorf("%w: interpolation must end with a terminal phase, got %q",
			ErrMalformedSpec, e.End.Phase)
	}

	duration := e.Duration()
	if duration < 0 {
		return nil, fmt.Errorf("%w: end precedes start", ErrMalformedSpec)
	}

	// ceil(duration/timestep) intervals; a degenerate duration still
	// yields the two endpoint samples.
	nsteps := StepsFor(duration, e.Timestep)
	if nsteps < 1 {
		nsteps = 1
	}

	paths := make([][]TouchState, len(e.Start.Touches))
	for i, start := range e.Start.Touches {
		end := e.End.Touches[i]
		if start.ID != end.ID {
			return nil, fmt.Errorf("%w: touch %d changes id %d -> %d mid-interpolation",
				ErrMalformedSpec, i, start.ID, end.ID)
		}
		paths[i] = Interpolate(start.state(), end.state(), e.Curve, nsteps)
	}

	steps := make([]Step, 0, nsteps+1)
	for k := 0; k <= nsteps; k++ {
		var phase Phase
		offset := e.Start.TimeOffset + float64(k)*e.Timestep
		switch k {
		case 0:
			phase = PhaseBegan // adjusted per touch below for already-active ids
		case nsteps:
			phase = e.End.Phase
			offset = e.End.TimeOffset
		default:
			phase = PhaseMoved
		}

		records := make([]TouchRecord, 0, len(paths))
		for i, path := range paths {
			touch := e.Start.Touches[i].withState(sampleAt(path, k))
			samplePhase := phase
			if k == 0 {
				if _, already := c.active[touch.ID]; already {
					samplePhase = PhaseMoved
				}
			}
			slot, err := c.transition(touch.ID, samplePhase)
			if err != nil {
				return nil, err
			}
			records = append(records, TouchRecord{
				Touch:           touch,
				Slot:            slot,
				Phase:           samplePhase,
				InputType:       e.InputType,
				CoordinateSpace: e.CoordinateSpace,
			})
		}
		steps = append(steps, Step{Offset: seconds(offset), Records: records})
	}
	return steps, nil
}

// transition maps a spec-level touch id onto a slot and applies the
// phase, allocating on began and dropping the mapping on terminal
// phases.
func (c *Compiler) transition(touchID int, phase Phase) (SlotID, error) {
	slot, ok := c.active[touchID]
	if phase == PhaseBegan {
		if ok {
			return -1, fmt.Errorf("%w: touch %d began while already active", ErrIllegalTransition, touchID)
		}
		var err error
		slot, err = c.reg.Allocate()
		if err != nil {
			return -1, err
		}
		if err := c.reg.Transition(slot, PhaseBegan); err != nil {
			c.reg.Release(slot)
			return -1, err
		}
		c.active[touchID] = slot
		return slot, nil
	}

	if !ok {
		return -1, fmt.Errorf("%w: touch %d has no active slot for phase %q", ErrIllegalTransition, touchID, phase)
	}
	if err := c.reg.Transition(slot, phase); err != nil {
		return -1, err
	}
	if phase.IsTerminal() {
		delete(c.active, touchID)
	}
	return slot, nil
}

func validateEvent(inputType InputType, space CoordinateSpace, offset, lastOffset float64, touchCount int) error {
	if !inputType.IsValid() {
		return fmt.Errorf("%w: unknown input type %q", ErrMalformedSpec, inputType)
	}
	if !space.IsValid() {
		return fmt.Errorf("%w: unknown coordinate space %q", ErrMalformedSpec, space)
	}
	if touchCount == 0 {
		return fmt.Errorf("%w: no touches", ErrMalformedSpec)
	}
	if touchCount > MaxTouchCount {
		return fmt.Errorf("%w: %d touches requested, limit is %d", ErrSlotsExhausted, touchCount, MaxTouchCount)
	}
	if offset < lastOffset {
		return fmt.Errorf("%w: time offset %.4f precedes previous %.4f", ErrMalformedSpec, offset, lastOffset)
	}
	return nil
}

func sampleAt(path []TouchState, k int) TouchState {
	if k >= len(path) {
		return path[len(path)-1]
	}
	return path[k]
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
