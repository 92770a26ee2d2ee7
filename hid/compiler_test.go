package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompiler() *Compiler {
	return NewCompiler(NewSlotRegistry())
}

func assertMonotonic(t *testing.T, steps []Step) {
	t.Helper()
	for i := 1; i < len(steps); i++ {
		assert.GreaterOrEqual(t, steps[i].Offset, steps[i-1].Offset,
			"step %d offset went backwards", i)
	}
}

func phaseCounts(steps []Step) map[Phase]int {
	counts := make(map[Phase]int)
	for _, s := range steps {
		for _, r := range s.Records {
			counts[r.Phase]++
		}
	}
	return counts
}

func TestCompile_Tap(t *testing.T) {
	steps, err := newTestCompiler().Compile(TapSpec(100, 200))
	require.NoError(t, err)
	require.Len(t, steps, 2)

	require.Len(t, steps[0].Records, 1)
	require.Len(t, steps[1].Records, 1)

	down, up := steps[0].Records[0], steps[1].Records[0]
	assert.Equal(t, PhaseBegan, down.Phase)
	assert.Equal(t, PhaseEnded, up.Phase)
	assert.Equal(t, down.Slot, up.Slot)

	assert.InDelta(t, 0, steps[0].Offset.Seconds(), 1e-9)
	assert.InDelta(t, 0.05, steps[1].Offset.Seconds(), 1e-9)

	for _, r := range []TouchRecord{down, up} {
		assert.InDelta(t, 100, r.X, 1e-9)
		assert.InDelta(t, 200, r.Y, 1e-9)
	}
}

func TestCompile_DoubleTap(t *testing.T) {
	steps, err := newTestCompiler().Compile(DoubleTapSpec(50, 50))
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assertMonotonic(t, steps)

	wantOffsets := []float64{0, 0.05, 0.20, 0.25}
	wantPhases := []Phase{PhaseBegan, PhaseEnded, PhaseBegan, PhaseEnded}
	for i, step := range steps {
		require.Len(t, step.Records, 1)
		assert.InDelta(t, wantOffsets[i], step.Offset.Seconds(), 1e-9, "step %d", i)
		assert.Equal(t, wantPhases[i], step.Records[0].Phase, "step %d", i)
		assert.InDelta(t, 50, step.Records[0].X, 1e-9)
	}
}

func TestCompile_DragSampleLayout(t *testing.T) {
	spec := dragSpec(0, 0, 100, 100, 1.0, 0.1, CurveLinear)
	steps, err := newTestCompiler().Compile(spec)
	require.NoError(t, err)
	require.Len(t, steps, 11)
	assertMonotonic(t, steps)

	counts := phaseCounts(steps)
	assert.Equal(t, 1, counts[PhaseBegan])
	assert.Equal(t, 9, counts[PhaseMoved])
	assert.Equal(t, 1, counts[PhaseEnded])

	// the 5th moved sample sits halfway
	fifthMoved := steps[5].Records[0]
	assert.Equal(t, PhaseMoved, fifthMoved.Phase)
	assert.InDelta(t, 50, fifthMoved.X, 1e-6)
	assert.InDelta(t, 50, fifthMoved.Y, 1e-6)

	// endpoints are exact
	assert.InDelta(t, 0, steps[0].Records[0].X, 1e-9)
	assert.InDelta(t, 100, steps[10].Records[0].X, 1e-9)
	assert.InDelta(t, 1.0, steps[10].Offset.Seconds(), 1e-9)
}

func TestCompile_PinchConcurrentPaths(t *testing.T) {
	spec := PinchSpec(Rect{X: 0, Y: 0, Width: 400, Height: 400}, 2.0, 0, 0.5)
	steps, err := newTestCompiler().Compile(spec)
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assertMonotonic(t, steps)

	for i, step := range steps {
		require.Len(t, step.Records, 2, "step %d must carry both touch paths", i)
		assert.NotEqual(t, step.Records[0].Slot, step.Records[1].Slot, "step %d", i)
	}

	// both paths begin together and end together
	assert.Equal(t, PhaseBegan, steps[0].Records[0].Phase)
	assert.Equal(t, PhaseBegan, steps[0].Records[1].Phase)
	last := steps[len(steps)-1]
	assert.Equal(t, PhaseEnded, last.Records[0].Phase)
	assert.Equal(t, PhaseEnded, last.Records[1].Phase)

	// scale 2 about the center pushes the diagonal endpoints outward
	assert.InDelta(t, 300, steps[0].Records[0].X, 1e-9)
	assert.InDelta(t, 100, steps[0].Records[1].X, 1e-9)
	assert.InDelta(t, 400, last.Records[0].X, 1e-9)
	assert.InDelta(t, 0, last.Records[1].X, 1e-9)
}

func TestCompile_CoordinateSpacePreserved(t *testing.T) {
	spec := &StreamSpec{Events: []SubEvent{
		LiteralEvent{
			InputType:       InputTypeFinger,
			Phase:           PhaseBegan,
			CoordinateSpace: CoordinateSpaceContent,
			Touches:         []Touch{{ID: 1, X: 5, Y: 5}},
		},
		LiteralEvent{
			TimeOffset:      0.05,
			InputType:       InputTypeFinger,
			Phase:           PhaseEnded,
			CoordinateSpace: CoordinateSpaceContent,
			Touches:         []Touch{{ID: 1, X: 5, Y: 5}},
		},
	}}
	steps, err := newTestCompiler().Compile(spec)
	require.NoError(t, err)
	for _, step := range steps {
		for _, r := range step.Records {
			assert.Equal(t, CoordinateSpaceContent, r.CoordinateSpace)
		}
	}
}

func TestCompile_SplitDownAndUpStreams(t *testing.T) {
	c := newTestCompiler()

	_, err := c.Compile(TouchDownSpec(10, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, c.ActiveTouches())

	_, err = c.Compile(LiftUpSpec(10, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, c.ActiveTouches())
}

func TestCompile_TerminalCanceled(t *testing.T) {
	spec := &StreamSpec{Events: []SubEvent{
		InterpolatedEvent{
			InputType:       InputTypeFinger,
			CoordinateSpace: CoordinateSpaceGlobal,
			Curve:           CurveLinear,
			Timestep:        0.05,
			Start:           EndpointState{Phase: PhaseBegan, Touches: []Touch{{ID: 1, X: 0, Y: 0}}},
			End:             EndpointState{TimeOffset: 0.2, Phase: PhaseCanceled, Touches: []Touch{{ID: 1, X: 10, Y: 10}}},
		},
	}}
	c := newTestCompiler()
	steps, err := c.Compile(spec)
	require.NoError(t, err)
	last := steps[len(steps)-1]
	assert.Equal(t, PhaseCanceled, last.Records[0].Phase)
	assert.Equal(t, 0, c.ActiveTouches())
}

func TestCompile_MalformedStreams(t *testing.T) {
	tooMany := make([]Touch, MaxTouchCount+1)
	for i := range tooMany {
		tooMany[i] = Touch{ID: i + 1}
	}

	tests := []struct {
		name    string
		spec    *StreamSpec
		wantErr error
	}{
		{
			name:    "empty stream",
			spec:    &StreamSpec{},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "too many touches",
			spec: &StreamSpec{Events: []SubEvent{
				LiteralEvent{InputType: InputTypeHand, Phase: PhaseBegan, CoordinateSpace: CoordinateSpaceGlobal, Touches: tooMany},
			}},
			wantErr: ErrSlotsExhausted,
		},
		{
			name: "moved with no began",
			spec: &StreamSpec{Events: []SubEvent{
				LiteralEvent{InputType: InputTypeFinger, Phase: PhaseMoved, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 1}}},
			}},
			wantErr: ErrIllegalTransition,
		},
		{
			name: "double began same touch",
			spec: &StreamSpec{Events: []SubEvent{
				LiteralEvent{InputType: InputTypeFinger, Phase: PhaseBegan, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 1}}},
				LiteralEvent{TimeOffset: 0.1, InputType: InputTypeFinger, Phase: PhaseBegan, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 1}}},
			}},
			wantErr: ErrIllegalTransition,
		},
		{
			name: "time goes backwards",
			spec: &StreamSpec{Events: []SubEvent{
				LiteralEvent{TimeOffset: 0.5, InputType: InputTypeFinger, Phase: PhaseBegan, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 1}}},
				LiteralEvent{TimeOffset: 0.1, InputType: InputTypeFinger, Phase: PhaseEnded, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 1}}},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "zero timestep",
			spec: &StreamSpec{Events: []SubEvent{
				InterpolatedEvent{
					InputType: InputTypeFinger, CoordinateSpace: CoordinateSpaceGlobal, Curve: CurveLinear,
					Start: EndpointState{Phase: PhaseBegan, Touches: []Touch{{ID: 1}}},
					End:   EndpointState{TimeOffset: 1, Phase: PhaseEnded, Touches: []Touch{{ID: 1}}},
				},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "non-terminal interpolation end",
			spec: &StreamSpec{Events: []SubEvent{
				InterpolatedEvent{
					InputType: InputTypeFinger, CoordinateSpace: CoordinateSpaceGlobal, Curve: CurveLinear, Timestep: 0.1,
					Start: EndpointState{Phase: PhaseBegan, Touches: []Touch{{ID: 1}}},
					End:   EndpointState{TimeOffset: 1, Phase: PhaseMoved, Touches: []Touch{{ID: 1}}},
				},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "touch count mismatch",
			spec: &StreamSpec{Events: []SubEvent{
				InterpolatedEvent{
					InputType: InputTypeHand, CoordinateSpace: CoordinateSpaceGlobal, Curve: CurveLinear, Timestep: 0.1,
					Start: EndpointState{Phase: PhaseBegan, Touches: []Touch{{ID: 1}, {ID: 2}}},
					End:   EndpointState{TimeOffset: 1, Phase: PhaseEnded, Touches: []Touch{{ID: 1}}},
				},
			}},
			wantErr: ErrMalformedSpec,
		},
		{
			name: "unknown coordinate space",
			spec: &StreamSpec{Events: []SubEvent{
				LiteralEvent{InputType: InputTypeFinger, Phase: PhaseBegan, CoordinateSpace: "screen", Touches: []Touch{{ID: 1}}},
			}},
			wantErr: ErrMalformedSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler()
			steps, err := c.Compile(tt.spec)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, steps)

			// no partial state leaks out of a failed compile
			assert.Equal(t, 0, c.ActiveTouches())
			assert.Equal(t, 0, c.reg.ActiveCount())
		})
	}
}

func TestCompile_RollbackPreservesPriorTouches(t *testing.T) {
	c := newTestCompiler()

	_, err := c.Compile(TouchDownSpec(10, 10, 1))
	require.NoError(t, err)
	require.Equal(t, 1, c.ActiveTouches())

	// a failing stream must not disturb the touch held by the earlier one
	bad := &StreamSpec{Events: []SubEvent{
		LiteralEvent{InputType: InputTypeFinger, Phase: PhaseMoved, CoordinateSpace: CoordinateSpaceGlobal, Touches: []Touch{{ID: 99}}},
	}}
	_, err = c.Compile(bad)
	require.Error(t, err)
	assert.Equal(t, 1, c.ActiveTouches())
	assert.Equal(t, 1, c.reg.ActiveCount())

	_, err = c.Compile(LiftUpSpec(10, 10, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, c.ActiveTouches())
}

func TestCompile_ZeroDurationInterpolation(t *testing.T) {
	spec := &StreamSpec{Events: []SubEvent{
		InterpolatedEvent{
			InputType: InputTypeFinger, CoordinateSpace: CoordinateSpaceGlobal, Curve: CurveLinear, Timestep: 0.1,
			Start: EndpointState{Phase: PhaseBegan, Touches: []Touch{{ID: 1, X: 0}}},
			End:   EndpointState{TimeOffset: 0, Phase: PhaseEnded, Touches: []Touch{{ID: 1, X: 10}}},
		},
	}}
	steps, err := newTestCompiler().Compile(spec)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, PhaseBegan, steps[0].Records[0].Phase)
	assert.Equal(t, PhaseEnded, steps[1].Records[0].Phase)
}
