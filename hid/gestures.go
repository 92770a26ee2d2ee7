package hid

import "math"

// Canonical gesture timing. A finger settles for 0.05s between down and
// up, repeated taps are spaced at least 0.15s apart, and a long press
// holds for 2s.
const (
	fingerLiftDelay   = 0.05
	multiTapInterval  = 0.15
	longPressDuration = 2.0

	// interval between stationary samples during a long-press hold
	holdSampleInterval = 0.5

	// interval between interpolated samples of drags and pinches
	moveSampleInterval = 1.0 / 60.0

	// horizontal spacing between concurrent fingers of one hand
	fingerSpacing = 30.0

	defaultTouchRadius = 5.0
)

// Rect is an axis-aligned region used to derive pinch touch paths.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func fingerTouch(id int, x, y float64) Touch {
	return Touch{
		ID:          id,
		X:           x,
		Y:           y,
		MajorRadius: defaultTouchRadius,
		MinorRadius: defaultTouchRadius,
		Finger:      id,
	}
}

// handTouches spreads count fingers horizontally around (x, y).
func handTouches(x, y float64, count int) []Touch {
	touches := make([]Touch, count)
	for i := range touches {
		dx := (float64(i) - float64(count-1)/2) * fingerSpacing
		touches[i] = fingerTouch(i+1, x+dx, y)
	}
	return touches
}

func inputTypeFor(touchCount int) InputType {
	if touchCount > 1 {
		return InputTypeHand
	}
	return InputTypeFinger
}

// TapSpec is a single-finger tap: began and ended 0.05s apart at the
// same point.
func TapSpec(x, y float64) *StreamSpec {
	return TapsSpec(1, x, y, 1, 0)
}

// DoubleTapSpec is two taps 0.15s apart, 0.25s total.
func DoubleTapSpec(x, y float64) *StreamSpec {
	return TapsSpec(2, x, y, 1, 0)
}

// TwoFingerTapSpec and ThreeFingerTapSpec tap once with multiple
// concurrent fingers.
func TwoFingerTapSpec(x, y float64) *StreamSpec   { return TapsSpec(1, x, y, 2, 0) }
func ThreeFingerTapSpec(x, y float64) *StreamSpec { return TapsSpec(1, x, y, 3, 0) }

// TapsSpec taps tapCount times with touchCount concurrent fingers.
// Total duration is 0.05*tapCount + max(0.15, delay)*(tapCount-1).
func TapsSpec(tapCount int, x, y float64, touchCount int, delay float64) *StreamSpec {
	gap := math.Max(multiTapInterval, delay)
	inputType := inputTypeFor(touchCount)

	spec := &StreamSpec{}
	for i := 0; i < tapCount; i++ {
		start := float64(i) * (fingerLiftDelay + gap)
		spec.Events = append(spec.Events,
			LiteralEvent{
				TimeOffset:      start,
				InputType:       inputType,
				Phase:           PhaseBegan,
				CoordinateSpace: CoordinateSpaceGlobal,
				Touches:         handTouches(x, y, touchCount),
			},
			LiteralEvent{
				TimeOffset:      start + fingerLiftDelay,
				InputType:       inputType,
				Phase:           PhaseEnded,
				CoordinateSpace: CoordinateSpaceGlobal,
				Touches:         handTouches(x, y, touchCount),
			},
		)
	}
	return spec
}

// TouchDownSpec presses count fingers at (x, y) and leaves them active,
// to be released later by LiftUpSpec.
func TouchDownSpec(x, y float64, count int) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{
		LiteralEvent{
			InputType:       inputTypeFor(count),
			Phase:           PhaseBegan,
			CoordinateSpace: CoordinateSpaceGlobal,
			Touches:         handTouches(x, y, count),
		},
	}}
}

// LiftUpSpec releases count fingers at (x, y).
func LiftUpSpec(x, y float64, count int) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{
		LiteralEvent{
			InputType:       inputTypeFor(count),
			Phase:           PhaseEnded,
			CoordinateSpace: CoordinateSpaceGlobal,
			Touches:         handTouches(x, y, count),
		},
	}}
}

// LongPressSpec presses at (x, y), holds with stationary samples for
// 2s, then lifts. Dispatched asynchronously by the generator API.
func LongPressSpec(x, y float64) *StreamSpec {
	spec := &StreamSpec{Events: []SubEvent{
		LiteralEvent{
			InputType:       InputTypeFinger,
			Phase:           PhaseBegan,
			CoordinateSpace: CoordinateSpaceGlobal,
			Touches:         handTouches(x, y, 1),
		},
	}}
	for t := holdSampleInterval; t < longPressDuration; t += holdSampleInterval {
		spec.Events = append(spec.Events, LiteralEvent{
			TimeOffset:      t,
			InputType:       InputTypeFinger,
			Phase:           PhaseStationary,
			CoordinateSpace: CoordinateSpaceGlobal,
			Touches:         handTouches(x, y, 1),
		})
	}
	spec.Events = append(spec.Events, LiteralEvent{
		TimeOffset:      longPressDuration,
		InputType:       InputTypeFinger,
		Phase:           PhaseEnded,
		CoordinateSpace: CoordinateSpaceGlobal,
		Touches:         handTouches(x, y, 1),
	})
	return spec
}

// DragSpec moves one finger from (x1, y1) to (x2, y2) over the given
// duration, sampling at 60Hz. The curve selects linear or eased motion.
func DragSpec(x1, y1, x2, y2, duration float64, curve Curve) *StreamSpec {
	return dragSpec(x1, y1, x2, y2, duration, moveSampleInterval, curve)
}

func dragSpec(x1, y1, x2, y2, duration, timestep float64, curve Curve) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{
		InterpolatedEvent{
			InputType:       InputTypeFinger,
			CoordinateSpace: CoordinateSpaceGlobal,
			Curve:           curve,
			Timestep:        timestep,
			Start: EndpointState{
				Phase:   PhaseBegan,
				Touches: []Touch{fingerTouch(1, x1, y1)},
			},
			End: EndpointState{
				TimeOffset: duration,
				Phase:      PhaseEnded,
				Touches:    []Touch{fingerTouch(1, x2, y2)},
			},
		},
	}}
}

// PinchSpec moves two fingers along the diagonal of bounds: each starts
// a quarter-diagonal from the center and ends at that offset scaled by
// scale and rotated by angle (radians). Both paths share timestamps and
// occupy distinct slots.
func PinchSpec(bounds Rect, scale, angle, duration float64) *StreamSpec {
	cx := bounds.X + bounds.Width/2
	cy := bounds.Y + bounds.Height/2
	dx := bounds.Width / 4
	dy := bounds.Height / 4

	sin, cos := math.Sincos(angle)
	ex := scale * (dx*cos - dy*sin)
	ey := scale * (dx*sin + dy*cos)

	start := []Touch{
		fingerTouch(1, cx+dx, cy+dy),
		fingerTouch(2, cx-dx, cy-dy),
	}
	end := []Touch{
		fingerTouch(1, cx+ex, cy+ey),
		fingerTouch(2, cx-ex, cy-ey),
	}

	return &StreamSpec{Events: []SubEvent{
		InterpolatedEvent{
			InputType:       InputTypeHand,
			CoordinateSpace: CoordinateSpaceGlobal,
			Curve:           CurveLinear,
			Timestep:        moveSampleInterval,
			Start:           EndpointState{Phase: PhaseBegan, Touches: start},
			End:             EndpointState{TimeOffset: duration, Phase: PhaseEnded, Touches: end},
		},
	}}
}

func stylusTouch(x, y, azimuth, altitude, pressure float64) Touch {
	return Touch{
		ID:          1,
		X:           x,
		Y:           y,
		Pressure:    pressure,
		MajorRadius: defaultTouchRadius,
		MinorRadius: defaultTouchRadius,
		Azimuth:     azimuth,
		Altitude:    altitude,
	}
}

func stylusEvent(phase Phase, offset, x, y, azimuth, altitude, pressure float64) LiteralEvent {
	return LiteralEvent{
		TimeOffset:      offset,
		InputType:       InputTypeStylus,
		Phase:           phase,
		CoordinateSpace: CoordinateSpaceGlobal,
		Touches:         []Touch{stylusTouch(x, y, azimuth, altitude, pressure)},
	}
}

// Stylus specs mirror the finger down/move/up split, carrying azimuth
// and altitude angles on every sample.

func StylusDownSpec(x, y, azimuth, altitude, pressure float64) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{stylusEvent(PhaseBegan, 0, x, y, azimuth, altitude, pressure)}}
}

func StylusMoveSpec(x, y, azimuth, altitude, pressure float64) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{stylusEvent(PhaseMoved, 0, x, y, azimuth, altitude, pressure)}}
}

func StylusUpSpec(x, y float64) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{stylusEvent(PhaseEnded, 0, x, y, 0, 0, 0)}}
}

// StylusTapSpec taps with the stylus, down and up 0.05s apart.
func StylusTapSpec(x, y, azimuth, altitude, pressure float64) *StreamSpec {
	return &StreamSpec{Events: []SubEvent{
		stylusEvent(PhaseBegan, 0, x, y, azimuth, altitude, pressure),
		stylusEvent(PhaseEnded, fingerLiftDelay, x, y, azimuth, altitude, 0),
	}}
}
