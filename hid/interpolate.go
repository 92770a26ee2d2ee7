package hid

import "math"

// Curve selects how interpolation progress is mapped over time.
type Curve string

const (
	// CurveLinear advances uniformly between the endpoints.
	CurveLinear Curve = "linear"

	// CurveSimple eases in and out via smoothstep, mimicking human
	// deceleration at the ends of a gesture.
	CurveSimple Curve = "simpleCurve"
)

func (c Curve) IsValid() bool {
	return c == CurveLinear || c == CurveSimple
}

// apply maps normalized progress t in [0,1] to eased progress.
func (c Curve) apply(t float64) float64 {
	if c == CurveSimple {
		return t * t * (3 - 2*t)
	}
	return t
}

// TouchState holds the interpolatable components of one touch.
type TouchState struct {
	X           float64
	Y           float64
	Pressure    float64
	Twist       float64
	MajorRadius float64
	MinorRadius float64
	Azimuth     float64
	Altitude    float64
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func (s TouchState) blend(end TouchState, t float64) TouchState {
	return TouchState{
		X:           lerp(s.X, end.X, t),
		Y:           lerp(s.Y, end.Y, t),
		Pressure:    lerp(s.Pressure, end.Pressure, t),
		Twist:       lerp(s.Twist, end.Twist, t),
		MajorRadius: lerp(s.MajorRadius, end.MajorRadius, t),
		MinorRadius: lerp(s.MinorRadius, end.MinorRadius, t),
		Azimuth:     lerp(s.Azimuth, end.Azimuth, t),
		Altitude:    lerp(s.Altitude, end.Altitude, t),
	}
}

// Interpolate produces the sequence of states from start to end with
// the given number of intermediate steps. The result has steps+1
// elements; the first equals start and the last equals end exactly.
// Identical endpoints collapse to a single element, and steps < 1
// degenerates to [start, end].
func Interpolate(start, end TouchState, curve Curve, steps int) []TouchState {
	if start == end {
		return []TouchState{start}
	}
	if steps < 1 {
		return []TouchState{start, end}
	}

	out := make([]TouchState, 0, steps+1)
	out = append(out, start)
	for k := 1; k < steps; k++ {
		t := curve.apply(float64(k) / float64(steps))
		out = append(out, start.blend(end, t))
	}
	out = append(out, end)
	return out
}

// StepsFor converts a duration and a timestep (both in seconds) into a
// step count of ceil(duration/timestep).
func StepsFor(duration, timestep float64) int {
	if duration <= 0 || timestep <= 0 {
		return 0
	}
	// epsilon guards against float noise pushing an exact quotient past
	// the next integer
	return int(math.Ceil(duration/timestep - 1e-9))
}

// state extracts the interpolatable components of a touch.
func (t Touch) state() TouchState {
	return TouchState{
		X:           t.X,
		Y:           t.Y,
		Pressure:    t.Pressure,
		Twist:       t.Twist,
		MajorRadius: t.MajorRadius,
		MinorRadius: t.MinorRadius,
		Azimuth:     t.Azimuth,
		Altitude:    t.Altitude,
	}
}

// withState returns a copy of t with the interpolated components
// replaced; identity fields (ID, Mask, Finger) are preserved.
func (t Touch) withState(s TouchState) Touch {
	t.X = s.X
	t.Y = s.Y
	t.Pressure = s.Pressure
	t.Twist = s.Twist
	t.MajorRadius = s.MajorRadius
	t.MinorRadius = s.MinorRadius
	t.Azimuth = s.Azimuth
	t.Altitude = s.Altitude
	return t
}
