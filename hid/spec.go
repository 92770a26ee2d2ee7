package hid

// StreamSpec is a declarative description of one event stream: an
// ordered list of sub-events with offsets relative to stream start.
type StreamSpec struct {
	Events []SubEvent
}

// SubEvent is one entry of a stream: either a literal list of touches
// at a fixed phase, or an interpolation directive expanding into many
// timed samples. Using a closed set of variants means malformed shapes
// are caught at construction rather than by key lookups at dispatch.
type SubEvent interface {
	offset() float64
}

// LiteralEvent emits one sample per touch at a single time offset.
type LiteralEvent struct {
	TimeOffset      float64
	InputType       InputType
	Phase           Phase
	CoordinateSpace CoordinateSpace
	Touches         []Touch
}

func (e LiteralEvent) offset() float64 { return e.TimeOffset }

// EndpointState is the start or end anchor of an interpolated sub-event.
type EndpointState struct {
	TimeOffset float64
	Phase      Phase
	Touches    []Touch
}

// InterpolatedEvent expands into samples between two endpoint states.
// The first sample begins any new touches, intermediate samples carry
// "moved", and the final sample carries End.Phase, which must be a
// terminal phase.
type InterpolatedEvent struct {
	TimeOffset      float64
	InputType       InputType
	CoordinateSpace CoordinateSpace
	Curve           Curve
	Timestep        float64
	Start           EndpointState
	End             EndpointState
}

func (e InterpolatedEvent) offset() float64 { return e.TimeOffset }

// Duration returns the time spanned by the interpolation.
func (e InterpolatedEvent) Duration() float64 {
	return e.End.TimeOffset - e.Start.TimeOffset
}
