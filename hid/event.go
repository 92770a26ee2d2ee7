package hid

// Phase is the lifecycle stage of one touch identifier.
type Phase string

const (
	PhaseBegan      Phase = "began"
	PhaseStationary Phase = "stationary"
	PhaseMoved      Phase = "moved"
	PhaseEnded      Phase = "ended"
	PhaseCanceled   Phase = "canceled"
)

// IsValid reports whether p is one of the five known phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseBegan, PhaseStationary, PhaseMoved, PhaseEnded, PhaseCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether p releases the touch slot.
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseCanceled
}

// InputType distinguishes multi-finger hand events, single-finger events,
// and stylus events.
type InputType string

const (
	InputTypeHand   InputType = "hand"
	InputTypeFinger InputType = "finger"
	InputTypeStylus InputType = "stylus"
)

func (t InputType) IsValid() bool {
	switch t {
	case InputTypeHand, InputTypeFinger, InputTypeStylus:
		return true
	}
	return false
}

// CoordinateSpace tags positions as device-global or content-relative.
// The engine never transforms coordinates; the tag is carried verbatim
// so the consumer can apply its own mapping.
type CoordinateSpace string

const (
	CoordinateSpaceGlobal  CoordinateSpace = "global"
	CoordinateSpaceContent CoordinateSpace = "content"
)

func (s CoordinateSpace) IsValid() bool {
	return s == CoordinateSpaceGlobal || s == CoordinateSpaceContent
}

// MaxTouchCount is the hard limit on simultaneously active touches.
const MaxTouchCount = 30

// Touch describes one contact point as it appears in a declarative
// event stream. JSON field names match the wire format.
type Touch struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Pressure    float64 `json:"pressure"`
	Twist       float64 `json:"twist"`
	Mask        uint32  `json:"mask,omitempty"`
	MajorRadius float64 `json:"majorRadius"`
	MinorRadius float64 `json:"minorRadius"`
	Finger      int     `json:"finger,omitempty"`

	// Stylus orientation, meaningful only for InputTypeStylus.
	Azimuth  float64 `json:"azimuth,omitempty"`
	Altitude float64 `json:"altitude,omitempty"`
}

// TouchRecord is one fully-populated sample handed to the dispatch sink:
// a contact point plus its phase, input type, and coordinate space.
type TouchRecord struct {
	Touch
	Slot            SlotID          `json:"slot"`
	Phase           Phase           `json:"phase"`
	InputType       InputType       `json:"inputType"`
	CoordinateSpace CoordinateSpace `json:"coordinateSpace"`
}
