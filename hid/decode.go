package hid

import (
	"bytes"
	"encoding/json"
	"fmt"

	"howett.net/plist"
)

// Wire keys of the declarative event-stream format.
const (
	keyEventInfo       = "eventInfo"
	keyEvents          = "events"
	keyInputType       = "inputType"
	keyTimeOffset      = "timeOffset"
	keyTouches         = "touches"
	keyPhase           = "phase"
	keyInterpolate     = "interpolate"
	keyTimestep        = "timestep"
	keyCoordinateSpace = "coordinateSpace"
	keyStartEvent      = "startEvent"
	keyEndEvent        = "endEvent"

	keyTouchID     = "id"
	keyPressure    = "pressure"
	keyX           = "x"
	keyY           = "y"
	keyTwist       = "twist"
	keyMask        = "mask"
	keyMajorRadius = "majorRadius"
	keyMinorRadius = "minorRadius"
	keyFinger      = "finger"
	keyAzimuth     = "azimuth"
	keyAltitude    = "altitude"
)

// DecodeStream parses a declarative event stream from raw bytes,
// accepting either JSON or a property list (XML or binary). Property
// lists are detected by their magic prefixes; everything else is
// treated as JSON.
func DecodeStream(data []byte) (*StreamSpec, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(data, []byte("bplist")) ||
		bytes.HasPrefix(trimmed, []byte("<?xml")) ||
		bytes.HasPrefix(trimmed, []byte("<plist")) ||
		bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) {
		return DecodePlistStream(data)
	}
	return DecodeJSONStream(data)
}

// DecodeJSONStream parses a JSON-encoded event stream.
func DecodeJSONStream(data []byte) (*StreamSpec, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	return decodeRoot(root)
}

// DecodePlistStream parses a property-list-encoded event stream.
func DecodePlistStream(data []byte) (*StreamSpec, error) {
	var root map[string]interface{}
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	return decodeRoot(root)
}

func decodeRoot(root map[string]interface{}) (*StreamSpec, error) {
	info, ok := root[keyEventInfo].(map[string]interface{})
	if !ok {
		// accept streams with the events list at the top level
		info = root
	}

	rawEvents, ok := info[keyEvents].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing %q list", ErrMalformedSpec, keyEvents)
	}

	spec := &StreamSpec{Events: make([]SubEvent, 0, len(rawEvents))}
	for i, raw := range rawEvents {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: event %d is not a dictionary", ErrMalformedSpec, i)
		}
		ev, err := decodeSubEvent(m)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		spec.Events = append(spec.Events, ev)
	}
	return spec, nil
}

func decodeSubEvent(m map[string]interface{}) (SubEvent, error) {
	offset, err := numField(m, keyTimeOffset, true)
	if err != nil {
		return nil, err
	}

	inputType := InputType(strField(m, keyInputType, string(InputTypeHand)))
	if !inputType.IsValid() {
		return nil, fmt.Errorf("%w: unknown input type %q", ErrMalformedSpec, inputType)
	}

	space := CoordinateSpace(strField(m, keyCoordinateSpace, string(CoordinateSpaceGlobal)))
	if !space.IsValid() {
		return nil, fmt.Errorf("%w: unknown coordinate space %q", ErrMalformedSpec, space)
	}

	if curveName, ok := m[keyInterpolate]; ok {
		curve := Curve(fmt.Sprintf("%v", curveName))
		if !curve.IsValid() {
			return nil, fmt.Errorf("%w: unknown interpolation curve %q", ErrMalformedSpec, curve)
		}
		timestep, err := numField(m, keyTimestep, true)
		if err != nil {
			return nil, err
		}
		start, err := decodeEndpoint(m, keyStartEvent)
		if err != nil {
			return nil, err
		}
		end, err := decodeEndpoint(m, keyEndEvent)
		if err != nil {
			return nil, err
		}
		return InterpolatedEvent{
			TimeOffset:      offset,
			InputType:       inputType,
			CoordinateSpace: space,
			Curve:           curve,
			Timestep:        timestep,
			Start:           start,
			End:             end,
		}, nil
	}

	phase := Phase(strField(m, keyPhase, ""))
	if !phase.IsValid() {
		return nil, fmt.Errorf("%w: missing or unknown phase %q", ErrMalformedSpec, phase)
	}
	touches, err := decodeTouches(m)
	if err != nil {
		return nil, err
	}
	return LiteralEvent{
		TimeOffset:      offset,
		InputType:       inputType,
		Phase:           phase,
		CoordinateSpace: space,
		Touches:         touches,
	}, nil
}

func decodeEndpoint(m map[string]interface{}, key string) (EndpointState, error) {
	sub, ok := m[key].(map[string]interface{})
	if !ok {
		return EndpointState{}, fmt.Errorf("%w: missing %q", ErrMalformedSpec, key)
	}
	offset, err := numField(sub, keyTimeOffset, true)
	if err != nil {
		return EndpointState{}, err
	}
	phase := Phase(strField(sub, keyPhase, ""))
	if !phase.IsValid() {
		return EndpointState{}, fmt.Errorf("%w: %s has missing or unknown phase", ErrMalformedSpec, key)
	}
	touches, err := decodeTouches(sub)
	if err != nil {
		return EndpointState{}, err
	}
	return EndpointState{TimeOffset: offset, Phase: phase, Touches: touches}, nil
}

func decodeTouches(m map[string]interface{}) ([]Touch, error) {
	raw, ok := m[keyTouches].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing %q list", ErrMalformedSpec, keyTouches)
	}

	touches := make([]Touch, 0, len(raw))
	for i, entry := range raw {
		tm, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: touch %d is not a dictionary", ErrMalformedSpec, i)
		}
		id, err := numField(tm, keyTouchID, true)
		if err != nil {
			return nil, err
		}
		x, err := numField(tm, keyX, true)
		if err != nil {
			return nil, err
		}
		y, err := numField(tm, keyY, true)
		if err != nil {
			return nil, err
		}
		pressure, _ := numField(tm, keyPressure, false)
		twist, _ := numField(tm, keyTwist, false)
		mask, _ := numField(tm, keyMask, false)
		major, _ := numField(tm, keyMajorRadius, false)
		minor, _ := numField(tm, keyMinorRadius, false)
		finger, _ := numField(tm, keyFinger, false)
		azimuth, _ := numField(tm, keyAzimuth, false)
		altitude, _ := numField(tm, keyAltitude, false)

		touches = append(touches, Touch{
			ID:          int(id),
			X:           x,
			Y:           y,
			Pressure:    pressure,
			Twist:       twist,
			Mask:        uint32(mask),
			MajorRadius: major,
			MinorRadius: minor,
			Finger:      int(finger),
			Azimuth:     azimuth,
			Altitude:    altitude,
		})
	}
	return touches, nil
}

func strField(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

// numField reads a numeric field, tolerating the integer types produced
// by the plist decoder.
func numField(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("%w: missing %q", ErrMalformedSpec, key)
		}
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedSpec, key)
}
