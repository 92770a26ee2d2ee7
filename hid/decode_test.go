package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tapStreamJSON = `{
  "eventInfo": {
    "events": [
      {
        "inputType": "finger",
        "timeOffset": 0,
        "phase": "began",
        "coordinateSpace": "content",
        "touches": [
          {"id": 1, "x": 100, "y": 200, "pressure": 0.5, "majorRadius": 5, "minorRadius": 5}
        ]
      },
      {
        "inputType": "finger",
        "timeOffset": 0.05,
        "phase": "ended",
        "coordinateSpace": "content",
        "touches": [
          {"id": 1, "x": 100, "y": 200, "pressure": 0, "majorRadius": 5, "minorRadius": 5}
        ]
      }
    ]
  }
}`

const tapStreamPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>eventInfo</key>
  <dict>
    <key>events</key>
    <array>
      <dict>
        <key>inputType</key><string>finger</string>
        <key>timeOffset</key><real>0</real>
        <key>phase</key><string>began</string>
        <key>coordinateSpace</key><string>content</string>
        <key>touches</key>
        <array>
          <dict>
            <key>id</key><integer>1</integer>
            <key>x</key><real>100</real>
            <key>y</key><real>200</real>
            <key>pressure</key><real>0.5</real>
            <key>majorRadius</key><real>5</real>
            <key>minorRadius</key><real>5</real>
          </dict>
        </array>
      </dict>
      <dict>
        <key>inputType</key><string>finger</string>
        <key>timeOffset</key><real>0.05</real>
        <key>phase</key><string>ended</string>
        <key>coordinateSpace</key><string>content</string>
        <key>touches</key>
        <array>
          <dict>
            <key>id</key><integer>1</integer>
            <key>x</key><real>100</real>
            <key>y</key><real>200</real>
            <key>pressure</key><real>0</real>
            <key>majorRadius</key><real>5</real>
            <key>minorRadius</key><real>5</real>
          </dict>
        </array>
      </dict>
    </array>
  </dict>
</dict>
</plist>`

func TestDecodeJSONStream(t *testing.T) {
	spec, err := DecodeJSONStream([]byte(tapStreamJSON))
	require.NoError(t, err)
	require.Len(t, spec.Events, 2)

	down, ok := spec.Events[0].(LiteralEvent)
	require.True(t, ok)
	assert.Equal(t, InputTypeFinger, down.InputType)
	assert.Equal(t, PhaseBegan, down.Phase)
	assert.Equal(t, CoordinateSpaceContent, down.CoordinateSpace)
	require.Len(t, down.Touches, 1)
	assert.Equal(t, 1, down.Touches[0].ID)
	assert.InDelta(t, 100, down.Touches[0].X, 1e-9)
	assert.InDelta(t, 0.5, down.Touches[0].Pressure, 1e-9)

	up, ok := spec.Events[1].(LiteralEvent)
	require.True(t, ok)
	assert.Equal(t, PhaseEnded, up.Phase)
	assert.InDelta(t, 0.05, up.TimeOffset, 1e-9)
}

func TestDecodeStream_PlistMatchesJSON(t *testing.T) {
	fromJSON, err := DecodeStream([]byte(tapStreamJSON))
	require.NoError(t, err)

	fromPlist, err := DecodeStream([]byte(tapStreamPlist))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromPlist)
}

func TestDecodeJSONStream_Interpolated(t *testing.T) {
	doc := `{
	  "events": [
	    {
	      "inputType": "finger",
	      "timeOffset": 0,
	      "interpolate": "simpleCurve",
	      "timestep": 0.1,
	      "coordinateSpace": "global",
	      "startEvent": {
	        "timeOffset": 0,
	        "phase": "began",
	        "touches": [{"id": 1, "x": 0, "y": 0, "pressure": 0, "majorRadius": 5, "minorRadius": 5}]
	      },
	      "endEvent": {
	        "timeOffset": 1.0,
	        "phase": "ended",
	        "touches": [{"id": 1, "x": 100, "y": 100, "pressure": 0, "majorRadius": 5, "minorRadius": 5}]
	      }
	    }
	  ]
	}`

	spec, err := DecodeJSONStream([]byte(doc))
	require.NoError(t, err)
	require.Len(t, spec.Events, 1)

	ev, ok := spec.Events[0].(InterpolatedEvent)
	require.True(t, ok)
	assert.Equal(t, CurveSimple, ev.Curve)
	assert.InDelta(t, 0.1, ev.Timestep, 1e-9)
	assert.Equal(t, PhaseBegan, ev.Start.Phase)
	assert.Equal(t, PhaseEnded, ev.End.Phase)
	assert.InDelta(t, 1.0, ev.Duration(), 1e-9)

	// a decoded interpolation compiles end to end
	steps, err := newTestCompiler().Compile(spec)
	require.NoError(t, err)
	assert.Len(t, steps, 11)
}

func TestDecodeJSONStream_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"no events", `{"eventInfo": {}}`},
		{"event not a dict", `{"events": [42]}`},
		{"missing phase", `{"events": [{"inputType": "finger", "timeOffset": 0, "touches": [{"id":1,"x":0,"y":0}]}]}`},
		{"unknown input type", `{"events": [{"inputType": "elbow", "timeOffset": 0, "phase": "began", "touches": [{"id":1,"x":0,"y":0}]}]}`},
		{"unknown coordinate space", `{"events": [{"inputType": "finger", "coordinateSpace": "screen", "timeOffset": 0, "phase": "began", "touches": [{"id":1,"x":0,"y":0}]}]}`},
		{"missing touches", `{"events": [{"inputType": "finger", "timeOffset": 0, "phase": "began"}]}`},
		{"touch missing x", `{"events": [{"inputType": "finger", "timeOffset": 0, "phase": "began", "touches": [{"id":1,"y":0}]}]}`},
		{"interpolate missing timestep", `{"events": [{"inputType": "finger", "timeOffset": 0, "interpolate": "linear", "startEvent": {"timeOffset":0,"phase":"began","touches":[{"id":1,"x":0,"y":0}]}, "endEvent": {"timeOffset":1,"phase":"ended","touches":[{"id":1,"x":1,"y":1}]}}]}`},
		{"interpolate missing endEvent", `{"events": [{"inputType": "finger", "timeOffset": 0, "interpolate": "linear", "timestep": 0.1, "startEvent": {"timeOffset":0,"phase":"began","touches":[{"id":1,"x":0,"y":0}]}}]}`},
		{"unknown curve", `{"events": [{"inputType": "finger", "timeOffset": 0, "interpolate": "bounce", "timestep": 0.1, "startEvent": {"timeOffset":0,"phase":"began","touches":[{"id":1,"x":0,"y":0}]}, "endEvent": {"timeOffset":1,"phase":"ended","touches":[{"id":1,"x":1,"y":1}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSONStream([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrMalformedSpec)
		})
	}
}

func TestDecodeStream_StylusTouchFields(t *testing.T) {
	doc := `{"events": [{"inputType": "stylus", "timeOffset": 0, "phase": "began",
	  "touches": [{"id": 1, "x": 10, "y": 10, "pressure": 0.7, "azimuth": 1.2, "altitude": 0.9, "twist": 0.3}]}]}`

	spec, err := DecodeStream([]byte(doc))
	require.NoError(t, err)

	ev := spec.Events[0].(LiteralEvent)
	assert.Equal(t, InputTypeStylus, ev.InputType)
	touch := ev.Touches[0]
	assert.InDelta(t, 1.2, touch.Azimuth, 1e-9)
	assert.InDelta(t, 0.9, touch.Altitude, 1e-9)
	assert.InDelta(t, 0.3, touch.Twist, 1e-9)
}
