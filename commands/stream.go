package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mobile-next/hidsynth/hid"
)

// StreamRequest represents the parameters for a declarative event
// stream command. Events can be passed inline as JSON, or as a
// base64-encoded payload (JSON or property list) for transports that
// cannot carry raw plist bytes.
type StreamRequest struct {
	Events  json.RawMessage `json:"events,omitempty"`
	Payload string          `json:"payload,omitempty"`

	// Wait makes the call block until the stream has been fully
	// dispatched; otherwise the stream id is returned immediately.
	Wait bool `json:"wait,omitempty"`
}

// StreamResultRequest asks for the stored outcome of an async stream.
type StreamResultRequest struct {
	StreamID string `json:"streamId"`
}

// StreamCommand compiles and dispatches a declarative event stream
func StreamCommand(req StreamRequest) *CommandResponse {
	var raw []byte
	switch {
	case len(req.Events) > 0:
		raw = req.Events
	case req.Payload != "":
		decoded, err := base64.StdEncoding.DecodeString(req.Payload)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("invalid payload encoding: %w", err))
		}
		raw = decoded
	default:
		return NewErrorResponse(fmt.Errorf("either events or payload is required"))
	}

	return DispatchRaw(raw, req.Wait)
}

// DispatchRaw decodes raw stream bytes (JSON or plist) and dispatches
// them, synchronously or not.
func DispatchRaw(raw []byte, wait bool) *CommandResponse {
	spec, err := hid.DecodeStream(raw)
	if err != nil {
		return NewErrorResponse(err)
	}

	gen := ActiveGenerator()
	if wait {
		if err := gen.Dispatch(spec); err != nil {
			return NewErrorResponse(fmt.Errorf("failed to dispatch stream: %w", err))
		}
		return NewSuccessResponse(map[string]interface{}{
			"message": fmt.Sprintf("Dispatched stream with %d events", len(spec.Events)),
		})
	}

	id, err := gen.DispatchAsync(spec)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to enqueue stream: %w", err))
	}
	return NewSuccessResponse(map[string]interface{}{
		"message":  fmt.Sprintf("Enqueued stream with %d events", len(spec.Events)),
		"streamId": id.String(),
	})
}

// StreamResultCommand looks up the terminal result of a finished stream
func StreamResultCommand(req StreamResultRequest) *CommandResponse {
	id, err := uuid.Parse(req.StreamID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("invalid stream id %q: %w", req.StreamID, err))
	}

	result, ok := ActiveGenerator().Result(id)
	if !ok {
		return NewErrorResponse(fmt.Errorf("no result for stream %s (still running or evicted)", req.StreamID))
	}
	return NewSuccessResponse(result)
}
