package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobile-next/hidsynth/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the WebSocket transport
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"io_tap":        handleIoTap,
		"io_doubletap":  handleIoDoubleTap,
		"io_taps":       handleIoTaps,
		"io_longpress":  handleIoLongPress,
		"io_drag":       handleIoDrag,
		"io_pinch":      handleIoPinch,
		"io_stylus_tap": handleIoStylusTap,
		"io_stream":     handleIoStream,
		"stream_result": handleStreamResult,
		"hid_lock":      handleHidLock,
		"hid_unlock":    handleHidUnlock,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

// unwrap converts the command layer's response envelope into the
// JSON-RPC result/error pair.
func unwrap(resp *commands.CommandResponse) (interface{}, error) {
	if resp.Status != "ok" {
		return nil, errors.New(resp.Error)
	}
	return resp.Data, nil
}

func decodeParams(params json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return fmt.Errorf("params are required")
	}
	return json.Unmarshal(params, into)
}

func handleIoTap(params json.RawMessage) (interface{}, error) {
	var req commands.TapRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.TapCommand(req))
}

func handleIoDoubleTap(params json.RawMessage) (interface{}, error) {
	var req commands.TapRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.DoubleTapCommand(req))
}

func handleIoTaps(params json.RawMessage) (interface{}, error) {
	var req commands.TapsRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.TapsCommand(req))
}

func handleIoLongPress(params json.RawMessage) (interface{}, error) {
	var req commands.LongPressRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.LongPressCommand(req))
}

func handleIoDrag(params json.RawMessage) (interface{}, error) {
	var req commands.DragRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.DragCommand(req))
}

func handleIoPinch(params json.RawMessage) (interface{}, error) {
	var req commands.PinchRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.PinchCommand(req))
}

func handleIoStylusTap(params json.RawMessage) (interface{}, error) {
	var req commands.StylusTapRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.StylusTapCommand(req))
}

func handleIoStream(params json.RawMessage) (interface{}, error) {
	var req commands.StreamRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.StreamCommand(req))
}

func handleStreamResult(params json.RawMessage) (interface{}, error) {
	var req commands.StreamResultRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return unwrap(commands.StreamResultCommand(req))
}

func handleHidLock(json.RawMessage) (interface{}, error) {
	return unwrap(commands.LockCommand())
}

func handleHidUnlock(json.RawMessage) (interface{}, error) {
	return unwrap(commands.UnlockCommand())
}
