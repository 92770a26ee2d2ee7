package commands

import (
	"fmt"

	"github.com/mobile-next/hidsynth/hid"
)

// TapRequest represents the parameters for a tap command
type TapRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TapsRequest represents the parameters for a repeated multi-finger tap command
type TapsRequest struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	TapCount   int     `json:"tapCount"`
	TouchCount int     `json:"touchCount"`
	Delay      float64 `json:"delay"`
}

// LongPressRequest represents the parameters for a long press command
type LongPressRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DragRequest represents the parameters for a drag command
type DragRequest struct {
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Duration float64 `json:"duration"`
	Curve    string  `json:"curve,omitempty"`
}

// PinchRequest represents the parameters for a pinch command
type PinchRequest struct {
	Bounds   hid.Rect `json:"bounds"`
	Scale    float64  `json:"scale"`
	Angle    float64  `json:"angle"`
	Duration float64  `json:"duration"`
}

// StylusTapRequest represents the parameters for a stylus tap command
type StylusTapRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
	Pressure float64 `json:"pressure"`
}

func checkCoordinates(x, y float64) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("x and y coordinates must be non-negative, got x=%.1f, y=%.1f", x, y)
	}
	return nil
}

// TapCommand performs a single tap at the given point
func TapCommand(req TapRequest) *CommandResponse {
	if err := checkCoordinates(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	if err := ActiveGenerator().Dispatch(hid.TapSpec(req.X, req.Y)); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to tap: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Tapped at (%.1f,%.1f)", req.X, req.Y),
	})
}

// DoubleTapCommand performs two taps 0.15s apart
func DoubleTapCommand(req TapRequest) *CommandResponse {
	if err := checkCoordinates(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	if err := ActiveGenerator().Dispatch(hid.DoubleTapSpec(req.X, req.Y)); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to double tap: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Double tapped at (%.1f,%.1f)", req.X, req.Y),
	})
}

// TapsCommand performs repeated taps with a configurable number of fingers
func TapsCommand(req TapsRequest) *CommandResponse {
	if err := checkCoordinates(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}
	if req.TapCount < 1 {
		return NewErrorResponse(fmt.Errorf("tapCount must be at least 1, got %d", req.TapCount))
	}
	if req.TouchCount < 1 || req.TouchCount > hid.MaxTouchCount {
		return NewErrorResponse(fmt.Errorf("touchCount must be between 1 and %d, got %d", hid.MaxTouchCount, req.TouchCount))
	}

	spec := hid.TapsSpec(req.TapCount, req.X, req.Y, req.TouchCount, req.Delay)
	if err := ActiveGenerator().Dispatch(spec); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to send taps: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Sent %d taps with %d fingers at (%.1f,%.1f)", req.TapCount, req.TouchCount, req.X, req.Y),
	})
}

// LongPressCommand presses and holds for 2s. The call returns
// immediately; the hold runs on the dispatch worker and its outcome is
// retrievable via StreamResultCommand.
func LongPressCommand(req LongPressRequest) *CommandResponse {
	if err := checkCoordinates(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	id, err := ActiveGenerator().DispatchAsync(hid.LongPressSpec(req.X, req.Y))
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to long press: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message":  fmt.Sprintf("Long press started at (%.1f,%.1f)", req.X, req.Y),
		"streamId": id.String(),
	})
}

// DragCommand drags from one point to another over the given duration
func DragCommand(req DragRequest) *CommandResponse {
	if err := checkCoordinates(req.X1, req.Y1); err != nil {
		return NewErrorResponse(err)
	}
	if err := checkCoordinates(req.X2, req.Y2); err != nil {
		return NewErrorResponse(err)
	}
	if req.Duration <= 0 {
		return NewErrorResponse(fmt.Errorf("duration must be positive, got %.3f", req.Duration))
	}

	curve := hid.Curve(req.Curve)
	if req.Curve == "" {
		curve = hid.CurveLinear
	}
	if !curve.IsValid() {
		return NewErrorResponse(fmt.Errorf("unknown curve %q", req.Curve))
	}

	spec := hid.DragSpec(req.X1, req.Y1, req.X2, req.Y2, req.Duration, curve)
	if err := ActiveGenerator().Dispatch(spec); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to drag: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Dragged from (%.1f,%.1f) to (%.1f,%.1f) over %.2fs", req.X1, req.Y1, req.X2, req.Y2, req.Duration),
	})
}

// PinchCommand pinches two fingers inside the given bounds
func PinchCommand(req PinchRequest) *CommandResponse {
	if req.Bounds.Width <= 0 || req.Bounds.Height <= 0 {
		return NewErrorResponse(fmt.Errorf("bounds must have positive size, got %.1fx%.1f", req.Bounds.Width, req.Bounds.Height))
	}
	if req.Scale <= 0 {
		return NewErrorResponse(fmt.Errorf("scale must be positive, got %.3f", req.Scale))
	}
	if req.Duration <= 0 {
		return NewErrorResponse(fmt.Errorf("duration must be positive, got %.3f", req.Duration))
	}

	spec := hid.PinchSpec(req.Bounds, req.Scale, req.Angle, req.Duration)
	if err := ActiveGenerator().Dispatch(spec); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to pinch: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Pinched scale %.2f angle %.2f over %.2fs", req.Scale, req.Angle, req.Duration),
	})
}

// StylusTapCommand taps with the stylus
func StylusTapCommand(req StylusTapRequest) *CommandResponse {
	if err := checkCoordinates(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	spec := hid.StylusTapSpec(req.X, req.Y, req.Azimuth, req.Altitude, req.Pressure)
	if err := ActiveGenerator().Dispatch(spec); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to stylus tap: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Stylus tapped at (%.1f,%.1f)", req.X, req.Y),
	})
}
