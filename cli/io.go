package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mobile-next/hidsynth/commands"
	"github.com/mobile-next/hidsynth/hid"
)

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Synthesize touch and stylus input",
	Long:  `Synthesize taps, drags, pinches, long presses and stylus strokes as timed HID record sequences.`,
}

// parsePoint parses a coordinate pair given as "x,y".
func parsePoint(arg string) (float64, float64, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate format. Expected 'x,y', got '%s'", arg)
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("invalid coordinate values. x and y must be numbers. Got x='%s', y='%s'", parts[0], parts[1])
	}
	return x, y, nil
}

// respond prints the command response and converts failures into a
// non-zero exit.
func respond(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status != "ok" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

var ioTapCmd = &cobra.Command{
	Use:   "tap [x,y]",
	Short: "Tap at the given coordinates",
	Long:  `Synthesizes a tap: a touch-began and touch-ended pair 0.05s apart at the given point.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.TapCommand(commands.TapRequest{X: x, Y: y}))
	},
}

var ioDoubleTapCmd = &cobra.Command{
	Use:   "doubletap [x,y]",
	Short: "Double tap at the given coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.DoubleTapCommand(commands.TapRequest{X: x, Y: y}))
	},
}

var ioTapsCmd = &cobra.Command{
	Use:   "taps [x,y]",
	Short: "Tap repeatedly with one or more fingers",
	Long:  `Synthesizes a series of taps. --count sets the number of taps, --touches the number of concurrent fingers, --delay the gap between taps (at least 0.15s).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.TapsCommand(commands.TapsRequest{
			X: x, Y: y,
			TapCount:   tapCount,
			TouchCount: touchCount,
			Delay:      tapDelay,
		}))
	},
}

var ioLongPressCmd = &cobra.Command{
	Use:   "longpress [x,y]",
	Short: "Press and hold for 2 seconds",
	Long:  `Synthesizes a long press. The command returns immediately with a stream id; query the outcome with 'stream result'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.LongPressCommand(commands.LongPressRequest{X: x, Y: y}))
	},
}

var ioDragCmd = &cobra.Command{
	Use:   "drag [x1,y1] [x2,y2]",
	Short: "Drag from one point to another",
	Long:  `Synthesizes a drag with interpolated move samples. --curve selects linear or simpleCurve easing.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x1, y1, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		x2, y2, err := parsePoint(args[1])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.DragCommand(commands.DragRequest{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Duration: dragDuration,
			Curve:    dragCurve,
		}))
	},
}

var ioPinchCmd = &cobra.Command{
	Use:   "pinch [x,y,width,height]",
	Short: "Pinch two fingers inside a region",
	Long:  `Synthesizes a two-finger pinch over the given bounds. --scale expands (>1) or contracts (<1), --angle rotates in radians.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bounds, err := parseRect(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.PinchCommand(commands.PinchRequest{
			Bounds:   bounds,
			Scale:    pinchScale,
			Angle:    pinchAngle,
			Duration: pinchDuration,
		}))
	},
}

var ioStylusTapCmd = &cobra.Command{
	Use:   "stylus-tap [x,y]",
	Short: "Tap with the stylus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePoint(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}
		return respond(commands.StylusTapCommand(commands.StylusTapRequest{
			X: x, Y: y,
			Azimuth:  stylusAzimuth,
			Altitude: stylusAltitude,
			Pressure: stylusPressure,
		}))
	},
}

func parseRect(arg string) (hid.Rect, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return hid.Rect{}, fmt.Errorf("invalid bounds format. Expected 'x,y,width,height', got '%s'", arg)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return hid.Rect{}, fmt.Errorf("invalid bounds value '%s'", p)
		}
		vals[i] = v
	}
	return hid.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func init() {
	rootCmd.AddCommand(ioCmd)

	ioCmd.AddCommand(ioTapCmd)
	ioCmd.AddCommand(ioDoubleTapCmd)
	ioCmd.AddCommand(ioTapsCmd)
	ioCmd.AddCommand(ioLongPressCmd)
	ioCmd.AddCommand(ioDragCmd)
	ioCmd.AddCommand(ioPinchCmd)
	ioCmd.AddCommand(ioStylusTapCmd)

	ioTapsCmd.Flags().IntVar(&tapCount, "count", 1, "number of taps")
	ioTapsCmd.Flags().IntVar(&touchCount, "touches", 1, "number of concurrent fingers")
	ioTapsCmd.Flags().Float64Var(&tapDelay, "delay", 0, "delay between taps in seconds")

	ioDragCmd.Flags().Float64Var(&dragDuration, "duration", 1.0, "drag duration in seconds")
	ioDragCmd.Flags().StringVar(&dragCurve, "curve", "linear", "interpolation curve: linear or simpleCurve")

	ioPinchCmd.Flags().Float64Var(&pinchScale, "scale", 2.0, "pinch scale factor")
	ioPinchCmd.Flags().Float64Var(&pinchAngle, "angle", 0, "rotation angle in radians")
	ioPinchCmd.Flags().Float64Var(&pinchDuration, "duration", 1.0, "pinch duration in seconds")

	ioStylusTapCmd.Flags().Float64Var(&stylusAzimuth, "azimuth", 0, "stylus azimuth angle in radians")
	ioStylusTapCmd.Flags().Float64Var(&stylusAltitude, "altitude", 1.5708, "stylus altitude angle in radians")
	ioStylusTapCmd.Flags().Float64Var(&stylusPressure, "pressure", 0.5, "stylus pressure, 0..1")
}
