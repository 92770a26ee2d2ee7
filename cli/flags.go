package cli

var (
	verbose bool

	// all commands
	configPath string

	// generator tuning
	keepAliveInterval float64
	randomizeTouches  bool

	// record output destination ("" = stdout)
	outputPath string

	// for drag command
	dragDuration float64
	dragCurve    string

	// for pinch command
	pinchScale    float64
	pinchAngle    float64
	pinchDuration float64

	// for taps command
	tapCount      int
	touchCount    int
	tapDelay      float64

	// for stylus-tap command
	stylusAzimuth  float64
	stylusAltitude float64
	stylusPressure float64

	// for stream command
	streamWait bool
)
