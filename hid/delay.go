package hid

import "time"

// minDelay is the smallest wait ever issued, so a zero or negative
// request still yields the scheduler instead of busy-looping.
const minDelay = time.Microsecond

// Delay blocks for at least the given number of seconds with
// sub-millisecond intent. The duration is decomposed into whole-second
// chunks plus a bounded remainder so no single wait exceeds one second,
// keeping each call safely inside any fixed-width time field the
// underlying primitive may use. Early wakes are tolerated; later chunks
// compensate.
func Delay(seconds float64) {
	whole := int(seconds)
	for i := 0; i < whole; i++ {
		time.Sleep(time.Second)
	}

	rem := time.Duration((seconds - float64(whole)) * float64(time.Second))
	if rem < minDelay {
		rem = minDelay
	}
	time.Sleep(rem)
}

// DelayDuration is Delay for callers already holding a time.Duration.
func DelayDuration(d time.Duration) {
	Delay(d.Seconds())
}
