package hid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelay_BlocksAtLeastRequested(t *testing.T) {
	start := time.Now()
	Delay(0.05)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDelay_ZeroStillMakesProgress(t *testing.T) {
	// a zero request degrades to the minimum wait, never a busy loop
	start := time.Now()
	Delay(0)
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestDelay_SubSecondRemainder(t *testing.T) {
	start := time.Now()
	Delay(0.012)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 12*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)
}

func TestDelayDuration(t *testing.T) {
	start := time.Now()
	DelayDuration(20 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
