package property

import "time"

// Clock supplies time to properties.
type Clock interface {
	// Millis returns a monotonic millisecond counter. It may wrap.
	Millis() uint64

	// Epoch returns the wall-clock time in Unix seconds. The second
	// result is false when the device has no real-time clock.
	Epoch() (uint64, bool)
}

// SystemClock uses the host monotonic clock and wall clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose millisecond counter starts at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Millis returns the milliseconds elapsed since the clock was created.
func (c *SystemClock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// Epoch returns the current Unix time.
func (c *SystemClock) Epoch() (uint64, bool) {
	return uint64(time.Now().Unix()), true
}

// MonotonicClock models a device without a real-time clock. Local change
// timestamps taken with it are always 0.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock creates a clock without wall-clock support.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Millis returns the milliseconds elapsed since the clock was created.
func (c *MonotonicClock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// Epoch always reports that no wall clock is available.
func (c *MonotonicClock) Epoch() (uint64, bool) {
	return 0, false
}

// Compile-time interface satisfaction checks.
var (
	_ Clock = (*SystemClock)(nil)
	_ Clock = (*MonotonicClock)(nil)
)
