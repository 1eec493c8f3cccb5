package keyboard

import (
	"sync/atomic"
	"time"
)

// DefaultThrottleDuration is the cooldown after an admitted event.
const DefaultThrottleDuration = 200 * time.Millisecond

var throttleDuration atomic.Int64

func init() {
	throttleDuration.Store(int64(DefaultThrottleDuration))
}

// ThrottleDuration returns the cooldown applied to new throttle windows.
func ThrottleDuration() time.Duration {
	return time.Duration(throttleDuration.Load())
}

// SetThrottleDuration changes the cooldown for every window opened from now
// on, across all Input instances. Windows already open keep their timer.
// Negative values are treated as zero.
func SetThrottleDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	throttleDuration.Store(int64(d))
}

// Clock schedules the callback that closes a throttle window.
// Scheduled callbacks are never cancelled.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by time.AfterFunc.
func SystemClock() Clock {
	return systemClock{}
}
