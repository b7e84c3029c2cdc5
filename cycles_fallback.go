//go:build !amd64 && !arm64

package corebench

import "time"

var clockEpoch = time.Now()

// readCycleCounter falls back to the monotonic nanosecond clock on
// architectures without a dedicated cycle-counter read. "Cycles" are
// nanoseconds on these platforms.
func readCycleCounter() uint64 {
	return uint64(time.Since(clockEpoch))
}
