package utils

import (
	"math/rand"
	"time"
)

// SleepRandom pauses for a uniformly random whole number of seconds in
// [minSeconds, maxSeconds]. A non-positive max disables the pause, which
// tests rely on.
func SleepRandom(minSeconds, maxSeconds int) {
	if maxSeconds <= 0 || maxSeconds < minSeconds {
		return
	}

	n := minSeconds + rand.Intn(maxSeconds-minSeconds+1)
	time.Sleep(time.Duration(n) * time.Second)
}
