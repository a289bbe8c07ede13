package controller

import "time"

// Clock abstracts the blocking delay primitive. The control loop never
// yields to anything; it only sleeps. Injecting the clock lets tests run a
// full iteration without real time passing.
type Clock interface {
	Sleep(d time.Duration)
}

// WallClock is the real thing.
type WallClock struct{}

func (WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
