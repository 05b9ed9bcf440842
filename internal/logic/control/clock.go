package control

import "time"

// Clock abstracts the loop's fixed delays (tick idle, servo settle) so
// tests can run on virtual time instead of the wall clock.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// RealClock returns a Clock backed by time.Sleep.
func RealClock() Clock {
	return realClock{}
}
