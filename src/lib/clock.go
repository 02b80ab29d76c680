package lib

import "github.com/jonboulle/clockwork"

var clock clockwork.Clock

func GetClock() clockwork.Clock {
	if clock != nil {
		return clock
	}
	clock = clockwork.NewRealClock()
	return clock
}

// NewClock replaces the wall clock, used by tests to simulate TTL expiry
func NewClock(c clockwork.Clock) {
	clock = c
}
