// Copyright (c) 2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"time"

	"golang.org/x/time/rate"
)

// fakelag is a system for artificially delaying commands when a user issues
// them too rapidly. Lines are never dropped, only held back, so ordering
// and protocol semantics are unaffected.

// this is intentionally not threadsafe, because it should only be touched
// from the loop that accepts the client's input and runs commands
type Fakelag struct {
	limiter   *rate.Limiter
	nowFunc   func() time.Time
	sleepFunc func(time.Duration)
}

func (fl *Fakelag) Initialize(config FakelagConfig) {
	fl.nowFunc = time.Now
	fl.sleepFunc = time.Sleep
	fl.limiter = nil
	if config.Enabled {
		interval := config.Window / time.Duration(config.MessagesPerWindow)
		fl.limiter = rate.NewLimiter(rate.Every(interval), config.BurstLimit)
	}
}

// register a new command, sleep if necessary to delay it
func (fl *Fakelag) Touch() {
	if fl.limiter == nil {
		return
	}

	now := fl.nowFunc()
	reservation := fl.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		fl.sleepFunc(delay)
	}
}
