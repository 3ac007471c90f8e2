// Package ratelimit provides a sliding-window call throttle for external APIs.
package ratelimit

import (
	"sync"
	"time"
)

const window = 60 * time.Second

// Limiter caps calls to at most callsPerMinute within any trailing 60-second
// window. One instance per external API endpoint; windows are independent.
type Limiter struct {
	callsPerMinute int

	mu         sync.Mutex
	timestamps []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a limiter allowing callsPerMinute calls per trailing minute.
func New(callsPerMinute int) *Limiter {
	return &Limiter{
		callsPerMinute: callsPerMinute,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// Wait blocks until issuing another call would not exceed the window limit,
// then records the call. The only side effect is the timestamp sequence.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.timestamps) >= l.callsPerMinute {
		wait := window - now.Sub(l.timestamps[0])
		if wait > 0 {
			l.sleep(wait)
			now = l.now()
			l.prune(now)
		}
	}

	l.timestamps = append(l.timestamps, now)
}

// prune discards timestamps that fell out of the trailing window.
func (l *Limiter) prune(now time.Time) {
	idx := 0
	for idx < len(l.timestamps) && now.Sub(l.timestamps[idx]) > window {
		idx++
	}
	if idx > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[idx:]...)
	}
}
