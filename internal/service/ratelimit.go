package service

import (
	"sync"
	"time"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterStaleAfter    = 10 * time.Minute
)

// LoginLimiter throttles login attempts per client address. Each
// address holds a budget of attempts that refills continuously up to a
// burst ceiling; addresses not seen for limiterStaleAfter are dropped
// by a background sweep. Safe for concurrent use.
type LoginLimiter struct {
	mu           sync.Mutex
	attempts     map[string]*attemptBudget
	refillPerSec float64
	burst        float64
}

type attemptBudget struct {
	remaining float64
	seen      time.Time
}

// NewLoginLimiter creates a limiter allowing burst attempts per
// address up front, refilling at refillPerSec attempts per second.
func NewLoginLimiter(refillPerSec, burst float64) *LoginLimiter {
	l := &LoginLimiter{
		attempts:     make(map[string]*attemptBudget),
		refillPerSec: refillPerSec,
		burst:        burst,
	}
	go l.sweep()
	return l
}

// Allow consumes one attempt for addr and reports whether the login
// may proceed.
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.attempts[addr]
	if !ok {
		b = &attemptBudget{remaining: l.burst, seen: now}
		l.attempts[addr] = b
	} else {
		b.remaining = min(b.remaining+now.Sub(b.seen).Seconds()*l.refillPerSec, l.burst)
		b.seen = now
	}

	if b.remaining < 1 {
		return false
	}
	b.remaining--
	return true
}

func (l *LoginLimiter) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	for range ticker.C {
		l.mu.Lock()
		for addr, b := range l.attempts {
			if time.Since(b.seen) > limiterStaleAfter {
				delete(l.attempts, addr)
			}
		}
		l.mu.Unlock()
	}
}
