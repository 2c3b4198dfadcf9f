package echoapi

import (
	"sync"
	"time"

	"github.com/phoenixdev100/tap/core"
)

// rateLimiter tracks authentication attempts per client within a
// sliding window, in process memory. Counters are best effort: each
// instance keeps its own and loses them on restart.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
}

func newRateLimiter(conf *core.Config) *rateLimiter {
	rl := &rateLimiter{
		attempts: make(map[string][]time.Time),
		max:      conf.RateLimit.MaxAttempts,
		window:   conf.RateLimit.Window,
		done:     make(chan struct{}),
	}
	go rl.sweep(conf.RateLimit.SweepInterval)
	return rl
}

// allow records an attempt under key and reports whether the caller
// is still under the threshold for the current window.
func (rl *rateLimiter) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	kept := rl.attempts[key][:0]
	for _, at := range rl.attempts[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) >= rl.max {
		rl.attempts[key] = kept
		return false
	}
	rl.attempts[key] = append(kept, now)
	return true
}

// sweep drops fully expired keys so idle clients do not accumulate.
func (rl *rateLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-rl.window)
			rl.mu.Lock()
			for key, attempts := range rl.attempts {
				expired := true
				for _, at := range attempts {
					if at.After(cutoff) {
						expired = false
						break
					}
				}
				if expired {
					delete(rl.attempts, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	select {
	case <-rl.done:
	default:
		close(rl.done)
	}
}
