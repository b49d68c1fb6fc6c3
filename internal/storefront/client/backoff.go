package client

import (
	"math/rand"
	"sync"
	"time"
)

// RetryPolicy applies to idempotent reads only; writes are sent once.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64 // 0..1, fraction of the delay
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 2,
	BaseDelay:  200 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.2,
}

type backoff struct {
	policy RetryPolicy
	mu     sync.Mutex
	rnd    *rand.Rand
}

func newBackoff(p RetryPolicy) *backoff {
	return &backoff{policy: p, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// delay for attempt (0-indexed): BaseDelay * 2^attempt, capped, +/- jitter.
func (b *backoff) delay(attempt int) time.Duration {
	d := b.policy.BaseDelay
	for i := 0; i < attempt && d < b.policy.MaxDelay; i++ {
		d *= 2
	}
	if d > b.policy.MaxDelay {
		d = b.policy.MaxDelay
	}
	if b.policy.Jitter <= 0 {
		return d
	}
	j := b.policy.Jitter
	if j > 1 {
		j = 1
	}
	b.mu.Lock()
	factor := 1 + (b.rnd.Float64()*2-1)*j
	b.mu.Unlock()
	return time.Duration(float64(d) * factor)
}
