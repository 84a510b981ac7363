package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff describes an exponential delay schedule:
// Initial * Factor^(attempt-1), capped at Max, with +/- Jitter.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
	Jitter  float64
}

// Delay returns the wait before the given retry attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := b.Initial
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	factor := b.Factor
	if factor < 1 {
		factor = 2.0
	}

	d := float64(initial) * math.Pow(factor, float64(attempt-1))
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if d < 0 {
		d = float64(initial)
	}
	return time.Duration(d)
}
