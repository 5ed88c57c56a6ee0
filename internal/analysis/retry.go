package analysis

import "time"

// RetryPolicy decides how many times and how long to wait between attempts.
// Sleep blocks the caller; it is not interrupted by context cancellation.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Sleep       func(time.Duration)
}

// LinearBackoff waits step × attempt, attempt starting at 1.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// DefaultEmbeddingRetry is 5 attempts waiting 20s, 40s, ... after rate limits.
func DefaultEmbeddingRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Backoff:     LinearBackoff(20 * time.Second),
		Sleep:       time.Sleep,
	}
}

// NoDelay keeps attempts but never waits.
func (p RetryPolicy) NoDelay() RetryPolicy {
	p.Sleep = func(time.Duration) {}
	return p
}

func (p RetryPolicy) wait(attempt int) {
	if p.Backoff == nil {
		return
	}
	d := p.Backoff(attempt)
	if d <= 0 {
		return
	}
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}
