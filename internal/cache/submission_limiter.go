package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// SubmissionLimiter counts submissions per key inside a fixed window that
// starts at the key's first submission.
type SubmissionLimiter struct {
	counts *gocache.Cache
	limit  int
	window time.Duration
}

// NewSubmissionLimiter allows limit submissions per key per window
func NewSubmissionLimiter(limit int, window time.Duration) *SubmissionLimiter {
	return &SubmissionLimiter{
		counts: gocache.New(window, window),
		limit:  limit,
		window: window,
	}
}

// Allow records a submission for every key and reports whether all of them
// are still within the limit. Blank keys are ignored.
func (l *SubmissionLimiter) Allow(keys ...string) bool {
	allowed := true
	for _, key := range keys {
		if key == "" {
			continue
		}
		if l.increment(key) > l.limit {
			allowed = false
		}
	}
	return allowed
}

// Remaining returns how many submissions key has left in its window
func (l *SubmissionLimiter) Remaining(key string) int {
	data, found := l.counts.Get(key)
	if !found {
		return l.limit
	}
	count, ok := data.(int)
	if !ok {
		return l.limit
	}
	if count >= l.limit {
		return 0
	}
	return l.limit - count
}

func (l *SubmissionLimiter) increment(key string) int {
	// Add only succeeds for a fresh key, which pins the window to the first submission.
	if err := l.counts.Add(key, 1, l.window); err == nil {
		return 1
	}
	count, err := l.counts.IncrementInt(key, 1)
	if err != nil {
		// Expired between Add and IncrementInt.
		l.counts.Set(key, 1, l.window)
		return 1
	}
	return count
}
