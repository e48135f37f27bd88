package exitintent

import (
	"fmt"
	"strings"
)

// Frequency controls how often the exit-intent prompt may be shown to a visitor
type Frequency string

const (
	FrequencySession Frequency = "session"
	FrequencyDay     Frequency = "day"
	FrequencyWeek    Frequency = "week"
)

const (
	DayMs  int64 = 24 * 60 * 60 * 1000
	WeekMs int64 = 7 * DayMs

	// MaxSafeInteger is the largest integer a browser can represent exactly.
	// A session cooldown this long never elapses within one browsing session.
	MaxSafeInteger int64 = 1<<53 - 1
)

// ParseFrequency validates a raw frequency value
func ParseFrequency(raw string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(raw))); f {
	case FrequencySession, FrequencyDay, FrequencyWeek:
		return f, nil
	default:
		return "", fmt.Errorf("unknown exit intent frequency %q", raw)
	}
}

// CooldownMs returns the minimum time between two prompts for the given frequency
func CooldownMs(f Frequency) int64 {
	switch f {
	case FrequencyDay:
		return DayMs
	case FrequencyWeek:
		return WeekMs
	default:
		return MaxSafeInteger
	}
}

// ShowInput carries the values ShouldShow decides on. Times are epoch milliseconds.
type ShowInput struct {
	Now         int64
	LastShownAt *int64
	CooldownMs  int64
}

// ShouldShow reports whether the cooldown has elapsed. A visitor that was never shown the prompt
// is always eligible; a zero timestamp also means never shown.
func ShouldShow(in ShowInput) bool {
	if in.LastShownAt == nil || *in.LastShownAt == 0 {
		return true
	}

	return in.Now-*in.LastShownAt >= in.CooldownMs
}

// DefaultBlockedPaths are pages where the prompt would interrupt legal reading
var DefaultBlockedPaths = []string{"/privacy", "/terms"}

// PathEligible reports whether the prompt may appear on path.
// A blocked path always loses; a non-empty allowlist must contain the path.
func PathEligible(path string, allowed, blocked []string) bool {
	for _, p := range blocked {
		if p == path {
			return false
		}
	}

	if len(allowed) == 0 {
		return true
	}

	for _, p := range allowed {
		if p == path {
			return true
		}
	}
	return false
}
