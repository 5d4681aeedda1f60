package scheduler

import (
	"fmt"
	"time"
)

// Evaluate decides whether an invocation is due at now. It never blocks and
// performs no I/O; the same inputs always produce the same Decision.
func Evaluate(mode Mode, now, next time.Time) Decision {
	switch m := mode.(type) {
	case OnTime:
		return evaluateOnTime(m, now, next)
	case Interval:
		return evaluateInterval(m)
	default:
		return Decision{Mode: mode, Next: next}
	}
}

func evaluateOnTime(target OnTime, now, next time.Time) Decision {
	if next.IsZero() {
		next = NextOccurrence(target, now)
	}
	if now.Before(next) {
		return Decision{Mode: target, Next: next}
	}

	// Equality is due. Advance whole days so a long suspension yields one fire.
	following := next.AddDate(0, 0, 1)
	for !following.After(now) {
		following = following.AddDate(0, 0, 1)
	}
	return Decision{Fire: true, Mode: target, Next: following}
}

func evaluateInterval(iv Interval) Decision {
	iv.Remaining -= time.Second
	if iv.Remaining < 0 {
		iv.Remaining = 0
	}
	if iv.Remaining <= 0 {
		iv.Remaining = iv.Total
		return Decision{Fire: true, Mode: iv}
	}
	return Decision{Mode: iv}
}

// NextOccurrence returns the first HH:MM:SS of target strictly after now, in
// now's location.
func NextOccurrence(target OnTime, now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), target.Hour, target.Minute, target.Second, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// Until returns the time left before the next trigger, floored at zero. It
// returns false when nothing is scheduled yet.
func Until(mode Mode, now, next time.Time) (time.Duration, bool) {
	switch m := mode.(type) {
	case Interval:
		return m.Remaining, true
	case OnTime:
		if next.IsZero() {
			return 0, false
		}
		d := next.Sub(now)
		if d < 0 {
			d = 0
		}
		return d.Truncate(time.Second), true
	default:
		return 0, false
	}
}

func RelativeLabel(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.After(now) {
		delta := t.Sub(now)
		if delta < time.Minute {
			return "in <1m"
		}
		if delta < time.Hour {
			return fmt.Sprintf("in %dm", int(delta.Minutes()))
		}
		if delta < 24*time.Hour {
			return fmt.Sprintf("in %dh", int(delta.Hours()))
		}
		days := int(delta.Hours() / 24)
		return fmt.Sprintf("in %dd", days)
	}

	delta := now.Sub(t)
	if delta < time.Minute {
		return "just now"
	}
	if delta < time.Hour {
		return fmt.Sprintf("%dm ago", int(delta.Minutes()))
	}
	if delta < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	}
	days := int(delta.Hours() / 24)
	return fmt.Sprintf("%dd ago", days)
}
