package format

import (
	"fmt"
	"math"
	"time"
)

// Offset formats the distance between an instant and the anchor it was
// resolved against: "now", "7d ago", "in 3h". Positive durations lie in
// the future.
func Offset(d time.Duration) string {
	// time.Time.Sub saturates; the minimum has no positive counterpart.
	if d == math.MinInt64 {
		return span(math.MaxInt64) + " ago"
	}
	switch {
	case d > -time.Minute && d < time.Minute:
		return "now"
	case d < 0:
		return span(-d) + " ago"
	}
	return "in " + span(d)
}

// span renders a duration of at least a minute in compact form: "5m",
// "2h", "3d", "2w", "3mo", "2y".
func span(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	if days < 30 {
		return fmt.Sprintf("%dw", days/7)
	}
	if days < 365 {
		return fmt.Sprintf("%dmo", days/30)
	}
	return fmt.Sprintf("%dy", days/365)
}
