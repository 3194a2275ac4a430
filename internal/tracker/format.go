package tracker

import (
	"fmt"
	"time"
)

// FormatFocus renders focused seconds as "1h 5m" or "25m".
func FormatFocus(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatRelative renders t relative to now: minutes under an hour, hours
// under a day, days under a week, and the calendar date after that.
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 60:
		return plural(minutes, "min") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	default:
		return t.Format("2006-01-02")
	}
}

// FormatCycles renders "1 cycle" or "3 cycles".
func FormatCycles(cycles int) string {
	return plural(cycles, "cycle")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
