package timer

import "fmt"

// FormatTime renders seconds as MM:SS with two-digit zero padding.
// Minutes are not wrapped, so 6000 seconds renders as "100:00".
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
