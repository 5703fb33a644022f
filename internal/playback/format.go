package playback

import (
	"math"
	"strconv"
	"time"
)

// FormatTime renders seconds as "M:SS". Minutes are not padded and have no
// upper bound. NaN and infinities render as "0:00"; negative values clamp
// to zero.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	seconds = max(seconds, 0)

	minutes := strconv.FormatFloat(math.Floor(seconds/60), 'f', 0, 64)
	secs := int(math.Floor(math.Mod(seconds, 60)))
	if secs < 10 {
		return minutes + ":0" + strconv.Itoa(secs)
	}
	return minutes + ":" + strconv.Itoa(secs)
}

// FormatDuration is FormatTime for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}
