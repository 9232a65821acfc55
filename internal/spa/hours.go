package spa

import (
	"fmt"
	"time"
)

// splitHour breaks a fractional hour into whole hours, minutes and seconds,
// truncating each part.
func splitHour(h float64) (hh, mm, ss int) {
	hh = int(h)
	minutes := 60.0 * (h - float64(hh))
	mm = int(minutes)
	ss = int(60.0 * (minutes - float64(mm)))
	return hh, mm, ss
}

// HourToDuration converts a fractional hour such as Result.Sunrise to the
// offset from local midnight, truncated to whole seconds. ok is false for
// NoEvent.
func HourToDuration(h float64) (d time.Duration, ok bool) {
	if h == NoEvent {
		return 0, false
	}
	hh, mm, ss := splitHour(h)
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second, true
}

// FormatHour renders a fractional hour as HH:MM:SS, or "--:--:--" for
// NoEvent.
func FormatHour(h float64) string {
	if h == NoEvent {
		return "--:--:--"
	}
	hh, mm, ss := splitHour(h)
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}
