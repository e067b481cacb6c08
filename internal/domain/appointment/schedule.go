package appointment

import (
	"fmt"

	"github.com/agendusalao/salon-api/internal/httperr"
)

// Clock strings are zero-padded "HH:MM", so plain string comparison
// orders them correctly.

func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	return h*60 + m, nil
}

// AddMinutes shifts a clock string forward, clamping inside the same day
// is the caller's concern.
func AddMinutes(clock string, minutes int) (string, error) {
	total, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	total += minutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// Overlaps reports whether two half-open windows intersect.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// WithinWindow reports whether [start,end) fits inside the salon's
// opening window for the day.
func WithinWindow(start, end, windowStart, windowEnd string) bool {
	return start >= windowStart && end <= windowEnd
}
