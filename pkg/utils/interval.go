package utils

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant. Touching boundaries do not
// overlap: a booking ending 12:00 leaves its seats free for one starting
// 12:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WithinBusinessHours reports whether [start, end) is a valid booking
// window: end strictly after start and the whole window inside the business
// day of the start date (openHour:00 to closeHour:00 local).
func WithinBusinessHours(start, end time.Time, openHour, closeHour int) bool {
	if !end.After(start) {
		return false
	}

	open := time.Date(start.Year(), start.Month(), start.Day(), openHour, 0, 0, 0, start.Location())
	close := time.Date(start.Year(), start.Month(), start.Day(), closeHour, 0, 0, 0, start.Location())

	return !start.Before(open) && !end.After(close)
}

// DefaultDayWindow returns today's full day (00:00:00 to 23:59:59.999).
// Used only for convenience availability reporting, never as an actual
// admission window.
func DefaultDayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}
