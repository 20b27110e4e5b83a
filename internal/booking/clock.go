package booking

import "time"

// DateLayout is the calendar-date wire format. Distinct dates never
// conflict, so dates are compared as whole days only.
const DateLayout = "2006-01-02"

// ParseClock converts an HH:MM string into minutes since midnight in
// [0, 1440). It rejects anything that is not exactly two zero-padded
// fields within range.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, Invalidf("invalid time %q, want HH:MM", s)
	}
	h, ok1 := digits2(s[0], s[1])
	m, ok2 := digits2(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, Invalidf("invalid time %q, want HH:MM", s)
	}
	return h*60 + m, nil
}

func digits2(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect: s1 < e2 && s2 < e1. Adjacent intervals sharing an
// endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Invalidf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Clock supplies the current time, injected so the "date not in the
// past" guard is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
