package booking

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"9:30", 0, false},   // missing zero padding
		{"09:3", 0, false},   // too short
		{"24:00", 0, false},  // hour out of range
		{"12:60", 0, false},  // minute out of range
		{"12-30", 0, false},  // wrong separator
		{"ab:cd", 0, false},  // not digits
		{"12:30:00", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.ok {
			if err != nil {
				t.Fatalf("ParseClock(%q): unexpected error %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", c.in, got, c.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ParseClock(%q): expected error, got %d", c.in, got)
		}
		if KindOf(err) != KindValidation {
			t.Fatalf("ParseClock(%q): expected validation error, got %v", c.in, err)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"identical", 600, 660, 600, 660, true},
		{"contained", 600, 720, 630, 660, true},
		{"partial left", 600, 660, 630, 720, true},
		{"partial right", 630, 720, 600, 660, true},
		{"adjacent before", 600, 660, 660, 720, false},
		{"adjacent after", 660, 720, 600, 660, false},
		{"disjoint", 600, 660, 780, 840, false},
		{"one minute shared", 600, 661, 660, 720, true},
	}
	for _, c := range cases {
		if got := Overlaps(c.s1, c.e1, c.s2, c.e2); got != c.want {
			t.Fatalf("%s: Overlaps(%d,%d,%d,%d) = %v, want %v",
				c.name, c.s1, c.e1, c.s2, c.e2, got, c.want)
		}
	}
	// Symmetry: swapping the intervals never changes the answer.
	for _, c := range cases {
		a := Overlaps(c.s1, c.e1, c.s2, c.e2)
		b := Overlaps(c.s2, c.e2, c.s1, c.e1)
		if a != b {
			t.Fatalf("%s: Overlaps not symmetric", c.name)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-03-15"); err != nil {
		t.Fatalf("ParseDate valid: %v", err)
	}
	for _, in := range []string{"2025-3-15", "15-03-2025", "2025/03/15", "not-a-date", ""} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q): expected error", in)
		}
	}
}
