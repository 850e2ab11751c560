package attendance_test

import (
	"testing"

	"github.com/tempo/attendance-engine/attendance"
)

func TestParseClockTime(t *testing.T) {
	valid := []struct {
		in        string
		hour, min int
	}{
		{"09:00", 9, 0},
		{"9:05", 9, 5},
		{"00:00", 0, 0},
		{"23:59", 23, 59},
	}
	for _, tc := range valid {
		ct, err := attendance.ParseClockTime(tc.in)
		if err != nil {
			t.Errorf("ParseClockTime(%q) failed: %v", tc.in, err)
			continue
		}
		if ct.Hour != tc.hour || ct.Minute != tc.min {
			t.Errorf("ParseClockTime(%q) = %v, want %02d:%02d", tc.in, ct, tc.hour, tc.min)
		}
	}

	invalid := []string{
		"09:00junk", // trailing text must not pass
		"24:00",
		"09:61",
		"0900",
		"nine",
		"",
	}
	for _, in := range invalid {
		if _, err := attendance.ParseClockTime(in); err == nil {
			t.Errorf("ParseClockTime(%q) should fail", in)
		} else if !attendance.IsClientError(err) {
			t.Errorf("ParseClockTime(%q) error is not a validation error: %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := attendance.ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("round-trip = %q, want 2025-03-10", d.String())
	}

	for _, in := range []string{"2025-03-10T00:00", "10/03/2025", "2025-13-01", ""} {
		if _, err := attendance.ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}
