package attendance_test

import (
	"testing"
	"time"

	"github.com/tempo/attendance-engine/attendance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func at(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, sec, 0, time.UTC)
}

// =============================================================================
// QUANTIZATION TESTS
// =============================================================================

func TestRoundUp(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"on boundary unchanged", at(9, 0, 0), at(9, 0, 0)},
		{"on boundary seconds zeroed", at(9, 15, 42), at(9, 15, 0)},
		{"one past advances", at(9, 1, 0), at(9, 15, 0)},
		{"just before boundary", at(9, 14, 59), at(9, 15, 0)},
		{"last block of hour", at(9, 46, 0), at(10, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := attendance.RoundUp(tc.in); !got.Equal(tc.want) {
				t.Errorf("RoundUp(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoundDown(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"on boundary unchanged", at(17, 45, 0), at(17, 45, 0)},
		{"on boundary seconds zeroed", at(17, 45, 59), at(17, 45, 0)},
		{"one past retreats", at(17, 46, 0), at(17, 45, 0)},
		{"just before next boundary", at(17, 59, 59), at(17, 45, 0)},
		{"top of hour", at(18, 14, 0), at(18, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := attendance.RoundDown(tc.in); !got.Equal(tc.want) {
				t.Errorf("RoundDown(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoundNearest_BoundaryAtEight(t *testing.T) {
	// The tie-break is at remainder 8: seven minutes past still rounds
	// down, eight rounds up. This is policy, not float rounding.
	if got := attendance.RoundNearest(at(9, 7, 59)); !got.Equal(at(9, 0, 0)) {
		t.Errorf("remainder 7 should round down, got %v", got)
	}
	if got := attendance.RoundNearest(at(9, 8, 0)); !got.Equal(at(9, 15, 0)) {
		t.Errorf("remainder 8 should round up, got %v", got)
	}
	if got := attendance.RoundNearest(at(9, 22, 0)); !got.Equal(at(9, 15, 0)) {
		t.Errorf("9:22 should round down to 9:15, got %v", got)
	}
	if got := attendance.RoundNearest(at(9, 23, 0)); !got.Equal(at(9, 30, 0)) {
		t.Errorf("9:23 should round up to 9:30, got %v", got)
	}
}

func TestRounding_Idempotent(t *testing.T) {
	for min := 0; min < 60; min++ {
		for _, sec := range []int{0, 1, 30, 59} {
			in := at(13, min, sec)

			up := attendance.RoundUp(in)
			if !attendance.RoundUp(up).Equal(up) {
				t.Fatalf("RoundUp not idempotent at %v", in)
			}
			down := attendance.RoundDown(in)
			if !attendance.RoundDown(down).Equal(down) {
				t.Fatalf("RoundDown not idempotent at %v", in)
			}
			nearest := attendance.RoundNearest(in)
			if !attendance.RoundNearest(nearest).Equal(nearest) {
				t.Fatalf("RoundNearest not idempotent at %v", in)
			}
		}
	}
}

func TestRounding_Bounds(t *testing.T) {
	// RoundDown(t) <= t <= RoundUp(t), each within 15 minutes.
	for min := 0; min < 60; min++ {
		in := at(13, min, 30)

		up := attendance.RoundUp(in)
		down := attendance.RoundDown(in)

		if up.Before(in.Truncate(time.Minute)) {
			t.Fatalf("RoundUp(%v) = %v went backward", in, up)
		}
		if down.After(in) {
			t.Fatalf("RoundDown(%v) = %v went forward", in, down)
		}
		if up.Sub(down) > attendance.Quantum {
			t.Fatalf("RoundUp/RoundDown at %v more than a block apart", in)
		}
	}
}
