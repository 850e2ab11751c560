/*
rounding.go - 15-minute quantization of raw punch timestamps

PURPOSE:
  Raw check-in/check-out instants come from kiosks with second precision.
  Billing works on 15-minute blocks, so every raw instant is mapped onto
  a quarter-hour boundary before any duration math.

THE THREE FUNCTIONS:
  RoundUp:      advance to the next quarter-hour (check-ins: late arrival
                costs the employee the partial block)
  RoundDown:    retreat to the previous quarter-hour (check-outs: partial
                blocks are not billed)
  RoundNearest: remainder 0-7 rounds down, 8-14 rounds up

  The RoundNearest boundary is deliberately 8, not a symmetric midpoint.
  7 minutes past the quarter still rounds down. This is payroll policy,
  not a rounding-mode default - do not "fix" it.

INVARIANTS:
  - All three are idempotent: f(f(t)) == f(t) for any t.
  - RoundDown(t) <= t <= RoundUp(t), each within 15 minutes of t.
  - Seconds and sub-second precision are always truncated to zero.
*/
package attendance

import "time"

// Quantum is the rounding block size for all punch timestamps.
const Quantum = 15 * time.Minute

// RoundUp maps t to the next quarter-hour boundary. An instant already
// on a boundary is returned unchanged (seconds zeroed).
func RoundUp(t time.Time) time.Time {
	base := t.Truncate(time.Minute)
	rem := base.Minute() % 15
	if rem == 0 {
		return base
	}
	return base.Add(time.Duration(15-rem) * time.Minute)
}

// RoundDown maps t to the previous (or same) quarter-hour boundary.
func RoundDown(t time.Time) time.Time {
	base := t.Truncate(time.Minute)
	rem := base.Minute() % 15
	return base.Add(-time.Duration(rem) * time.Minute)
}

// RoundNearest maps t to the closest quarter-hour boundary, with the
// tie-break at minute remainder 8: 0-7 rounds down, 8-14 rounds up.
func RoundNearest(t time.Time) time.Time {
	base := t.Truncate(time.Minute)
	if base.Minute()%15 <= 7 {
		return RoundDown(base)
	}
	return RoundUp(base)
}
