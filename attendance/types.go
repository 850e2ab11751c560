/*
Package attendance provides the core time-accounting engine.

PURPOSE:
  This package turns raw check-in/check-out punches and a planned shift
  into billable work minutes, break minutes, and overtime minutes under
  a 15-minute rounding policy. It owns the data model (Shift,
  AttendanceDay), the rounding policy, the pure accounting engine, the
  persistence contracts, and the Recorder service that ties them
  together.

KEY CONCEPTS IN THIS FILE (types.go):
  - PersonID:      Type-safe identifier for the person being tracked
  - Shift:         The planned working window for a person/date
  - AttendanceDay: Raw punches plus fully derived accounting fields

DESIGN PRINCIPLES:
  1. Purity: derived fields are a pure function of the raw punches and
     the shift. They are recomputed whole on every change, never
     patched field by field.
  2. Totality: the engine never fails. Out-of-range results (negative
     durations from clock skew) clamp to zero.
  3. Civil time: shift boundaries are wall-clock "HH:MM" values in the
     organization's fixed local timezone; punches are UTC instants.

SEE ALSO:
  - rounding.go: The 15-minute quantization policy
  - engine.go:   Derivation of accounting fields
  - store.go:    Persistence contracts
  - recorder.go: Persistence-facing unit of work
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string

// =============================================================================
// SHIFT - Planned working window for one person on one calendar date
// =============================================================================

type ShiftType string

const (
	ShiftWork          ShiftType = "work"
	ShiftWorkNoBreak   ShiftType = "work_no_break"
	ShiftPaidLeave     ShiftType = "paid_leave"
	ShiftHalfPaidLeave ShiftType = "half_paid_leave"
	ShiftSpecialLeave  ShiftType = "special_leave"
	ShiftAbsent        ShiftType = "absent"
	ShiftBusinessTrip  ShiftType = "business_trip"
	ShiftFlex          ShiftType = "flex"
	ShiftRest          ShiftType = "rest"
	ShiftPreferredRest ShiftType = "preferred_rest"
)

// ValidShiftType reports whether t is one of the known shift types.
func ValidShiftType(t ShiftType) bool {
	switch t {
	case ShiftWork, ShiftWorkNoBreak, ShiftPaidLeave, ShiftHalfPaidLeave,
		ShiftSpecialLeave, ShiftAbsent, ShiftBusinessTrip, ShiftFlex,
		ShiftRest, ShiftPreferredRest:
		return true
	}
	return false
}

// Shift is the planned shift for a person on a calendar date.
// It is read-only input to the engine: immutable once an accounting
// run starts.
type Shift struct {
	PersonID PersonID
	Date     Date
	Type     ShiftType

	// Planned window, civil time-of-day. Nil when the type carries no
	// working window (leave, rest) or when no window was planned.
	StartTime *ClockTime
	EndTime   *ClockTime

	// Fixed credit in hours for flex shifts. Zero means the default
	// (8 hours) applies.
	LeaveHours decimal.Decimal
}

// Overnight reports whether the planned window crosses midnight
// (end-of-day time-of-day earlier than start-of-day time-of-day).
func (s *Shift) Overnight() bool {
	return s.StartTime != nil && s.EndTime != nil && s.EndTime.Before(*s.StartTime)
}

// =============================================================================
// ATTENDANCE DAY - Raw punches plus derived accounting fields
// =============================================================================

type DayStatus string

const (
	StatusPresent DayStatus = "present"
	StatusAbsent  DayStatus = "absent"
	StatusLate    DayStatus = "late"
	StatusHalfDay DayStatus = "half_day"
	StatusOff     DayStatus = "off"
)

// AttendanceDay is the attendance record for one person on one calendar
// date. CheckInAt/CheckOutAt are the raw kiosk punches (UTC instants);
// everything below them is derived and replaced atomically on every
// recomputation.
type AttendanceDay struct {
	PersonID PersonID
	Date     Date

	CheckInAt  *time.Time
	CheckOutAt *time.Time

	// Derived fields. A save replaces all of them together.
	RoundedCheckInAt  *time.Time
	RoundedCheckOutAt *time.Time
	TotalWorkMinutes  int
	TotalBreakMinutes int
	OvertimeMinutes   int
	Status            DayStatus
}
