/*
engine.go - Derivation of accounting fields from raw punches and a shift

PURPOSE:
  The Engine is a pure function from (raw check-in, raw check-out,
  planned shift, calendar date) to the derived accounting fields of an
  AttendanceDay: rounded punches, work minutes, break minutes, overtime
  minutes, and day status.

RULES:
  Check-in:
    - No planned start: RoundUp(checkIn).
    - checkIn <= planned start: the planned start itself. Early arrival
      earns no credit.
    - Late arrival: RoundUp(checkIn).

  Check-out:
    - No planned end, or checkOut <= planned end: RoundDown(checkOut),
      overtime 0.
    - checkOut past planned end: the regular-work boundary clamps to
      the planned end; overtime = RoundDown(checkOut) - planned end.

  Duration:
    - gross = roundedOut - roundedIn, clamped to >= 0
    - break = 60 if gross >= 360, else 0 (never for work_no_break)
    - work  = max(0, gross - break) + overtime

  Fixed credits (no punches involved):
    - paid_leave, business_trip: 8 hours
    - half_paid_leave: 4 hours plus any actual worked span
    - flex: the shift's fixed-hours value (default 8)
    - absent, rest, special_leave, preferred_rest: 0

  Overnight: a planned end earlier than the planned start anchors the
  end to the following calendar day.

TOTALITY:
  Compute never fails. A missing check-out with a present check-in is a
  valid incomplete state, not an error. Negative spans from clock skew
  clamp to zero.
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine derives AttendanceDay accounting fields. Loc is the
// organization's fixed local timezone, used to anchor "HH:MM" shift
// boundaries onto concrete instants.
type Engine struct {
	Loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Loc: loc}
}

// DayInput is everything the derivation depends on.
type DayInput struct {
	Date     Date
	Shift    *Shift // nil when no shift was planned
	CheckIn  *time.Time
	CheckOut *time.Time
}

// DayResult carries the derived fields. Complete is false while the
// record is still waiting for a punch it needs.
type DayResult struct {
	RoundedCheckIn  *time.Time
	RoundedCheckOut *time.Time
	WorkMinutes     int
	BreakMinutes    int
	OvertimeMinutes int
	Status          DayStatus
	Complete        bool
}

const defaultCreditHours = 8

// Compute derives the accounting fields for one person-day.
// It is total: every input produces a result, never an error.
func (e *Engine) Compute(in DayInput) DayResult {
	shiftType := ShiftWork
	if in.Shift != nil {
		shiftType = in.Shift.Type
	}

	switch shiftType {
	case ShiftPaidLeave:
		return DayResult{WorkMinutes: defaultCreditHours * 60, Status: StatusPresent, Complete: true}

	case ShiftBusinessTrip:
		return DayResult{WorkMinutes: defaultCreditHours * 60, Status: StatusPresent, Complete: true}

	case ShiftFlex:
		hours := in.Shift.LeaveHours
		if hours.IsZero() {
			hours = decimal.NewFromInt(defaultCreditHours)
		}
		minutes := int(hours.Mul(decimal.NewFromInt(60)).IntPart())
		return DayResult{WorkMinutes: minutes, Status: StatusPresent, Complete: true}

	case ShiftHalfPaidLeave:
		res := e.workedSpan(in, false)
		res.WorkMinutes += defaultCreditHours / 2 * 60
		res.Status = StatusHalfDay
		res.Complete = true
		return res

	case ShiftAbsent:
		return DayResult{Status: StatusAbsent, Complete: true}

	case ShiftRest, ShiftPreferredRest, ShiftSpecialLeave:
		return DayResult{Status: StatusOff, Complete: true}

	case ShiftWorkNoBreak:
		return e.workedDay(in, true)

	default: // ShiftWork and unplanned days
		return e.workedDay(in, false)
	}
}

// workedDay handles the timestamp-driven shift types.
func (e *Engine) workedDay(in DayInput, noBreak bool) DayResult {
	if in.CheckIn == nil {
		return DayResult{Status: StatusAbsent}
	}
	res := e.workedSpan(in, noBreak)
	res.Status = StatusPresent
	if e.isLate(in) {
		res.Status = StatusLate
	}
	res.Complete = in.CheckOut != nil
	return res
}

// isLate reports whether the raw check-in is after the planned start.
func (e *Engine) isLate(in DayInput) bool {
	if in.Shift == nil || in.Shift.StartTime == nil || in.CheckIn == nil {
		return false
	}
	return in.CheckIn.After(in.Shift.StartTime.On(in.Date, e.Loc))
}

// workedSpan computes the rounded punches and duration fields for an
// actual worked span. Missing punches yield a partial result with zero
// durations.
func (e *Engine) workedSpan(in DayInput, noBreak bool) DayResult {
	var res DayResult
	if in.CheckIn == nil {
		return res
	}

	// Check-in rule: clamp to planned start, never round early arrival.
	roundedIn := RoundUp(*in.CheckIn)
	if in.Shift != nil && in.Shift.StartTime != nil {
		start := in.Shift.StartTime.On(in.Date, e.Loc)
		if !in.CheckIn.After(start) {
			roundedIn = start
		}
	}
	res.RoundedCheckIn = &roundedIn

	if in.CheckOut == nil {
		return res
	}

	// Check-out rule: regular work clamps to the planned end; anything
	// beyond it becomes overtime measured from RoundDown(checkOut).
	roundedOut := RoundDown(*in.CheckOut)
	overtime := 0
	if in.Shift != nil && in.Shift.EndTime != nil {
		endDate := in.Date
		if in.Shift.Overnight() {
			endDate = in.Date.AddDays(1)
		}
		end := in.Shift.EndTime.On(endDate, e.Loc)
		if in.CheckOut.After(end) {
			actual := roundedOut
			roundedOut = end
			if d := int(actual.Sub(end).Minutes()); d > 0 {
				overtime = d
			}
		}
	}
	res.RoundedCheckOut = &roundedOut
	res.OvertimeMinutes = overtime

	gross := int(roundedOut.Sub(roundedIn).Minutes())
	if gross < 0 {
		gross = 0
	}
	if gross >= 360 && !noBreak {
		res.BreakMinutes = 60
	}
	work := gross - res.BreakMinutes
	if work < 0 {
		work = 0
	}
	res.WorkMinutes = work + overtime
	return res
}

// Derive recomputes all derived fields of day in place from its raw
// punches and the shift. Derived state is always replaced whole, never
// patched field by field.
func (e *Engine) Derive(day *AttendanceDay, shift *Shift) {
	res := e.Compute(DayInput{
		Date:     day.Date,
		Shift:    shift,
		CheckIn:  day.CheckInAt,
		CheckOut: day.CheckOutAt,
	})
	day.RoundedCheckInAt = res.RoundedCheckIn
	day.RoundedCheckOutAt = res.RoundedCheckOut
	day.TotalWorkMinutes = res.WorkMinutes
	day.TotalBreakMinutes = res.BreakMinutes
	day.OvertimeMinutes = res.OvertimeMinutes
	day.Status = res.Status
}
