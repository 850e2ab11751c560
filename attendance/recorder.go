/*
recorder.go - Persistence-facing unit of work around the engine

PURPOSE:
  The Recorder is what UI-triggered events actually invoke (through the
  mutation queue): it loads the shift and the attendance record, runs a
  full re-derivation, and upserts the result. It is the only writer of
  AttendanceDay records.

RECOMPUTE-ALWAYS:
  Every raw-field change (check-in, check-out, admin shift edit) goes
  through the same path: load, recompute all derived fields from
  scratch, save atomically. There is no incremental patching, so stale
  derived state cannot survive a write.

PUNCH POLICY:
  - The first check-in of a day wins; repeated check-ins (a shared
    kiosk double-tap) recompute but do not move the original punch.
  - A later check-out replaces an earlier one; leaving is corrected by
    punching again.
  - A check-out with no attendance record for its date falls back to
    the previous date, which is how overnight shifts punch out after
    midnight.
*/
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Recorder ties the engine to the stores. All methods surface explicit
// success/failure results; none panic or retry.
type Recorder struct {
	Engine *Engine
	Shifts ShiftStore
	Days   DayStore
}

func NewRecorder(engine *Engine, shifts ShiftStore, days DayStore) *Recorder {
	return &Recorder{Engine: engine, Shifts: shifts, Days: days}
}

// RecordCheckIn applies a raw check-in punch. The attendance record for
// the punch's civil date is created on first check-in.
func (r *Recorder) RecordCheckIn(ctx context.Context, person PersonID, at time.Time) (*AttendanceDay, error) {
	date := DateOf(at, r.Engine.Loc)

	day, err := r.Days.LoadDay(ctx, person, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s/%s: %w", person, date, err)
	}
	if day == nil {
		day = &AttendanceDay{PersonID: person, Date: date}
	}
	if day.CheckInAt == nil {
		t := at.UTC()
		day.CheckInAt = &t
	}
	return r.save(ctx, day)
}

// RecordCheckOut applies a raw check-out punch to the record for the
// punch's civil date, or the previous date for overnight shifts.
func (r *Recorder) RecordCheckOut(ctx context.Context, person PersonID, at time.Time) (*AttendanceDay, error) {
	date := DateOf(at, r.Engine.Loc)

	day, err := r.Days.LoadDay(ctx, person, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s/%s: %w", person, date, err)
	}
	if day == nil {
		day, err = r.Days.LoadDay(ctx, person, date.AddDays(-1))
		if err != nil {
			return nil, fmt.Errorf("load day %s/%s: %w", person, date.AddDays(-1), err)
		}
	}
	if day == nil {
		return nil, &NotFoundError{Kind: "attendance_day", ID: fmt.Sprintf("%s/%s", person, date)}
	}

	t := at.UTC()
	day.CheckOutAt = &t
	return r.save(ctx, day)
}

// Recompute re-derives an existing record, e.g. after an admin edited
// the raw punches directly.
func (r *Recorder) Recompute(ctx context.Context, person PersonID, date Date) (*AttendanceDay, error) {
	day, err := r.Days.LoadDay(ctx, person, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s/%s: %w", person, date, err)
	}
	if day == nil {
		return nil, &NotFoundError{Kind: "attendance_day", ID: fmt.Sprintf("%s/%s", person, date)}
	}
	return r.save(ctx, day)
}

// SetShift upserts a planned shift and, when an attendance record for
// that date already exists, re-derives it against the new shift.
func (r *Recorder) SetShift(ctx context.Context, shift Shift) (*AttendanceDay, error) {
	if !ValidShiftType(shift.Type) {
		return nil, &ValidationError{Field: "shift_type", Value: string(shift.Type), Reason: "unknown shift type"}
	}
	if err := r.Shifts.SaveShift(ctx, shift); err != nil {
		return nil, writeFailure(fmt.Sprintf("save shift %s/%s", shift.PersonID, shift.Date), err)
	}

	day, err := r.Days.LoadDay(ctx, shift.PersonID, shift.Date)
	if err != nil {
		return nil, fmt.Errorf("load day %s/%s: %w", shift.PersonID, shift.Date, err)
	}
	if day == nil {
		return nil, nil
	}
	return r.save(ctx, day)
}

// save recomputes all derived fields and upserts the record.
func (r *Recorder) save(ctx context.Context, day *AttendanceDay) (*AttendanceDay, error) {
	shift, err := r.Shifts.LoadShift(ctx, day.PersonID, day.Date)
	if err != nil {
		return nil, fmt.Errorf("load shift %s/%s: %w", day.PersonID, day.Date, err)
	}

	r.Engine.Derive(day, shift)

	if err := r.Days.SaveDay(ctx, *day); err != nil {
		return nil, writeFailure(fmt.Sprintf("save day %s/%s", day.PersonID, day.Date), err)
	}
	return day, nil
}

func writeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrWriteFailed, err))
}
