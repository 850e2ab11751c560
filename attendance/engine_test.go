package attendance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tempo/attendance-engine/attendance"
)

var testDay = attendance.NewDate(2025, time.March, 10)

func clk(s string) *attendance.ClockTime {
	ct := attendance.MustClockTime(s)
	return &ct
}

func ts(t time.Time) *time.Time { return &t }

func workShift(start, end string) *attendance.Shift {
	return &attendance.Shift{
		PersonID:  "p1",
		Date:      testDay,
		Type:      attendance.ShiftWork,
		StartTime: clk(start),
		EndTime:   clk(end),
	}
}

func TestCompute_CheckInRounding(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)
	shift := workShift("09:00", "18:00")

	t.Run("late check-in rounds up", func(t *testing.T) {
		// GIVEN a 09:00 shift
		// WHEN the person punches in at 09:01
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 1, 0)), CheckOut: ts(at(18, 0, 0)),
		})
		// THEN work starts at 09:15 and the day is flagged late
		if !res.RoundedCheckIn.Equal(at(9, 15, 0)) {
			t.Errorf("rounded check-in = %v, want 09:15", res.RoundedCheckIn)
		}
		if res.Status != attendance.StatusLate {
			t.Errorf("status = %q, want late", res.Status)
		}
	})

	t.Run("on-time check-in keeps shift start", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(18, 0, 0)),
		})
		if !res.RoundedCheckIn.Equal(at(9, 0, 0)) {
			t.Errorf("rounded check-in = %v, want 09:00", res.RoundedCheckIn)
		}
		if res.Status != attendance.StatusPresent {
			t.Errorf("status = %q, want present", res.Status)
		}
	})

	t.Run("early check-in clamps to shift start", func(t *testing.T) {
		// GIVEN a 09:00 shift
		// WHEN the person punches in at 08:50
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(8, 50, 0)), CheckOut: ts(at(18, 0, 0)),
		})
		// THEN the early minutes earn nothing
		if !res.RoundedCheckIn.Equal(at(9, 0, 0)) {
			t.Errorf("rounded check-in = %v, want 09:00", res.RoundedCheckIn)
		}
		if res.Status != attendance.StatusPresent {
			t.Errorf("early arrival must not count as late, got %q", res.Status)
		}
	})

	t.Run("no shift rounds up plainly", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date:    testDay,
			CheckIn: ts(at(8, 50, 0)), CheckOut: ts(at(17, 0, 0)),
		})
		if !res.RoundedCheckIn.Equal(at(9, 0, 0)) {
			t.Errorf("rounded check-in = %v, want 09:00", res.RoundedCheckIn)
		}
	})
}

func TestCompute_CheckOutRounding(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)
	shift := workShift("09:00", "18:00")

	t.Run("before shift end rounds down, no overtime", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(17, 50, 0)),
		})
		if !res.RoundedCheckOut.Equal(at(17, 45, 0)) {
			t.Errorf("rounded check-out = %v, want 17:45", res.RoundedCheckOut)
		}
		if res.OvertimeMinutes != 0 {
			t.Errorf("overtime = %d, want 0", res.OvertimeMinutes)
		}
	})

	t.Run("past shift end clamps and yields overtime", func(t *testing.T) {
		// GIVEN a shift ending 18:00
		// WHEN the person punches out at 18:35
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(18, 35, 0)),
		})
		// THEN regular work ends at 18:00 and 30 minutes are overtime
		if !res.RoundedCheckOut.Equal(at(18, 0, 0)) {
			t.Errorf("rounded check-out = %v, want 18:00", res.RoundedCheckOut)
		}
		if res.OvertimeMinutes != 30 {
			t.Errorf("overtime = %d, want 30", res.OvertimeMinutes)
		}
		// 540 gross - 60 break + 30 overtime
		if res.WorkMinutes != 510 {
			t.Errorf("work = %d, want 510", res.WorkMinutes)
		}
	})

	t.Run("barely past shift end yields zero overtime", func(t *testing.T) {
		// 18:05 rounds down to 18:00, exactly the boundary.
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(18, 5, 0)),
		})
		if res.OvertimeMinutes != 0 {
			t.Errorf("overtime = %d, want 0", res.OvertimeMinutes)
		}
		if !res.RoundedCheckOut.Equal(at(18, 0, 0)) {
			t.Errorf("rounded check-out = %v, want 18:00", res.RoundedCheckOut)
		}
	})
}

func TestCompute_BreakDeduction(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)

	t.Run("six hours triggers the break", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: workShift("09:00", "18:00"),
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(15, 0, 0)),
		})
		if res.BreakMinutes != 60 {
			t.Errorf("break = %d, want 60", res.BreakMinutes)
		}
		if res.WorkMinutes != 300 {
			t.Errorf("work = %d, want 300", res.WorkMinutes)
		}
	})

	t.Run("just under six hours takes no break", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: workShift("09:00", "18:00"),
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(14, 45, 0)),
		})
		if res.BreakMinutes != 0 {
			t.Errorf("break = %d, want 0", res.BreakMinutes)
		}
		if res.WorkMinutes != 345 {
			t.Errorf("work = %d, want 345", res.WorkMinutes)
		}
	})

	t.Run("work_no_break never deducts", func(t *testing.T) {
		shift := workShift("09:00", "18:00")
		shift.Type = attendance.ShiftWorkNoBreak
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(9, 0, 0)), CheckOut: ts(at(18, 0, 0)),
		})
		if res.BreakMinutes != 0 {
			t.Errorf("break = %d, want 0", res.BreakMinutes)
		}
		if res.WorkMinutes != 540 {
			t.Errorf("work = %d, want 540", res.WorkMinutes)
		}
	})
}

func TestCompute_LeaveCredits(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)

	leave := func(typ attendance.ShiftType) *attendance.Shift {
		return &attendance.Shift{PersonID: "p1", Date: testDay, Type: typ}
	}

	t.Run("paid leave credits a full day", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: leave(attendance.ShiftPaidLeave)})
		if res.WorkMinutes != 480 || res.Status != attendance.StatusPresent || !res.Complete {
			t.Errorf("got work=%d status=%q complete=%v", res.WorkMinutes, res.Status, res.Complete)
		}
	})

	t.Run("business trip credits a full day", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: leave(attendance.ShiftBusinessTrip)})
		if res.WorkMinutes != 480 {
			t.Errorf("work = %d, want 480", res.WorkMinutes)
		}
	})

	t.Run("flex defaults to eight hours", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: leave(attendance.ShiftFlex)})
		if res.WorkMinutes != 480 {
			t.Errorf("work = %d, want 480", res.WorkMinutes)
		}
	})

	t.Run("flex honors fractional hours", func(t *testing.T) {
		shift := leave(attendance.ShiftFlex)
		shift.LeaveHours = decimal.RequireFromString("6.5")
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: shift})
		if res.WorkMinutes != 390 {
			t.Errorf("work = %d, want 390", res.WorkMinutes)
		}
	})

	t.Run("half paid leave adds worked span to half day", func(t *testing.T) {
		shift := workShift("14:00", "18:00")
		shift.Type = attendance.ShiftHalfPaidLeave
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(14, 0, 0)), CheckOut: ts(at(18, 0, 0)),
		})
		// 240 worked + 240 credit
		if res.WorkMinutes != 480 {
			t.Errorf("work = %d, want 480", res.WorkMinutes)
		}
		if res.Status != attendance.StatusHalfDay {
			t.Errorf("status = %q, want half_day", res.Status)
		}
	})

	t.Run("half paid leave without punches still credits half", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: leave(attendance.ShiftHalfPaidLeave)})
		if res.WorkMinutes != 240 {
			t.Errorf("work = %d, want 240", res.WorkMinutes)
		}
	})

	t.Run("absent and rest credit nothing", func(t *testing.T) {
		for _, typ := range []attendance.ShiftType{
			attendance.ShiftAbsent, attendance.ShiftRest,
			attendance.ShiftPreferredRest, attendance.ShiftSpecialLeave,
		} {
			res := eng.Compute(attendance.DayInput{Date: testDay, Shift: leave(typ)})
			if res.WorkMinutes != 0 {
				t.Errorf("%s: work = %d, want 0", typ, res.WorkMinutes)
			}
		}
	})
}

func TestCompute_Overnight(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)
	shift := workShift("22:00", "06:00")

	// GIVEN a shift that crosses midnight
	// WHEN the person checks out the next morning at 06:40
	out := time.Date(2025, time.March, 11, 6, 40, 0, 0, time.UTC)
	res := eng.Compute(attendance.DayInput{
		Date: testDay, Shift: shift,
		CheckIn: ts(at(22, 0, 0)), CheckOut: ts(out),
	})

	// THEN the shift end anchors to the following day
	wantEnd := time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC)
	if !res.RoundedCheckOut.Equal(wantEnd) {
		t.Errorf("rounded check-out = %v, want %v", res.RoundedCheckOut, wantEnd)
	}
	if res.OvertimeMinutes != 30 {
		t.Errorf("overtime = %d, want 30", res.OvertimeMinutes)
	}
	// 480 gross - 60 break + 30 overtime
	if res.WorkMinutes != 450 {
		t.Errorf("work = %d, want 450", res.WorkMinutes)
	}
}

func TestCompute_Totality(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)
	shift := workShift("09:00", "18:00")

	t.Run("check-in only is a valid incomplete state", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift, CheckIn: ts(at(9, 0, 0)),
		})
		if res.RoundedCheckIn == nil {
			t.Fatal("rounded check-in should be derived without a check-out")
		}
		if res.Complete {
			t.Error("day with no check-out must not be complete")
		}
		if res.WorkMinutes != 0 {
			t.Errorf("work = %d, want 0 until check-out", res.WorkMinutes)
		}
	})

	t.Run("no check-in on a work shift is absent", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{Date: testDay, Shift: shift})
		if res.Status != attendance.StatusAbsent {
			t.Errorf("status = %q, want absent", res.Status)
		}
	})

	t.Run("inverted punches clamp to zero", func(t *testing.T) {
		res := eng.Compute(attendance.DayInput{
			Date: testDay, Shift: shift,
			CheckIn: ts(at(18, 0, 0)), CheckOut: ts(at(9, 0, 0)),
		})
		if res.WorkMinutes != 0 || res.BreakMinutes != 0 {
			t.Errorf("got work=%d break=%d, want zeros", res.WorkMinutes, res.BreakMinutes)
		}
	})
}

func TestDerive_ReplacesWholeState(t *testing.T) {
	eng := attendance.NewEngine(time.UTC)
	shift := workShift("09:00", "18:00")

	day := &attendance.AttendanceDay{
		PersonID:   "p1",
		Date:       testDay,
		CheckInAt:  ts(at(9, 0, 0)),
		CheckOutAt: ts(at(18, 0, 0)),
		// Stale derived values a previous shift left behind.
		TotalWorkMinutes: 9999,
		OvertimeMinutes:  9999,
	}
	eng.Derive(day, shift)

	if day.TotalWorkMinutes != 480 {
		t.Errorf("work = %d, want 480", day.TotalWorkMinutes)
	}
	if day.OvertimeMinutes != 0 {
		t.Errorf("overtime = %d, want 0", day.OvertimeMinutes)
	}
	if day.Status != attendance.StatusPresent {
		t.Errorf("status = %q, want present", day.Status)
	}
}
