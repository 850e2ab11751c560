/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ENCODING:
  Instants travel as RFC3339 UTC timestamps. Dates are YYYY-MM-DD.
  Shift boundaries are civil "HH:MM" strings in the organization's
  local timezone, never UTC times.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.
*/
package api

import (
	"time"

	"github.com/tempo/attendance-engine/attendance"
	"github.com/tempo/attendance-engine/status"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PunchRequest is the body of a check-in/check-out event. At defaults
// to the server's current time when omitted (kiosk punches).
type PunchRequest struct {
	At string `json:"at,omitempty"`
}

// PunchAcceptedDTO acknowledges a queued punch.
type PunchAcceptedDTO struct {
	PersonID string `json:"person_id"`
	Action   string `json:"action"`
	At       string `json:"at"`
	Queued   bool   `json:"queued"`
}

// AttendanceDayDTO is an attendance record in API responses.
type AttendanceDayDTO struct {
	PersonID          string  `json:"person_id"`
	Date              string  `json:"date"`
	CheckInAt         *string `json:"check_in_at"`
	CheckOutAt        *string `json:"check_out_at"`
	RoundedCheckInAt  *string `json:"rounded_check_in_at"`
	RoundedCheckOutAt *string `json:"rounded_check_out_at"`
	TotalWorkMinutes  int     `json:"total_work_minutes"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	OvertimeMinutes   int     `json:"overtime_minutes"`
	Status            string  `json:"status"`
}

// SetShiftRequest is the body for planning a shift.
type SetShiftRequest struct {
	Type       string  `json:"type"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	LeaveHours string  `json:"leave_hours,omitempty"`
}

// StatusPeriodDTO is a status validity period in API responses.
type StatusPeriodDTO struct {
	ID         int64   `json:"id"`
	PersonID   string  `json:"person_id"`
	Status     string  `json:"status"`
	ValidFrom  string  `json:"valid_from"`
	ValidUntil *string `json:"valid_until"`
	Note       string  `json:"note,omitempty"`
}

// AddPeriodRequest is the body for adding a status period.
type AddPeriodRequest struct {
	Status     string  `json:"status"`
	ValidFrom  string  `json:"valid_from"`
	ValidUntil *string `json:"valid_until,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// CurrentStatusDTO is the resolved status of a person on a date.
type CurrentStatusDTO struct {
	PersonID string `json:"person_id"`
	Status   string `json:"status"`
	AsOf     string `json:"as_of"`
}

// SettingsDTO carries organization settings.
type SettingsDTO struct {
	DeadlineDay int `json:"deadline_day"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDayDTO(day *attendance.AttendanceDay) AttendanceDayDTO {
	return AttendanceDayDTO{
		PersonID:          string(day.PersonID),
		Date:              day.Date.String(),
		CheckInAt:         fmtInstant(day.CheckInAt),
		CheckOutAt:        fmtInstant(day.CheckOutAt),
		RoundedCheckInAt:  fmtInstant(day.RoundedCheckInAt),
		RoundedCheckOutAt: fmtInstant(day.RoundedCheckOutAt),
		TotalWorkMinutes:  day.TotalWorkMinutes,
		TotalBreakMinutes: day.TotalBreakMinutes,
		OvertimeMinutes:   day.OvertimeMinutes,
		Status:            string(day.Status),
	}
}

func toPeriodDTO(p *status.Period) StatusPeriodDTO {
	dto := StatusPeriodDTO{
		ID:        p.ID,
		PersonID:  string(p.PersonID),
		Status:    string(p.Status),
		ValidFrom: p.ValidFrom.String(),
		Note:      p.Note,
	}
	if p.ValidUntil != nil {
		s := p.ValidUntil.String()
		dto.ValidUntil = &s
	}
	return dto
}

func fmtInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
