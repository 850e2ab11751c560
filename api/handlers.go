/*
handlers.go - HTTP API handlers for the attendance system

PURPOSE:
  Exposes the attendance engine, status ledger, and settings via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Punches (serialized through the mutation queue):
    POST   /api/people/{id}/check-in
    POST   /api/people/{id}/check-out

  Attendance:
    GET    /api/people/{id}/attendance/{date}
    POST   /api/people/{id}/attendance/{date}/recompute
    PUT    /api/people/{id}/shifts/{date}

  Status periods:
    GET    /api/people/{id}/status-periods
    POST   /api/people/{id}/status-periods
    GET    /api/people/{id}/status
    DELETE /api/status-periods/{id}

  Settings:
    GET    /api/settings
    PUT    /api/settings

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

QUEUEING:
  Check-in/check-out return 202 Accepted once enqueued. The queue
  applies them one at a time in submission order; a failed punch is
  logged, never retried, and never blocks the next one.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tempo/attendance-engine/attendance"
	"github.com/tempo/attendance-engine/queue"
	"github.com/tempo/attendance-engine/status"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Each handler set
// owns its own mutation queue; tests can run several in isolation.
type Handler struct {
	Recorder *attendance.Recorder
	Ledger   *status.Ledger
	Settings attendance.SettingsStore
	Queue    *queue.Queue
}

func NewHandler(recorder *attendance.Recorder, ledger *status.Ledger, settings attendance.SettingsStore, q *queue.Queue) *Handler {
	return &Handler{Recorder: recorder, Ledger: ledger, Settings: settings, Queue: q}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// CheckIn enqueues a check-in punch.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, "check-in", h.Recorder.RecordCheckIn)
}

// CheckOut enqueues a check-out punch.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, "check-out", h.Recorder.RecordCheckOut)
}

func (h *Handler) punch(w http.ResponseWriter, r *http.Request, action string,
	apply func(context.Context, attendance.PersonID, time.Time) (*attendance.AttendanceDay, error)) {

	person := attendance.PersonID(chi.URLParam(r, "id"))

	var req PunchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	at := time.Now().UTC()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
			return
		}
		at = parsed.UTC()
	}

	h.Queue.Enqueue(func(ctx context.Context) error {
		_, err := apply(ctx, person, at)
		return err
	})

	writeJSON(w, http.StatusAccepted, PunchAcceptedDTO{
		PersonID: string(person),
		Action:   action,
		At:       at.Format(time.RFC3339),
		Queued:   true,
	})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendanceDay returns the attendance record for a person/date.
func (h *Handler) GetAttendanceDay(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))
	date, err := attendance.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	day, err := h.Recorder.Days.LoadDay(r.Context(), person, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance day", err)
		return
	}
	if day == nil {
		writeError(w, http.StatusNotFound, "Attendance day not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// RecomputeAttendanceDay re-derives an existing record synchronously.
func (h *Handler) RecomputeAttendanceDay(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))
	date, err := attendance.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	day, err := h.Recorder.Recompute(r.Context(), person, date)
	if err != nil {
		writeDomainError(w, "Failed to recompute attendance day", err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// SetShift plans (or replaces) a shift and re-derives any existing
// attendance record for that date.
func (h *Handler) SetShift(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))
	date, err := attendance.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var req SetShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift := attendance.Shift{
		PersonID: person,
		Date:     date,
		Type:     attendance.ShiftType(req.Type),
	}
	if req.StartTime != nil {
		ct, err := attendance.ParseClockTime(*req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_time", err)
			return
		}
		shift.StartTime = &ct
	}
	if req.EndTime != nil {
		ct, err := attendance.ParseClockTime(*req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_time", err)
			return
		}
		shift.EndTime = &ct
	}
	if req.LeaveHours != "" {
		hours, err := decimal.NewFromString(req.LeaveHours)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid leave_hours", err)
			return
		}
		shift.LeaveHours = hours
	}

	day, err := h.Recorder.SetShift(r.Context(), shift)
	if err != nil {
		writeDomainError(w, "Failed to set shift", err)
		return
	}
	if day == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// =============================================================================
// STATUS PERIOD HANDLERS
// =============================================================================

// ListStatusPeriods returns a person's period history, most recent
// start first.
func (h *Handler) ListStatusPeriods(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))

	periods, err := h.Ledger.History(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list status periods", err)
		return
	}

	dtos := make([]StatusPeriodDTO, len(periods))
	for i := range periods {
		dtos[i] = toPeriodDTO(&periods[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddStatusPeriod adds a period, closing the preceding open one.
func (h *Handler) AddStatusPeriod(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))

	var req AddPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	validFrom, err := attendance.ParseDate(req.ValidFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid valid_from", err)
		return
	}
	var validUntil *attendance.Date
	if req.ValidUntil != nil {
		d, err := attendance.ParseDate(*req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid valid_until", err)
			return
		}
		validUntil = &d
	}

	period, err := h.Ledger.AddPeriod(r.Context(), person, status.Status(req.Status), validFrom, validUntil, req.Note)
	if err != nil {
		writeDomainError(w, "Failed to add status period", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPeriodDTO(period))
}

// DeleteStatusPeriod removes a period and re-derives the person's
// current status.
func (h *Handler) DeleteStatusPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period id", err)
		return
	}

	if err := h.Ledger.DeletePeriod(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete status period", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentStatus resolves a person's status as of a date (today by
// default).
func (h *Handler) GetCurrentStatus(w http.ResponseWriter, r *http.Request) {
	person := attendance.PersonID(chi.URLParam(r, "id"))

	asOf := h.Ledger.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := attendance.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
			return
		}
		asOf = d
	}

	current, err := h.Ledger.ResolveCurrentStatus(r.Context(), person, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve status", err)
		return
	}
	writeJSON(w, http.StatusOK, CurrentStatusDTO{
		PersonID: string(person),
		Status:   string(current),
		AsOf:     asOf.String(),
	})
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.LoadSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{DeadlineDay: settings.DeadlineDay})
}

// UpdateSettings validates and stores new settings. Out-of-range
// values are rejected whole; nothing is partially applied.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings := attendance.Settings{DeadlineDay: req.DeadlineDay}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}
	if err := h.Settings.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{DeadlineDay: settings.DeadlineDay})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the core error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case attendance.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
