/*
store.go - Persistence contracts for the attendance core

PURPOSE:
  Defines the interface between the accounting logic and the database.
  The core consumes and produces plain records and has no opinion on
  how they are stored; implementations exist for SQLite and memory.

KEY INTERFACES:
  ShiftStore:    Planned shifts, read by the engine, written by admins
  DayStore:      AttendanceDay records, upserted by person+date
  SettingsStore: Organization-wide settings (submission deadline day)

IDEMPOTENT UPSERT:
  SaveDay is an upsert keyed by (person, date). Re-applying the same
  record is harmless; a save always replaces the whole derived-field
  set, never a subset.

IMPLEMENTATIONS:
  - store/sqlite: production store (WAL, schema migrate on open)
  - store/memory: in-memory store for tests and dev
*/
package attendance

import (
	"context"
	"strconv"
)

// =============================================================================
// SHIFT STORE
// =============================================================================

type ShiftStore interface {
	// LoadShift returns the planned shift for a person/date, or nil if
	// none was planned.
	LoadShift(ctx context.Context, person PersonID, date Date) (*Shift, error)

	// SaveShift upserts a planned shift, keyed by (person, date).
	SaveShift(ctx context.Context, shift Shift) error
}

// =============================================================================
// DAY STORE
// =============================================================================

type DayStore interface {
	// LoadDay returns the attendance record for a person/date, or nil
	// if no punch has created one yet.
	LoadDay(ctx context.Context, person PersonID, date Date) (*AttendanceDay, error)

	// SaveDay upserts an attendance record, keyed by (person, date).
	// The write replaces all derived fields atomically.
	SaveDay(ctx context.Context, day AttendanceDay) error
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings holds organization-wide configuration persisted alongside
// the attendance data.
type Settings struct {
	// DeadlineDay is the day of month (1-28) by which monthly
	// attendance must be submitted. It governs the submission window,
	// not the accounting rules.
	DeadlineDay int
}

// Validate rejects out-of-range settings at the boundary.
func (s Settings) Validate() error {
	if s.DeadlineDay < 1 || s.DeadlineDay > 28 {
		return &ValidationError{
			Field:  "deadline_day",
			Value:  strconv.Itoa(s.DeadlineDay),
			Reason: "must be between 1 and 28",
		}
	}
	return nil
}

type SettingsStore interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}
