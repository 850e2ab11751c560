/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements the attendance store contracts (shifts, attendance days,
  status periods, person status, settings) using SQLite. In production
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

UPSERT-BY-KEY:
  Attendance days and shifts are keyed by (person, date) and written
  with INSERT ... ON CONFLICT DO UPDATE. A day write always replaces
  the full derived-field set; the queue's serialization plus this
  upsert is what makes repeated kiosk punches safe.

ENCODING:
  Instants are stored as RFC3339 UTC strings, dates as YYYY-MM-DD,
  shift boundaries as HH:MM, and the flex hours value as a decimal
  string.

WAL MODE:
  The database is opened with WAL for better concurrency: readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tempo/attendance-engine/attendance"
	"github.com/tempo/attendance-engine/status"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		person_id   TEXT NOT NULL,
		date        TEXT NOT NULL,
		shift_type  TEXT NOT NULL,
		start_time  TEXT,
		end_time    TEXT,
		leave_hours TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (person_id, date)
	);

	CREATE TABLE IF NOT EXISTS attendance_days (
		person_id            TEXT NOT NULL,
		date                 TEXT NOT NULL,
		check_in_at          TEXT,
		check_out_at         TEXT,
		rounded_check_in_at  TEXT,
		rounded_check_out_at TEXT,
		total_work_minutes   INTEGER NOT NULL DEFAULT 0,
		total_break_minutes  INTEGER NOT NULL DEFAULT 0,
		overtime_minutes     INTEGER NOT NULL DEFAULT 0,
		status               TEXT NOT NULL DEFAULT 'absent',
		PRIMARY KEY (person_id, date)
	);

	CREATE TABLE IF NOT EXISTS status_periods (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id   TEXT NOT NULL,
		status      TEXT NOT NULL,
		valid_from  TEXT NOT NULL,
		valid_until TEXT,
		note        TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_status_periods_person
		ON status_periods(person_id, valid_from DESC);

	-- Open-period lookup (hot path on every AddPeriod)
	CREATE INDEX IF NOT EXISTS idx_status_periods_open
		ON status_periods(person_id) WHERE valid_until IS NULL;

	CREATE TABLE IF NOT EXISTS people (
		id             TEXT PRIMARY KEY,
		current_status TEXT NOT NULL DEFAULT 'inactive'
	);

	CREATE TABLE IF NOT EXISTS settings (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		deadline_day INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO settings (id, deadline_day) VALUES (1, 25);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) LoadShift(ctx context.Context, person attendance.PersonID, date attendance.Date) (*attendance.Shift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT shift_type, start_time, end_time, leave_hours
		FROM shifts WHERE person_id = ? AND date = ?`,
		string(person), date.String())

	var (
		shiftType  string
		startTime  sql.NullString
		endTime    sql.NullString
		leaveHours string
	)
	if err := row.Scan(&shiftType, &startTime, &endTime, &leaveHours); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	shift := &attendance.Shift{
		PersonID: person,
		Date:     date,
		Type:     attendance.ShiftType(shiftType),
	}
	if startTime.Valid {
		ct, err := attendance.ParseClockTime(startTime.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt start_time for %s/%s: %w", person, date, err)
		}
		shift.StartTime = &ct
	}
	if endTime.Valid {
		ct, err := attendance.ParseClockTime(endTime.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt end_time for %s/%s: %w", person, date, err)
		}
		shift.EndTime = &ct
	}
	hours, err := decimal.NewFromString(leaveHours)
	if err != nil {
		return nil, fmt.Errorf("corrupt leave_hours for %s/%s: %w", person, date, err)
	}
	shift.LeaveHours = hours
	return shift, nil
}

func (s *Store) SaveShift(ctx context.Context, shift attendance.Shift) error {
	var startTime, endTime any
	if shift.StartTime != nil {
		startTime = shift.StartTime.String()
	}
	if shift.EndTime != nil {
		endTime = shift.EndTime.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (person_id, date, shift_type, start_time, end_time, leave_hours)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (person_id, date) DO UPDATE SET
			shift_type = excluded.shift_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			leave_hours = excluded.leave_hours`,
		string(shift.PersonID), shift.Date.String(), string(shift.Type),
		startTime, endTime, shift.LeaveHours.String())
	return err
}

// =============================================================================
// ATTENDANCE DAYS
// =============================================================================

func (s *Store) LoadDay(ctx context.Context, person attendance.PersonID, date attendance.Date) (*attendance.AttendanceDay, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT check_in_at, check_out_at, rounded_check_in_at, rounded_check_out_at,
		       total_work_minutes, total_break_minutes, overtime_minutes, status
		FROM attendance_days WHERE person_id = ? AND date = ?`,
		string(person), date.String())

	var (
		checkIn, checkOut, roundedIn, roundedOut sql.NullString
		dayStatus                                string
	)
	day := &attendance.AttendanceDay{PersonID: person, Date: date}
	err := row.Scan(&checkIn, &checkOut, &roundedIn, &roundedOut,
		&day.TotalWorkMinutes, &day.TotalBreakMinutes, &day.OvertimeMinutes, &dayStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	day.Status = attendance.DayStatus(dayStatus)

	if day.CheckInAt, err = scanInstant(checkIn); err != nil {
		return nil, fmt.Errorf("corrupt check_in_at for %s/%s: %w", person, date, err)
	}
	if day.CheckOutAt, err = scanInstant(checkOut); err != nil {
		return nil, fmt.Errorf("corrupt check_out_at for %s/%s: %w", person, date, err)
	}
	if day.RoundedCheckInAt, err = scanInstant(roundedIn); err != nil {
		return nil, fmt.Errorf("corrupt rounded_check_in_at for %s/%s: %w", person, date, err)
	}
	if day.RoundedCheckOutAt, err = scanInstant(roundedOut); err != nil {
		return nil, fmt.Errorf("corrupt rounded_check_out_at for %s/%s: %w", person, date, err)
	}
	return day, nil
}

// SaveDay upserts by (person, date), replacing all derived fields
// together.
func (s *Store) SaveDay(ctx context.Context, day attendance.AttendanceDay) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_days (
			person_id, date, check_in_at, check_out_at,
			rounded_check_in_at, rounded_check_out_at,
			total_work_minutes, total_break_minutes, overtime_minutes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (person_id, date) DO UPDATE SET
			check_in_at = excluded.check_in_at,
			check_out_at = excluded.check_out_at,
			rounded_check_in_at = excluded.rounded_check_in_at,
			rounded_check_out_at = excluded.rounded_check_out_at,
			total_work_minutes = excluded.total_work_minutes,
			total_break_minutes = excluded.total_break_minutes,
			overtime_minutes = excluded.overtime_minutes,
			status = excluded.status`,
		string(day.PersonID), day.Date.String(),
		fmtInstant(day.CheckInAt), fmtInstant(day.CheckOutAt),
		fmtInstant(day.RoundedCheckInAt), fmtInstant(day.RoundedCheckOutAt),
		day.TotalWorkMinutes, day.TotalBreakMinutes, day.OvertimeMinutes,
		string(day.Status))
	return err
}

// =============================================================================
// STATUS PERIODS
// =============================================================================

func (s *Store) LoadOpenPeriod(ctx context.Context, person attendance.PersonID, before attendance.Date) (*status.Period, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, valid_from, valid_until, note
		FROM status_periods
		WHERE person_id = ? AND valid_until IS NULL AND valid_from < ?
		ORDER BY valid_from DESC LIMIT 1`,
		string(person), before.String())

	var (
		p     status.Period
		st    string
		from  string
		until sql.NullString
	)
	err := row.Scan(&p.ID, &st, &from, &until, &p.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.PersonID = person
	p.Status = status.Status(st)
	if p.ValidFrom, err = attendance.ParseDate(from); err != nil {
		return nil, err
	}
	if p.ValidUntil, err = scanDate(until); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPeriod(ctx context.Context, id int64) (*status.Period, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, person_id, status, valid_from, valid_until, note
		FROM status_periods WHERE id = ?`, id)

	var (
		p      status.Period
		person string
		st     string
		from   string
		until  sql.NullString
	)
	err := row.Scan(&p.ID, &person, &st, &from, &until, &p.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.PersonID = attendance.PersonID(person)
	p.Status = status.Status(st)
	if p.ValidFrom, err = attendance.ParseDate(from); err != nil {
		return nil, err
	}
	if p.ValidUntil, err = scanDate(until); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) InsertPeriod(ctx context.Context, p *status.Period) error {
	var until any
	if p.ValidUntil != nil {
		until = p.ValidUntil.String()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO status_periods (person_id, status, valid_from, valid_until, note)
		VALUES (?, ?, ?, ?, ?)`,
		string(p.PersonID), string(p.Status), p.ValidFrom.String(), until, p.Note)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) ClosePeriod(ctx context.Context, id int64, until attendance.Date) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE status_periods SET valid_until = ? WHERE id = ?`,
		until.String(), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *Store) DeletePeriod(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM status_periods WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *Store) ListPeriods(ctx context.Context, person attendance.PersonID) ([]status.Period, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, valid_from, valid_until, note
		FROM status_periods
		WHERE person_id = ?
		ORDER BY valid_from DESC, id DESC`,
		string(person))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []status.Period
	for rows.Next() {
		var (
			p     status.Period
			st    string
			from  string
			until sql.NullString
		)
		if err := rows.Scan(&p.ID, &st, &from, &until, &p.Note); err != nil {
			return nil, err
		}
		p.PersonID = person
		p.Status = status.Status(st)
		if p.ValidFrom, err = attendance.ParseDate(from); err != nil {
			return nil, err
		}
		if p.ValidUntil, err = scanDate(until); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) SavePersonStatus(ctx context.Context, person attendance.PersonID, st status.Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (id, current_status) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET current_status = excluded.current_status`,
		string(person), string(st))
	return err
}

// PersonStatus returns the persisted current status for a person.
// Unknown people default to inactive.
func (s *Store) PersonStatus(ctx context.Context, person attendance.PersonID) (status.Status, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT current_status FROM people WHERE id = ?`, string(person))
	var st string
	err := row.Scan(&st)
	if err == sql.ErrNoRows {
		return status.Inactive, nil
	}
	if err != nil {
		return status.Inactive, err
	}
	return status.Status(st), nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) LoadSettings(ctx context.Context) (attendance.Settings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT deadline_day FROM settings WHERE id = 1`)
	var settings attendance.Settings
	if err := row.Scan(&settings.DeadlineDay); err != nil {
		return attendance.Settings{}, err
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings attendance.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET deadline_day = ? WHERE id = 1`, settings.DeadlineDay)
	return err
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanInstant(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func fmtInstant(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func scanDate(v sql.NullString) (*attendance.Date, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := attendance.ParseDate(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &attendance.NotFoundError{Kind: "status_period", ID: fmt.Sprintf("%d", id)}
	}
	return nil
}
