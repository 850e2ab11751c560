// Package memory provides in-memory store implementations (for
// testing/dev).
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/tempo/attendance-engine/attendance"
	"github.com/tempo/attendance-engine/status"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of all store contracts
// =============================================================================

type Store struct {
	mu sync.RWMutex

	shifts   map[dayKey]attendance.Shift
	days     map[dayKey]attendance.AttendanceDay
	periods  map[int64]status.Period
	statuses map[attendance.PersonID]status.Status
	settings attendance.Settings

	nextPeriodID int64
}

type dayKey struct {
	Person attendance.PersonID
	Date   string
}

func New() *Store {
	return &Store{
		shifts:       make(map[dayKey]attendance.Shift),
		days:         make(map[dayKey]attendance.AttendanceDay),
		periods:      make(map[int64]status.Period),
		statuses:     make(map[attendance.PersonID]status.Status),
		settings:     attendance.Settings{DeadlineDay: 25},
		nextPeriodID: 1,
	}
}

func keyOf(person attendance.PersonID, date attendance.Date) dayKey {
	return dayKey{Person: person, Date: date.String()}
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) LoadShift(_ context.Context, person attendance.PersonID, date attendance.Date) (*attendance.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, ok := s.shifts[keyOf(person, date)]
	if !ok {
		return nil, nil
	}
	return &shift, nil
}

func (s *Store) SaveShift(_ context.Context, shift attendance.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shifts[keyOf(shift.PersonID, shift.Date)] = shift
	return nil
}

// =============================================================================
// ATTENDANCE DAYS
// =============================================================================

func (s *Store) LoadDay(_ context.Context, person attendance.PersonID, date attendance.Date) (*attendance.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day, ok := s.days[keyOf(person, date)]
	if !ok {
		return nil, nil
	}
	return &day, nil
}

// SaveDay upserts by (person, date).
func (s *Store) SaveDay(_ context.Context, day attendance.AttendanceDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days[keyOf(day.PersonID, day.Date)] = day
	return nil
}

// =============================================================================
// STATUS PERIODS
// =============================================================================

func (s *Store) LoadOpenPeriod(_ context.Context, person attendance.PersonID, before attendance.Date) (*status.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *status.Period
	for id := range s.periods {
		p := s.periods[id]
		if p.PersonID != person || p.ValidUntil != nil || !p.ValidFrom.Before(before) {
			continue
		}
		if found == nil || p.ValidFrom.After(found.ValidFrom) {
			cp := p
			found = &cp
		}
	}
	return found, nil
}

func (s *Store) GetPeriod(_ context.Context, id int64) (*status.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) InsertPeriod(_ context.Context, p *status.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextPeriodID
	s.nextPeriodID++
	s.periods[p.ID] = *p
	return nil
}

func (s *Store) ClosePeriod(_ context.Context, id int64, until attendance.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok {
		return &attendance.NotFoundError{Kind: "status_period", ID: strconv.FormatInt(id, 10)}
	}
	p.ValidUntil = &until
	s.periods[id] = p
	return nil
}

func (s *Store) DeletePeriod(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.periods[id]; !ok {
		return &attendance.NotFoundError{Kind: "status_period", ID: strconv.FormatInt(id, 10)}
	}
	delete(s.periods, id)
	return nil
}

func (s *Store) ListPeriods(_ context.Context, person attendance.PersonID) ([]status.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []status.Period
	for id := range s.periods {
		if s.periods[id].PersonID == person {
			result = append(result, s.periods[id])
		}
	}
	// Same ordering as the SQL store: valid_from DESC, id DESC, so
	// equal-start periods resolve the same way on either backend.
	sort.Slice(result, func(i, j int) bool {
		if result[i].ValidFrom.Equal(result[j].ValidFrom) {
			return result[i].ID > result[j].ID
		}
		return result[i].ValidFrom.After(result[j].ValidFrom)
	})
	return result, nil
}

func (s *Store) SavePersonStatus(_ context.Context, person attendance.PersonID, st status.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[person] = st
	return nil
}

// PersonStatus returns the last persisted current status for a person.
// Unknown people default to inactive.
func (s *Store) PersonStatus(_ context.Context, person attendance.PersonID) (status.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.statuses[person]; ok {
		return st, nil
	}
	return status.Inactive, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) LoadSettings(_ context.Context) (attendance.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings attendance.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	return nil
}

