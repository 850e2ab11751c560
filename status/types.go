// Package status implements the per-person status-period ledger.
// A person's active/inactive state is kept as a sequence of dated
// validity periods; the current status is derived from the period
// covering "today", defaulting to inactive when none does.
package status

import (
	"github.com/tempo/attendance-engine/attendance"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	Active   Status = "active"
	Inactive Status = "inactive"
)

// Valid reports whether s is a known status value.
func Valid(s Status) bool { return s == Active || s == Inactive }

// =============================================================================
// PERIOD - One validity range of a person's status
// =============================================================================

// Period is one status validity range. ValidFrom and ValidUntil are
// both inclusive; a nil ValidUntil means the period is open-ended.
type Period struct {
	ID         int64
	PersonID   attendance.PersonID
	Status     Status
	ValidFrom  attendance.Date
	ValidUntil *attendance.Date
	Note       string
}

// Open reports whether the period is open-ended (ongoing).
func (p *Period) Open() bool { return p.ValidUntil == nil }

// Covers reports whether the period contains the given date.
func (p *Period) Covers(d attendance.Date) bool {
	if d.Before(p.ValidFrom) {
		return false
	}
	return p.ValidUntil == nil || p.ValidUntil.AfterOrEqual(d)
}

// Overlaps reports whether two periods share at least one date.
func (p *Period) Overlaps(q *Period) bool {
	if p.ValidUntil != nil && p.ValidUntil.Before(q.ValidFrom) {
		return false
	}
	if q.ValidUntil != nil && q.ValidUntil.Before(p.ValidFrom) {
		return false
	}
	return true
}
