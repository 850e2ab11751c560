/*
ledger.go - Status-period ledger operations

PURPOSE:
  Maintains the ordered collection of status periods per person and
  keeps the person's persisted current status in sync with them.

CLOSE-ON-ADD:
  Adding a period closes the preceding open period: among the open
  periods whose valid_from is strictly before the new period's start,
  the one with the most recent valid_from gets valid_until =
  newStart - 1 day. The new period is then inserted unconditionally.
  An open period starting on or after the new start is left alone;
  closing it would invert its range.

  This deliberately does NOT handle a new period landing inside, or
  overlapping the end of, an existing closed period, and does not
  prevent overlap when periods arrive out of chronological order. The
  ledger detects such overlap and flags it in the log; it never
  rewrites ranges on its own.

DEFAULT-CLOSED:
  A date covered by no period resolves to inactive. The latest known
  period is NOT carried forward past its end.
*/
package status

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tempo/attendance-engine/attendance"
)

// =============================================================================
// STORE - Persistence contract
// =============================================================================

type Store interface {
	// LoadOpenPeriod returns the person's open-ended period with the
	// most recent valid_from strictly before the cutoff, or nil if no
	// open period qualifies.
	LoadOpenPeriod(ctx context.Context, person attendance.PersonID, before attendance.Date) (*Period, error)

	// GetPeriod returns a period by id, or nil if absent.
	GetPeriod(ctx context.Context, id int64) (*Period, error)

	// InsertPeriod persists a new period and assigns its ID.
	InsertPeriod(ctx context.Context, p *Period) error

	// ClosePeriod sets a period's valid_until.
	ClosePeriod(ctx context.Context, id int64, until attendance.Date) error

	// DeletePeriod removes a period.
	DeletePeriod(ctx context.Context, id int64) error

	// ListPeriods returns all periods for a person ordered by
	// valid_from descending.
	ListPeriods(ctx context.Context, person attendance.PersonID) ([]Period, error)

	// SavePersonStatus persists the person's derived current status.
	SavePersonStatus(ctx context.Context, person attendance.PersonID, s Status) error
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger maintains status periods for people. Today is injectable so
// tests can pin the resolution date.
type Ledger struct {
	Store Store
	Today func() attendance.Date
}

func NewLedger(store Store) *Ledger {
	return &Ledger{
		Store: store,
		Today: func() attendance.Date { return attendance.Today(attendance.DefaultLocation()) },
	}
}

// AddPeriod closes the preceding open period, inserts the new one, and
// recomputes the person's current status. A failed validation leaves
// prior state intact.
func (l *Ledger) AddPeriod(ctx context.Context, person attendance.PersonID, s Status, validFrom attendance.Date, validUntil *attendance.Date, note string) (*Period, error) {
	if !Valid(s) {
		return nil, &attendance.ValidationError{Field: "status", Value: string(s), Reason: "must be active or inactive"}
	}
	if validUntil != nil && validUntil.Before(validFrom) {
		return nil, &attendance.ValidationError{Field: "valid_until", Value: validUntil.String(), Reason: "before valid_from"}
	}

	// The store filters on valid_from < validFrom, so the close date
	// can never fall before the closed period's own start.
	open, err := l.Store.LoadOpenPeriod(ctx, person, validFrom)
	if err != nil {
		return nil, fmt.Errorf("load open period for %s: %w", person, err)
	}
	if open != nil {
		if err := l.Store.ClosePeriod(ctx, open.ID, validFrom.AddDays(-1)); err != nil {
			return nil, fmt.Errorf("close period %d: %w", open.ID, err)
		}
	}

	period := &Period{
		PersonID:   person,
		Status:     s,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		Note:       note,
	}
	if err := l.Store.InsertPeriod(ctx, period); err != nil {
		return nil, fmt.Errorf("insert period for %s: %w", person, err)
	}

	l.flagOverlap(ctx, period)

	if err := l.refreshCurrentStatus(ctx, person); err != nil {
		return nil, err
	}
	return period, nil
}

// DeletePeriod removes a period and recomputes the person's current
// status.
func (l *Ledger) DeletePeriod(ctx context.Context, id int64) error {
	period, err := l.Store.GetPeriod(ctx, id)
	if err != nil {
		return fmt.Errorf("get period %d: %w", id, err)
	}
	if period == nil {
		return &attendance.NotFoundError{Kind: "status_period", ID: fmt.Sprintf("%d", id)}
	}
	if err := l.Store.DeletePeriod(ctx, id); err != nil {
		return fmt.Errorf("delete period %d: %w", id, err)
	}
	return l.refreshCurrentStatus(ctx, period.PersonID)
}

// ResolveCurrentStatus returns the person's status as of a date: the
// covering period with the most recent valid_from wins, and a date
// covered by no period is inactive.
func (l *Ledger) ResolveCurrentStatus(ctx context.Context, person attendance.PersonID, asOf attendance.Date) (Status, error) {
	periods, err := l.Store.ListPeriods(ctx, person)
	if err != nil {
		return Inactive, fmt.Errorf("list periods for %s: %w", person, err)
	}
	// ListPeriods orders by valid_from descending, so the first match
	// is the most recent start.
	for i := range periods {
		if periods[i].Covers(asOf) {
			return periods[i].Status, nil
		}
	}
	return Inactive, nil
}

// History returns all periods for a person, most recent start first.
// Read-only projection.
func (l *Ledger) History(ctx context.Context, person attendance.PersonID) ([]Period, error) {
	return l.Store.ListPeriods(ctx, person)
}

// refreshCurrentStatus re-derives and persists the person's status as
// of today.
func (l *Ledger) refreshCurrentStatus(ctx context.Context, person attendance.PersonID) error {
	current, err := l.ResolveCurrentStatus(ctx, person, l.Today())
	if err != nil {
		return err
	}
	if err := l.Store.SavePersonStatus(ctx, person, current); err != nil {
		return fmt.Errorf("save current status for %s: %w", person, err)
	}
	return nil
}

// flagOverlap logs an invariant violation when the inserted period
// overlaps an existing one. The ranges are left as written; corrective
// rewriting is an operator decision, not the ledger's.
func (l *Ledger) flagOverlap(ctx context.Context, inserted *Period) {
	periods, err := l.Store.ListPeriods(ctx, inserted.PersonID)
	if err != nil {
		return
	}
	for i := range periods {
		if periods[i].ID == inserted.ID {
			continue
		}
		if inserted.Overlaps(&periods[i]) {
			logrus.WithFields(logrus.Fields{
				"person":     inserted.PersonID,
				"period":     inserted.ID,
				"overlapped": periods[i].ID,
			}).Warn("status periods overlap")
		}
	}
}
