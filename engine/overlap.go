/*
overlap.go - Interval validation against an employee's stored trips

PURPOSE:
  Guards the no-overlap invariant: for one employee, no two non-ghosted
  trips may share a calendar day. Every trip write (create or edit) must
  pass through CheckOverlap before being persisted.

BOUNDARY SEMANTICS:
  Intervals are inclusive on both ends, and a shared boundary day IS a
  conflict: one trip ending 2024-01-10 and another starting 2024-01-10
  would both register presence on the same day in two records, which the
  data model forbids.

CONCURRENCY NOTE:
  The check-then-write sequence is only correct when writes for one
  employee are serialized. The validator itself never persists anything;
  the service layer holds the per-employee lock.
*/
package engine

// =============================================================================
// INTERVAL VALIDATOR
// =============================================================================

// ValidateInterval rejects malformed candidate intervals before any overlap
// or window computation runs. The engine never repairs bad input.
func ValidateInterval(iv Interval) error {
	if iv.Entry.IsZero() {
		return &InputError{Field: "entry_date", Reason: "required"}
	}
	if iv.Exit.IsZero() {
		return &InputError{Field: "exit_date", Reason: "required"}
	}
	if !iv.Valid() {
		return &InputError{Field: "exit_date", Reason: "entry date is after exit date"}
	}
	return nil
}

// ValidateTrip checks a full candidate trip: interval validity plus a
// Schengen country where one is required.
func ValidateTrip(t Trip) error {
	if err := ValidateInterval(Interval{Entry: t.Entry, Exit: t.Exit}); err != nil {
		return err
	}
	if !IsSchengenCountry(t.Country) {
		return &InputError{Field: "country", Reason: "not a Schengen-area country"}
	}
	return nil
}

// CheckOverlap tests a candidate interval against existing trips.
//
// Ghosted trips never participate. excludeTripID lets an edit-in-place
// ignore the trip's own stored state; pass "" for a new trip. The first
// conflicting trip (in input order) is reported; the caller must reject
// the write on conflict.
func CheckOverlap(candidate Interval, existing []Trip, excludeTripID TripID) OverlapResult {
	for i := range existing {
		t := &existing[i]
		if t.Ghosted {
			continue
		}
		if excludeTripID != "" && t.ID == excludeTripID {
			continue
		}
		if candidate.Range().Overlaps(t.Range()) {
			conflict := *t
			return OverlapResult{HasOverlap: true, ConflictingTrip: &conflict}
		}
	}
	return OverlapResult{}
}

// CheckTripWrite combines input validation and overlap checking for one
// candidate write, returning nil when the write may proceed.
func CheckTripWrite(candidate Trip, existing []Trip, excludeTripID TripID) error {
	if err := ValidateTrip(candidate); err != nil {
		return err
	}
	result := CheckOverlap(Interval{Entry: candidate.Entry, Exit: candidate.Exit}, existing, excludeTripID)
	if result.HasOverlap {
		return &ConflictError{
			EmployeeID:  candidate.EmployeeID,
			Candidate:   Interval{Entry: candidate.Entry, Exit: candidate.Exit},
			Conflicting: *result.ConflictingTrip,
		}
	}
	return nil
}
