/*
presence.go - Canonical presence-day model

PURPOSE:
  Converts a set of trip intervals into the ordered, deduplicated set of
  calendar days on which the employee was present in the Schengen area.
  Exists primarily for calendar-style rendering: with the no-overlap
  invariant upheld, ranges are disjoint and total presence is just
  sum(exit - entry + 1), so de-duplication is not expected in correct data.
*/
package engine

import "sort"

// =============================================================================
// DAY-PRESENCE MODEL
// =============================================================================

// PresenceDays returns the union of all non-ghosted trips' inclusive date
// ranges as an ordered, deduplicated slice of days.
func PresenceDays(trips []Trip) []Date {
	var days []Date
	for _, t := range trips {
		if t.Ghosted {
			continue
		}
		days = append(days, t.Range().Days()...)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// Dedupe in place; only needed when upstream data violates the
	// no-overlap invariant.
	out := days[:0]
	for i, d := range days {
		if i == 0 || !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// TotalPresenceDays returns the total day count across non-ghosted trips.
// Relies on the disjointness invariant; no enumeration.
func TotalPresenceDays(trips []Trip) int {
	total := 0
	for _, t := range trips {
		if t.Ghosted {
			continue
		}
		total += t.Days()
	}
	return total
}

// sortedCountable returns the non-ghosted trips ordered by entry date.
// Shared by the window scanner and the forecast engine.
func sortedCountable(trips []Trip) []Trip {
	countable := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if !t.Ghosted {
			countable = append(countable, t)
		}
	}
	sort.Slice(countable, func(i, j int) bool {
		return countable[i].Entry.Before(countable[j].Entry)
	})
	return countable
}
