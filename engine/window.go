/*
window.go - Rolling 180-day window evaluation

PURPOSE:
  Answers "how many presence days fall inside the trailing 180-day window
  ending on a given date?", the central quantity of the 90/180 rule.

TWO MODES:
  Single point:  DaysUsed uses the closed-form overlap-length formula per
                 trip, O(trips) per reference date. No day enumeration.

  Date range:    ScanDaysUsed slides the window one day at a time with a
                 running sum, O(trips + days). This is the ONLY mode that
                 should be used when scanning a range; calling DaysUsed per
                 day would be quadratic on full-timeline rendering.

WINDOW DEFINITION:
  The window for reference date R is [R-179, R], inclusive: 180 calendar
  days with R itself as the last one.
*/
package engine

// =============================================================================
// WINDOW EVALUATOR
// =============================================================================

// Window returns the inclusive 180-day window ending on the reference date.
func Window(ref Date) DateRange {
	return DateRange{Start: ref.AddDays(-(WindowDays - 1)), End: ref}
}

// DaysUsed computes the presence-day count inside the window ending on ref.
//
// Each non-ghosted trip contributes
//   max(0, min(exit, windowEnd) - max(entry, windowStart) + 1)
// days. With the no-overlap invariant upheld the contributions are disjoint
// and bounded by the window, so the sum is already in [0, WindowDays].
func DaysUsed(trips []Trip, ref Date) int {
	window := Window(ref)
	used := 0
	for _, t := range trips {
		if t.Ghosted {
			continue
		}
		used += window.OverlapLength(t.Range())
	}
	return used
}

// ComputeWindow evaluates the window ending on ref and classifies the
// result against the config thresholds.
func ComputeWindow(trips []Trip, ref Date, cfg RuleConfig) ComplianceWindow {
	used := DaysUsed(trips, ref)
	return ComplianceWindow{
		ReferenceDate: ref,
		DaysUsed:      used,
		DaysRemaining: LegalCap - used,
		Tier:          Classify(used, cfg),
	}
}

// ScanDaysUsed computes DaysUsed for every reference date in [from, to]
// using the incremental sliding-window technique: the count for day D is
// the count for D-1 plus presence on D minus presence on D-180.
//
// Returns one entry per day, index 0 corresponding to from.
func ScanDaysUsed(trips []Trip, from, to Date) []int {
	if to.Before(from) {
		return nil
	}

	countable := sortedCountable(trips)
	counts := make([]int, 0, DaysBetween(from, to)+1)

	// Both edges advance monotonically, so each keeps its own cursor into
	// the sorted disjoint trips and the whole scan stays O(trips + days).
	lead := presenceCursor{trips: countable}
	trail := presenceCursor{trips: countable}

	running := DaysUsed(countable, from)
	counts = append(counts, running)

	for d := from.AddDays(1); d.BeforeOrEqual(to); d = d.AddDays(1) {
		running += lead.presentOn(d)
		running -= trail.presentOn(d.AddDays(-WindowDays))
		counts = append(counts, running)
	}
	return counts
}

// ComputeTimeline evaluates and classifies every reference date in the
// range. Used for calendar rendering of daily risk.
func ComputeTimeline(trips []Trip, dateRange DateRange, cfg RuleConfig) []ComplianceWindow {
	if !dateRange.Valid() {
		return nil
	}
	counts := ScanDaysUsed(trips, dateRange.Start, dateRange.End)
	windows := make([]ComplianceWindow, len(counts))
	for i, used := range counts {
		ref := dateRange.Start.AddDays(i)
		windows[i] = ComplianceWindow{
			ReferenceDate: ref,
			DaysUsed:      used,
			DaysRemaining: LegalCap - used,
			Tier:          Classify(used, cfg),
		}
	}
	return windows
}

// presenceCursor answers "is day d covered by a trip?" for a monotonically
// non-decreasing sequence of query days over sorted disjoint trips.
type presenceCursor struct {
	trips []Trip
	idx   int
}

func (c *presenceCursor) presentOn(d Date) int {
	for c.idx < len(c.trips) && c.trips[c.idx].Exit.Before(d) {
		c.idx++
	}
	if c.idx < len(c.trips) && !c.trips[c.idx].Entry.After(d) {
		return 1
	}
	return 0
}
