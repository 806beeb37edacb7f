/*
scenarios_test.go - Executable compliance scenarios

PURPOSE:
  End-to-end scenarios over the pure engine, written as documentation of
  the 90/180 rule's behavior. Each test states a realistic travel history
  and asserts the count, tier and forecast outcomes a compliance officer
  would expect.

READING THESE TESTS:
  Each test has:
  - A descriptive name that states the behavior
  - GIVEN/WHEN/THEN comments explaining the scenario
  - Clear assertions with explanatory messages
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
)

func TestScenario_SingleLongStay_ExactlyAtCap(t *testing.T) {
	// GIVEN: One continuous stay 2024-01-01 - 2024-03-30 (leap year, 90 days)
	// WHEN: Evaluating the window ending on the last day of the stay
	// THEN: The window spans [2023-10-03, 2024-03-30], 90 days are used,
	//       and default thresholds classify the result as breach

	trips := []engine.Trip{trip("t-1", d(2024, time.January, 1), d(2024, time.March, 30))}
	ref := d(2024, time.March, 30)

	window := engine.Window(ref)
	assert.Equal(t, d(2023, time.October, 3), window.Start)

	result := engine.ComputeWindow(trips, ref, engine.DefaultRuleConfig())

	assert.Equal(t, 90, result.DaysUsed)
	assert.Equal(t, 0, result.DaysRemaining)
	assert.Equal(t, engine.TierBreach, result.Tier, "90 used > green threshold 85")
}

func TestScenario_FrequentShortTrips_StaysSafe(t *testing.T) {
	// GIVEN: A consultant doing one working week per month
	// WHEN: Evaluating at year end
	// THEN: Usage stays comfortably in the safe tier

	var trips []engine.Trip
	for month := time.January; month <= time.December; month++ {
		trips = append(trips, trip(string(rune('a'+int(month))), d(2024, month, 10), d(2024, month, 14)))
	}

	result := engine.ComputeWindow(trips, d(2024, time.December, 31), engine.DefaultRuleConfig())

	assert.Equal(t, 30, result.DaysUsed, "6 windows of 5 days fall inside the trailing 180 days")
	assert.Equal(t, engine.TierSafe, result.Tier)
}

func TestScenario_OldTripsRollOutOfWindow(t *testing.T) {
	// GIVEN: A 90-day stay ending 2024-03-30
	// WHEN: Evaluating 180 days after the stay ended
	// THEN: Every presence day has rolled out of the window

	trips := []engine.Trip{trip("t-1", d(2024, time.January, 1), d(2024, time.March, 30))}

	result := engine.ComputeWindow(trips, d(2024, time.March, 30).AddDays(engine.WindowDays), engine.DefaultRuleConfig())

	assert.Equal(t, 0, result.DaysUsed)
	assert.Equal(t, engine.LegalCap, result.DaysRemaining)
	assert.Equal(t, engine.TierSafe, result.Tier)
}

func TestScenario_GhostedCancellation_RestoresHeadroom(t *testing.T) {
	// GIVEN: A booked 30-day trip that gets cancelled (ghosted, not deleted)
	// WHEN: Recomputing the window
	// THEN: The ghosted trip no longer consumes any headroom

	active := trip("t-1", d(2024, time.April, 1), d(2024, time.April, 15))
	cancelled := trip("t-2", d(2024, time.May, 1), d(2024, time.May, 30))

	before := engine.ComputeWindow([]engine.Trip{active, cancelled}, d(2024, time.June, 1), engine.DefaultRuleConfig())
	require.Equal(t, 45, before.DaysUsed)

	cancelled.Ghosted = true
	after := engine.ComputeWindow([]engine.Trip{active, cancelled}, d(2024, time.June, 1), engine.DefaultRuleConfig())

	assert.Equal(t, 15, after.DaysUsed)
	assert.Equal(t, 75, after.DaysRemaining)
}

func TestScenario_TimelineCrossesTierBoundaries(t *testing.T) {
	// GIVEN: A stay long enough to walk through safe, caution and breach
	// WHEN: Scanning the timeline across the stay
	// THEN: Tiers flip exactly at the configured thresholds

	trips := []engine.Trip{trip("t-1", d(2024, time.January, 1), d(2024, time.March, 31))}
	cfg := engine.RuleConfig{AmberThreshold: 70, GreenThreshold: 85, ForecastWarningThreshold: 80}

	timeline := engine.ComputeTimeline(trips, engine.NewDateRange(d(2024, time.January, 1), d(2024, time.March, 31)), cfg)
	require.Len(t, timeline, 91)

	// Day N of the stay has N days used.
	assert.Equal(t, engine.TierSafe, timeline[69].Tier, "70 days used is still safe")
	assert.Equal(t, engine.TierCaution, timeline[70].Tier, "71 days used is caution")
	assert.Equal(t, engine.TierCaution, timeline[84].Tier, "85 days used is caution")
	assert.Equal(t, engine.TierBreach, timeline[85].Tier, "86 days used is breach")
	assert.Equal(t, -1, timeline[90].DaysRemaining, "day 91 is over the cap")
}

func TestScenario_ExemptEmployee_BypassesEngine(t *testing.T) {
	// Nationality category is a lookup, not engine math: exempt employees
	// must be filtered out before any engine call.
	subject := engine.Employee{ID: "emp-1", Nationality: "IN"}
	exemptDE := engine.Employee{ID: "emp-2", Nationality: "DE"}
	exemptIE := engine.Employee{ID: "emp-3", Nationality: "IE"}
	explicit := engine.Employee{ID: "emp-4", Nationality: "IN", Category: engine.CategoryExempt}

	assert.True(t, engine.IsSubjectToRule(subject))
	assert.False(t, engine.IsSubjectToRule(exemptDE))
	assert.False(t, engine.IsSubjectToRule(exemptIE))
	assert.False(t, engine.IsSubjectToRule(explicit), "explicit category wins over nationality lookup")
}
