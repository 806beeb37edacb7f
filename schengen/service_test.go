package schengen_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/schengen"
	"github.com/warp/schengen-engine/schengen/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*schengen.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := schengen.NewService(mem, mem)

	require.NoError(t, mem.SaveEmployee(context.Background(), engine.Employee{
		ID:          "emp-1",
		CompanyID:   "acme",
		Name:        "Asha Rao",
		Nationality: "IN",
		Category:    engine.CategorySubject,
	}))
	require.NoError(t, mem.SaveEmployee(context.Background(), engine.Employee{
		ID:          "emp-exempt",
		CompanyID:   "acme",
		Name:        "Jonas Weber",
		Nationality: "DE",
		Category:    engine.CategoryExempt,
	}))
	return svc, mem
}

func newTrip(employeeID string, entry, exit engine.Date) engine.Trip {
	return engine.Trip{
		EmployeeID: engine.EmployeeID(employeeID),
		Country:    "FR",
		Entry:      entry,
		Exit:       exit,
	}
}

func date(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

// =============================================================================
// WRITE PATH
// =============================================================================

func TestService_CreateTrip_AssignsIDAndPersists(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	trips, err := mem.ListTrips(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, created.ID, trips[0].ID)
}

func TestService_CreateTrip_OverlappingDates_Rejected(t *testing.T) {
	// GIVEN: A stored trip Jun 1-10
	// WHEN: Creating Jun 10-20 (shared boundary day)
	// THEN: The write is rejected with the conflicting trip identified

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)

	_, err = svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 10), date(2024, time.June, 20)))

	require.Error(t, err)
	var conflict *engine.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Conflicting.ID)
}

func TestService_CreateTrip_GhostedTrip_SkipsOverlapCheck(t *testing.T) {
	// A ghosted placeholder may coexist with anything: it counts for nothing.
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)

	ghost := newTrip("emp-1", date(2024, time.June, 5), date(2024, time.June, 15))
	ghost.Ghosted = true
	_, err = svc.CreateTrip(ctx, ghost)
	assert.NoError(t, err)
}

func TestService_UpdateTrip_IgnoresOwnPriorState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)

	// Shift the same trip by a few days; overlaps only its own record.
	created.Entry = date(2024, time.June, 5)
	created.Exit = date(2024, time.June, 14)
	_, err = svc.UpdateTrip(ctx, created)
	assert.NoError(t, err)
}

func TestService_ConcurrentCreates_OnlyOneWins(t *testing.T) {
	// GIVEN: Two goroutines racing to insert overlapping trips
	// WHEN: Both go through the write path
	// THEN: Exactly one succeeds; the per-employee lock serializes the
	//       check-then-write sequence

	svc, mem := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, engine.IsConflict(err))
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two racing writes must be rejected")

	trips, err := mem.ListTrips(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, trips, 1)
}

func TestService_DeleteTrip_RemovesRecord(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrip(ctx, created.ID))

	trips, err := mem.ListTrips(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, trips)
}

// =============================================================================
// READ PATH
// =============================================================================

func TestService_ComputeWindow_UsesStoredTrips(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.January, 1), date(2024, time.March, 30)))
	require.NoError(t, err)

	window, err := svc.ComputeWindow(ctx, "emp-1", date(2024, time.March, 30))
	require.NoError(t, err)

	assert.Equal(t, 90, window.DaysUsed)
	assert.Equal(t, 0, window.DaysRemaining)
	assert.Equal(t, engine.TierBreach, window.Tier)
	assert.False(t, window.Exempt)
}

func TestService_ComputeWindow_ExemptEmployee_Bypasses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Even with a huge recorded stay, an exempt employee reports no usage.
	_, err := svc.CreateTrip(ctx, newTrip("emp-exempt", date(2024, time.January, 1), date(2024, time.June, 30)))
	require.NoError(t, err)

	window, err := svc.ComputeWindow(ctx, "emp-exempt", date(2024, time.June, 30))
	require.NoError(t, err)

	assert.True(t, window.Exempt)
	assert.Equal(t, 0, window.DaysUsed)
	assert.Equal(t, engine.TierSafe, window.Tier)
}

func TestService_ComputeWindow_UnknownEmployee_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ComputeWindow(context.Background(), "nobody", date(2024, time.June, 1))

	assert.ErrorIs(t, err, engine.ErrEmployeeNotFound)
}

func TestService_ComputeWindow_CompanyConfig_Respected(t *testing.T) {
	// GIVEN: acme lowers its thresholds to amber=20, green=40
	// WHEN: The employee has 30 days used
	// THEN: The stricter config classifies caution instead of safe

	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mem.SaveRuleConfig(ctx, "acme", engine.RuleConfig{
		AmberThreshold:           20,
		GreenThreshold:           40,
		ForecastWarningThreshold: 50,
	}))

	_, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.May, 1), date(2024, time.May, 30)))
	require.NoError(t, err)

	window, err := svc.ComputeWindow(ctx, "emp-1", date(2024, time.June, 1))
	require.NoError(t, err)

	assert.Equal(t, 30, window.DaysUsed)
	assert.Equal(t, engine.TierCaution, window.Tier)
}

func TestService_ComputeTimeline_OneWindowPerDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.June, 1), date(2024, time.June, 10)))
	require.NoError(t, err)

	timeline, err := svc.ComputeTimeline(ctx, "emp-1", date(2024, time.June, 1), date(2024, time.June, 30))
	require.NoError(t, err)

	require.Len(t, timeline, 30)
	assert.Equal(t, 1, timeline[0].DaysUsed)
	assert.Equal(t, 10, timeline[9].DaysUsed)
	assert.Equal(t, 10, timeline[29].DaysUsed, "trip stays inside the window all month")
}

func TestService_Forecast_UsesCompanyWarningThreshold(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mem.SaveRuleConfig(ctx, "acme", engine.RuleConfig{
		AmberThreshold:           70,
		GreenThreshold:           85,
		ForecastWarningThreshold: 50,
	}))

	_, err := svc.CreateTrip(ctx, newTrip("emp-1", date(2024, time.April, 1), date(2024, time.May, 20)))
	require.NoError(t, err)

	result, err := svc.Forecast(ctx, "emp-1", newTrip("emp-1", date(2024, time.June, 10), date(2024, time.June, 20)))
	require.NoError(t, err)

	assert.Equal(t, 61, result.WorstCaseDaysUsed)
	assert.False(t, result.Breach)
	assert.True(t, result.Warning, "61 exceeds the custom warning threshold of 50")
}

// =============================================================================
// BATCH COMPUTATION
// =============================================================================

func TestService_ComputeAll_CoversEveryEmployee(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := engine.EmployeeID(string(rune('a' + i)))
		require.NoError(t, mem.SaveEmployee(ctx, engine.Employee{
			ID: id, CompanyID: "acme", Nationality: "US", Category: engine.CategorySubject,
		}))
	}

	results, err := svc.ComputeAll(ctx, date(2024, time.June, 1))
	require.NoError(t, err)

	assert.Len(t, results, 7, "5 created here plus the 2 fixtures")
	for _, r := range results {
		assert.Equal(t, r.Employee.ID, r.Window.EmployeeID)
	}
}
