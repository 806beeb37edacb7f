package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
)

func TestPresenceDays_OrderedUnionOfRanges(t *testing.T) {
	// Trips given out of order; the presence set comes back sorted.
	trips := []engine.Trip{
		trip("t-2", d(2024, time.March, 1), d(2024, time.March, 3)),
		trip("t-1", d(2024, time.January, 10), d(2024, time.January, 12)),
	}

	days := engine.PresenceDays(trips)

	require.Len(t, days, 6)
	assert.Equal(t, d(2024, time.January, 10), days[0])
	assert.Equal(t, d(2024, time.January, 12), days[2])
	assert.Equal(t, d(2024, time.March, 1), days[3])
	assert.Equal(t, d(2024, time.March, 3), days[5])
}

func TestPresenceDays_GhostedTrip_Excluded(t *testing.T) {
	trips := []engine.Trip{
		trip("t-1", d(2024, time.January, 1), d(2024, time.January, 2)),
		ghostedTrip("t-2", d(2024, time.February, 1), d(2024, time.February, 28)),
	}

	days := engine.PresenceDays(trips)

	assert.Len(t, days, 2)
}

func TestPresenceDays_OverlappingData_Deduplicated(t *testing.T) {
	// Correct data never overlaps, but the set form still dedupes defensively
	// when upstream data violates the invariant.
	trips := []engine.Trip{
		trip("t-1", d(2024, time.January, 1), d(2024, time.January, 5)),
		trip("t-2", d(2024, time.January, 4), d(2024, time.January, 8)),
	}

	days := engine.PresenceDays(trips)

	assert.Len(t, days, 8, "Jan 1-8 with Jan 4-5 counted once")
}

func TestTotalPresenceDays_SumOfInclusiveLengths(t *testing.T) {
	trips := []engine.Trip{
		trip("t-1", d(2024, time.January, 1), d(2024, time.January, 10)),  // 10
		trip("t-2", d(2024, time.March, 5), d(2024, time.March, 5)),       // 1
		ghostedTrip("t-3", d(2024, time.June, 1), d(2024, time.June, 30)), // 0
	}

	assert.Equal(t, 11, engine.TotalPresenceDays(trips))
}
