package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/report"
	"github.com/warp/schengen-engine/schengen"
)

func result(id, name string, daysUsed int, tier engine.RiskTier) schengen.EmployeeWindow {
	return schengen.EmployeeWindow{
		Employee: engine.Employee{ID: engine.EmployeeID(id), Name: name, Nationality: "US"},
		Window: engine.ComplianceWindow{
			EmployeeID:    engine.EmployeeID(id),
			DaysUsed:      daysUsed,
			DaysRemaining: engine.LegalCap - daysUsed,
			Tier:          tier,
		},
	}
}

func TestBuild_WorstTierFirst(t *testing.T) {
	ref := engine.NewDate(2024, time.June, 1)
	results := []schengen.EmployeeWindow{
		result("emp-a", "Safe Person", 10, engine.TierSafe),
		result("emp-b", "Breach Person", 92, engine.TierBreach),
		result("emp-c", "Caution Person", 75, engine.TierCaution),
	}

	rep := report.Build(ref, results)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, engine.TierBreach, rep.Rows[0].Tier)
	assert.Equal(t, engine.TierCaution, rep.Rows[1].Tier)
	assert.Equal(t, engine.TierSafe, rep.Rows[2].Tier)
}

func TestBuild_UtilizationExactTwoPlaces(t *testing.T) {
	rep := report.Build(engine.NewDate(2024, time.June, 1), []schengen.EmployeeWindow{
		result("emp-a", "A", 30, engine.TierSafe),  // 30/90 = 33.33%
		result("emp-b", "B", 90, engine.TierBreach), // exactly the cap
	})

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "100.00", rep.Rows[0].Utilization.StringFixed(2))
	assert.Equal(t, "33.33", rep.Rows[1].Utilization.StringFixed(2))
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	rep := report.Build(engine.NewDate(2024, time.June, 1), []schengen.EmployeeWindow{
		result("emp-a", "Asha Rao", 45, engine.TierSafe),
	})

	var sb strings.Builder
	require.NoError(t, rep.WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "employee_id,name,nationality,exempt,days_used,days_remaining,tier,utilization_pct", lines[0])
	assert.Equal(t, "emp-a,Asha Rao,US,false,45,45,safe,50.00", lines[1])
}
