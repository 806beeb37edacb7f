/*
Package report assembles per-employee compliance results for export.

PURPOSE:
  Thin presentation-side layer over the batch computation: turns
  schengen.EmployeeWindow values into flat rows with an exact cap
  utilization percentage, and renders them as CSV or JSON-friendly
  structures. No day-counting happens here.

PRECISION:
  Utilization (days used as a percentage of the 90-day cap) is computed
  with decimal.Decimal and rounded to two places, so exported figures are
  exact and stable regardless of the runtime's float formatting.
*/
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/schengen"
)

// =============================================================================
// ROWS
// =============================================================================

// Row is one employee's compliance standing at the report's reference date.
type Row struct {
	EmployeeID    engine.EmployeeID `json:"employee_id"`
	Name          string            `json:"name"`
	Nationality   string            `json:"nationality"`
	Exempt        bool              `json:"exempt"`
	DaysUsed      int               `json:"days_used"`
	DaysRemaining int               `json:"days_remaining"`
	Tier          engine.RiskTier   `json:"tier"`
	Utilization   decimal.Decimal   `json:"utilization_pct"`
}

// Report is the assembled result set for one reference date.
type Report struct {
	ReferenceDate engine.Date `json:"reference_date"`
	Rows          []Row       `json:"rows"`
}

// Build flattens batch results into report rows, worst tier first and
// ties broken by days used descending, then employee ID.
func Build(ref engine.Date, results []schengen.EmployeeWindow) Report {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			EmployeeID:    r.Employee.ID,
			Name:          r.Employee.Name,
			Nationality:   r.Employee.Nationality,
			Exempt:        r.Window.Exempt,
			DaysUsed:      r.Window.DaysUsed,
			DaysRemaining: r.Window.DaysRemaining,
			Tier:          r.Window.Tier,
			Utilization:   utilization(r.Window.DaysUsed),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if a, b := tierRank(rows[i].Tier), tierRank(rows[j].Tier); a != b {
			return a > b
		}
		if rows[i].DaysUsed != rows[j].DaysUsed {
			return rows[i].DaysUsed > rows[j].DaysUsed
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})

	return Report{ReferenceDate: ref, Rows: rows}
}

// utilization returns daysUsed as an exact percentage of the legal cap,
// rounded to two places.
func utilization(daysUsed int) decimal.Decimal {
	return decimal.NewFromInt(int64(daysUsed)).
		Div(decimal.NewFromInt(engine.LegalCap)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

func tierRank(t engine.RiskTier) int {
	switch t {
	case engine.TierBreach:
		return 2
	case engine.TierCaution:
		return 1
	default:
		return 0
	}
}

// =============================================================================
// CSV EXPORT
// =============================================================================

var csvHeader = []string{
	"employee_id", "name", "nationality", "exempt",
	"days_used", "days_remaining", "tier", "utilization_pct",
}

// WriteCSV renders the report for download.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range r.Rows {
		record := []string{
			string(row.EmployeeID),
			row.Name,
			row.Nationality,
			fmt.Sprintf("%t", row.Exempt),
			fmt.Sprintf("%d", row.DaysUsed),
			fmt.Sprintf("%d", row.DaysRemaining),
			string(row.Tier),
			row.Utilization.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
