/*
forecast.go - Worst-case projection for a planned trip

PURPOSE:
  Before a future trip is booked, project it onto the existing travel
  history and find the maximum days-used any 180-day window would reach.
  This warns about a breach before it happens.

HORIZON:
  A window ending before the candidate's exit date cannot contain its full
  stay, and a window ending more than 89 days after the exit no longer
  contains any of it. Scanning reference dates [exit, exit+89] therefore
  covers every full window the candidate trip can influence.

HYPOTHETICAL ONLY:
  The candidate trip is never persisted here. Committing it goes through
  the normal write path, which re-runs the Interval Validator under the
  per-employee write lock.
*/
package engine

// ForecastHorizonDays is the number of reference dates scanned beyond the
// candidate trip's exit date.
const ForecastHorizonDays = LegalCap

// Forecast projects a candidate future trip onto the existing trips and
// returns the worst-case window usage over the forecast horizon.
//
// The candidate must be well-formed and must not overlap an existing
// non-ghosted trip; a trip that cannot be committed has no meaningful
// forecast, so the same InputError/ConflictError the write path would
// produce is returned instead.
func Forecast(existing []Trip, candidate Trip, cfg RuleConfig) (ForecastResult, error) {
	if err := CheckTripWrite(candidate, existing, candidate.ID); err != nil {
		return ForecastResult{}, err
	}
	c := cfg.Normalize()

	augmented := make([]Trip, 0, len(existing)+1)
	augmented = append(augmented, existing...)
	augmented = append(augmented, candidate)

	scanFrom := candidate.Exit
	scanTo := candidate.Exit.AddDays(ForecastHorizonDays - 1)
	counts := ScanDaysUsed(augmented, scanFrom, scanTo)

	result := ForecastResult{WorstCaseDate: scanFrom}
	for i, used := range counts {
		if used > result.WorstCaseDaysUsed {
			result.WorstCaseDaysUsed = used
			result.WorstCaseDate = scanFrom.AddDays(i)
		}
	}
	result.Breach = result.WorstCaseDaysUsed > LegalCap
	result.Warning = result.WorstCaseDaysUsed > c.ForecastWarningThreshold
	return result, nil
}
