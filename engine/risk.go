/*
risk.go - Risk tier classification

PURPOSE:
  Maps a days-used count and configured thresholds to safe/caution/breach.
  Thresholds are measured in days USED (not days remaining):

    safe     daysUsed <= AmberThreshold
    caution  AmberThreshold < daysUsed <= GreenThreshold
    breach   daysUsed > GreenThreshold   (subsumes daysUsed > LegalCap)

  The ordering invariant GreenThreshold > AmberThreshold is enforced when
  configuration is written (config.go, Validate), not re-checked here.
*/
package engine

// Classify maps a days-used count to its risk tier under the given config.
// The config is normalized first so a zero/partial config falls back to
// the documented defaults rather than failing.
func Classify(daysUsed int, cfg RuleConfig) RiskTier {
	c := cfg.Normalize()
	switch {
	case daysUsed <= c.AmberThreshold:
		return TierSafe
	case daysUsed <= c.GreenThreshold:
		return TierCaution
	default:
		return TierBreach
	}
}
