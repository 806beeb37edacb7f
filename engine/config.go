/*
config.go - Per-organization rule thresholds

PURPOSE:
  RuleConfig parameterizes the Risk Classifier and Forecast Engine per
  company. The 90/180 rule itself (LegalCap, WindowDays) is fixed by
  regulation and NOT configurable; only the warning boundaries below the
  cap are.

CONFIG AS EXPLICIT VALUE:
  RuleConfig is passed into every engine call rather than read from any
  ambient/global state, so computations stay pure and testable per company.

VALIDATION TIMING:
  Validate() is called when a configuration is accepted for storage, NOT
  on every classification. Missing config is never fatal: callers fall
  back to DefaultRuleConfig() and proceed.

THRESHOLD RANGES:
  AmberThreshold, GreenThreshold:  [1, 89], green > amber
  ForecastWarningThreshold:        [50, 89]
  CustomAlertThreshold:            [60, 85] or absent (notification policy,
                                   consumed outside this package)
*/
package engine

// Default thresholds used when an organization has no stored configuration.
const (
	DefaultAmberThreshold           = 70
	DefaultGreenThreshold           = 85
	DefaultForecastWarningThreshold = 80
)

// RuleConfig holds the configurable day-count thresholds for one company.
// The zero value is not usable directly; call Normalize() or start from
// DefaultRuleConfig().
type RuleConfig struct {
	// AmberThreshold is the upper bound of the safe tier (days used).
	AmberThreshold int

	// GreenThreshold is the upper bound of the caution tier (days used).
	// Invariant: GreenThreshold > AmberThreshold.
	GreenThreshold int

	// ForecastWarningThreshold triggers a proactive forecast warning
	// below an actual breach.
	ForecastWarningThreshold int

	// CustomAlertThreshold further parameterizes notification policy.
	// Nil means not configured. Not used by the engine's own math.
	CustomAlertThreshold *int
}

// DefaultRuleConfig returns the documented built-in thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		AmberThreshold:           DefaultAmberThreshold,
		GreenThreshold:           DefaultGreenThreshold,
		ForecastWarningThreshold: DefaultForecastWarningThreshold,
	}
}

// Normalize returns a copy with every unset (zero) field replaced by its
// default. Partially invalid configuration never fails a computation.
func (c RuleConfig) Normalize() RuleConfig {
	out := c
	if out.AmberThreshold == 0 {
		out.AmberThreshold = DefaultAmberThreshold
	}
	if out.GreenThreshold == 0 {
		out.GreenThreshold = DefaultGreenThreshold
	}
	if out.ForecastWarningThreshold == 0 {
		out.ForecastWarningThreshold = DefaultForecastWarningThreshold
	}
	return out
}

// Validate checks the threshold invariants. Call this when accepting a
// configuration for storage, upstream of any computation.
func (c RuleConfig) Validate() error {
	if c.AmberThreshold < 1 || c.AmberThreshold > 89 {
		return &ConfigError{Field: "amber_threshold", Value: c.AmberThreshold, Reason: "must be in [1, 89]"}
	}
	if c.GreenThreshold < 1 || c.GreenThreshold > 89 {
		return &ConfigError{Field: "green_threshold", Value: c.GreenThreshold, Reason: "must be in [1, 89]"}
	}
	if c.GreenThreshold <= c.AmberThreshold {
		return &ConfigError{Field: "green_threshold", Value: c.GreenThreshold, Reason: "must be greater than amber_threshold"}
	}
	if c.ForecastWarningThreshold < 50 || c.ForecastWarningThreshold > 89 {
		return &ConfigError{Field: "forecast_warning_threshold", Value: c.ForecastWarningThreshold, Reason: "must be in [50, 89]"}
	}
	if c.CustomAlertThreshold != nil {
		if v := *c.CustomAlertThreshold; v < 60 || v > 85 {
			return &ConfigError{Field: "custom_alert_threshold", Value: v, Reason: "must be in [60, 85] when set"}
		}
	}
	return nil
}
