/*
Package factory provides JSON to Go rule-configuration conversion.

PURPOSE:
  Converts JSON threshold definitions into engine.RuleConfig values. This
  enables per-company tuning without code changes - an admin UI writes
  JSON, and the factory produces validated Go structs.

WHY JSON?
  - Non-developers can adjust warning thresholds
  - Easy integration with admin UI
  - Database storage of per-company configs as one text column

JSON SCHEMA:
  {
    "amber_threshold": 70,
    "green_threshold": 85,
    "forecast_warning_threshold": 80,
    "custom_alert_threshold": 75
  }

  Every field is optional; missing fields take the engine defaults. The
  legal cap (90 days / 180-day window) is fixed by regulation and has no
  JSON representation on purpose.

VALIDATION TIMING:
  ParseRuleConfig validates AFTER applying defaults, so it is safe to use
  both at config-write time (strict) and when loading stored configs. A
  stored config that fails to parse is treated by callers as missing.

SEE ALSO:
  - engine/config.go: RuleConfig type, defaults and invariants
  - store/sqlite: stores the JSON column, parses through this package
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleConfigJSON is the JSON representation of a company's thresholds.
// Pointer fields distinguish "absent" from an explicit zero.
type RuleConfigJSON struct {
	AmberThreshold           *int `json:"amber_threshold,omitempty"`
	GreenThreshold           *int `json:"green_threshold,omitempty"`
	ForecastWarningThreshold *int `json:"forecast_warning_threshold,omitempty"`
	CustomAlertThreshold     *int `json:"custom_alert_threshold,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRuleConfig converts a JSON document into a validated RuleConfig.
// Missing fields fall back to the engine defaults; the result is only
// returned when the full threshold invariants hold.
func ParseRuleConfig(jsonStr string) (engine.RuleConfig, error) {
	var doc RuleConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return engine.RuleConfig{}, fmt.Errorf("failed to parse rule config: %w", err)
	}
	return FromJSON(doc)
}

// FromJSON builds a validated RuleConfig from the decoded JSON form.
func FromJSON(doc RuleConfigJSON) (engine.RuleConfig, error) {
	cfg := engine.DefaultRuleConfig()
	if doc.AmberThreshold != nil {
		cfg.AmberThreshold = *doc.AmberThreshold
	}
	if doc.GreenThreshold != nil {
		cfg.GreenThreshold = *doc.GreenThreshold
	}
	if doc.ForecastWarningThreshold != nil {
		cfg.ForecastWarningThreshold = *doc.ForecastWarningThreshold
	}
	if doc.CustomAlertThreshold != nil {
		v := *doc.CustomAlertThreshold
		cfg.CustomAlertThreshold = &v
	}
	if err := cfg.Validate(); err != nil {
		return engine.RuleConfig{}, err
	}
	return cfg, nil
}

// ToJSON encodes a RuleConfig for storage or API responses.
func ToJSON(cfg engine.RuleConfig) RuleConfigJSON {
	c := cfg.Normalize()
	doc := RuleConfigJSON{
		AmberThreshold:           &c.AmberThreshold,
		GreenThreshold:           &c.GreenThreshold,
		ForecastWarningThreshold: &c.ForecastWarningThreshold,
	}
	if c.CustomAlertThreshold != nil {
		v := *c.CustomAlertThreshold
		doc.CustomAlertThreshold = &v
	}
	return doc
}

// EncodeRuleConfig serializes a RuleConfig to its JSON document form.
func EncodeRuleConfig(cfg engine.RuleConfig) (string, error) {
	data, err := json.Marshal(ToJSON(cfg))
	if err != nil {
		return "", fmt.Errorf("failed to encode rule config: %w", err)
	}
	return string(data), nil
}
