package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// TIER BOUNDARIES
// =============================================================================

func TestClassify_TierBoundaries(t *testing.T) {
	cfg := engine.RuleConfig{AmberThreshold: 70, GreenThreshold: 85, ForecastWarningThreshold: 80}

	cases := []struct {
		daysUsed int
		want     engine.RiskTier
	}{
		{0, engine.TierSafe},
		{70, engine.TierSafe},    // inclusive upper bound of safe
		{71, engine.TierCaution}, // first day of caution
		{85, engine.TierCaution}, // inclusive upper bound of caution
		{86, engine.TierBreach},  // first day of breach
		{90, engine.TierBreach},
		{120, engine.TierBreach}, // past the legal cap is still just breach
	}

	for _, c := range cases {
		assert.Equal(t, c.want, engine.Classify(c.daysUsed, cfg), "daysUsed=%d", c.daysUsed)
	}
}

func TestClassify_ZeroConfig_FallsBackToDefaults(t *testing.T) {
	// Missing configuration must never fail a classification.
	assert.Equal(t, engine.TierSafe, engine.Classify(70, engine.RuleConfig{}))
	assert.Equal(t, engine.TierCaution, engine.Classify(71, engine.RuleConfig{}))
	assert.Equal(t, engine.TierBreach, engine.Classify(86, engine.RuleConfig{}))
}

// =============================================================================
// CONFIG VALIDATION - write-time only
// =============================================================================

func TestRuleConfig_Validate_Defaults_Valid(t *testing.T) {
	assert.NoError(t, engine.DefaultRuleConfig().Validate())
}

func TestRuleConfig_Validate_GreenNotAboveAmber_Rejected(t *testing.T) {
	cfg := engine.RuleConfig{AmberThreshold: 80, GreenThreshold: 80, ForecastWarningThreshold: 80}

	err := cfg.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)

	var cfgErr *engine.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "green_threshold", cfgErr.Field)
}

func TestRuleConfig_Validate_OutOfRangeThresholds_Rejected(t *testing.T) {
	cases := []engine.RuleConfig{
		{AmberThreshold: 0, GreenThreshold: 85, ForecastWarningThreshold: 80},
		{AmberThreshold: 70, GreenThreshold: 90, ForecastWarningThreshold: 80},
		{AmberThreshold: 70, GreenThreshold: 85, ForecastWarningThreshold: 49},
		{AmberThreshold: 70, GreenThreshold: 85, ForecastWarningThreshold: 90},
	}
	for _, cfg := range cases {
		assert.ErrorIs(t, cfg.Validate(), engine.ErrInvalidConfig, "%+v", cfg)
	}
}

func TestRuleConfig_Validate_CustomAlertThreshold(t *testing.T) {
	ok := 75
	cfg := engine.DefaultRuleConfig()
	cfg.CustomAlertThreshold = &ok
	assert.NoError(t, cfg.Validate())

	bad := 59
	cfg.CustomAlertThreshold = &bad
	assert.ErrorIs(t, cfg.Validate(), engine.ErrInvalidConfig)
}

func TestRuleConfig_Normalize_FillsOnlyUnsetFields(t *testing.T) {
	cfg := engine.RuleConfig{AmberThreshold: 60}.Normalize()

	assert.Equal(t, 60, cfg.AmberThreshold)
	assert.Equal(t, engine.DefaultGreenThreshold, cfg.GreenThreshold)
	assert.Equal(t, engine.DefaultForecastWarningThreshold, cfg.ForecastWarningThreshold)
}
