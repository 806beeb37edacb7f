package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// JSON ENCODING
// =============================================================================

func TestDate_MarshalJSON_PlainDateString(t *testing.T) {
	type payload struct {
		Ref engine.Date `json:"ref"`
	}

	data, err := json.Marshal(payload{Ref: engine.NewDate(2024, 6, 1)})

	require.NoError(t, err)
	assert.Equal(t, `{"ref":"2024-06-01"}`, string(data))
}

func TestDate_UnmarshalJSON_RoundTrip(t *testing.T) {
	var d engine.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.True(t, d.Equal(engine.NewDate(2024, 2, 29)))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &d))
}
