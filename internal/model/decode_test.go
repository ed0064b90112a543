package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibilityPayload_UnmarshalJSON_Tolerant(t *testing.T) {
	body := `{
		"macro": {"top": 7, "second": null, "margin": "0.05", "candidates": [{"name": "X", "distance": 0.1}, "bad", {"distance": 1}]},
		"micro": {"type": "共感", "quadrant": 1},
		"scores": {"共感": "120", "調和": 80, "依存": "n/a"},
		"ratios": [0.4, 0.6],
		"copy": {"catch": "c", "body": {"nested": true}, "advice": null},
		"known_types": ["共感", 3, null],
		"confidence": "87"
	}`

	var p CompatibilityPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "7", p.Macro.Top)
	assert.Nil(t, p.Macro.Second)
	assert.True(t, p.Macro.Margin.Valid)
	assert.True(t, p.Macro.Margin.FromString)
	require.Len(t, p.Macro.Candidates, 1)
	assert.Equal(t, "X", p.Macro.Candidates[0].Name)

	assert.Equal(t, "共感", p.Micro.Type)
	assert.Equal(t, "1", p.Micro.Quadrant)

	assert.Equal(t, 120.0, p.Scores["共感"].Value)
	assert.True(t, p.Scores["調和"].IsJSONNumber())
	assert.False(t, p.Scores["依存"].Valid)
	assert.Nil(t, p.Ratios)

	require.NotNil(t, p.Copy.Catch)
	assert.Equal(t, "c", *p.Copy.Catch)
	assert.Nil(t, p.Copy.Body)
	assert.Nil(t, p.Copy.Advice)

	assert.Equal(t, []string{"共感", "3"}, p.KnownTypes)
	assert.Equal(t, 87.0, p.Confidence.Value)
}

func TestCompatibilityPayload_UnmarshalJSON_Malformed(t *testing.T) {
	var p CompatibilityPayload
	assert.Error(t, json.Unmarshal([]byte(`<html>`), &p))

	// Valid JSON of the wrong shape decodes to an empty payload.
	require.NoError(t, json.Unmarshal([]byte(`["共感"]`), &p))
	assert.Empty(t, p.Micro.Type)
	assert.False(t, p.Confidence.Valid)
}

func TestNumber_JSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       Number
		wantEncode string
	}{
		{name: "number", raw: `0.05`, want: Number{Value: 0.05, Valid: true}, wantEncode: `0.05`},
		{name: "numeric string", raw: `"0.05"`, want: Number{Value: 0.05, Valid: true, FromString: true}, wantEncode: `"0.05"`},
		{name: "null", raw: `null`, want: Number{}, wantEncode: `null`},
		{name: "text", raw: `"abc"`, want: Number{}, wantEncode: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.want, n)

			// Stored diagnoses keep the string origin.
			data, err := json.Marshal(n)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEncode, string(data))
		})
	}
}
