package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeed = `{
	"games": [
		{"number": 1, "name": "Ring Toss", "kind": "points", "max_points": 10},
		{"number": 2, "name": "Duck Race", "kind": "win_lose", "win_points": 5, "lose_points": 1, "active": false}
	],
	"thresholds": {"gold_min": 12, "silver_min": 6}
}`

func TestSchemaValidator_GameSeed(t *testing.T) {
	v := NewSchemaValidator()

	tests := []struct {
		name     string
		data     string
		errorMsg string
	}{
		{name: "valid seed", data: validSeed},
		{
			name:     "missing thresholds",
			data:     `{"games": [{"number": 1, "name": "A", "kind": "points"}]}`,
			errorMsg: "required",
		},
		{
			name:     "unknown kind",
			data:     `{"games": [{"number": 1, "name": "A", "kind": "dice"}], "thresholds": {"gold_min": 2, "silver_min": 1}}`,
			errorMsg: "/games/0/kind",
		},
		{
			name:     "game number below one",
			data:     `{"games": [{"number": 0, "name": "A", "kind": "points"}], "thresholds": {"gold_min": 2, "silver_min": 1}}`,
			errorMsg: "/games/0/number",
		},
		{
			name:     "negative threshold",
			data:     `{"games": [{"number": 1, "name": "A", "kind": "points"}], "thresholds": {"gold_min": 2, "silver_min": -1}}`,
			errorMsg: "/thresholds/silver_min",
		},
		{
			name:     "unexpected field",
			data:     `{"games": [{"number": 1, "name": "A", "kind": "points", "colour": "red"}], "thresholds": {"gold_min": 2, "silver_min": 1}}`,
			errorMsg: "additionalProperties",
		},
		{
			name:     "no games",
			data:     `{"games": [], "thresholds": {"gold_min": 2, "silver_min": 1}}`,
			errorMsg: "/games",
		},
		{
			name:     "invalid JSON",
			data:     `{"games": `,
			errorMsg: "parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), GameSeedSchema)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	v := NewSchemaValidator()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(validSeed), 0o600))

	assert.NoError(t, v.ValidateFile(path, GameSeedSchema))

	err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.json"), GameSeedSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data file")
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	err := NewSchemaValidator().ValidateBytes([]byte(`{}`), "nope.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestSchemaValidator_CachesCompiledSchema(t *testing.T) {
	v := NewSchemaValidator().(*validator)
	require.NoError(t, v.ValidateBytes([]byte(validSeed), GameSeedSchema))
	require.NoError(t, v.ValidateBytes([]byte(validSeed), GameSeedSchema))
	assert.Len(t, v.schemas, 1)
}
