package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test boundaries
const (
	MaxNameLength = 100
)

func validGameRequest() GameRequest {
	return GameRequest{Name: "Ring Toss", Kind: "points", MaxPoints: 10}
}

func TestValidator_ScoringKind(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		kind    string
		wantErr bool
	}{
		{"points", "points", false},
		{"win lose", "win_lose", false},
		{"uppercase", "POINTS", false},

		{"empty", "", true},
		{"unknown", "golf", true},
		{"typo", "win-lose", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGameRequest()
			req.Kind = tt.kind

			err := v.ValidateStruct(req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_GameName(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name     string
		gameName string
		wantErr  bool
	}{
		{"simple", "Ring Toss", false},
		{"one char", "a", false},
		{"exactly max length", strings.Repeat("a", MaxNameLength), false},
		{"over max length", strings.Repeat("a", MaxNameLength+1), true},

		{"empty", "", true},
		{"with newline", "Ring\nToss", true},
		{"with tab", "Ring\tToss", true},
		{"with null byte", "Ring\x00Toss", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGameRequest()
			req.Name = tt.gameName

			err := v.ValidateStruct(req)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidator_NegativePoints(t *testing.T) {
	InitValidator()
	v := GetValidator()

	req := validGameRequest()
	req.MaxPoints = -1
	require.Error(t, v.ValidateStruct(req))

	req = validGameRequest()
	req.LosePoints = -5
	require.Error(t, v.ValidateStruct(req))
}

func TestFormatValidationError(t *testing.T) {
	InitValidator()
	v := GetValidator()

	err := v.ValidateStruct(GameRequest{Kind: "golf", MaxPoints: -1})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be one of: points, win_lose", fields["kind"])
	assert.Equal(t, "Must be 0 or more", fields["maxpoints"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(assert.AnError))
}

func TestValidator_SubmitScore(t *testing.T) {
	InitValidator()
	v := GetValidator()
	zero := 0

	assert.NoError(t, v.ValidateStruct(SubmitScoreRequest{ParticipantID: "P1", GameNumber: 1, Value: &zero}))
	assert.Error(t, v.ValidateStruct(SubmitScoreRequest{ParticipantID: "P1", GameNumber: 1}), "value is required even when zero")
	assert.Error(t, v.ValidateStruct(SubmitScoreRequest{ParticipantID: "P1", GameNumber: 0, Value: &zero}))
	assert.Error(t, v.ValidateStruct(SubmitScoreRequest{GameNumber: 1, Value: &zero}))
}
